package msgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"calput/internal/config"
	"calput/internal/models"
)

// DefaultBaseURL is the production Graph API root.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// Agent creates events through the Microsoft Graph REST API. The bearer
// token is acquired once at construction and reused for the whole batch; no
// refresh or rate-limit handling happens per request.
type Agent struct {
	logger     *slog.Logger
	cfg        *config.Config
	httpClient *http.Client
	baseURL    string
	token      string
}

// New returns a Graph agent. The bearer token comes from the cached OAuth
// token file; the 'auth' command populates it.
func New(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Agent, error) {
	if cfg.AzureClientID == "" || cfg.AzureTenantID == "" {
		return nil, fmt.Errorf("microsoft_graph agent requires AZURE_CLIENT_ID and AZURE_TENANT_ID")
	}

	token, err := AccessToken(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire access token: %w", err)
	}

	return &Agent{
		logger:     logger,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      token,
	}, nil
}

// EndpointFor selects the events endpoint for a calendar: the "personal"
// sentinel routes to the default calendar, group calendars to the groups
// endpoint, anything else to the named calendar.
func EndpointFor(baseURL, calendar string, group bool) string {
	switch {
	case calendar == "" || calendar == models.DefaultCalendar:
		return baseURL + "/me/events"
	case group:
		return fmt.Sprintf("%s/groups/%s/events", baseURL, calendar)
	default:
		return fmt.Sprintf("%s/me/calendars/%s/events", baseURL, calendar)
	}
}

// CreateEvent encodes and posts one event. An encoding failure aborts before
// any network call.
func (a *Agent) CreateEvent(ctx context.Context, event *models.Event) (bool, string) {
	payload, err := EncodeEvent(event, a.cfg)
	if err != nil {
		return false, fmt.Sprintf("ERROR: %v", err)
	}
	return a.postEvent(ctx, EndpointFor(a.baseURL, event.Calendar, event.GroupCalendar), payload)
}

func (a *Agent) postEvent(ctx context.Context, url string, payload *Event) (bool, string) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Sprintf("ERROR: marshal event: %v", err)
	}
	a.logger.Debug("Posting event to Microsoft Graph", "url", url, "bytes", len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Sprintf("ERROR: build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Error("Graph POST failed", "url", url, "error", err)
		return false, fmt.Sprintf("ERROR: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusCreated {
		return true, fmt.Sprintf("Event created (%d)", resp.StatusCode)
	}

	respBody, _ := io.ReadAll(resp.Body)
	a.logger.Error("Graph POST rejected", "url", url, "status", resp.StatusCode)
	return false, fmt.Sprintf("ERROR: %d, %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), respBody)
}

// ListCalendars returns the calendars visible to the signed-in user.
func (a *Agent) ListCalendars(ctx context.Context) ([]Calendar, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/me/calendars", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("User-Agent", config.UserAgent())

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list calendars: %d, %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), respBody)
	}

	var out struct {
		Value []Calendar `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode calendars: %w", err)
	}
	return out.Value, nil
}
