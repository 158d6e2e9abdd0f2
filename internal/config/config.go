package config

import (
	"fmt"
	"os"
)

// Product identity embedded in the ICS PRODID and the client User-Agent.
const (
	ProductName    = "calput"
	ProductVersion = "0.6.0"
	ProductURL     = "github.com/ynad/calput"
)

// Operating modes selecting the event creation backend.
const (
	ModeCalDAV = "caldav"
	ModeGraph  = "microsoft_graph"
)

// UserAgent returns the client identifier sent with every backend request.
func UserAgent() string {
	return ProductName + "/" + ProductVersion
}

// Config collects every setting the backends dereference. It is loaded once
// at startup and passed explicitly into constructors and encoders; nothing
// reads the environment after Load returns.
type Config struct {
	Mode   string
	Domain string

	// CalDAV backend
	Server   string
	Username string
	Password string

	// Microsoft Graph backend
	AzureClientID string
	AzureTenantID string
	TokenFile     string
	GraphTimezone string // IANA zone identifier sent in Graph start/end blocks

	// Defaults and organizer identity
	Calendar       string
	Location       string
	OrganizerName  string
	OrganizerRole  string
	OrganizerEmail string
}

// Load reads settings from the environment. The first missing or invalid
// required key is reported by name.
func Load() (*Config, error) {
	cfg := &Config{
		Mode:           os.Getenv("CALPUT_MODE"),
		Domain:         os.Getenv("CALPUT_DOMAIN"),
		Server:         os.Getenv("CALDAV_SERVER"),
		Username:       os.Getenv("CALDAV_USERNAME"),
		Password:       os.Getenv("CALDAV_PASSWORD"),
		AzureClientID:  os.Getenv("AZURE_CLIENT_ID"),
		AzureTenantID:  os.Getenv("AZURE_TENANT_ID"),
		TokenFile:      os.Getenv("GRAPH_TOKEN_FILE"),
		GraphTimezone:  os.Getenv("GRAPH_TIMEZONE"),
		Calendar:       os.Getenv("DEFAULT_CALENDAR"),
		Location:       os.Getenv("DEFAULT_LOCATION"),
		OrganizerName:  os.Getenv("ORGANIZER_NAME"),
		OrganizerRole:  os.Getenv("ORGANIZER_ROLE"),
		OrganizerEmail: os.Getenv("ORGANIZER_EMAIL"),
	}

	switch cfg.Mode {
	case "":
		return nil, fmt.Errorf("CALPUT_MODE is required (%q or %q)", ModeCalDAV, ModeGraph)
	case ModeCalDAV:
		if cfg.Server == "" {
			return nil, fmt.Errorf("CALDAV_SERVER is required in caldav mode")
		}
		if cfg.Username == "" {
			return nil, fmt.Errorf("CALDAV_USERNAME is required in caldav mode")
		}
		if cfg.Password == "" {
			return nil, fmt.Errorf("CALDAV_PASSWORD is required in caldav mode")
		}
		if cfg.OrganizerEmail == "" {
			return nil, fmt.Errorf("ORGANIZER_EMAIL is required in caldav mode")
		}
	case ModeGraph:
		if cfg.AzureClientID == "" {
			return nil, fmt.Errorf("AZURE_CLIENT_ID is required in microsoft_graph mode")
		}
		if cfg.AzureTenantID == "" {
			return nil, fmt.Errorf("AZURE_TENANT_ID is required in microsoft_graph mode")
		}
	default:
		return nil, fmt.Errorf("invalid CALPUT_MODE %q: must be %q or %q", cfg.Mode, ModeCalDAV, ModeGraph)
	}

	if cfg.Domain == "" {
		return nil, fmt.Errorf("CALPUT_DOMAIN is required")
	}
	if cfg.Calendar == "" {
		cfg.Calendar = "personal"
	}
	if cfg.TokenFile == "" {
		cfg.TokenFile = "token-msgraph.json"
	}
	if cfg.GraphTimezone == "" {
		cfg.GraphTimezone = "Europe/Berlin"
	}

	return cfg, nil
}
