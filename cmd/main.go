package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"calput/internal/agent"
	"calput/internal/caldav"
	"calput/internal/config"
	"calput/internal/models"
	"calput/internal/msgraph"
)

func main() {
	// Load .env file first, but don't error if it doesn't exist.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "calput",
		Usage: "Create calendar events on a CalDAV server or through Microsoft Graph.",
		Commands: []*cli.Command{
			createCommand(),
			authCommand(),
			calendarsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create one or more events from the given dates.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Value: "default event title", Usage: "event name"},
			&cli.StringFlag{Name: "descr", Value: "default event description", Usage: "event description"},
			&cli.StringFlag{Name: "start-day", Usage: "dd/mm/yyyy [dd/mm/yyyy [...]]"},
			&cli.StringFlag{Name: "end-day", Usage: "dd/mm/yyyy [dd/mm/yyyy [...]]"},
			&cli.StringFlag{Name: "start-hr", Usage: "HH:MM [HH:MM [...]]"},
			&cli.StringFlag{Name: "end-hr", Usage: "HH:MM [HH:MM [...]]"},
			&cli.StringFlag{Name: "loc", Usage: "event location"},
			&cli.StringFlag{Name: "cal", Usage: "calendar to be used. Default: \"personal\""},
			&cli.BoolFlag{Name: "group", Usage: "calendar is a group calendar"},
			&cli.StringFlag{Name: "invite", Usage: "email(s) to be invited, separated by space"},
			&cli.StringFlag{Name: "alarm-type", Usage: "\"DISPLAY\" or \"EMAIL\". Alarm to be set on the event"},
			&cli.StringFlag{Name: "alarm-format", Usage: "\"h\" = hours, \"d\" = days"},
			&cli.StringFlag{Name: "alarm-time", Usage: "time before the event to set an alarm for, in the given format"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Print what would be created without contacting any backend."},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			// Command line options override the configured defaults.
			calName := c.String("cal")
			if calName == "" {
				calName = cfg.Calendar
			}
			loc := c.String("loc")
			if loc == "" {
				loc = cfg.Location
			}

			events, err := models.BuildEvents(models.Request{
				Name:          c.String("name"),
				Description:   c.String("descr"),
				StartDays:     c.String("start-day"),
				EndDays:       c.String("end-day"),
				StartHours:    c.String("start-hr"),
				EndHours:      c.String("end-hr"),
				Location:      loc,
				Calendar:      calName,
				GroupCalendar: c.Bool("group"),
				Invitees:      c.String("invite"),
				AlarmKind:     c.String("alarm-type"),
				AlarmUnit:     c.String("alarm-format"),
				AlarmAmount:   c.String("alarm-time"),
				Domain:        cfg.Domain,
			})
			if err != nil {
				return fmt.Errorf("invalid event arguments: %w", err)
			}

			printSummary(events)

			if c.Bool("dry-run") {
				logger.Info("Dry run requested, no events were created.", "count", len(events))
				return nil
			}

			dispatcher, err := agent.New(c.Context, logger, cfg)
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range dispatcher.CreateEvents(c.Context, events) {
				fmt.Println(res.Message)
				fmt.Println("----------------------------------------------")
				if !res.OK {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d event(s) failed", failed, len(events))
			}
			return nil
		},
	}
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate against Microsoft Graph and cache the token.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.Mode != config.ModeGraph {
				return fmt.Errorf("auth is only needed in %s mode", config.ModeGraph)
			}

			conf := msgraph.OAuthConfig(cfg)
			authURL := conf.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := msgraph.TokenFromWeb(c.Context, conf, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			if err := msgraph.SaveToken(cfg.TokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", cfg.TokenFile)
			return nil
		},
	}
}

func calendarsCommand() *cli.Command {
	return &cli.Command{
		Name:  "calendars",
		Usage: "List the calendars available on the configured backend.",
		Action: func(c *cli.Context) error {
			logger := setupLogger(os.Getenv("LOG_LEVEL"))

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			switch cfg.Mode {
			case config.ModeCalDAV:
				client, err := caldav.New(logger, cfg)
				if err != nil {
					return err
				}
				calendars, err := client.ListCalendars(c.Context)
				if err != nil {
					return err
				}
				for _, cal := range calendars {
					fmt.Printf("%s\t%s\n", cal.Name, cal.Path)
				}
			case config.ModeGraph:
				client, err := msgraph.New(c.Context, logger, cfg)
				if err != nil {
					return err
				}
				calendars, err := client.ListCalendars(c.Context)
				if err != nil {
					return err
				}
				for _, cal := range calendars {
					fmt.Printf("%s\t%s\n", cal.Name, cal.ID)
				}
			}
			return nil
		},
	}
}

func printSummary(events []*models.Event) {
	fmt.Printf("\nThe following %d event(s) will be added:\n\n", len(events))
	for i, ev := range events {
		fmt.Printf("Event %d/%d\n", i+1, len(events))
		fmt.Println("-----------")
		fmt.Printf("NAME:           %s\n", ev.Name)
		fmt.Printf("DESCRIPTION:    %s\n", ev.Description)
		fmt.Printf("START DATE:     %s\n", ev.Start.Format("02/01/2006 15:04:05"))
		fmt.Printf("END DATE:       %s\n", ev.End.Format("02/01/2006 15:04:05"))
		fmt.Printf("LOCATION:       %s\n", ev.Location)
		fmt.Printf("CALENDAR:       %s\n", ev.Calendar)
		if len(ev.Invitees) > 0 {
			fmt.Printf("INVITEES:       %s\n", strings.Join(ev.Invitees, " "))
		}
		if ev.Reminder != nil {
			fmt.Printf("ALARM:          %s, %s%s before\n", ev.Reminder.Kind, ev.Reminder.Amount, strings.ToLower(ev.Reminder.Unit))
		}
		fmt.Println("----------------------------------------------")
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
