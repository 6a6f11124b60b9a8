// Package cmd implements the CLI application to run a gold desk.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/etnz/goldesk"
	"github.com/etnz/goldesk/date"
	"github.com/etnz/goldesk/store"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "desk")
	c.Register(&exportCmd{}, "desk")
	c.Register(&topicCmd{}, "desk")

	c.Register(&quoteCmd{}, "prices")
	c.Register(&quotesCmd{}, "prices")
	c.Register(&suggestCmd{}, "prices")

	c.Register(&buyCmd{}, "trades")
	c.Register(&sellCmd{}, "trades")
	c.Register(&openingCmd{}, "trades")
	c.Register(&adjustCmd{}, "trades")

	c.Register(&payCmd{}, "payments")
	c.Register(&cardCmd{}, "payments")
	c.Register(&advanceCmd{}, "payments")
	c.Register(&transferCmd{}, "payments")

	c.Register(&inventoryCmd{}, "reports")
	c.Register(&dailyCmd{}, "reports")
	c.Register(&cashCmd{}, "reports")
	c.Register(&bankCmd{}, "reports")
	c.Register(&pendingCmd{}, "reports")
	c.Register(&settlementsCmd{}, "reports")
}

// Environment variables read by the application. A .env file in the working
// directory is loaded first, flags take precedence over both.
const (
	EnvHome     = "GOLDESK_HOME"
	EnvDriver   = "GOLDESK_DB_DRIVER"
	EnvDSN      = "GOLDESK_DB_DSN"
	EnvLogLevel = "GOLDESK_LOG_LEVEL"
)

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var homeDir = flag.String("home", "", "Data folder of the desk. Defaults to $"+EnvHome+" or .goldesk")
var dbDriver = flag.String("db", "", "Store for the logs: file, sqlite or postgres. Defaults to $"+EnvDriver+" or file")
var dbDSN = flag.String("dsn", "", "Database connection string. Defaults to $"+EnvDSN+" or desk.db in the data folder")
var logLevel = flag.String("log-level", "", "Log level (debug, info, warn, error). Defaults to $"+EnvLogLevel+" or warn")

// Setup loads the .env file and configures the logger. It must be called
// after the flags are parsed.
func Setup() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load .env: %w", err)
	}
	if lvl := setting(*logLevel, EnvLogLevel, ""); lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			return err
		}
		goldesk.Logger().SetLevel(level)
	}
	return nil
}

// setting returns the flag value, or the environment value, or def.
func setting(flagValue, env, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := os.LookupEnv(env); ok && v != "" {
		return v
	}
	return def
}

// Home returns the data folder of the desk.
func Home() string { return setting(*homeDir, EnvHome, ".goldesk") }

// ConfigPath returns the path of the desk configuration file.
func ConfigPath() string { return filepath.Join(Home(), "desk.yaml") }

// LoadConfig reads the desk configuration, or returns the default one if
// the desk was never initialized.
func LoadConfig() (*goldesk.Config, error) {
	cfg, err := goldesk.LoadConfig(ConfigPath())
	if errors.Is(err, fs.ErrNotExist) {
		goldesk.Logger().Infof("no configuration in %s, using defaults", Home())
		return goldesk.DefaultConfig(), nil
	}
	return cfg, err
}

// openStore returns the store selected by the flags and the environment,
// and a function to release it.
func openStore() (goldesk.Store, func() error, error) {
	driver := setting(*dbDriver, EnvDriver, "file")
	switch driver {
	case "file":
		s, err := store.NewFile(Home())
		return s, func() error { return nil }, err
	case "sqlite", "postgres":
		dsn := setting(*dbDSN, EnvDSN, "")
		if dsn == "" && driver == "sqlite" {
			if err := os.MkdirAll(Home(), 0o755); err != nil {
				return nil, nil, err
			}
			dsn = filepath.Join(Home(), "desk.db")
		}
		if dsn == "" {
			return nil, nil, fmt.Errorf("missing connection string for %s, use -dsn or $%s", driver, EnvDSN)
		}
		s, err := store.Open(driver, dsn)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, want file, sqlite or postgres", driver)
	}
}

// OpenDesk loads the configuration and the logs of the desk. The returned
// function releases the store.
func OpenDesk(ctx context.Context) (*goldesk.Desk, func() error, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load configuration: %w", err)
	}
	s, closeStore, err := openStore()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store: %w", err)
	}
	d, err := goldesk.OpenDesk(ctx, cfg, s)
	if err != nil {
		closeStore()
		return nil, nil, err
	}
	return d, closeStore, nil
}

// withDesk opens the desk, runs fn and releases the store.
func withDesk(ctx context.Context, fn func(*goldesk.Desk) subcommands.ExitStatus) subcommands.ExitStatus {
	d, closeStore, err := OpenDesk(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening desk: %v\n", err)
		return subcommands.ExitFailure
	}
	defer func() {
		if err := closeStore(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing store: %v\n", err)
		}
	}()
	return fn(d)
}

// parseTime parses a booking time: empty means now, a date means the start
// of that day and "2006-01-02 15:04" a local time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	d, err := date.Parse(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), nil
}

// parseDay parses a report day, empty means today.
func parseDay(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// endOfDay returns the last instant of d.
func endOfDay(d date.Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, -1, time.Local)
}

func parseMoney(s, currency string) (goldesk.Money, error) {
	v, err := goldesk.ParseNumber(s)
	if err != nil {
		return goldesk.Money{}, err
	}
	return goldesk.M(v, currency), nil
}

func parseQuantity(s string) (goldesk.Quantity, error) {
	v, err := goldesk.ParseNumber(s)
	if err != nil {
		return goldesk.Quantity{}, err
	}
	return goldesk.Q(v), nil
}

func parsePercent(s string) (goldesk.Percent, error) {
	v, err := goldesk.ParseNumber(s)
	if err != nil {
		return goldesk.Percent{}, err
	}
	return goldesk.P(v), nil
}
