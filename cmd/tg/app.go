package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"timegrid/pkg/store"
)

const (
	defaultDir = ".timegrid"
	defaultDB  = ".timegrid/timegrid.db"
)

// app holds shared state for all CLI subcommands.
type app struct {
	store *store.Store
}

// newApp opens the database. Creates the .timegrid/ directory if using
// the default DB path.
func newApp() (*app, error) {
	dbPath := envOr("TIMEGRID_DB", defaultDB)
	if dbPath == defaultDB {
		if err := os.MkdirAll(defaultDir, 0755); err != nil {
			return nil, fmt.Errorf("cannot create %s: %w", defaultDir, err)
		}
	}
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("cannot open database %q: %w", dbPath, err)
	}
	return &app{store: s}, nil
}

// Close releases the database connection.
func (a *app) Close() { a.store.Close() }

// resolveDay parses a --date flag value ("2006-01-02"); empty means today.
func resolveDay(flagVal string) (time.Time, error) {
	if flagVal == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()), nil
	}
	day, err := time.ParseInLocation("2006-01-02", flagVal, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad --date %q (want YYYY-MM-DD)", flagVal)
	}
	return day, nil
}

// parseClock validates an "HH:mm" flag value and returns its components.
// Unlike wallclock.Parse it rejects malformed input so typos surface at
// the CLI edge instead of silently scheduling at midnight.
func parseClock(s string) (hour, minute int, err error) {
	var parsed time.Time
	if parsed, err = time.Parse("15:04", s); err != nil {
		return 0, 0, fmt.Errorf("bad time %q (want HH:mm)", s)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

// credentialPaths resolves the Google OAuth file locations. The token
// lives next to the credentials file.
func credentialPaths() (credentials, token string) {
	credentials = envOr("TIMEGRID_CREDENTIALS", filepath.Join(defaultDir, "credentials.json"))
	token = filepath.Join(filepath.Dir(credentials), "token.json")
	return credentials, token
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// clockLabel formats a timestamp as wall-clock HH:mm for table output.
func clockLabel(t time.Time) string {
	return t.Format("15:04")
}
