package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds CLI configuration
type Config struct {
	ServerURL   string
	SessionFile string
	Output      string

	// Session is the identity saved by the last create/join, if any
	Session *Session
}

// Session is the persisted room identity. The token lets the same name
// re-claim its seat after a disconnect.
type Session struct {
	GameID   string `json:"game_id"`
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Token    string `json:"token"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:   getEnvOrDefault("SUDOKU_SERVER", "http://localhost:8080"),
		SessionFile: getEnvOrDefault("SUDOKU_SESSION_FILE", defaultSessionFile()),
		Output:      "text",
	}
}

// LoadSession loads the saved session from file if one exists
func (c *Config) LoadSession() error {
	data, err := os.ReadFile(c.SessionFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No session file is fine
		}
		return err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	c.Session = &s
	return nil
}

// SaveSession writes the session to the session file
func (c *Config) SaveSession(s Session) error {
	c.Session = &s

	dir := filepath.Dir(c.SessionFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.SessionFile, data, 0600)
}

// ClearSession removes the session file
func (c *Config) ClearSession() error {
	c.Session = nil

	err := os.Remove(c.SessionFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sudoku/session"
	}
	return filepath.Join(home, ".sudoku", "session")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
