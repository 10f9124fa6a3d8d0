package cinemaserver

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config configures the cinema server.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`
	// DSN selects the MySQL store. Empty means the in-memory demo store.
	DSN   string `yaml:"dsn"`
	Users []User `yaml:"users"`
}

// DefaultConfig listens on :8080 with the demo accounts.
func DefaultConfig() Config {
	return Config{
		Addr: ":8080",
		Users: []User{
			{Name: "admin", Password: "admin", Role: RoleAdmin},
			{Name: "user", Password: "user", Role: RoleUser},
		},
	}
}

// LoadConfig reads a YAML config. Keys missing from the file keep their
// DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the accounts.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if len(c.Users) == 0 {
		errs = append(errs, errors.New("at least one user is required"))
	}
	seen := make(map[string]bool, len(c.Users))
	for _, u := range c.Users {
		switch {
		case u.Name == "":
			errs = append(errs, errors.New("user name is required"))
		case seen[u.Name]:
			errs = append(errs, fmt.Errorf("user %s is defined twice", u.Name))
		}
		seen[u.Name] = true
		if u.Role != RoleUser && u.Role != RoleAdmin {
			errs = append(errs, fmt.Errorf("user %s: unknown role %q", u.Name, u.Role))
		}
	}
	return errors.Join(errs...)
}
