package config

import (
	"fmt"
	"strings"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
)

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Driver  string `koanf:"driver"`
	Migrate bool   `koanf:"migrate"`
}

// String returns a string representation of the store configuration.
func (c *StoreConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Store ---\n")
	b.WriteString(fmt.Sprintf("  driver: %s\n", c.Driver))
	b.WriteString(fmt.Sprintf("  migrate: %t\n", c.Migrate))
	return b.String()
}

func (c *StoreConfig) Validate() error {
	if c.Driver == "" {
		c.Driver = StoreDriverMemory
	}
	switch c.Driver {
	case StoreDriverMemory, StoreDriverPostgres:
		return nil
	default:
		return fmt.Errorf("unsupported store driver: %s", c.Driver)
	}
}

// UsesPostgres reports whether the configured driver needs a database connection.
func (c *StoreConfig) UsesPostgres() bool {
	return c.Driver == StoreDriverPostgres
}
