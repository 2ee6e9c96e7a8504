// Package config holds the configuration of the wingscafe service.
package config

import (
	"strings"

	"github.com/abgdnv/wingscafe/pkg/config"
	"github.com/abgdnv/wingscafe/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig       `koanf:"server"`
	GRPC       config.GrpcServerConfig `koanf:"grpc"`
	Store      config.StoreConfig      `koanf:"store"`
	Database   config.DatabaseConfig   `koanf:"database"`
	Log        config.LogConfig        `koanf:"log"`
	PProf      config.PProfConfig      `koanf:"pprof"`
	Shutdown   config.ShutdownConfig   `koanf:"shutdown"`
	NATS       config.NATSConfig       `koanf:"nats"`
	Alerts     config.SubscriberConfig `koanf:"alerts"`
	Telemetry  config.TelemetryConfig  `koanf:"telemetry"`
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.GRPC.String())
	b.WriteString(c.Store.String())
	if c.Store.UsesPostgres() {
		b.WriteString(c.Database.String())
	}
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.NATS.String())
	b.WriteString(c.Alerts.String())
	b.WriteString(c.Telemetry.String())
	return b.String()
}

// Validate checks the configuration. The database section is only checked for the postgres store,
// and the alert subscriber requires NATS.
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.GRPC,
		&c.Store,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.NATS,
		&c.Alerts,
		&c.Telemetry,
	}
	if c.Store.UsesPostgres() {
		validators = append(validators, &c.Database)
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Alerts.Enabled && !c.NATS.Enabled {
		return errAlertsWithoutNATS
	}
	return nil
}
