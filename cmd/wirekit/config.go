package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the serve command's TOML configuration file.
type Config struct {
	// ListenPort is the TCP port frames arrive on.
	ListenPort int `toml:"listen_port"`

	// APIPort serves the HTTP status API.
	APIPort int `toml:"api_port"`

	// Passphrase, when set, derives the shared frame cipher. Peers
	// must be configured with the same value.
	Passphrase string `toml:"passphrase"`

	// ProtocolName names the initial protocol table.
	ProtocolName string `toml:"protocol_name"`
}

func defaultConfig() Config {
	return Config{
		ListenPort:   9000,
		APIPort:      8080,
		ProtocolName: "echo",
	}
}

// loadConfig reads a TOML config file over the defaults. An empty
// path returns the defaults untouched.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
