// Package config loads the node configuration. Everything that used to be
// a process-wide default, like the bootstrap peer list, is explicit here.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SeedPeer is a bootstrap peer entry in the configuration file.
type SeedPeer struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Config describes where the node keeps its stores and which peers it
// contacts first.
type Config struct {
	DataDir      string     `yaml:"data_dir"`
	PublicStore  string     `yaml:"public_store"`
	PrivateStore string     `yaml:"private_store"`
	SeedPeers    []SeedPeer `yaml:"seed_peers"`
}

// Default returns the configuration a node runs with when no file is
// present. The seed peer matches the network's historical bootstrap node.
func Default() Config {
	return Config{
		DataDir:      ".",
		PublicStore:  "quantcoin.json",
		PrivateStore: "wallets.qc",
		SeedPeers:    []SeedPeer{{Host: "127.0.0.1", Port: 65345}},
	}
}

// Load reads the YAML configuration at path. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// PublicStorePath is the resolved location of the public store file.
func (c Config) PublicStorePath() string {
	return filepath.Join(c.DataDir, c.PublicStore)
}

// PrivateStorePath is the resolved location of the encrypted private store.
func (c Config) PrivateStorePath() string {
	return filepath.Join(c.DataDir, c.PrivateStore)
}
