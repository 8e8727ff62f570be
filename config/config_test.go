package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, []SeedPeer{{Host: "127.0.0.1", Port: 65345}}, cfg.SeedPeers)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantcoin.yaml")
	doc := `
data_dir: /var/lib/quantcoin
public_store: chain.json
seed_peers:
  - host: node1.example
    port: 9000
  - host: node2.example
    port: 9001
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/quantcoin", cfg.DataDir)
	assert.Equal(t, "chain.json", cfg.PublicStore)
	// Untouched fields keep their defaults.
	assert.Equal(t, "wallets.qc", cfg.PrivateStore)
	assert.Equal(t, []SeedPeer{
		{Host: "node1.example", Port: 9000},
		{Host: "node2.example", Port: 9001},
	}, cfg.SeedPeers)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantcoin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestStorePaths(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "quantcoin.json"), cfg.PublicStorePath())
	assert.Equal(t, filepath.Join("/data", "wallets.qc"), cfg.PrivateStorePath())
}
