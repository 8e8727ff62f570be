package ledger_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quantcoin/chain"
	"quantcoin/ledger"
	"quantcoin/wallet"
)

func newStore() *ledger.Store {
	return ledger.New(ledger.Config{Decoder: chain.Decode})
}

func blockWithNonce(nonce uint64) *chain.Block {
	return &chain.Block{
		Nonce: nonce,
		Txs: []chain.Transaction{
			{
				From:  "QCsource",
				To:    []chain.Output{{Address: "QCsink", Amount: decimal.NewFromInt(1)}},
				Spent: decimal.NewFromInt(1),
			},
		},
	}
}

func TestStoreBlockIsIdempotent(t *testing.T) {
	s := newStore()
	s.StoreBlock(blockWithNonce(1))
	s.StoreBlock(blockWithNonce(1))
	assert.Len(t, s.Blocks(), 1)

	s.StoreBlock(blockWithNonce(2))
	assert.Len(t, s.Blocks(), 2)
}

func TestStoreNodeIsIdempotent(t *testing.T) {
	s := newStore()
	s.StoreNode(ledger.Peer{Host: "10.0.0.1", Port: 65345})
	s.StoreNode(ledger.Peer{Host: "10.0.0.1", Port: 65345})
	assert.Len(t, s.AllNodes(), 1)

	s.StoreNode(ledger.Peer{Host: "10.0.0.1", Port: 65346})
	assert.Len(t, s.AllNodes(), 2)
}

func TestStorePublicWalletDerivesAddress(t *testing.T) {
	w, err := wallet.NewFromSeed("directory-test")
	require.NoError(t, err)

	s := newStore()
	require.NoError(t, s.StorePublicWallet(w.PublicKey))
	require.Len(t, s.PublicWallets(), 1)

	entry := s.PublicWallets()[0]
	assert.Equal(t, w.Address, entry.Address)
	assert.Equal(t, w.PublicKey, entry.PublicKey)

	// Same key again is a no-op.
	require.NoError(t, s.StorePublicWallet(w.PublicKey))
	assert.Len(t, s.PublicWallets(), 1)
}

func TestStorePublicWalletRejectsBadBase64(t *testing.T) {
	s := newStore()
	assert.Error(t, s.StorePublicWallet("not base64 !!!"))
	assert.Empty(t, s.PublicWallets())
}

func TestSeedPeers(t *testing.T) {
	s := ledger.New(ledger.Config{
		Decoder:   chain.Decode,
		SeedPeers: []ledger.Peer{{Host: "127.0.0.1", Port: 65345}},
	})
	require.Len(t, s.AllNodes(), 1)

	// Seeded peers count for deduplication like any other.
	s.StoreNode(ledger.Peer{Host: "127.0.0.1", Port: 65345})
	assert.Len(t, s.AllNodes(), 1)
}

func TestLoadMissingFile(t *testing.T) {
	s := ledger.New(ledger.Config{
		Decoder:   chain.Decode,
		SeedPeers: []ledger.Peer{{Host: "127.0.0.1", Port: 65345}},
	})

	loaded, err := s.Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, loaded)

	// Initial state untouched.
	assert.Len(t, s.AllNodes(), 1)
	assert.Empty(t, s.Blocks())
	assert.Empty(t, s.PublicWallets())
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := newStore()
	_, err := s.Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantcoin.json")

	w, err := wallet.NewFromSeed("round-trip")
	require.NoError(t, err)

	src := newStore()
	src.StoreBlock(blockWithNonce(1))
	src.StoreBlock(blockWithNonce(2))
	src.StoreNode(ledger.Peer{Host: "peer.example", Port: 4000})
	require.NoError(t, src.StorePublicWallet(w.PublicKey))
	require.NoError(t, src.Save(path))

	dst := newStore()
	loaded, err := dst.Load(path)
	require.NoError(t, err)
	require.True(t, loaded)

	require.Len(t, dst.Blocks(), 2)
	assert.True(t, dst.Blocks()[0].Equal(blockWithNonce(1)))
	assert.True(t, dst.Blocks()[1].Equal(blockWithNonce(2)))
	assert.Equal(t, src.AllNodes(), dst.AllNodes())
	assert.Equal(t, src.PublicWallets(), dst.PublicWallets())
}

func TestLoadReplacesState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantcoin.json")

	src := newStore()
	src.StoreNode(ledger.Peer{Host: "only.example", Port: 1})
	require.NoError(t, src.Save(path))

	dst := ledger.New(ledger.Config{
		Decoder:   chain.Decode,
		SeedPeers: []ledger.Peer{{Host: "stale.example", Port: 2}},
	})
	dst.StoreBlock(blockWithNonce(9))

	loaded, err := dst.Load(path)
	require.NoError(t, err)
	require.True(t, loaded)
	assert.Equal(t, []ledger.Peer{{Host: "only.example", Port: 1}}, dst.AllNodes())
	assert.Empty(t, dst.Blocks())
}

func TestBlockRange(t *testing.T) {
	s := newStore()
	for i := uint64(0); i < 5; i++ {
		s.StoreBlock(blockWithNonce(i))
	}

	cases := []struct {
		name       string
		start, end int
		wantLen    int
	}{
		{"full", 0, 5, 5},
		{"inner", 1, 3, 2},
		{"end clamped", 3, 100, 2},
		{"start clamped", -2, 2, 2},
		{"reversed", 3, 1, 0},
		{"past the end", 7, 9, 0},
		{"negative end", 0, -1, 0},
		{"empty", 2, 2, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.BlockRange(tc.start, tc.end)
			require.Len(t, got, tc.wantLen)
			if tc.wantLen > 0 {
				lo := tc.start
				if lo < 0 {
					lo = 0
				}
				for i, b := range got {
					assert.True(t, b.Equal(s.Blocks()[lo+i]))
				}
			}
		})
	}
}

func TestSaveWritesDocumentShape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quantcoin.json")

	s := newStore()
	s.StoreNode(ledger.Peer{Host: "h", Port: 1})
	require.NoError(t, s.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blocks":[],"peers":[["h",1]],"public_wallets":[]}`, string(data))
}

func TestPublicWalletRegistrationMatchesGenerator(t *testing.T) {
	// The directory and the generator must derive the same address from the
	// same key bytes.
	w, err := wallet.NewFromSeed("parity")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(w.PublicKey)
	require.NoError(t, err)

	s := newStore()
	require.NoError(t, s.StorePublicWallet(w.PublicKey))
	assert.Equal(t, wallet.AddressFromPublicKey(raw), s.PublicWallets()[0].Address)
}
