// Package ledger is the public half of the quantcoin node storage: the
// blockchain, the known peers and the network's wallet directory, shared by
// every node and persisted as a single JSON document. The private wallets
// live in package vault instead.
//
// The store is deliberately single-threaded: one node process owns the file
// and callers serialize access themselves.
package ledger

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"quantcoin/wallet"
)

// Peer identifies another node by host and port.
type Peer struct {
	Host string
	Port int
}

// MarshalJSON encodes a peer as the wire tuple [host, port].
func (p Peer) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Host, p.Port})
}

// UnmarshalJSON decodes the [host, port] tuple.
func (p *Peer) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("peer entry must be a [host, port] pair, got %d elements", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &p.Host); err != nil {
		return fmt.Errorf("peer host: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &p.Port); err != nil {
		return fmt.Errorf("peer port: %w", err)
	}
	return nil
}

// PublicWallet is one entry of the network wallet directory. The address is
// always derived from the public key, never chosen independently.
type PublicWallet struct {
	Address   string
	PublicKey string
}

// MarshalJSON encodes a directory entry as the wire tuple
// [address, public_key_b64].
func (w PublicWallet) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{w.Address, w.PublicKey})
}

// UnmarshalJSON decodes the [address, public_key_b64] tuple.
func (w *PublicWallet) UnmarshalJSON(data []byte) error {
	var tuple []string
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 2 {
		return fmt.Errorf("public wallet entry must be an [address, key] pair, got %d elements", len(tuple))
	}
	w.Address, w.PublicKey = tuple[0], tuple[1]
	return nil
}

// Config carries the collaborator hooks and bootstrap data for a Store.
// Seed peers replace the hardcoded defaults older nodes shipped with; they
// come from the node configuration now.
type Config struct {
	// Decoder reconstructs blocks during Load. Required once block data
	// exists on disk.
	Decoder BlockDecoder
	// SeedPeers pre-populate the peer list of a fresh store.
	SeedPeers []Peer
}

// Store holds the in-memory public state. Zero value is unusable; construct
// with New.
type Store struct {
	decoder       BlockDecoder
	blocks        []Block
	peers         []Peer
	publicWallets []PublicWallet
}

// New creates an empty store seeded with cfg.SeedPeers.
func New(cfg Config) *Store {
	s := &Store{decoder: cfg.Decoder}
	s.peers = append(s.peers, cfg.SeedPeers...)
	return s
}

type storeDocument struct {
	Blocks        []json.RawMessage `json:"blocks"`
	Peers         []Peer            `json:"peers"`
	PublicWallets []PublicWallet    `json:"public_wallets"`
}

// Load replaces the in-memory state with the contents of the JSON document
// at path. A missing file is not an error: the state is left untouched and
// Load reports (false, nil). Malformed JSON or an undecodable block is a
// hard error and leaves the state untouched as well.
func (s *Store) Load(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("public store %s does not exist, keeping current state", path)
			return false, nil
		}
		return false, fmt.Errorf("reading public store: %w", err)
	}

	var doc storeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("parsing public store: %w", err)
	}
	if s.decoder == nil && len(doc.Blocks) > 0 {
		return false, errors.New("public store contains blocks but no block decoder is configured")
	}
	blocks := make([]Block, 0, len(doc.Blocks))
	for i, raw := range doc.Blocks {
		block, err := s.decoder(raw)
		if err != nil {
			return false, fmt.Errorf("decoding block %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}

	s.blocks = blocks
	s.peers = doc.Peers
	s.publicWallets = doc.PublicWallets
	return true, nil
}

// Save writes the whole store as one JSON document, replacing the file.
// There is no partial-write protection; a crash mid-save can corrupt the
// file, which the single-writer model accepts.
func (s *Store) Save(path string) error {
	doc := storeDocument{
		Blocks:        make([]json.RawMessage, 0, len(s.blocks)),
		Peers:         s.peers,
		PublicWallets: s.publicWallets,
	}
	for i, block := range s.blocks {
		data, err := block.JSON()
		if err != nil {
			return fmt.Errorf("encoding block %d: %w", i, err)
		}
		doc.Blocks = append(doc.Blocks, json.RawMessage(data))
	}
	// Keep empty collections as [] rather than null in the document.
	if doc.Peers == nil {
		doc.Peers = []Peer{}
	}
	if doc.PublicWallets == nil {
		doc.PublicWallets = []PublicWallet{}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding public store: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing public store: %w", err)
	}
	return nil
}

// DecodeBlock runs the configured block decoder. Persistence backends use
// it to rebuild blocks from stored bytes.
func (s *Store) DecodeBlock(data []byte) (Block, error) {
	if s.decoder == nil {
		return nil, errors.New("no block decoder configured")
	}
	return s.decoder(data)
}

// StoreBlock appends a block unless an equal one is already stored. The
// membership scan is linear; chains this store is meant for are small.
func (s *Store) StoreBlock(block Block) {
	for _, b := range s.blocks {
		if b.Equal(block) {
			return
		}
	}
	s.blocks = append(s.blocks, block)
}

// StoreNode registers a peer, ignoring duplicates.
func (s *Store) StoreNode(peer Peer) {
	for _, p := range s.peers {
		if p == peer {
			return
		}
	}
	s.peers = append(s.peers, peer)
}

// StorePublicWallet derives the address for a base64 public key and records
// the (address, key) pair in the directory, ignoring duplicates. Only the
// base64 decode can fail.
func (s *Store) StorePublicWallet(publicKey string) error {
	raw, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return fmt.Errorf("decoding public key: %w", err)
	}
	entry := PublicWallet{
		Address:   wallet.AddressFromPublicKey(raw),
		PublicKey: publicKey,
	}
	for _, w := range s.publicWallets {
		if w == entry {
			return nil
		}
	}
	s.publicWallets = append(s.publicWallets, entry)
	return nil
}

// AllNodes returns every known peer. The slice is the store's own; callers
// must not modify it.
func (s *Store) AllNodes() []Peer {
	return s.peers
}

// Blocks returns the stored chain in arrival order.
func (s *Store) Blocks() []Block {
	return s.blocks
}

// PublicWallets returns the wallet directory.
func (s *Store) PublicWallets() []PublicWallet {
	return s.publicWallets
}

// BlockRange returns the half-open slice [start, end) of the chain. Indices
// beyond either end clamp; reversed or fully out-of-range inputs yield an
// empty result.
func (s *Store) BlockRange(start, end int) []Block {
	if start < 0 {
		start = 0
	}
	if end > len(s.blocks) {
		end = len(s.blocks)
	}
	if start >= end {
		return nil
	}
	out := make([]Block, end-start)
	copy(out, s.blocks[start:end])
	return out
}
