// Package boltstore persists the public ledger store in a bbolt database,
// one bucket per collection. The JSON document written by ledger.Save stays
// the canonical interchange format between nodes; this backend trades that
// portability for cheap incremental reopening of large local stores.
package boltstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"quantcoin/ledger"
)

var (
	bucketBlocks        = []byte("blocks")
	bucketPeers         = []byte("peers")
	bucketPublicWallets = []byte("public_wallets")
)

// DB wraps an open bolt database holding one public store.
type DB struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path.
func Open(path string) (*DB, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt store: %w", err)
	}
	return &DB{db: db}, nil
}

// Close releases the database file.
func (d *DB) Close() error {
	return d.db.Close()
}

// SaveStore writes the full state of s, replacing whatever was persisted
// before. Entries are keyed by their position so iteration order matches
// arrival order.
func (d *DB) SaveStore(s *ledger.Store) error {
	return d.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketBlocks, bucketPeers, bucketPublicWallets} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return fmt.Errorf("resetting bucket %s: %w", name, err)
				}
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("creating bucket %s: %w", name, err)
			}
		}

		blocks := tx.Bucket(bucketBlocks)
		for i, block := range s.Blocks() {
			data, err := block.JSON()
			if err != nil {
				return fmt.Errorf("encoding block %d: %w", i, err)
			}
			if err := blocks.Put(itob(i), data); err != nil {
				return err
			}
		}

		peers := tx.Bucket(bucketPeers)
		for i, peer := range s.AllNodes() {
			data, err := json.Marshal(peer)
			if err != nil {
				return fmt.Errorf("encoding peer %d: %w", i, err)
			}
			if err := peers.Put(itob(i), data); err != nil {
				return err
			}
		}

		wallets := tx.Bucket(bucketPublicWallets)
		for i, entry := range s.PublicWallets() {
			data, err := json.Marshal(entry)
			if err != nil {
				return fmt.Errorf("encoding public wallet %d: %w", i, err)
			}
			if err := wallets.Put(itob(i), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadStore replays the persisted state into s through its idempotent
// insert operations, so loading into a non-empty store merges rather than
// duplicates.
func (d *DB) LoadStore(s *ledger.Store) error {
	return d.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket(bucketBlocks); bucket != nil {
			err := bucket.ForEach(func(k, v []byte) error {
				block, err := s.DecodeBlock(v)
				if err != nil {
					return fmt.Errorf("decoding stored block: %w", err)
				}
				s.StoreBlock(block)
				return nil
			})
			if err != nil {
				return err
			}
		}

		if bucket := tx.Bucket(bucketPeers); bucket != nil {
			err := bucket.ForEach(func(k, v []byte) error {
				var peer ledger.Peer
				if err := json.Unmarshal(v, &peer); err != nil {
					return fmt.Errorf("decoding stored peer: %w", err)
				}
				s.StoreNode(peer)
				return nil
			})
			if err != nil {
				return err
			}
		}

		if bucket := tx.Bucket(bucketPublicWallets); bucket != nil {
			err := bucket.ForEach(func(k, v []byte) error {
				var entry ledger.PublicWallet
				if err := json.Unmarshal(v, &entry); err != nil {
					return fmt.Errorf("decoding stored public wallet: %w", err)
				}
				// Re-derives the address from the key, which also guards
				// against a tampered directory entry.
				return s.StorePublicWallet(entry.PublicKey)
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func itob(i int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(i))
	return b
}
