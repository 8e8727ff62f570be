// Package vault is the private half of the quantcoin node storage: the
// operator's own wallets, kept encrypted on disk under a password. The file
// at path holds raw AES-256-CBC ciphertext; the initialization vector for
// it lives in a sidecar file at path + ".iv".
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"

	"quantcoin/cryptoutil"
	"quantcoin/wallet"
)

// ErrDecryptionFailed is the single failure the vault reports for a wrong
// password. A corrupted ciphertext, IV or payload is indistinguishable from
// a bad password and deliberately collapses into the same error.
var ErrDecryptionFailed = errors.New("vault: wrong password or corrupted store")

type document struct {
	Wallets []wallet.Wallet `json:"wallets"`
}

// Vault holds the node's wallets in memory. Zero value via New is an empty,
// usable vault. Like the ledger store it is single-threaded by contract.
type Vault struct {
	wallets []wallet.Wallet
}

// New returns an empty vault.
func New() *Vault {
	return &Vault{}
}

// Load decrypts the store at path with the key derived from password and
// replaces the in-memory wallets. A missing file reports (false, nil) with
// the state untouched. Every decryption or parse problem reports
// ErrDecryptionFailed, again with the state untouched.
func (v *Vault) Load(path, password string) (bool, error) {
	ciphertext, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("private store %s does not exist, keeping current state", path)
			return false, nil
		}
		return false, fmt.Errorf("reading private store: %w", err)
	}
	iv, err := os.ReadFile(path + ".iv")
	if err != nil {
		// Ciphertext without its IV is unrecoverable either way.
		return false, ErrDecryptionFailed
	}

	key := cryptoutil.DeriveKey(password)
	plaintext, err := cryptoutil.Decrypt(key, iv, ciphertext)
	if err != nil {
		return false, ErrDecryptionFailed
	}
	plaintext, err = cryptoutil.Unpad(plaintext)
	if err != nil {
		return false, ErrDecryptionFailed
	}
	var doc document
	if err := json.Unmarshal(plaintext, &doc); err != nil {
		return false, ErrDecryptionFailed
	}

	v.wallets = doc.Wallets
	return true, nil
}

// Save encrypts the wallets with the key derived from password and writes
// ciphertext and IV. A fresh random IV is generated on every save; CBC mode
// loses its security guarantees if one is ever reused under the same key.
func (v *Vault) Save(path, password string) error {
	wallets := v.wallets
	if wallets == nil {
		wallets = []wallet.Wallet{}
	}
	plaintext, err := json.Marshal(document{Wallets: wallets})
	if err != nil {
		return fmt.Errorf("encoding private store: %w", err)
	}

	iv, err := cryptoutil.NewIV()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path+".iv", iv, 0600); err != nil {
		return fmt.Errorf("writing iv: %w", err)
	}

	key := cryptoutil.DeriveKey(password)
	ciphertext, err := cryptoutil.Encrypt(key, iv, cryptoutil.Pad(plaintext))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, ciphertext, 0600); err != nil {
		return fmt.Errorf("writing private store: %w", err)
	}
	return nil
}

// StoreWallet adds a wallet unless an identical one is already present.
func (v *Vault) StoreWallet(w wallet.Wallet) {
	for _, existing := range v.wallets {
		if existing == w {
			return
		}
	}
	v.wallets = append(v.wallets, w)
}

// Wallets returns the in-memory wallet list. The slice is the vault's own;
// callers must not modify it.
func (v *Vault) Wallets() []wallet.Wallet {
	return v.wallets
}
