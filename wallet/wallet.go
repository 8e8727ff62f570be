// quantcoin wallet generation: secp256k1 key pairs with SHA-1 based addresses
package wallet

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
)

// AddressPrefix tags every quantcoin address.
const AddressPrefix = "QC"

const (
	seedLength   = 50
	seedAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Wallet is a key pair plus its derived address. The key fields hold the
// base64 encoding of the raw 32-byte private scalar and the raw 64-byte
// public point (X||Y, no format tag). This is also the vault wire format.
type Wallet struct {
	PrivateKey string `json:"private_key"`
	PublicKey  string `json:"public_key"`
	Address    string `json:"address"`
}

// New generates a wallet from a fresh random seed. The result is not
// reproducible; use NewFromSeed when recovery matters.
func New() (Wallet, error) {
	seed, err := randomSeed()
	if err != nil {
		return Wallet{}, err
	}
	return NewFromSeed(seed)
}

// NewFromSeed deterministically derives a wallet from a seed string. The
// seed is hashed with SHA-256 and the digest, read as a big integer, drives
// a rejection-sampling draw of the private scalar against the secp256k1
// group order. The same seed always yields the same wallet.
func NewFromSeed(seed string) (Wallet, error) {
	digest := sha256.Sum256([]byte(seed))
	scalar := scalarFromSeed(new(big.Int).SetBytes(digest[:]))

	keyBytes := scalar.Bytes()
	if len(keyBytes) < 32 {
		padding := make([]byte, 32-len(keyBytes))
		keyBytes = append(padding, keyBytes...)
	}
	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	pubBytes := priv.PubKey().SerializeUncompressed()[1:] // drop the 0x04 tag

	return Wallet{
		PrivateKey: base64.StdEncoding.EncodeToString(keyBytes),
		PublicKey:  base64.StdEncoding.EncodeToString(pubBytes),
		Address:    AddressFromPublicKey(pubBytes),
	}, nil
}

// AddressFromPublicKey derives the address for raw public key bytes. The
// same derivation is applied when wallets are registered in the public
// directory, so address computation lives only here.
func AddressFromPublicKey(pub []byte) string {
	sum := sha1.Sum(pub)
	return AddressPrefix + hex.EncodeToString(sum[:])
}

// scalarFromSeed draws 256-bit candidates from a hash stream keyed by the
// seed integer until one falls in [1, N). secp256k1's order sits close to
// 2^256 so the retry branch is almost never taken, but the loop keeps the
// draw unbiased.
func scalarFromSeed(seed *big.Int) *big.Int {
	order := btcec.S256().N
	seedBytes := seed.Bytes()
	var counter [4]byte
	for i := uint32(0); ; i++ {
		binary.BigEndian.PutUint32(counter[:], i)
		h := sha256.New()
		h.Write(seedBytes)
		h.Write(counter[:])
		candidate := new(big.Int).SetBytes(h.Sum(nil))
		if candidate.Sign() > 0 && candidate.Cmp(order) < 0 {
			return candidate
		}
	}
}

func randomSeed() (string, error) {
	max := big.NewInt(int64(len(seedAlphabet)))
	buf := make([]byte, seedLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("seed generation failed: %w", err)
		}
		buf[i] = seedAlphabet[n.Int64()]
	}
	return string(buf), nil
}
