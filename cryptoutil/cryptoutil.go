// Private store encryption requires this
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

// BlockSize is the cipher block size the private store is padded to.
const BlockSize = aes.BlockSize

// DeriveKey turns a password into a 256-bit AES key as the plain SHA-256
// digest of the password bytes. There is no salt and no stretching; this is
// the on-disk key contract of the private store and cannot change without
// breaking every existing vault file. Known to be weak against offline
// brute force.
func DeriveKey(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return sum[:]
}

// NewIV returns a fresh random 16-byte initialization vector.
func NewIV() ([]byte, error) {
	iv := make([]byte, BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("iv generation failed: %w", err)
	}
	return iv, nil
}

// Pad appends PKCS#7 padding up to the next block boundary. A full block of
// padding is added when the input length is already a multiple of BlockSize,
// so between 1 and BlockSize bytes are always appended.
func Pad(b []byte) []byte {
	n := BlockSize - len(b)%BlockSize
	padded := make([]byte, len(b)+n)
	copy(padded, b)
	for i := len(b); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// Unpad strips the padding added by Pad: the last byte holds the pad length.
func Unpad(b []byte) ([]byte, error) {
	if len(b) == 0 {
		return nil, errors.New("unpad: empty input")
	}
	n := int(b[len(b)-1])
	if n < 1 || n > BlockSize || n > len(b) {
		return nil, fmt.Errorf("unpad: invalid pad length %d", n)
	}
	return b[:len(b)-n], nil
}

// Encrypt runs AES-256-CBC over an already padded plaintext.
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	if len(plaintext)%BlockSize != 0 {
		return nil, errors.New("encrypt: plaintext is not block aligned")
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("encrypt: iv must be %d bytes", BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: %w", err)
	}
	ciphertext := make([]byte, len(plaintext))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, plaintext)
	return ciphertext, nil
}

// Decrypt reverses Encrypt. The caller removes the padding afterwards.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	if len(ciphertext)%BlockSize != 0 {
		return nil, errors.New("decrypt: ciphertext is not block aligned")
	}
	if len(iv) != BlockSize {
		return nil, fmt.Errorf("decrypt: iv must be %d bytes", BlockSize)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)
	return plaintext, nil
}
