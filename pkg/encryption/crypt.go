package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

const (
	keySize   = 32
	nonceSize = 12
)

// scrypt cost parameters for passphrase derived keys.
const (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// EncryptionManagerInterface defines encryption and decryption methods.
type EncryptionManagerInterface interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptionManager implements AES-GCM encryption.
type EncryptionManager struct {
	aesgcm cipher.AEAD
}

// NewEncryptionManager creates an EncryptionManager from a raw 32 byte AES key.
func NewEncryptionManager(key []byte) (*EncryptionManager, error) {
	if len(key) != keySize {
		return nil, fmt.Errorf("invalid AES key size: got %d bytes, want %d bytes", len(key), keySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher block: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES-GCM: %w", err)
	}

	return &EncryptionManager{aesgcm: aesgcm}, nil
}

// NewPassphraseManager derives the AES key from a passphrase with scrypt.
// The salt is bound to the purpose string so different files never share a key.
func NewPassphraseManager(passphrase, purpose string) (*EncryptionManager, error) {
	if passphrase == "" {
		return nil, errors.New("passphrase must not be empty")
	}

	salt := sha256.Sum256([]byte("fleetops:" + purpose))
	key, err := scrypt.Key([]byte(passphrase), salt[:], scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return NewEncryptionManager(key)
}

// Encrypt encrypts plaintext using AES-GCM. The nonce is prepended to the output.
func (a *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return a.aesgcm.Seal(nonce[:], nonce[:], plaintext, nil), nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (a *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short: must include nonce and encrypted data")
	}

	plaintext, err := a.aesgcm.Open(nil, ciphertext[:nonceSize], ciphertext[nonceSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
