package wallet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// SaltSize is the length of the random Argon2id salt.
const SaltSize = 32

// Sealed secret layout: [salt(32)][memory(4)][iterations(4)][parallelism(1)][nonce(24)][ciphertext...]
const sealedHeaderSize = SaltSize + 4 + 4 + 1

// KDFParams holds Argon2id cost parameters. They travel with the
// sealed blob so old exports stay decryptable after defaults change.
type KDFParams struct {
	Memory      uint32 // in KiB
	Iterations  uint32
	Parallelism uint8
}

// DefaultKDFParams returns the recommended Argon2id costs.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		Memory:      64 * 1024, // 64 MB
		Iterations:  3,
		Parallelism: 4,
	}
}

// sealKey derives the 32-byte AEAD key from passphrase and salt.
func sealKey(passphrase, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(
		passphrase,
		salt,
		params.Iterations,
		params.Memory,
		params.Parallelism,
		chacha20poly1305.KeySize,
	)
}

// SealSecret encrypts secret key material (a mnemonic or serialized
// extended private key) under a passphrase using Argon2id and
// XChaCha20-Poly1305. The caller owns storing the blob; this package
// never touches disk.
func SealSecret(secret, passphrase []byte, params KDFParams) ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := sealKey(passphrase, salt, params)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, secret, nil)

	// Build output: salt | params | nonce | ciphertext
	out := make([]byte, 0, sealedHeaderSize+len(nonce)+len(ciphertext))
	out = append(out, salt...)
	out = binary.LittleEndian.AppendUint32(out, params.Memory)
	out = binary.LittleEndian.AppendUint32(out, params.Iterations)
	out = append(out, params.Parallelism)
	out = append(out, nonce...)
	out = append(out, ciphertext...)

	zero(key)
	return out, nil
}

// OpenSecret decrypts a blob produced by SealSecret.
func OpenSecret(sealed, passphrase []byte) ([]byte, error) {
	nonceSize := chacha20poly1305.NonceSizeX
	minSize := sealedHeaderSize + nonceSize + chacha20poly1305.Overhead
	if len(sealed) < minSize {
		return nil, fmt.Errorf("sealed secret too short: %d bytes, need at least %d", len(sealed), minSize)
	}

	salt := sealed[:SaltSize]
	params := KDFParams{
		Memory:      binary.LittleEndian.Uint32(sealed[SaltSize:]),
		Iterations:  binary.LittleEndian.Uint32(sealed[SaltSize+4:]),
		Parallelism: sealed[SaltSize+8],
	}

	nonce := sealed[sealedHeaderSize : sealedHeaderSize+nonceSize]
	ciphertext := sealed[sealedHeaderSize+nonceSize:]

	key := sealKey(passphrase, salt, params)
	defer zero(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	secret, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("open secret: %w", err)
	}
	return secret, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
