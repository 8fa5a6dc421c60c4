// Package audit implements the hash-chained, append-only audit log (spec
// §3.7): security-relevant evaluator events — program start and end,
// module load, block deprecation warning — are each recorded as one
// newline-delimited JSON entry chained to the previous entry's hash, plus
// a read-only Verifier that replays the chain and reports the first break.
// Block execution and polyglot dispatch are not recorded.
//
// The at-rest encryption here is grounded on the teacher's
// internal/db/encrypt.go: the same Encryptor interface, the same
// XChaCha20-Poly1305/AES-256-GCM pair, the same HKDF-SHA256 derivation.
// What's dropped is the teacher's SQL-backed key-rotation keyring
// (RotateKey, cleanupOldKeys, a database/sql-backed version table) — the
// audit log is a flat append-only file, not a row store, so there is no
// place to persist "key version N covers rows before time T" the way a
// SQL schema could. Instead one subkey per purpose (only "audit" is used) is
// derived from the master key at process start and used for the life of
// that process; rotating the master key rotates every subkey with it.
package audit

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// randReader is crypto/rand.Reader, named so the nonce-generation call
// site in seal reads the same way the teacher's rand.Read(nonce) call did.
var randReader = rand.Reader

const (
	aesKeyLen     = 32
	xchachaKeyLen = 32
	gcmNonceSize  = 12
)

// Encryptor performs authenticated encryption for one algorithm. Mirrors
// the teacher's db.Encryptor exactly so the two AEAD implementations below
// could be lifted across almost unchanged.
type Encryptor interface {
	Encrypt(key, nonce, plaintext, aad []byte) ([]byte, error)
	Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error)
	NonceSize() int
	Algo() string
	AlgoKeyLen() int
}

type xchacha20Encryptor struct{}

func (xchacha20Encryptor) Encrypt(key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(key) != xchachaKeyLen {
		return nil, fmt.Errorf("audit: invalid XChaCha20-Poly1305 key length: %d", len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce, plaintext, aad), nil
}

func (xchacha20Encryptor) Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(key) != xchachaKeyLen {
		return nil, fmt.Errorf("audit: invalid XChaCha20-Poly1305 key length: %d", len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce, ciphertext, aad)
}

func (xchacha20Encryptor) NonceSize() int   { return chacha20poly1305.NonceSizeX }
func (xchacha20Encryptor) Algo() string     { return "xchacha20poly1305" }
func (xchacha20Encryptor) AlgoKeyLen() int  { return xchachaKeyLen }

type aesGCMEncryptor struct{}

func (aesGCMEncryptor) Encrypt(key, nonce, plaintext, aad []byte) ([]byte, error) {
	if len(key) != aesKeyLen {
		return nil, fmt.Errorf("audit: invalid AES-256-GCM key length: %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, aad), nil
}

func (aesGCMEncryptor) Decrypt(key, nonce, ciphertext, aad []byte) ([]byte, error) {
	if len(key) != aesKeyLen {
		return nil, fmt.Errorf("audit: invalid AES-256-GCM key length: %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, aad)
}

func (aesGCMEncryptor) NonceSize() int  { return gcmNonceSize }
func (aesGCMEncryptor) Algo() string    { return "aes-256-gcm" }
func (aesGCMEncryptor) AlgoKeyLen() int { return aesKeyLen }

// newEncryptor resolves the NAAB_ENCRYPTION_ALGO value to a concrete AEAD.
func newEncryptor(algo string) (Encryptor, error) {
	switch algo {
	case "", "xchacha20poly1305":
		return xchacha20Encryptor{}, nil
	case "aes-256-gcm", "aesgcm":
		return aesGCMEncryptor{}, nil
	default:
		return nil, fmt.Errorf("audit: unsupported encryption algorithm %q", algo)
	}
}

// deriveKey runs HKDF-SHA256 over the master secret, exactly as the
// teacher's db.deriveKey does.
func deriveKey(masterKey, salt, info []byte, keyLen int) ([]byte, error) {
	r := hkdf.New(sha256.New, masterKey, salt, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("audit: failed to derive key: %w", err)
	}
	return key, nil
}

// keyring is the simplified replacement for the teacher's SQL-backed
// key-version table: one subkey per purpose, derived once from the master
// key and held for the process lifetime.
type keyring struct {
	enc Encryptor
	key []byte // nil means encryption is disabled
}

// newKeyring builds the purpose-scoped keyring for one subsystem (only
// "audit" is used). masterKeyHex/mode/algo come straight from
// internal/config.Config; an empty masterKeyHex or mode "off" yields a
// keyring with encryption disabled rather than an error, since encryption
// here is opt-in defense in depth, not a protocol requirement.
func newKeyring(purpose, mode, algo, masterKeyHex string) (*keyring, error) {
	if mode == "off" || masterKeyHex == "" {
		if mode == "on" && masterKeyHex == "" {
			return nil, fmt.Errorf("audit: NAAB_ENCRYPTION_MODE=on but NAAB_MASTER_KEY is not set")
		}
		return &keyring{}, nil
	}
	master, err := hex.DecodeString(masterKeyHex)
	if err != nil {
		return nil, fmt.Errorf("audit: invalid NAAB_MASTER_KEY hex: %w", err)
	}
	enc, err := newEncryptor(algo)
	if err != nil {
		return nil, err
	}
	key, err := deriveKey(master, []byte("naab-audit-v1"), []byte("purpose:"+purpose), enc.AlgoKeyLen())
	if err != nil {
		return nil, err
	}
	return &keyring{enc: enc, key: key}, nil
}

func (k *keyring) enabled() bool { return k != nil && k.key != nil }

// seal encrypts plaintext under aad, returning a self-describing blob of
// [nonce][ciphertext]; the nonce never needs its own storage slot because
// NonceSize is fixed per algorithm and recorded alongside the keyring.
func (k *keyring) seal(plaintext, aad []byte) ([]byte, error) {
	nonce := make([]byte, k.enc.NonceSize())
	if _, err := io.ReadFull(randReader, nonce); err != nil {
		return nil, err
	}
	ct, err := k.enc.Encrypt(k.key, nonce, plaintext, aad)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(nonce)+len(ct))
	copy(out, nonce)
	copy(out[len(nonce):], ct)
	return out, nil
}

func (k *keyring) open(blob, aad []byte) ([]byte, error) {
	n := k.enc.NonceSize()
	if len(blob) < n {
		return nil, fmt.Errorf("audit: encrypted blob shorter than nonce size")
	}
	return k.enc.Decrypt(k.key, blob[:n], blob[n:], aad)
}
