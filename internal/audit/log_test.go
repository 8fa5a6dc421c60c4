package audit_test

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/naab-lang/naab/internal/audit"
)

func TestLog_RecordAndVerifyPlaintext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	log, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := log.Record("module.load", map[string]any{"tier": "stdlib", "n": i}); err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
	}
	if err := log.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	res, err := audit.Verify(path, "off", "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected chain OK, got reason: %s", res.Reason)
	}
	if res.Entries != 5 {
		t.Fatalf("expected 5 entries, got %d", res.Entries)
	}
}

func TestLog_GenesisEntryHasZeroPrevHash(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := log.Record("block.execute", map[string]any{"id": "BLOCK-PY-00001"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `"prev_hash":"` + hex.EncodeToString(make([]byte, 32)) + `"`
	if !strings.Contains(string(data), want) {
		t.Fatalf("expected genesis entry prev_hash to be all zero, got: %s", data)
	}
}

func TestLog_RecordAndVerifyEncrypted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	masterKey := "00112233445566778899aabbccddeeff00112233445566778899aabbccddee"

	log, err := audit.Open(path, "on", "xchacha20poly1305", masterKey)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := log.Record("block.deprecated", map[string]any{"id": "BLOCK-JS-00042", "message": "use BLOCK-JS-00099 instead"}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "BLOCK-JS-00042") {
		t.Fatal("expected details to be encrypted at rest, found plaintext block id")
	}

	res, err := audit.Verify(path, "on", "xchacha20poly1305", masterKey)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.OK {
		t.Fatalf("expected chain OK with correct key, got reason: %s", res.Reason)
	}

	res, err = audit.Verify(path, "on", "xchacha20poly1305", "ff"+masterKey[2:])
	if err != nil {
		t.Fatalf("Verify with the wrong key: %v", err)
	}
	if res.OK {
		t.Fatal("expected decryption failure with the wrong master key")
	}
}

func TestLog_ResumesChainAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	log1, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := log1.Record("module.load", map[string]any{"path": "a"}); err != nil {
		t.Fatal(err)
	}
	log1.Close()

	log2, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if err := log2.Record("module.load", map[string]any{"path": "b"}); err != nil {
		t.Fatal(err)
	}
	log2.Close()

	res, err := audit.Verify(path, "off", "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.OK || res.Entries != 2 {
		t.Fatalf("expected 2 chained entries across reopen, got entries=%d ok=%v reason=%s", res.Entries, res.OK, res.Reason)
	}
}

func TestVerify_DetectsTamperedEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := log.Record("module.load", map[string]any{"n": i}); err != nil {
			t.Fatal(err)
		}
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	tampered := strings.Replace(string(data), `"n":1`, `"n":99`, 1)
	if err := os.WriteFile(path, []byte(tampered), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := audit.Verify(path, "off", "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.OK {
		t.Fatal("expected tampered entry to break verification")
	}
	if res.BadSequence != 1 {
		t.Fatalf("expected the break reported at sequence 1, got %d", res.BadSequence)
	}
}

func TestVerify_DetectsMissingEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	log, err := audit.Open(path, "off", "", "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := log.Record("module.load", map[string]any{"n": i}); err != nil {
			t.Fatal(err)
		}
	}
	log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	dropped := lines[0] + "\n" + lines[2] + "\n"
	if err := os.WriteFile(path, []byte(dropped), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := audit.Verify(path, "off", "", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.OK {
		t.Fatal("expected a gap in sequence numbers to break verification")
	}
}

