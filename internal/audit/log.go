package audit

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/naab-lang/naab/internal/errtax"
)

// genesisHash is the all-zero prev_hash of the first entry in the chain,
// sha256.Size (32) bytes long.
var genesisHash = make([]byte, sha256.Size)

// entry is the on-disk representation of one audit event. Details and
// Metadata hold raw JSON: a plaintext object when the keyring is disabled,
// or a JSON string of base64 ciphertext when it isn't. The hash is always
// computed over the plaintext bytes, never the on-disk (possibly
// encrypted) ones, so at-rest encryption never touches tamper-evidence.
type entry struct {
	Sequence  uint64          `json:"sequence"`
	Timestamp string          `json:"timestamp"`
	PrevHash  string          `json:"prev_hash"`
	EventKind string          `json:"event_kind"`
	Details   json.RawMessage `json:"details"`
	Metadata  json.RawMessage `json:"metadata"`
	Hash      string          `json:"hash"`
}

// Log is an append-only, hash-chained audit log. It implements
// evaluator.AuditSink and modules.AuditSink via
// Record — both declare the identical Record(kind, detail) method
// set, so the same *Log satisfies each without an adapter.
type Log struct {
	mu       sync.Mutex
	f        *os.File
	seq      uint64
	prevHash []byte // 32 bytes, genesisHash until the first entry is written
	keys     *keyring
	hostMeta map[string]any
}

// Open appends to (or creates) the ndjson file at path, replaying any
// existing entries to recover the current sequence number and chain tip.
// mode/algo/masterKeyHex come from internal/config.Config's
// EncryptionMode/EncryptionAlgo/MasterKeyHex fields.
func Open(path, mode, algo, masterKeyHex string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "cannot create audit log directory", Detail: err.Error()}
	}
	keys, err := newKeyring("audit", mode, algo, masterKeyHex)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o600)
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "cannot open audit log", Detail: err.Error()}
	}

	l := &Log{
		f:        f,
		prevHash: genesisHash,
		keys:     keys,
		hostMeta: map[string]any{"pid": os.Getpid()},
	}
	if err := l.recoverTail(); err != nil {
		f.Close()
		return nil, err
	}
	return l, nil
}

// recoverTail scans the existing log to find the next sequence number and
// the hash of the last entry written, so a process restart continues the
// same chain instead of starting a second genesis in the middle of a file.
func (l *Log) recoverTail() error {
	if _, err := l.f.Seek(0, 0); err != nil {
		return err
	}
	scanner := bufio.NewScanner(l.f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var last entry
	seen := false
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e entry
		if err := json.Unmarshal(line, &e); err != nil {
			return &errtax.Error{Kind: errtax.KindAuditChainBroken, Message: "cannot parse existing audit log entry", Detail: err.Error()}
		}
		last = e
		seen = true
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if _, err := l.f.Seek(0, 2); err != nil {
		return err
	}
	if !seen {
		return nil
	}
	hashBytes, err := hex.DecodeString(last.Hash)
	if err != nil {
		return &errtax.Error{Kind: errtax.KindAuditChainBroken, Message: "cannot parse existing audit log tail hash", Detail: err.Error()}
	}
	l.seq = last.Sequence + 1
	l.prevHash = hashBytes
	return nil
}

// Record appends one entry to the chain. kind names the event
// ("module.load", "block.execute", "block.deprecated", ...); detail is
// arbitrary event-specific data serialized as the entry's "details"
// field. Safe for concurrent use: writes are serialized under l.mu so the
// sequence counter and prev_hash never race.
func (l *Log) Record(kind string, detail map[string]any) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if detail == nil {
		detail = map[string]any{}
	}
	detailsPlain, err := json.Marshal(detail)
	if err != nil {
		return &errtax.Error{Kind: errtax.KindInternal, Message: "cannot marshal audit detail", Detail: err.Error()}
	}
	metaMap := map[string]any{"pid": l.hostMeta["pid"], "sequence_epoch": l.seq}
	metaPlain, err := json.Marshal(metaMap)
	if err != nil {
		return &errtax.Error{Kind: errtax.KindInternal, Message: "cannot marshal audit metadata", Detail: err.Error()}
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	prevHashHex := hex.EncodeToString(l.prevHash)

	h := sha256.New()
	h.Write(l.prevHash)
	h.Write([]byte(timestamp))
	h.Write([]byte(kind))
	h.Write(detailsPlain)
	h.Write(metaPlain)
	sum := h.Sum(nil)

	e := entry{
		Sequence:  l.seq,
		Timestamp: timestamp,
		PrevHash:  prevHashHex,
		EventKind: kind,
		Hash:      hex.EncodeToString(sum),
	}
	e.Details, err = l.sealField(detailsPlain, kind, "details")
	if err != nil {
		return err
	}
	e.Metadata, err = l.sealField(metaPlain, kind, "metadata")
	if err != nil {
		return err
	}

	line, err := json.Marshal(e)
	if err != nil {
		return &errtax.Error{Kind: errtax.KindInternal, Message: "cannot marshal audit entry", Detail: err.Error()}
	}
	line = append(line, '\n')
	if _, err := l.f.Write(line); err != nil {
		return &errtax.Error{Kind: errtax.KindIO, Message: "cannot append to audit log", Detail: err.Error()}
	}
	if err := l.f.Sync(); err != nil {
		return &errtax.Error{Kind: errtax.KindIO, Message: "cannot sync audit log", Detail: err.Error()}
	}

	l.seq++
	l.prevHash = sum
	return nil
}

// sealField returns plain as a raw JSON object when the keyring is
// disabled, or a JSON string of base64(nonce||ciphertext) when it isn't.
// aad binds the ciphertext to this entry's kind and field name so a
// ciphertext can't be silently swapped between fields or entries.
func (l *Log) sealField(plain []byte, kind, field string) (json.RawMessage, error) {
	if !l.keys.enabled() {
		return json.RawMessage(plain), nil
	}
	blob, err := l.keys.seal(plain, []byte(kind+":"+field))
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindInternal, Message: "cannot encrypt audit field", Detail: err.Error()}
	}
	encoded, err := json.Marshal(base64.StdEncoding.EncodeToString(blob))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(encoded), nil
}

// Close flushes and releases the underlying file handle.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}
