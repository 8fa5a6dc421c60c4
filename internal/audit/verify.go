package audit

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/naab-lang/naab/internal/errtax"
)

// Result reports the outcome of verifying one audit log's hash chain.
// OK is true only when every entry's hash matches prev_hash+fields and
// sequence numbers run 0..n-1 with no gaps.
type Result struct {
	Entries     int
	OK          bool
	BadSequence int64 // first offending sequence number, -1 if OK
	Reason      string
}

// Verify re-derives every entry's hash from its recorded fields and checks
// it against both the stored hash and the next entry's prev_hash, exactly
// the two checks spec §3.7 names: "for every entry i > 0, entry[i].prev_hash
// == entry[i-1].hash" and "any single-byte mutation to entry k breaks the
// chain at or before k+1". It never writes to the log; mode/algo/masterKeyHex
// must match whatever Open used to write the file, since an encrypted field
// must be decrypted back to the same plaintext bytes it was hashed from.
func Verify(path, mode, algo, masterKeyHex string) (*Result, error) {
	keys, err := newKeyring("audit", mode, algo, masterKeyHex)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "cannot open audit log for verification", Detail: err.Error()}
	}
	defer f.Close()

	res := &Result{OK: true, BadSequence: -1}
	expectedPrev := genesisHash
	var wantSeq uint64

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e entry
		if err := json.Unmarshal(line, &e); err != nil {
			res.OK = false
			res.BadSequence = int64(wantSeq)
			res.Reason = fmt.Sprintf("entry %d: malformed JSON: %v", wantSeq, err)
			return res, nil
		}
		res.Entries++

		if e.Sequence != wantSeq {
			res.OK = false
			res.BadSequence = int64(wantSeq)
			res.Reason = fmt.Sprintf("expected sequence %d, found %d", wantSeq, e.Sequence)
			return res, nil
		}

		prevHashHex := hex.EncodeToString(expectedPrev)
		if e.PrevHash != prevHashHex {
			res.OK = false
			res.BadSequence = int64(e.Sequence)
			res.Reason = fmt.Sprintf("entry %d: prev_hash %s does not match prior entry's hash %s", e.Sequence, e.PrevHash, prevHashHex)
			return res, nil
		}

		detailsPlain, err := openField(keys, e.Details, e.EventKind, "details")
		if err != nil {
			res.OK = false
			res.BadSequence = int64(e.Sequence)
			res.Reason = fmt.Sprintf("entry %d: cannot decrypt details: %v", e.Sequence, err)
			return res, nil
		}
		metaPlain, err := openField(keys, e.Metadata, e.EventKind, "metadata")
		if err != nil {
			res.OK = false
			res.BadSequence = int64(e.Sequence)
			res.Reason = fmt.Sprintf("entry %d: cannot decrypt metadata: %v", e.Sequence, err)
			return res, nil
		}

		h := sha256.New()
		h.Write(expectedPrev)
		h.Write([]byte(e.Timestamp))
		h.Write([]byte(e.EventKind))
		h.Write(detailsPlain)
		h.Write(metaPlain)
		sum := h.Sum(nil)

		if hex.EncodeToString(sum) != e.Hash {
			res.OK = false
			res.BadSequence = int64(e.Sequence)
			res.Reason = fmt.Sprintf("entry %d: recomputed hash does not match stored hash — chain broken", e.Sequence)
			return res, nil
		}

		expectedPrev = sum
		wantSeq++
	}
	if err := scanner.Err(); err != nil {
		return nil, &errtax.Error{Kind: errtax.KindIO, Message: "error reading audit log", Detail: err.Error()}
	}
	return res, nil
}

// openField reverses sealField: if the keyring is disabled the raw JSON is
// already plaintext, otherwise it's a JSON string of base64(nonce||ciphertext)
// that must be decrypted with the same AAD it was sealed under.
func openField(keys *keyring, raw json.RawMessage, kind, field string) ([]byte, error) {
	if !keys.enabled() {
		return raw, nil
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, err
	}
	blob, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return keys.open(blob, []byte(kind+":"+field))
}
