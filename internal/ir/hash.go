package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix allows a future algorithm migration.
const (
	DomainRun    = "pancake/run/v1"
	DomainBlock  = "pancake/block/v1"
	DomainResult = "pancake/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// RunID computes the content-addressed ID of a run.
// Workers is not part of the identity; see RunRequest.Params.
func RunID(token string, req RunRequest, seq int64) (string, error) {
	obj := map[string]any{
		"token":  token,
		"params": req.Params(),
		"seq":    seq,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// BlockID computes the content-addressed ID of one block of a run.
func BlockID(runID string, index int, start, end uint64) (string, error) {
	obj := map[string]any{
		"run_id": runID,
		"index":  index,
		"start":  start,
		"end":    end,
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("BlockID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainBlock, canonical), nil
}

// ResultHash fingerprints a kernel result independently of how it was
// computed. Two runs for the same n must agree on it regardless of block
// count or worker count.
func ResultHash(n int, checksum int64, maxFlips int) string {
	canonical, err := MarshalCanonical(map[string]any{
		"n":         n,
		"checksum":  checksum,
		"max_flips": maxFlips,
	})
	if err != nil {
		// Integers only: marshaling cannot fail.
		panic(err)
	}
	return hashWithDomain(DomainResult, canonical)
}

// MustRunID is like RunID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRunID(token string, req RunRequest, seq int64) string {
	id, err := RunID(token, req, seq)
	if err != nil {
		panic(err)
	}
	return id
}
