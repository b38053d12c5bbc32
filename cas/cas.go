// Package cas provides content addressing for family graph data:
// BLAKE3 hashing, canonical JSON serialization, and person handles.
package cas

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"lukechampine.com/blake3"
)

// NowMs returns the current time in milliseconds since epoch.
func NowMs() int64 {
	return time.Now().UnixMilli()
}

// CanonicalJSON converts a value to canonical JSON (stable key ordering).
// Struct field order is erased by a round trip through interface{};
// encoding/json emits map keys sorted.
func CanonicalJSON(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	var obj interface{}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}

	return json.Marshal(obj)
}

// Blake3Hash computes a BLAKE3 hash of the input and returns it as bytes.
func Blake3Hash(data []byte) []byte {
	hash := blake3.Sum256(data)
	return hash[:]
}

// Blake3HashHex computes a BLAKE3 hash and returns it as a hex string.
func Blake3HashHex(data []byte) string {
	return hex.EncodeToString(Blake3Hash(data))
}

// PersonID computes the content-addressed handle for a person:
// blake3(name + "\n" + gender). Equal (name, gender) pairs map to the
// same handle, so re-adding an existing person is idempotent while a
// namesake of the other gender gets a distinct node.
func PersonID(name, gender string) []byte {
	return Blake3Hash([]byte(name + "\n" + gender))
}

// PersonIDHex computes the content-addressed person handle as hex.
func PersonIDHex(name, gender string) string {
	return hex.EncodeToString(PersonID(name, gender))
}

// Fingerprint computes the BLAKE3 digest of a value's canonical JSON.
// Two graphs with the same node and edge sets fingerprint identically
// regardless of how the value was assembled.
func Fingerprint(v interface{}) ([]byte, error) {
	canonical, err := CanonicalJSON(v)
	if err != nil {
		return nil, err
	}
	return Blake3Hash(canonical), nil
}

// FingerprintHex computes the canonical-JSON digest as a hex string.
func FingerprintHex(v interface{}) (string, error) {
	fp, err := Fingerprint(v)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(fp), nil
}

// HexToBytes converts a hex string to bytes.
func HexToBytes(s string) ([]byte, error) {
	return hex.DecodeString(s)
}

// BytesToHex converts bytes to hex string.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}
