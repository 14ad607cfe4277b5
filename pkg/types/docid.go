package types

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// DocumentID identifies a text by content: the Git blob hash of its bytes.
type DocumentID [20]byte

// ComputeDocumentID computes SHA-1("blob {len}\0{content}").
func ComputeDocumentID(content []byte) DocumentID {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)

	var id DocumentID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns 40-character hex string.
func (id DocumentID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id DocumentID) String() string {
	return id.Hex()
}

// IsZero reports whether id is unset.
func (id DocumentID) IsZero() bool {
	return id == DocumentID{}
}

// ParseDocumentID parses a 40-char hex string.
func ParseDocumentID(hexStr string) (DocumentID, error) {
	if len(hexStr) != 40 {
		return DocumentID{}, fmt.Errorf("invalid document ID length: expected 40, got %d", len(hexStr))
	}

	decoded, err := hex.DecodeString(hexStr)
	if err != nil {
		return DocumentID{}, fmt.Errorf("invalid hex string: %w", err)
	}

	var id DocumentID
	copy(id[:], decoded)
	return id, nil
}

// MarshalJSON implements json.Marshaler.
func (id DocumentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *DocumentID) UnmarshalJSON(data []byte) error {
	var hexStr string
	if err := json.Unmarshal(data, &hexStr); err != nil {
		return err
	}

	parsed, err := ParseDocumentID(hexStr)
	if err != nil {
		return err
	}

	*id = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (id DocumentID) MarshalYAML() (interface{}, error) {
	return id.Hex(), nil
}
