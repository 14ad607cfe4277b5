package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDocumentID(t *testing.T) {
	// Matches `git hash-object` for the same content.
	assert.Equal(t, "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391", ComputeDocumentID(nil).Hex())
	assert.Equal(t, "ce013625030ba8dba906f756967f9e9ca394464a", ComputeDocumentID([]byte("hello\n")).Hex())
}

func TestParseDocumentID(t *testing.T) {
	id := ComputeDocumentID([]byte("hello\n"))

	parsed, err := ParseDocumentID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.False(t, parsed.IsZero())

	_, err = ParseDocumentID("abc")
	assert.Error(t, err)

	_, err = ParseDocumentID("zz013625030ba8dba906f756967f9e9ca394464a")
	assert.Error(t, err)
}

func TestDocumentID_JSON(t *testing.T) {
	id := ComputeDocumentID([]byte("content"))

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"`+id.Hex()+`"`, string(data))

	var decoded DocumentID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded)

	assert.Error(t, json.Unmarshal([]byte(`"short"`), &decoded))
	assert.Error(t, json.Unmarshal([]byte(`42`), &decoded))
}
