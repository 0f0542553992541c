package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCandidates(t *testing.T) {
	in := strings.NewReader(`
# discovered this morning
http://example.com/a

http://example.com/#!/spa
`)

	candidates, err := readCandidates(in)
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "http://example.com/a", candidates[0].URL)
	// Shebang URLs are normalized at candidate construction.
	assert.Equal(t, "http://example.com/?_escaped_fragment_=/spa", candidates[1].URL)
	assert.NotEmpty(t, candidates[0].Fingerprint.Digest)
}

func TestReadCandidatesEmptyInput(t *testing.T) {
	candidates, err := readCandidates(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

// Both output paths of dedupe go through writeURLs, so the printed order
// never depends on whether the store connected.
func TestWriteURLsSortsOutput(t *testing.T) {
	var buf bytes.Buffer
	writeURLs(&buf, []string{
		"http://example.com/c",
		"http://example.com/a",
		"http://example.com/b",
	})

	want := "http://example.com/a\nhttp://example.com/b\nhttp://example.com/c\n"
	assert.Equal(t, want, buf.String())

	buf.Reset()
	writeURLs(&buf, nil)
	assert.Empty(t, buf.String())
}
