package headers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	// Valid single header
	h := New()
	data := []byte("Host: localhost:4221\r\n\r\n")
	n, done, err := h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 22, n)
	assert.False(t, done)
	v, ok := h.Get("Host")
	require.True(t, ok)
	assert.Equal(t, "localhost:4221", v)

	n, done, err = h.Parse(data[n:])
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)

	// Whitespace around name and value is trimmed
	h = New()
	data = []byte("  Accept :   */*  \r\n")
	n, done, err = h.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, len(data), n)
	assert.False(t, done)
	v, ok = h.Get("Accept")
	require.True(t, ok)
	assert.Equal(t, "*/*", v)

	// Value split on the first colon only
	h = New()
	data = []byte("Referer: http://example.com/a:b\r\n")
	_, _, err = h.Parse(data)
	require.NoError(t, err)
	v, _ = h.Get("Referer")
	assert.Equal(t, "http://example.com/a:b", v)

	// Partial line (no CRLF yet)
	h = New()
	n, done, err = h.Parse([]byte("Host: loca"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Immediate end of block
	h = New()
	n, done, err = h.Parse([]byte("\r\n extra bytes ignored"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, done)
}

func TestParsePolicyNoColon(t *testing.T) {
	// A colonless line aborts the parse rather than being skipped.
	h := New()
	n, done, err := h.Parse([]byte("Host localhost:4221\r\n"))
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.False(t, done)

	// Empty field-name is equally fatal
	h = New()
	_, _, err = h.Parse([]byte(": no name\r\n"))
	require.Error(t, err)
}

func TestCaseSensitivity(t *testing.T) {
	h := New()
	_, _, err := h.Parse([]byte("User-Agent: curl/8.0\r\n"))
	require.NoError(t, err)

	v, ok := h.Get("User-Agent")
	require.True(t, ok)
	assert.Equal(t, "curl/8.0", v)

	_, ok = h.Get("user-agent")
	assert.False(t, ok, "lookup is literal, not case-insensitive")
}

func TestDuplicateLastWins(t *testing.T) {
	h := New()
	data := []byte("X-Flavor: vanilla\r\nX-Flavor: chocolate\r\n\r\n")
	for i := 0; i < 3; i++ {
		n, _, err := h.Parse(data)
		require.NoError(t, err)
		data = data[n:]
	}

	v, ok := h.Get("X-Flavor")
	require.True(t, ok)
	assert.Equal(t, "chocolate", v)
	assert.Equal(t, 1, h.Len())
}

func TestInsertionOrder(t *testing.T) {
	h := New()
	h.Set("Content-Length", "5")
	h.Set("Connection", "close")
	h.Set("Content-Type", "text/plain")
	h.Set("Content-Length", "7")

	var keys []string
	h.Each(func(k, v string) { keys = append(keys, k) })
	assert.Equal(t, []string{"Content-Length", "Connection", "Content-Type"}, keys)

	v, _ := h.Get("Content-Length")
	assert.Equal(t, "7", v)

	h.Del("Connection")
	keys = nil
	h.Each(func(k, v string) { keys = append(keys, k) })
	assert.Equal(t, []string{"Content-Length", "Content-Type"}, keys)
}

// FuzzParse pins the parser's consumption contract: it either reports an
// error or consumes a prefix of the input, never more than it was given.
func FuzzParse(f *testing.F) {
	f.Add([]byte("Host: localhost:4221\r\n"))
	f.Add([]byte("\r\n"))
	f.Add([]byte("no colon here\r\n"))
	f.Add([]byte("a:b\r\nc:d\r\n\r\n"))
	f.Add([]byte(": \r\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		h := New()
		n, done, err := h.Parse(data)
		if err != nil {
			if n != 0 {
				t.Fatalf("consumed %d bytes alongside an error", n)
			}
			return
		}
		if n < 0 || n > len(data) {
			t.Fatalf("consumed %d of %d bytes", n, len(data))
		}
		if done && n < 2 {
			t.Fatalf("done after consuming %d bytes, need at least CRLF", n)
		}
	})
}
