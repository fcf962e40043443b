// Package headers implements the field block of an HTTP/1.1 message as a
// case-sensitive mapping that remembers insertion order. Lookup is literal:
// "User-Agent" and "user-agent" are different keys. A duplicate key keeps its
// original position but takes the last value.
package headers

import (
	"bytes"
	"fmt"
	"strings"
)

const crlf = "\r\n"

type Headers struct {
	keys   []string
	values map[string]string
}

func New() *Headers {
	return &Headers{values: map[string]string{}}
}

// Parse consumes at most one CRLF-terminated line from data. It reports the
// number of bytes consumed and whether the empty line ending the block was
// reached. A line with no colon is an error: the caller is expected to abort
// the whole request rather than resynchronize on garbage.
func (h *Headers) Parse(data []byte) (n int, done bool, err error) {
	idx := bytes.Index(data, []byte(crlf))
	if idx == -1 {
		return 0, false, nil
	}
	if idx == 0 {
		return len(crlf), true, nil
	}

	line := data[:idx]
	colonIdx := bytes.IndexByte(line, ':')
	if colonIdx == -1 {
		return 0, false, fmt.Errorf("malformed header line (no colon): %q", line)
	}

	key := strings.TrimSpace(string(line[:colonIdx]))
	if key == "" {
		return 0, false, fmt.Errorf("malformed header line (empty field-name): %q", line)
	}
	value := strings.TrimSpace(string(line[colonIdx+1:]))

	h.Set(key, value)

	return idx + len(crlf), false, nil
}

// Set stores value under key, replacing any previous value. Keys keep the
// position of their first insertion.
func (h *Headers) Set(key, value string) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = value
}

func (h *Headers) Get(key string) (string, bool) {
	v, ok := h.values[key]
	return v, ok
}

func (h *Headers) Del(key string) {
	if _, ok := h.values[key]; !ok {
		return
	}
	delete(h.values, key)
	for i, k := range h.keys {
		if k == key {
			h.keys = append(h.keys[:i], h.keys[i+1:]...)
			break
		}
	}
}

func (h *Headers) Len() int {
	return len(h.keys)
}

// Each visits every header in insertion order.
func (h *Headers) Each(fn func(key, value string)) {
	for _, k := range h.keys {
		fn(k, h.values[k])
	}
}
