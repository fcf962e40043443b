// Package request decodes a single HTTP/1.1 request from a byte stream. The
// parser is incremental: it accepts bytes in whatever sized chunks the
// network delivers and advances through request line, header block and body
// as enough data arrives.
package request

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tinyhttpd/internal/headers"
)

// ErrNoRequest reports that the peer closed the connection before sending a
// single byte. This is a clean disconnect, not a protocol error, and no
// response should be written.
var ErrNoRequest = errors.New("connection closed before any request bytes")

type parserState int

const (
	stateRequestLine parserState = iota
	stateHeaders
	stateBody
	stateDone
)

const (
	bufferSize = 1024
	crlf       = "\r\n"
)

type Request struct {
	RequestLine RequestLine
	Headers     *headers.Headers
	Body        []byte

	state         parserState
	contentLength int
}

type RequestLine struct {
	Method        string
	RequestTarget string
	HttpVersion   string
}

// RequestFromReader blocks until a full request has been read from reader or
// the stream ends. The version token is recorded verbatim and never
// validated beyond being present; a body is read only when a Content-Length
// header was parsed, and is kept as raw bytes.
func RequestFromReader(reader io.Reader) (*Request, error) {
	buf := make([]byte, bufferSize)
	readToIndex := 0
	totalRead := 0

	r := &Request{
		Headers: headers.New(),
		state:   stateRequestLine,
	}

	for r.state != stateDone {
		if readToIndex == len(buf) {
			tmpBuf := make([]byte, len(buf)*2)
			copy(tmpBuf, buf[:readToIndex])
			buf = tmpBuf
		}

		n, err := reader.Read(buf[readToIndex:])
		if n > 0 {
			totalRead += n
			readToIndex += n

			bytesParsed, perr := r.parse(buf[:readToIndex])
			if perr != nil {
				return nil, perr
			}

			copy(buf, buf[bytesParsed:readToIndex])
			readToIndex -= bytesParsed
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				if totalRead == 0 {
					return nil, ErrNoRequest
				}
				if r.state != stateDone {
					return nil, fmt.Errorf("error parsing request: %w", io.ErrUnexpectedEOF)
				}
				break
			}
			return nil, err
		}
	}

	return r, nil
}

// parse consumes as much of data as the current state allows, possibly
// crossing several states in one call.
func (r *Request) parse(data []byte) (int, error) {
	total := 0
	for r.state != stateDone {
		n, err := r.parseSingle(data[total:])
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
		total += n
	}
	return total, nil
}

func (r *Request) parseSingle(data []byte) (int, error) {
	switch r.state {
	case stateRequestLine:
		consumed, rl, err := parseRequestLine(data)
		if err != nil {
			return 0, fmt.Errorf("error parsing request: %w", err)
		}
		if consumed == 0 {
			return 0, nil
		}

		r.RequestLine = rl
		r.state = stateHeaders
		return consumed, nil
	case stateHeaders:
		n, done, err := r.Headers.Parse(data)
		if err != nil {
			return 0, fmt.Errorf("error parsing request: %w", err)
		}
		if done {
			if err := r.beginBody(); err != nil {
				return 0, fmt.Errorf("error parsing request: %w", err)
			}
		}
		return n, nil
	case stateBody:
		remaining := r.contentLength - len(r.Body)
		take := min(remaining, len(data))
		r.Body = append(r.Body, data[:take]...)
		if len(r.Body) == r.contentLength {
			r.state = stateDone
		}
		return take, nil
	default:
		return 0, fmt.Errorf("error: trying to read data in a done state")
	}
}

// beginBody decides, from the parsed headers, whether a body follows the
// header block.
func (r *Request) beginBody() error {
	v, ok := r.Headers.Get("Content-Length")
	if !ok {
		r.state = stateDone
		return nil
	}

	length, err := strconv.Atoi(v)
	if err != nil || length < 0 {
		return fmt.Errorf("invalid Content-Length: %q", v)
	}
	if length == 0 {
		r.state = stateDone
		return nil
	}

	r.contentLength = length
	r.Body = make([]byte, 0, length)
	r.state = stateBody
	return nil
}

func parseRequestLine(req []byte) (int, RequestLine, error) {
	idx := bytes.Index(req, []byte(crlf))
	if idx == -1 {
		return 0, RequestLine{}, nil
	}
	line := string(req[:idx])
	consumed := idx + len(crlf)

	rl, err := requestLineFromString(line)
	if err != nil {
		return 0, RequestLine{}, err
	}

	return consumed, *rl, nil
}

func requestLineFromString(s string) (*RequestLine, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid request line: %q", s)
	}

	method := parts[0]
	for _, c := range method {
		if c < 'A' || c > 'Z' {
			return nil, fmt.Errorf("invalid method: %q", method)
		}
	}

	return &RequestLine{
		Method:        method,
		RequestTarget: parts[1],
		HttpVersion:   parts[2],
	}, nil
}
