package response

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tinyhttpd/internal/headers"
)

type writerState int

const (
	StateWritingStatusLine writerState = iota
	StateWritingHeaders
	StateWritingBody
	StateDone
)

type Writer struct {
	writer io.Writer
	state  writerState
	status StatusCode
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{
		writer: w,
		state:  StateWritingStatusLine,
	}
}

// Status reports the status code written so far, 0 if none yet.
func (w *Writer) Status() StatusCode {
	return w.status
}

func (w *Writer) WriteStatusLine(statusCode StatusCode) error {
	if w.state != StateWritingStatusLine {
		return fmt.Errorf("writer state out-of-order")
	}

	line := fmt.Sprintf("HTTP/1.1 %d %s\r\n", statusCode, statusCode.ReasonPhrase())
	if _, err := w.writer.Write([]byte(line)); err != nil {
		return err
	}

	w.status = statusCode
	w.state = StateWritingHeaders
	return nil
}

func (w *Writer) WriteHeaders(h *headers.Headers) error {
	if w.state != StateWritingHeaders {
		return fmt.Errorf("writer state out-of-order")
	}

	caser := cases.Title(language.English)
	var werr error
	h.Each(func(k, v string) {
		if werr != nil {
			return
		}
		line := caser.String(k) + ": " + v + "\r\n"
		if _, err := w.writer.Write([]byte(line)); err != nil {
			werr = err
		}
	})
	if werr != nil {
		return fmt.Errorf("error writing headers: %w", werr)
	}
	if _, err := w.writer.Write([]byte("\r\n")); err != nil {
		return err
	}

	w.state = StateWritingBody
	return nil
}

func (w *Writer) WriteBody(p []byte) (int, error) {
	if w.state != StateWritingBody {
		return 0, fmt.Errorf("writer state out-of-order")
	}

	w.state = StateDone
	return w.writer.Write(p)
}

// WriteBodyFrom streams exactly n body bytes from r through a bounded copy
// buffer, so arbitrarily large files never need to fit in memory.
func (w *Writer) WriteBodyFrom(r io.Reader, n int64) (int64, error) {
	if w.state != StateWritingBody {
		return 0, fmt.Errorf("writer state out-of-order")
	}

	w.state = StateDone
	return io.CopyN(w.writer, r, n)
}
