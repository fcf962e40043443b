// Package routes implements the behavior behind each route: the root probe,
// the echo and user-agent endpoints, and file serving against an injected
// directory.
package routes

import (
	"bytes"
	"errors"
	"log/slog"

	"tinyhttpd/internal/fsdir"
	"tinyhttpd/internal/request"
	"tinyhttpd/internal/response"
	"tinyhttpd/internal/router"
	"tinyhttpd/internal/server"
)

// New builds the connection handler. dir may be nil when no serving
// directory is configured; the file routes then answer 404 and 500.
func New(dir *fsdir.Dir, log *slog.Logger) server.Handler {
	if log == nil {
		log = slog.Default()
	}

	return func(w *response.Writer, req *request.Request) {
		m := router.Route(req.RequestLine.Method, req.RequestLine.RequestTarget)

		switch m.Kind {
		case router.Root:
			writePlain(w, response.StatusOK, nil)
		case router.Echo:
			writePlain(w, response.StatusOK, []byte(m.Param))
		case router.UserAgent:
			handleUserAgent(w, req)
		case router.FileGet:
			handleFileGet(w, dir, m.Param, log)
		case router.FilePost:
			handleFilePost(w, dir, m.Param, req.Body, log)
		default:
			writePlain(w, response.StatusNotFound, nil)
		}
	}
}

func handleUserAgent(w *response.Writer, req *request.Request) {
	ua, ok := req.Headers.Get("User-Agent")
	if !ok {
		writePlain(w, response.StatusBadRequest, nil)
		return
	}
	writePlain(w, response.StatusOK, []byte(ua))
}

func handleFileGet(w *response.Writer, dir *fsdir.Dir, name string, log *slog.Logger) {
	f, size, err := dir.Open(name)
	if err != nil {
		if errors.Is(err, fsdir.ErrInvalidName) {
			writePlain(w, response.StatusBadRequest, nil)
			return
		}
		writePlain(w, response.StatusNotFound, nil)
		return
	}
	defer f.Close()

	if err := w.WriteStatusLine(response.StatusOK); err != nil {
		return
	}
	h := response.GetDefaultHeaders(int(size))
	h.Set("Content-Type", "application/octet-stream")
	if err := w.WriteHeaders(h); err != nil {
		return
	}
	if _, err := w.WriteBodyFrom(f, size); err != nil {
		log.Warn("error streaming file", "name", name, "err", err)
	}
}

func handleFilePost(w *response.Writer, dir *fsdir.Dir, name string, body []byte, log *slog.Logger) {
	err := dir.Save(name, bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, fsdir.ErrInvalidName) {
			writePlain(w, response.StatusBadRequest, nil)
			return
		}
		log.Error("error saving file", "name", name, "err", err)
		writePlain(w, response.StatusInternalServerError, nil)
		return
	}
	writePlain(w, response.StatusCreated, nil)
}

// writePlain sends a text/plain response whose Content-Length matches body
// exactly; a nil body sends headers only.
func writePlain(w *response.Writer, code response.StatusCode, body []byte) {
	if err := w.WriteStatusLine(code); err != nil {
		return
	}
	if err := w.WriteHeaders(response.GetDefaultHeaders(len(body))); err != nil {
		return
	}
	if len(body) > 0 {
		w.WriteBody(body)
	}
}
