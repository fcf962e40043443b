package server

import (
	"tinyhttpd/internal/request"
	"tinyhttpd/internal/response"
)

// Handler produces the response for one parsed request. It runs inside the
// connection's worker and must write through w rather than touch the
// connection directly.
type Handler func(w *response.Writer, req *request.Request)
