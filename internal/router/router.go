// Package router maps a request's method and target to one of the server's
// fixed routes. Matching is case-sensitive; exact routes are checked before
// prefix routes, and the first match wins.
package router

import "strings"

type Kind int

const (
	Root Kind = iota
	Echo
	UserAgent
	FileGet
	FilePost
	NotFound
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "root"
	case Echo:
		return "echo"
	case UserAgent:
		return "user-agent"
	case FileGet:
		return "file-get"
	case FilePost:
		return "file-post"
	default:
		return "not-found"
	}
}

// Match is the result of routing: which handler runs, and the parameter
// extracted from the target (the echoed message or the file name), verbatim.
type Match struct {
	Kind  Kind
	Param string
}

func Route(method, target string) Match {
	switch {
	case method == "GET" && target == "/":
		return Match{Kind: Root}
	case method == "GET" && target == "/user-agent":
		return Match{Kind: UserAgent}
	case method == "GET" && strings.HasPrefix(target, "/echo/"):
		return Match{Kind: Echo, Param: strings.TrimPrefix(target, "/echo/")}
	case method == "GET" && strings.HasPrefix(target, "/files/"):
		return Match{Kind: FileGet, Param: strings.TrimPrefix(target, "/files/")}
	case method == "POST" && strings.HasPrefix(target, "/files/"):
		return Match{Kind: FilePost, Param: strings.TrimPrefix(target, "/files/")}
	default:
		return Match{Kind: NotFound}
	}
}
