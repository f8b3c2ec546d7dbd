// Package negotiation decides whether a request's Accept and Content-Type
// headers, and a response's Content-Type, are acceptable for a route.
package negotiation

import (
	"net/http"
	"strings"

	"github.com/phrazzld/account-api/internal/config"
)

// Wildcard is the Accept token that accepts any representation.
const Wildcard = "*/*"

// Error is a negotiation failure together with its response status.
// Message is returned to the client verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Negotiation failures.
var (
	ErrNotAcceptable        = &Error{Status: http.StatusNotAcceptable, Message: "Not Acceptable"}
	ErrUnsupportedMediaType = &Error{Status: http.StatusUnsupportedMediaType, Message: "Unsupported Media Type"}
	ErrUnresolvableAccept   = &Error{
		Status:  http.StatusNotAcceptable,
		Message: "Unable to resolve Accept header to a representation",
	}
)

// Policy lists the media types a route accepts and produces.
type Policy struct {
	Accept      []string
	ContentType []string
}

// Table maps route names to policies. It is immutable after construction.
type Table struct {
	defaults Policy
	routes   map[string]Policy
}

// NewTable builds a Table from configuration.
func NewTable(cfg config.NegotiationConfig) *Table {
	t := &Table{
		defaults: Policy{
			Accept:      clone(cfg.Default.Accept),
			ContentType: clone(cfg.Default.ContentType),
		},
		routes: make(map[string]Policy, len(cfg.Routes)),
	}
	for _, r := range cfg.Routes {
		t.routes[r.Route] = Policy{
			Accept:      clone(r.Accept),
			ContentType: clone(r.ContentType),
		}
	}
	return t
}

// Lookup returns the effective policy of a route. Each list falls back to the
// default independently when the route leaves it empty.
func (t *Table) Lookup(route string) Policy {
	p := t.routes[route]
	if len(p.Accept) == 0 {
		p.Accept = t.defaults.Accept
	}
	if len(p.ContentType) == 0 {
		p.ContentType = t.defaults.ContentType
	}
	return p
}

// ParseAccept splits an Accept header into media types, dropping parameters
// and empty entries.
func ParseAccept(header string) []string {
	var types []string
	for _, item := range strings.Split(header, ",") {
		mediaType, _, _ := strings.Cut(item, ";")
		mediaType = strings.TrimSpace(mediaType)
		if mediaType != "" {
			types = append(types, mediaType)
		}
	}
	return types
}

// CheckAccept reports whether any requested type is accepted by the route.
func (t *Table) CheckAccept(route string, accept []string) bool {
	if contains(accept, Wildcard) {
		return true
	}
	return intersects(accept, t.Lookup(route).Accept)
}

// CheckContentType reports whether the request Content-Type is accepted by
// the route. An empty header always passes. The header is split on ';'
// without trimming, so "application/json; charset=utf-8" matches through
// its first segment.
func (t *Table) CheckContentType(route, contentType string) bool {
	if contentType == "" {
		return true
	}
	return intersects(strings.Split(contentType, ";"), t.Lookup(route).ContentType)
}

// CheckResponse reports whether the response Content-Type satisfies the
// parsed Accept list. Any media type containing "json" is treated as "json"
// on both sides.
func CheckResponse(contentType string, accept []string) bool {
	if contains(accept, Wildcard) {
		return true
	}
	for _, a := range accept {
		if collapseJSON(a) == collapseJSON(contentType) {
			return true
		}
	}
	return false
}

// CheckRequest runs the Accept and Content-Type checks in order.
func (t *Table) CheckRequest(route string, accept []string, contentType string) *Error {
	if !t.CheckAccept(route, accept) {
		return ErrNotAcceptable
	}
	if !t.CheckContentType(route, contentType) {
		return ErrUnsupportedMediaType
	}
	return nil
}

func collapseJSON(mediaType string) string {
	if strings.Contains(mediaType, "json") {
		return "json"
	}
	return mediaType
}

func intersects(a, b []string) bool {
	for _, x := range a {
		if contains(b, x) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func clone(s []string) []string {
	return append([]string(nil), s...)
}
