// Package deprecation describes deprecated endpoints and renders the Sunset and
// Link response headers announcing them.
//
// Deprecations are registered per handler in a static Registry built at startup.
// A handler is either deprecated as a whole (resource scope) or for individual
// HTTP methods (method scope), never both.
package deprecation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Default values for the Link header relation and media type.
const (
	DefaultRel  = "sunset"
	DefaultType = "text/html"
)

// SunsetLayout is the accepted format of a sunset date.
const SunsetLayout = "2006-01-02"

// Scope names used in the conflict message.
const (
	ResourceScope = "ResourceDeprecation"
	MethodScope   = "MethodDeprecation"
)

// Error is a deprecation configuration error. Its text is shown to operators as is.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrInvalidSunset is returned when a sunset date is not YYYY-MM-DD.
	ErrInvalidSunset Error = "The value specified for 'sunset' is invalid."

	// ErrConflict is returned when a handler carries both resource and method deprecations.
	ErrConflict Error = "Cannot use both `" + ResourceScope + "` and `" + MethodScope +
		"` attributes on the same object."
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New()

// Deprecation describes a single deprecation notice.
type Deprecation struct {
	Sunset string `validate:"omitempty,datetime=2006-01-02"`
	Link   string
	Rel    string
	Type   string
	Reason string
}

// Option configures a Deprecation.
type Option func(*Deprecation)

// WithSunset sets the date after which the endpoint may be removed.
func WithSunset(date string) Option {
	return func(d *Deprecation) { d.Sunset = date }
}

// WithLink sets the documentation link. When empty, the documentation URL
// passed to Header is used instead.
func WithLink(link string) Option {
	return func(d *Deprecation) { d.Link = link }
}

// WithRel overrides the Link relation.
func WithRel(rel string) Option {
	return func(d *Deprecation) { d.Rel = rel }
}

// WithType overrides the Link media type.
func WithType(typ string) Option {
	return func(d *Deprecation) { d.Type = typ }
}

// WithReason records why the endpoint is deprecated. It is not sent to clients.
func WithReason(reason string) Option {
	return func(d *Deprecation) { d.Reason = reason }
}

// New builds a Deprecation and validates its sunset date.
func New(opts ...Option) (Deprecation, error) {
	d := Deprecation{Rel: DefaultRel, Type: DefaultType}
	for _, opt := range opts {
		opt(&d)
	}

	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Sunset" {
					return Deprecation{}, ErrInvalidSunset
				}
			}
		}
		return Deprecation{}, fmt.Errorf("invalid deprecation: %w", err)
	}

	return d, nil
}

// MustNew is like New but panics on error. Use it for static registrations.
func MustNew(opts ...Option) Deprecation {
	d, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("deprecation: %v", err))
	}
	return d
}

// LinkHeader formats the Link header value, falling back to documentationURL
// when the deprecation has no link of its own. It returns "" when neither is set.
func (d Deprecation) LinkHeader(documentationURL string) string {
	link := d.Link
	if link == "" {
		link = documentationURL
	}
	if link == "" {
		return ""
	}
	return FormatLink(link, d.Rel, d.Type)
}

// FormatLink renders `link;rel="rel";type="type"`, omitting empty parts.
func FormatLink(link, rel, typ string) string {
	parts := make([]string, 0, 3)
	if link != "" {
		parts = append(parts, link)
	}
	if rel != "" {
		parts = append(parts, fmt.Sprintf("rel=%q", rel))
	}
	if typ != "" {
		parts = append(parts, fmt.Sprintf("type=%q", typ))
	}
	return strings.Join(parts, ";")
}

// Spec holds the deprecations declared on one handler.
type Spec struct {
	Resource *Deprecation
	Methods  map[string]Deprecation
}

// Select returns the deprecation that applies to method. A resource deprecation
// applies to every method. Method keys match case-insensitively.
func (s Spec) Select(method string) (*Deprecation, error) {
	if s.Resource != nil && len(s.Methods) > 0 {
		return nil, ErrConflict
	}
	if s.Resource != nil {
		d := *s.Resource
		return &d, nil
	}
	for verb, d := range s.Methods {
		if strings.EqualFold(verb, method) {
			d := d
			return &d, nil
		}
	}
	return nil, nil
}

// Registry maps handler names to their deprecations. It is built once at
// startup and read concurrently afterwards.
type Registry map[string]Spec

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return Registry{}
}

// Resource deprecates every method served by handler.
func (r Registry) Resource(handler string, d Deprecation) Registry {
	spec := r[handler]
	spec.Resource = &d
	r[handler] = spec
	return r
}

// Method deprecates a single HTTP method served by handler.
func (r Registry) Method(handler, method string, d Deprecation) Registry {
	spec := r[handler]
	if spec.Methods == nil {
		spec.Methods = map[string]Deprecation{}
	}
	spec.Methods[strings.ToUpper(method)] = d
	r[handler] = spec
	return r
}

// Lookup returns the deprecation for handler and method, or nil when none applies.
// It returns ErrConflict when the handler mixes resource and method scopes.
func (r Registry) Lookup(handler, method string) (*Deprecation, error) {
	spec, ok := r[handler]
	if !ok {
		return nil, nil
	}
	d, err := spec.Select(method)
	if err != nil {
		return nil, fmt.Errorf("handler %s: %w", handler, err)
	}
	return d, nil
}
