// Package hal renders entities and paginated collections as HAL documents
// (application/hal+json).
package hal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/phrazzld/account-api/internal/api/shared"
	"github.com/phrazzld/account-api/internal/store"
)

// PageParam is the query parameter selecting a collection page.
const PageParam = "page"

// Link is a single HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links is the _links member of a resource.
type Links map[string]Link

// Resource is a HAL document. Fields holds the state of the resource; links
// and embedded resources are rendered under _links and _embedded.
type Resource struct {
	Fields   map[string]interface{}
	Links    Links
	Embedded map[string][]*Resource
}

// MarshalJSON flattens Fields next to the reserved HAL members.
func (r *Resource) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	if len(r.Links) > 0 {
		out["_links"] = r.Links
	}
	if r.Embedded != nil {
		out["_embedded"] = r.Embedded
	}
	return json.Marshal(out)
}

// Entity builds a resource from v, whose JSON object form becomes the
// resource state, with a self link.
func Entity(v interface{}, self string) (*Resource, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode entity: %w", err)
	}
	fields := map[string]interface{}{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("entity is not a JSON object: %w", err)
	}
	return &Resource{Fields: fields, Links: Links{"self": {Href: self}}}, nil
}

// Collection builds a paginated collection resource. Items are embedded under
// rel; pagination links point at self with the page parameter replaced.
func Collection(rel string, items []*Resource, self *url.URL, page store.Page, total int) *Resource {
	if items == nil {
		items = []*Resource{}
	}
	pageCount := page.PageCount(total)

	links := Links{"self": {Href: pageURL(self, page.Number)}}
	if pageCount > 0 {
		links["first"] = Link{Href: pageURL(self, 1)}
		links["last"] = Link{Href: pageURL(self, pageCount)}
	}
	if page.Number > 1 {
		links["prev"] = Link{Href: pageURL(self, page.Number-1)}
	}
	if page.Number < pageCount {
		links["next"] = Link{Href: pageURL(self, page.Number+1)}
	}

	return &Resource{
		Fields: map[string]interface{}{
			"_page":        page.Number,
			"_page_count":  pageCount,
			"_total_items": total,
		},
		Links:    links,
		Embedded: map[string][]*Resource{rel: items},
	}
}

// RequestURL reconstructs the absolute URL of r. X-Forwarded-Proto is honoured
// when the server sits behind a TLS-terminating proxy.
func RequestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	u.Scheme = "http"
	if r.TLS != nil {
		u.Scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		u.Scheme = proto
	}
	return &u
}

// URLFor returns the absolute URL of path on the host serving r.
func URLFor(r *http.Request, path string) string {
	u := RequestURL(r)
	return (&url.URL{Scheme: u.Scheme, Host: u.Host, Path: path}).String()
}

// PageFromRequest reads the page and per-page query parameters.
func PageFromRequest(r *http.Request) store.Page {
	q := r.URL.Query()
	number, _ := strconv.Atoi(q.Get(PageParam))
	size, _ := strconv.Atoi(q.Get("per_page"))
	return store.NewPage(number, size)
}

// Respond writes resource as application/hal+json.
func Respond(w http.ResponseWriter, r *http.Request, status int, resource *Resource) {
	shared.RespondWithContentType(w, r, status, shared.ContentTypeHAL, resource)
}

func pageURL(self *url.URL, number int) string {
	u := *self
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(number))
	u.RawQuery = q.Encode()
	return u.String()
}
