package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/account-api/internal/api/hal"
	"github.com/phrazzld/account-api/internal/store"
)

// entityPath joins a collection path and an entity id.
func entityPath(base string, id uuid.UUID) string {
	return base + "/" + id.String()
}

// respondEntity renders v as a HAL entity linked to path.
func respondEntity(w http.ResponseWriter, r *http.Request, status int, v interface{}, path string) {
	resource, err := hal.Entity(v, hal.URLFor(r, path))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if status == http.StatusCreated {
		w.Header().Set("Location", resource.Links["self"].Href)
	}
	hal.Respond(w, r, status, resource)
}

// respondCollection renders one page of items under rel. link returns the
// path of a single item.
func respondCollection[T any](
	w http.ResponseWriter,
	r *http.Request,
	rel string,
	items []T,
	page store.Page,
	total int,
	link func(T) string,
) {
	resources := make([]*hal.Resource, 0, len(items))
	for _, item := range items {
		resource, err := hal.Entity(item, hal.URLFor(r, link(item)))
		if err != nil {
			HandleAPIError(w, r, err, "")
			return
		}
		resources = append(resources, resource)
	}
	hal.Respond(w, r, http.StatusOK, hal.Collection(rel, resources, hal.RequestURL(r), page, total))
}
