package service

import (
	"errors"

	"github.com/brightfield-labs/vectordb/internal/apierr"
	"github.com/brightfield-labs/vectordb/internal/store"
)

// wrapStoreErr translates a store.NotFoundError into the typed apierr
// category naming the right noun, so the HTTP boundary never has to
// string-match on the underlying error.
func wrapStoreErr(err error, resource string) error {
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		return apierr.NotFound(resource, notFound.ID.String())
	}
	return err
}
