// Package catalogmanager is the only entry point for changing the note catalog. It
// validates requests, stamps timestamps, and translates store failures into the
// catalog error taxonomy.
package catalogmanager

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager/schema/schemavalidator"
	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/rs/zerolog/log"
)

var timeNow = func() time.Time {
	return time.Now().UTC()
}

// catalogDB returns the store bound to the request, or ErrUnavailable when no
// connection could be acquired.
func catalogDB(ctx context.Context) (db.CatalogDB, apperrors.Error) {
	store := db.DB(ctx)
	if store == nil {
		return nil, ErrUnavailable.Msg("no database connection")
	}
	return store, nil
}

func validateRequest(req any) apperrors.Error {
	err := schemavalidator.V().Struct(req)
	if err == nil {
		return nil
	}
	fields := schemavalidator.FieldErrors(err)
	if len(fields) == 0 {
		return ErrInvalidSchema.Err(err)
	}
	return ErrValidation.WithFields(fields...)
}

// kindErrors are the errors reported for one entity kind.
type kindErrors struct {
	notFound       apperrors.Error
	parentNotFound apperrors.Error
	exists         apperrors.Error
}

var (
	titleErrors   = kindErrors{notFound: ErrTitleNotFound, exists: ErrTitleExists}
	classErrors   = kindErrors{notFound: ErrClassNotFound, parentNotFound: ErrTitleNotFound, exists: ErrClassExists}
	subjectErrors = kindErrors{notFound: ErrSubjectNotFound, parentNotFound: ErrClassNotFound, exists: ErrSubjectExists}
	chapterErrors = kindErrors{notFound: ErrChapterNotFound, parentNotFound: ErrSubjectNotFound, exists: ErrChapterExists}
)

// storeErr maps a store error onto the catalog taxonomy.
func storeErr(ctx context.Context, err apperrors.Error, k kindErrors) apperrors.Error {
	switch {
	case errors.Is(err, dberror.ErrParentNotFound):
		if k.parentNotFound != nil {
			return k.parentNotFound
		}
		return ErrBrokenChain
	case errors.Is(err, dberror.ErrNotFound):
		return k.notFound
	case errors.Is(err, dberror.ErrAlreadyExists):
		return k.exists
	case errors.Is(err, dberror.ErrInvalidInput):
		return ErrValidation.Err(err)
	case errors.Is(err, dberror.ErrUnavailable):
		log.Ctx(ctx).Warn().Err(err).Msg("catalog store unavailable")
		return ErrUnavailable.Err(err)
	}
	log.Ctx(ctx).Error().Err(err).Msg("unexpected store error")
	return ErrCatalogError.Err(err)
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Health checks that the store bound to the request answers.
func Health(ctx context.Context) apperrors.Error {
	store, err := catalogDB(ctx)
	if err != nil {
		return err
	}
	if err := store.Ping(ctx); err != nil {
		return ErrUnavailable.Err(err)
	}
	return nil
}
