package catalogmanager

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
)

func CreateTitle(ctx context.Context, req *api.CreateTitleReq) (*models.Title, apperrors.Error) {
	if req == nil {
		return nil, ErrInvalidSchema
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	t := &models.Title{
		TitleID:     uuid.New(),
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateTitle(ctx, t); err != nil {
		return nil, storeErr(ctx, err, titleErrors)
	}
	log.Ctx(ctx).Info().Str("title_id", t.TitleID.String()).Str("name", t.Name).Msg("title created")
	return t, nil
}

func UpdateTitle(ctx context.Context, req *api.UpdateTitleReq) (*models.Title, apperrors.Error) {
	if req == nil {
		return nil, ErrInvalidSchema
	}
	req.Name = trimPtr(req.Name)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}

	t, err := store.UpdateTitle(ctx, req.ID, models.EntityUpdate{
		Name:        req.Name,
		Description: trimPtr(req.Description),
		UpdatedAt:   timeNow(),
	})
	if err != nil {
		return nil, storeErr(ctx, err, titleErrors)
	}
	return t, nil
}

// DeleteTitle removes a title. Its classes are kept and become orphans.
func DeleteTitle(ctx context.Context, id uuid.UUID) apperrors.Error {
	if id == uuid.Nil {
		return ErrValidation.WithFields(apperrors.FieldError{Field: "id", Reason: "missing required attribute"})
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return err
	}
	if err := store.DeleteTitle(ctx, id); err != nil {
		return storeErr(ctx, err, titleErrors)
	}
	log.Ctx(ctx).Info().Str("title_id", id.String()).Msg("title deleted")
	return nil
}

func GetTitle(ctx context.Context, id uuid.UUID) (*models.Title, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	t, err := store.GetTitle(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, err, titleErrors)
	}
	return t, nil
}

// ListTitles returns the titles whose name contains name, newest first.
func ListTitles(ctx context.Context, name string) ([]*models.Title, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	titles, err := store.ListTitles(ctx)
	if err != nil {
		return nil, storeErr(ctx, err, titleErrors)
	}
	result := make([]*models.Title, 0, len(titles))
	for _, t := range titles {
		if browse.NameContains(t.Name, name) {
			result = append(result, t)
		}
	}
	return result, nil
}
