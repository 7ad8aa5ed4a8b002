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

// CreateClass adds a class to an existing title and returns it with the title
// attached.
func CreateClass(ctx context.Context, req *api.CreateClassReq) (*models.ClassWithTitle, apperrors.Error) {
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
	c := &models.Class{
		ClassID:     uuid.New(),
		TitleID:     req.TitleID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateClass(ctx, c); err != nil {
		return nil, storeErr(ctx, err, classErrors)
	}
	log.Ctx(ctx).Info().Str("class_id", c.ClassID.String()).Str("name", c.Name).Msg("class created")
	return GetClass(ctx, c.ClassID)
}

func UpdateClass(ctx context.Context, req *api.UpdateClassReq) (*models.ClassWithTitle, apperrors.Error) {
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

	_, err = store.UpdateClass(ctx, req.ID, models.EntityUpdate{
		Name:        req.Name,
		Description: trimPtr(req.Description),
		UpdatedAt:   timeNow(),
	})
	if err != nil {
		return nil, storeErr(ctx, err, classErrors)
	}
	return GetClass(ctx, req.ID)
}

// DeleteClass removes a class. Its subjects are kept and become orphans.
func DeleteClass(ctx context.Context, id uuid.UUID) apperrors.Error {
	if id == uuid.Nil {
		return ErrValidation.WithFields(apperrors.FieldError{Field: "id", Reason: "missing required attribute"})
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return err
	}
	if err := store.DeleteClass(ctx, id); err != nil {
		return storeErr(ctx, err, classErrors)
	}
	log.Ctx(ctx).Info().Str("class_id", id.String()).Msg("class deleted")
	return nil
}

func GetClass(ctx context.Context, id uuid.UUID) (*models.ClassWithTitle, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	c, err := store.GetClass(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, err, classErrors)
	}
	return c, nil
}

// ListClasses returns the classes of titleID, or of every title when it is Nil,
// whose name contains name. Newest first.
func ListClasses(ctx context.Context, titleID uuid.UUID, name string) ([]*models.ClassWithTitle, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := store.ListClasses(ctx, titleID)
	if err != nil {
		return nil, storeErr(ctx, err, classErrors)
	}
	result := make([]*models.ClassWithTitle, 0, len(classes))
	for _, c := range classes {
		if browse.NameContains(c.Name, name) {
			result = append(result, c)
		}
	}
	return result, nil
}
