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

// CreateSubject adds a subject to an existing class and returns it with the class
// and title attached.
func CreateSubject(ctx context.Context, req *api.CreateSubjectReq) (*models.SubjectWithClass, apperrors.Error) {
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
	s := &models.Subject{
		SubjectID:   uuid.New(),
		ClassID:     req.ClassID,
		Name:        req.Name,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateSubject(ctx, s); err != nil {
		return nil, storeErr(ctx, err, subjectErrors)
	}
	log.Ctx(ctx).Info().Str("subject_id", s.SubjectID.String()).Str("name", s.Name).Msg("subject created")
	return GetSubject(ctx, s.SubjectID)
}

func UpdateSubject(ctx context.Context, req *api.UpdateSubjectReq) (*models.SubjectWithClass, apperrors.Error) {
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

	_, err = store.UpdateSubject(ctx, req.ID, models.EntityUpdate{
		Name:        req.Name,
		Description: trimPtr(req.Description),
		UpdatedAt:   timeNow(),
	})
	if err != nil {
		return nil, storeErr(ctx, err, subjectErrors)
	}
	return GetSubject(ctx, req.ID)
}

// DeleteSubject removes a subject. Its chapters are kept and become orphans.
func DeleteSubject(ctx context.Context, id uuid.UUID) apperrors.Error {
	if id == uuid.Nil {
		return ErrValidation.WithFields(apperrors.FieldError{Field: "id", Reason: "missing required attribute"})
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return err
	}
	if err := store.DeleteSubject(ctx, id); err != nil {
		return storeErr(ctx, err, subjectErrors)
	}
	log.Ctx(ctx).Info().Str("subject_id", id.String()).Msg("subject deleted")
	return nil
}

func GetSubject(ctx context.Context, id uuid.UUID) (*models.SubjectWithClass, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	s, err := store.GetSubject(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, err, subjectErrors)
	}
	return s, nil
}

// ListSubjects returns the subjects of classID, or of every class when it is Nil,
// whose name contains name. Newest first.
func ListSubjects(ctx context.Context, classID uuid.UUID, name string) ([]*models.SubjectWithClass, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	subjects, err := store.ListSubjects(ctx, classID)
	if err != nil {
		return nil, storeErr(ctx, err, subjectErrors)
	}
	result := make([]*models.SubjectWithClass, 0, len(subjects))
	for _, s := range subjects {
		if browse.NameContains(s.Name, name) {
			result = append(result, s)
		}
	}
	return result, nil
}
