package catalogmanager

import (
	"context"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
)

var myDetailErrors = kindErrors{notFound: ErrMyDetailNotFound, exists: ErrConflict}

// GetMyDetail returns the my-details record, or ErrMyDetailNotFound before it was
// first saved.
func GetMyDetail(ctx context.Context) (*models.MyDetail, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	d, err := store.GetMyDetail(ctx)
	if err != nil {
		return nil, storeErr(ctx, err, myDetailErrors)
	}
	return d, nil
}

// SaveMyDetail creates the record on first use and afterwards merges the supplied
// fields into it. There is never more than one record.
func SaveMyDetail(ctx context.Context, req *api.MyDetailReq) (*models.MyDetail, apperrors.Error) {
	if req == nil {
		return nil, ErrInvalidSchema
	}
	for _, f := range []**string{
		&req.CVLink, &req.YoutubeLink, &req.LinkedinLink, &req.GithubLink,
		&req.FacebookLink, &req.InstagramLink, &req.Email, &req.ContactNumber,
	} {
		*f = trimPtr(*f)
	}
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}

	d, err := store.UpsertMyDetail(ctx, models.MyDetailUpdate{
		CVLink:        req.CVLink,
		YoutubeLink:   req.YoutubeLink,
		LinkedinLink:  req.LinkedinLink,
		GithubLink:    req.GithubLink,
		FacebookLink:  req.FacebookLink,
		InstagramLink: req.InstagramLink,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		UpdatedAt:     timeNow(),
	})
	if err != nil {
		return nil, storeErr(ctx, err, myDetailErrors)
	}
	log.Ctx(ctx).Info().Msg("my details saved")
	return d, nil
}
