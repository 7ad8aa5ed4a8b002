package catalogdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/rs/zerolog/log"
)

const myDetailColumns = `cv_link, youtube_link, linkedin_link, github_link, facebook_link, instagram_link,
		email, contact_number, created_at, updated_at`

func (h *catalogDb) GetMyDetail(ctx context.Context) (*models.MyDetail, apperrors.Error) {
	query := `SELECT ` + myDetailColumns + ` FROM my_details WHERE slot = ?;`

	d, err := scanMyDetail(h.conn().QueryRowContext(ctx, h.q(query), models.MyDetailSlot))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("my details not found")
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to retrieve my details")
		return nil, dbErr(err)
	}
	return d, nil
}

// UpsertMyDetail creates the record, or merges the supplied fields into it, in a
// single statement. Unsupplied fields of a new record default to empty strings.
func (h *catalogDb) UpsertMyDetail(ctx context.Context, upd models.MyDetailUpdate) (*models.MyDetail, apperrors.Error) {
	fields := []*string{
		upd.CVLink, upd.YoutubeLink, upd.LinkedinLink, upd.GithubLink,
		upd.FacebookLink, upd.InstagramLink, upd.Email, upd.ContactNumber,
	}
	t := h.param("text")
	query := `
		INSERT INTO my_details (slot, cv_link, youtube_link, linkedin_link, github_link, facebook_link,
		                        instagram_link, email, contact_number, created_at, updated_at)
		VALUES (?,
		        COALESCE(` + t + `, ''), COALESCE(` + t + `, ''), COALESCE(` + t + `, ''), COALESCE(` + t + `, ''),
		        COALESCE(` + t + `, ''), COALESCE(` + t + `, ''), COALESCE(` + t + `, ''), COALESCE(` + t + `, ''),
		        ?, ?)
		ON CONFLICT (slot) DO UPDATE SET
		    cv_link = COALESCE(` + t + `, my_details.cv_link),
		    youtube_link = COALESCE(` + t + `, my_details.youtube_link),
		    linkedin_link = COALESCE(` + t + `, my_details.linkedin_link),
		    github_link = COALESCE(` + t + `, my_details.github_link),
		    facebook_link = COALESCE(` + t + `, my_details.facebook_link),
		    instagram_link = COALESCE(` + t + `, my_details.instagram_link),
		    email = COALESCE(` + t + `, my_details.email),
		    contact_number = COALESCE(` + t + `, my_details.contact_number),
		    updated_at = ?;`

	args := make([]any, 0, 2*len(fields)+4)
	args = append(args, models.MyDetailSlot)
	for _, f := range fields {
		args = append(args, nullString(f))
	}
	args = append(args, upd.UpdatedAt, upd.UpdatedAt)
	for _, f := range fields {
		args = append(args, nullString(f))
	}
	args = append(args, upd.UpdatedAt)

	if _, err := h.conn().ExecContext(ctx, h.q(query), args...); err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to save my details")
		return nil, dbErr(err)
	}
	return h.GetMyDetail(ctx)
}

func scanMyDetail(row rowScanner) (*models.MyDetail, error) {
	var d models.MyDetail
	err := row.Scan(&d.CVLink, &d.YoutubeLink, &d.LinkedinLink, &d.GithubLink, &d.FacebookLink,
		&d.InstagramLink, &d.Email, &d.ContactNumber, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
