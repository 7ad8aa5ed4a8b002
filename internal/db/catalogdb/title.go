package catalogdb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/rs/zerolog/log"
)

const titleColumns = `title_id, name, description, created_at, updated_at`

// CreateTitle inserts a new title. The name must not be taken by another title.
func (h *catalogDb) CreateTitle(ctx context.Context, title *models.Title) apperrors.Error {
	if title.TitleID == uuid.Nil {
		title.TitleID = uuid.New()
	}
	query := `
		INSERT INTO titles (title_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?);`

	_, err := h.conn().ExecContext(ctx, h.q(query),
		title.TitleID, title.Name, title.Description, title.CreatedAt, title.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Ctx(ctx).Info().Str("name", title.Name).Msg("title already exists")
			return dberror.ErrAlreadyExists.Msg("title already exists")
		}
		log.Ctx(ctx).Error().Err(err).Str("name", title.Name).Msg("failed to insert title")
		return dbErr(err)
	}
	return nil
}

func (h *catalogDb) GetTitle(ctx context.Context, titleID uuid.UUID) (*models.Title, apperrors.Error) {
	query := `SELECT ` + titleColumns + ` FROM titles WHERE title_id = ?;`

	var t models.Title
	err := h.conn().QueryRowContext(ctx, h.q(query), titleID).
		Scan(&t.TitleID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("title not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("title_id", titleID.String()).Msg("failed to retrieve title")
		return nil, dbErr(err)
	}
	return &t, nil
}

// ListTitles returns all titles, newest first.
func (h *catalogDb) ListTitles(ctx context.Context) ([]*models.Title, apperrors.Error) {
	query := `SELECT ` + titleColumns + ` FROM titles ORDER BY created_at DESC, title_id DESC;`

	rows, err := h.conn().QueryContext(ctx, query)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var result []*models.Title
	for rows.Next() {
		var t models.Title
		if err := rows.Scan(&t.TitleID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan title row")
			return nil, dbErr(err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return result, nil
}

func (h *catalogDb) UpdateTitle(ctx context.Context, titleID uuid.UUID, upd models.EntityUpdate) (*models.Title, apperrors.Error) {
	query := `
		UPDATE titles
		SET name = COALESCE(` + h.param("text") + `, name),
		    description = COALESCE(` + h.param("text") + `, description),
		    updated_at = ?
		WHERE title_id = ?;`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		nullString(upd.Name), nullString(upd.Description), upd.UpdatedAt, titleID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dberror.ErrAlreadyExists.Msg("title already exists")
		}
		log.Ctx(ctx).Error().Err(err).Str("title_id", titleID.String()).Msg("failed to update title")
		return nil, dbErr(err)
	}
	if err := rowsAffected(result, "title not found"); err != nil {
		return nil, err
	}

	var t models.Title
	err = h.conn().QueryRowContext(ctx, h.q(`SELECT ` + titleColumns + ` FROM titles WHERE title_id = ?;`), titleID).
		Scan(&t.TitleID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("title not found")
		}
		return nil, dbErr(err)
	}
	return &t, nil
}

// DeleteTitle removes a title. Classes under it are left in place.
func (h *catalogDb) DeleteTitle(ctx context.Context, titleID uuid.UUID) apperrors.Error {
	result, err := h.conn().ExecContext(ctx, h.q(`DELETE FROM titles WHERE title_id = ?;`), titleID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("title_id", titleID.String()).Msg("failed to delete title")
		return dbErr(err)
	}
	return rowsAffected(result, "title not found")
}
