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

const classColumns = `class_id, title_id, name, description, created_at, updated_at`

const selectClassWithTitle = `
		SELECT c.class_id, c.title_id, c.name, c.description, c.created_at, c.updated_at,
		       t.title_id, t.name
		FROM classes c
		LEFT JOIN titles t ON t.title_id = c.title_id`

// CreateClass inserts a class under an existing title. The parent check and the
// insert are a single statement, so a missing title inserts nothing.
func (h *catalogDb) CreateClass(ctx context.Context, class *models.Class) apperrors.Error {
	if class.ClassID == uuid.Nil {
		class.ClassID = uuid.New()
	}
	query := `
		INSERT INTO classes (class_id, title_id, name, description, created_at, updated_at)
		SELECT ` + h.param("uuid") + `, ` + h.param("uuid") + `, ` + h.param("text") + `, ` + h.param("text") + `, ` +
		h.param("timestamptz") + `, ` + h.param("timestamptz") + `
		WHERE EXISTS (SELECT 1 FROM titles WHERE title_id = ?);`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		class.ClassID, class.TitleID, class.Name, class.Description, class.CreatedAt, class.UpdatedAt,
		class.TitleID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Ctx(ctx).Info().Str("name", class.Name).Str("title_id", class.TitleID.String()).Msg("class already exists")
			return dberror.ErrAlreadyExists.Msg("class already exists for this title")
		}
		log.Ctx(ctx).Error().Err(err).Str("name", class.Name).Msg("failed to insert class")
		return dbErr(err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return dbErr(err)
	} else if n == 0 {
		return dberror.ErrParentNotFound.Msg("title not found")
	}
	return nil
}

func (h *catalogDb) GetClass(ctx context.Context, classID uuid.UUID) (*models.ClassWithTitle, apperrors.Error) {
	query := selectClassWithTitle + ` WHERE c.class_id = ?;`

	c, err := scanClassWithTitle(h.conn().QueryRowContext(ctx, h.q(query), classID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("class not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("class_id", classID.String()).Msg("failed to retrieve class")
		return nil, dbErr(err)
	}
	return c, nil
}

// ListClasses returns the classes of a title, or every class when titleID is Nil,
// newest first.
func (h *catalogDb) ListClasses(ctx context.Context, titleID uuid.UUID) ([]*models.ClassWithTitle, apperrors.Error) {
	query := selectClassWithTitle
	var args []any
	if titleID != uuid.Nil {
		query += ` WHERE c.title_id = ?`
		args = append(args, titleID)
	}
	query += ` ORDER BY c.created_at DESC, c.class_id DESC;`

	rows, err := h.conn().QueryContext(ctx, h.q(query), args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var result []*models.ClassWithTitle
	for rows.Next() {
		c, err := scanClassWithTitle(rows)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan class row")
			return nil, dbErr(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return result, nil
}

func (h *catalogDb) UpdateClass(ctx context.Context, classID uuid.UUID, upd models.EntityUpdate) (*models.Class, apperrors.Error) {
	query := `
		UPDATE classes
		SET name = COALESCE(` + h.param("text") + `, name),
		    description = COALESCE(` + h.param("text") + `, description),
		    updated_at = ?
		WHERE class_id = ?;`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		nullString(upd.Name), nullString(upd.Description), upd.UpdatedAt, classID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dberror.ErrAlreadyExists.Msg("class already exists for this title")
		}
		log.Ctx(ctx).Error().Err(err).Str("class_id", classID.String()).Msg("failed to update class")
		return nil, dbErr(err)
	}
	if err := rowsAffected(result, "class not found"); err != nil {
		return nil, err
	}

	var c models.Class
	err = h.conn().QueryRowContext(ctx, h.q(`SELECT ` + classColumns + ` FROM classes WHERE class_id = ?;`), classID).
		Scan(&c.ClassID, &c.TitleID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("class not found")
		}
		return nil, dbErr(err)
	}
	return &c, nil
}

// DeleteClass removes a class. Subjects under it are left in place.
func (h *catalogDb) DeleteClass(ctx context.Context, classID uuid.UUID) apperrors.Error {
	result, err := h.conn().ExecContext(ctx, h.q(`DELETE FROM classes WHERE class_id = ?;`), classID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("class_id", classID.String()).Msg("failed to delete class")
		return dbErr(err)
	}
	return rowsAffected(result, "class not found")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassWithTitle(row rowScanner) (*models.ClassWithTitle, error) {
	var (
		c         models.ClassWithTitle
		titleID   uuid.NullUUID
		titleName sql.NullString
	)
	err := row.Scan(&c.ClassID, &c.TitleID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt,
		&titleID, &titleName)
	if err != nil {
		return nil, err
	}
	if titleID.Valid {
		c.Title = &models.TitleRef{TitleID: titleID.UUID, Name: titleName.String}
	}
	return &c, nil
}
