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

const subjectColumns = `subject_id, class_id, name, description, created_at, updated_at`

const selectSubjectWithClass = `
		SELECT s.subject_id, s.class_id, s.name, s.description, s.created_at, s.updated_at,
		       c.class_id, c.name, t.title_id, t.name
		FROM subjects s
		LEFT JOIN classes c ON c.class_id = s.class_id
		LEFT JOIN titles t ON t.title_id = c.title_id`

// CreateSubject inserts a subject under an existing class.
func (h *catalogDb) CreateSubject(ctx context.Context, subject *models.Subject) apperrors.Error {
	if subject.SubjectID == uuid.Nil {
		subject.SubjectID = uuid.New()
	}
	query := `
		INSERT INTO subjects (subject_id, class_id, name, description, created_at, updated_at)
		SELECT ` + h.param("uuid") + `, ` + h.param("uuid") + `, ` + h.param("text") + `, ` + h.param("text") + `, ` +
		h.param("timestamptz") + `, ` + h.param("timestamptz") + `
		WHERE EXISTS (SELECT 1 FROM classes WHERE class_id = ?);`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		subject.SubjectID, subject.ClassID, subject.Name, subject.Description, subject.CreatedAt, subject.UpdatedAt,
		subject.ClassID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Ctx(ctx).Info().Str("name", subject.Name).Str("class_id", subject.ClassID.String()).Msg("subject already exists")
			return dberror.ErrAlreadyExists.Msg("subject already exists for this class")
		}
		log.Ctx(ctx).Error().Err(err).Str("name", subject.Name).Msg("failed to insert subject")
		return dbErr(err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return dbErr(err)
	} else if n == 0 {
		return dberror.ErrParentNotFound.Msg("class not found")
	}
	return nil
}

func (h *catalogDb) GetSubject(ctx context.Context, subjectID uuid.UUID) (*models.SubjectWithClass, apperrors.Error) {
	query := selectSubjectWithClass + ` WHERE s.subject_id = ?;`

	s, err := scanSubjectWithClass(h.conn().QueryRowContext(ctx, h.q(query), subjectID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("subject not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("subject_id", subjectID.String()).Msg("failed to retrieve subject")
		return nil, dbErr(err)
	}
	return s, nil
}

// ListSubjects returns the subjects of a class, or every subject when classID is Nil,
// newest first.
func (h *catalogDb) ListSubjects(ctx context.Context, classID uuid.UUID) ([]*models.SubjectWithClass, apperrors.Error) {
	query := selectSubjectWithClass
	var args []any
	if classID != uuid.Nil {
		query += ` WHERE s.class_id = ?`
		args = append(args, classID)
	}
	query += ` ORDER BY s.created_at DESC, s.subject_id DESC;`

	rows, err := h.conn().QueryContext(ctx, h.q(query), args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var result []*models.SubjectWithClass
	for rows.Next() {
		s, err := scanSubjectWithClass(rows)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan subject row")
			return nil, dbErr(err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return result, nil
}

func (h *catalogDb) UpdateSubject(ctx context.Context, subjectID uuid.UUID, upd models.EntityUpdate) (*models.Subject, apperrors.Error) {
	query := `
		UPDATE subjects
		SET name = COALESCE(` + h.param("text") + `, name),
		    description = COALESCE(` + h.param("text") + `, description),
		    updated_at = ?
		WHERE subject_id = ?;`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		nullString(upd.Name), nullString(upd.Description), upd.UpdatedAt, subjectID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dberror.ErrAlreadyExists.Msg("subject already exists for this class")
		}
		log.Ctx(ctx).Error().Err(err).Str("subject_id", subjectID.String()).Msg("failed to update subject")
		return nil, dbErr(err)
	}
	if err := rowsAffected(result, "subject not found"); err != nil {
		return nil, err
	}

	var s models.Subject
	err = h.conn().QueryRowContext(ctx, h.q(`SELECT ` + subjectColumns + ` FROM subjects WHERE subject_id = ?;`), subjectID).
		Scan(&s.SubjectID, &s.ClassID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("subject not found")
		}
		return nil, dbErr(err)
	}
	return &s, nil
}

// DeleteSubject removes a subject. Chapters under it are left in place.
func (h *catalogDb) DeleteSubject(ctx context.Context, subjectID uuid.UUID) apperrors.Error {
	result, err := h.conn().ExecContext(ctx, h.q(`DELETE FROM subjects WHERE subject_id = ?;`), subjectID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("subject_id", subjectID.String()).Msg("failed to delete subject")
		return dbErr(err)
	}
	return rowsAffected(result, "subject not found")
}

func scanSubjectWithClass(row rowScanner) (*models.SubjectWithClass, error) {
	var (
		s         models.SubjectWithClass
		classID   uuid.NullUUID
		className sql.NullString
		titleID   uuid.NullUUID
		titleName sql.NullString
	)
	err := row.Scan(&s.SubjectID, &s.ClassID, &s.Name, &s.Description, &s.CreatedAt, &s.UpdatedAt,
		&classID, &className, &titleID, &titleName)
	if err != nil {
		return nil, err
	}
	if classID.Valid {
		s.Class = &models.ClassRef{ClassID: classID.UUID, Name: className.String}
		if titleID.Valid {
			s.Class.Title = &models.TitleRef{TitleID: titleID.UUID, Name: titleName.String}
		}
	}
	return &s, nil
}
