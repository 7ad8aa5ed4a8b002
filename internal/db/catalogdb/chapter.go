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

const chapterColumns = `chapter_id, subject_id, name, drive_link, description, created_at, updated_at`

const selectChapterChain = `
		SELECT ch.chapter_id, ch.subject_id, ch.name, ch.drive_link, ch.description, ch.created_at, ch.updated_at,
		       s.subject_id, s.name, c.class_id, c.name, t.title_id, t.name
		FROM chapters ch
		LEFT JOIN subjects s ON s.subject_id = ch.subject_id
		LEFT JOIN classes c ON c.class_id = s.class_id
		LEFT JOIN titles t ON t.title_id = c.title_id`

// CreateChapter inserts a chapter under an existing subject.
func (h *catalogDb) CreateChapter(ctx context.Context, chapter *models.Chapter) apperrors.Error {
	if chapter.ChapterID == uuid.Nil {
		chapter.ChapterID = uuid.New()
	}
	query := `
		INSERT INTO chapters (chapter_id, subject_id, name, drive_link, description, created_at, updated_at)
		SELECT ` + h.param("uuid") + `, ` + h.param("uuid") + `, ` + h.param("text") + `, ` + h.param("text") + `, ` +
		h.param("text") + `, ` + h.param("timestamptz") + `, ` + h.param("timestamptz") + `
		WHERE EXISTS (SELECT 1 FROM subjects WHERE subject_id = ?);`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		chapter.ChapterID, chapter.SubjectID, chapter.Name, chapter.DriveLink, chapter.Description,
		chapter.CreatedAt, chapter.UpdatedAt, chapter.SubjectID)
	if err != nil {
		if isUniqueViolation(err) {
			log.Ctx(ctx).Info().Str("name", chapter.Name).Str("subject_id", chapter.SubjectID.String()).Msg("chapter already exists")
			return dberror.ErrAlreadyExists.Msg("chapter already exists for this subject")
		}
		log.Ctx(ctx).Error().Err(err).Str("name", chapter.Name).Msg("failed to insert chapter")
		return dbErr(err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return dbErr(err)
	} else if n == 0 {
		return dberror.ErrParentNotFound.Msg("subject not found")
	}
	return nil
}

func (h *catalogDb) GetChapter(ctx context.Context, chapterID uuid.UUID) (*models.Chapter, apperrors.Error) {
	query := `SELECT ` + chapterColumns + ` FROM chapters WHERE chapter_id = ?;`

	var c models.Chapter
	err := h.conn().QueryRowContext(ctx, h.q(query), chapterID).
		Scan(&c.ChapterID, &c.SubjectID, &c.Name, &c.DriveLink, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("chapter not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("chapter_id", chapterID.String()).Msg("failed to retrieve chapter")
		return nil, dbErr(err)
	}
	return &c, nil
}

func (h *catalogDb) UpdateChapter(ctx context.Context, chapterID uuid.UUID, upd models.EntityUpdate) (*models.Chapter, apperrors.Error) {
	query := `
		UPDATE chapters
		SET name = COALESCE(` + h.param("text") + `, name),
		    drive_link = COALESCE(` + h.param("text") + `, drive_link),
		    description = COALESCE(` + h.param("text") + `, description),
		    updated_at = ?
		WHERE chapter_id = ?;`

	result, err := h.conn().ExecContext(ctx, h.q(query),
		nullString(upd.Name), nullString(upd.DriveLink), nullString(upd.Description), upd.UpdatedAt, chapterID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, dberror.ErrAlreadyExists.Msg("chapter already exists for this subject")
		}
		log.Ctx(ctx).Error().Err(err).Str("chapter_id", chapterID.String()).Msg("failed to update chapter")
		return nil, dbErr(err)
	}
	if err := rowsAffected(result, "chapter not found"); err != nil {
		return nil, err
	}

	var c models.Chapter
	err = h.conn().QueryRowContext(ctx, h.q(`SELECT ` + chapterColumns + ` FROM chapters WHERE chapter_id = ?;`), chapterID).
		Scan(&c.ChapterID, &c.SubjectID, &c.Name, &c.DriveLink, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("chapter not found")
		}
		return nil, dbErr(err)
	}
	return &c, nil
}

func (h *catalogDb) DeleteChapter(ctx context.Context, chapterID uuid.UUID) apperrors.Error {
	result, err := h.conn().ExecContext(ctx, h.q(`DELETE FROM chapters WHERE chapter_id = ?;`), chapterID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("chapter_id", chapterID.String()).Msg("failed to delete chapter")
		return dbErr(err)
	}
	return rowsAffected(result, "chapter not found")
}

// ResolveChapter returns the chapter with its subject, class and title attached. It
// fails with ErrNotFound when the chapter or any of its ancestors is missing.
func (h *catalogDb) ResolveChapter(ctx context.Context, chapterID uuid.UUID) (*models.ChapterChain, apperrors.Error) {
	query := selectChapterChain + ` WHERE ch.chapter_id = ?;`

	c, err := scanChapterChain(h.conn().QueryRowContext(ctx, h.q(query), chapterID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dberror.ErrNotFound.Msg("chapter not found")
		}
		log.Ctx(ctx).Error().Err(err).Str("chapter_id", chapterID.String()).Msg("failed to resolve chapter")
		return nil, dbErr(err)
	}
	switch {
	case c.Subject == nil:
		return nil, dberror.ErrParentNotFound.Msg("subject of chapter not found")
	case c.Subject.Class == nil:
		return nil, dberror.ErrParentNotFound.Msg("class of chapter not found")
	case c.Subject.Class.Title == nil:
		return nil, dberror.ErrParentNotFound.Msg("title of chapter not found")
	}
	return c, nil
}

// ListChapterChains returns the chapters selected by q, newest first. Chains of
// orphaned chapters stop at the first missing ancestor.
func (h *catalogDb) ListChapterChains(ctx context.Context, q models.ChapterQuery) ([]*models.ChapterChain, apperrors.Error) {
	query := selectChapterChain + ` WHERE 1 = 1`
	var args []any
	if q.ChapterID != uuid.Nil {
		query += ` AND ch.chapter_id = ?`
		args = append(args, q.ChapterID)
	}
	if q.SubjectID != uuid.Nil {
		query += ` AND ch.subject_id = ?`
		args = append(args, q.SubjectID)
	}
	if q.ClassID != uuid.Nil {
		query += ` AND c.class_id = ?`
		args = append(args, q.ClassID)
	}
	if q.TitleID != uuid.Nil {
		query += ` AND t.title_id = ?`
		args = append(args, q.TitleID)
	}
	query += ` ORDER BY ch.created_at DESC, ch.chapter_id DESC;`

	rows, err := h.conn().QueryContext(ctx, h.q(query), args...)
	if err != nil {
		return nil, dbErr(err)
	}
	defer rows.Close()

	var result []*models.ChapterChain
	for rows.Next() {
		c, err := scanChapterChain(rows)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msg("failed to scan chapter row")
			return nil, dbErr(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbErr(err)
	}
	return result, nil
}

func scanChapterChain(row rowScanner) (*models.ChapterChain, error) {
	var (
		c           models.ChapterChain
		subjectID   uuid.NullUUID
		subjectName sql.NullString
		classID     uuid.NullUUID
		className   sql.NullString
		titleID     uuid.NullUUID
		titleName   sql.NullString
	)
	err := row.Scan(&c.ChapterID, &c.SubjectID, &c.Name, &c.DriveLink, &c.Description, &c.CreatedAt, &c.UpdatedAt,
		&subjectID, &subjectName, &classID, &className, &titleID, &titleName)
	if err != nil {
		return nil, err
	}
	if !subjectID.Valid {
		return &c, nil
	}
	c.Subject = &models.SubjectRef{SubjectID: subjectID.UUID, Name: subjectName.String}
	if !classID.Valid {
		return &c, nil
	}
	c.Subject.Class = &models.ClassRef{ClassID: classID.UUID, Name: className.String}
	if titleID.Valid {
		c.Subject.Class.Title = &models.TitleRef{TitleID: titleID.UUID, Name: titleName.String}
	}
	return &c, nil
}
