package models

import (
	"time"

	"github.com/google/uuid"
)

/*
   Column      |     Type      | Nullable
---------------+---------------+----------
 title_id      | uuid          | not null (pk)
 name          | varchar(256)  | not null, unique
 description   | text          |
 created_at    | timestamptz   | not null
 updated_at    | timestamptz   | not null
*/

// Title is the root of the note catalog, for example a program or course.
type Title struct {
	TitleID     uuid.UUID `db:"title_id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Class is a grade, level or semester under a Title. (title_id, name) is unique.
type Class struct {
	ClassID     uuid.UUID `db:"class_id" json:"id"`
	TitleID     uuid.UUID `db:"title_id" json:"titleId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Subject is a course under a Class. (class_id, name) is unique.
type Subject struct {
	SubjectID   uuid.UUID `db:"subject_id" json:"id"`
	ClassID     uuid.UUID `db:"class_id" json:"classId"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// Chapter is a single note linking to a document hosted on Google Drive.
// (subject_id, name) is unique.
type Chapter struct {
	ChapterID   uuid.UUID `db:"chapter_id" json:"id"`
	SubjectID   uuid.UUID `db:"subject_id" json:"subjectId"`
	Name        string    `db:"name" json:"name"`
	DriveLink   string    `db:"drive_link" json:"driveLink"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EntityUpdate carries the mutable fields of a catalog entity. Nil fields are left
// unchanged. DriveLink only applies to chapters.
type EntityUpdate struct {
	Name        *string
	Description *string
	DriveLink   *string
	UpdatedAt   time.Time
}

// ChapterQuery selects chapters by their position in the hierarchy. Nil ids are ignored.
type ChapterQuery struct {
	ChapterID uuid.UUID
	SubjectID uuid.UUID
	ClassID   uuid.UUID
	TitleID   uuid.UUID
}
