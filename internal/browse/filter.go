// Package browse derives browsing views from catalog data that has already been
// fetched: chapter filtering, the title/class/subject selection cascade, grouping,
// statistics and document previews. Nothing here touches the store.
package browse

import (
	"strings"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"golang.org/x/text/cases"
)

// ChapterFilter selects chapters by position in the hierarchy and by a
// case-insensitive substring of the chapter name. Zero fields match everything.
type ChapterFilter struct {
	TitleID   uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
	ChapterID uuid.UUID
	Name      string
}

// Query returns the part of the filter the store can evaluate.
func (f ChapterFilter) Query() models.ChapterQuery {
	return models.ChapterQuery{
		ChapterID: f.ChapterID,
		SubjectID: f.SubjectID,
		ClassID:   f.ClassID,
		TitleID:   f.TitleID,
	}
}

// Matches reports whether the chapter satisfies the filter. Class and title filters
// only match chapters whose chain reaches that class or title.
func (f ChapterFilter) Matches(c *models.ChapterChain) bool {
	if c == nil {
		return false
	}
	if f.ChapterID != uuid.Nil && c.ChapterID != f.ChapterID {
		return false
	}
	if f.SubjectID != uuid.Nil && c.SubjectID != f.SubjectID {
		return false
	}
	if f.ClassID != uuid.Nil && c.ClassID() != f.ClassID {
		return false
	}
	if f.TitleID != uuid.Nil && c.TitleID() != f.TitleID {
		return false
	}
	return NameContains(c.Name, f.Name)
}

// FilterChapters returns the chapters matching f, keeping their order.
func FilterChapters(chapters []*models.ChapterChain, f ChapterFilter) []*models.ChapterChain {
	result := make([]*models.ChapterChain, 0, len(chapters))
	for _, c := range chapters {
		if f.Matches(c) {
			result = append(result, c)
		}
	}
	return result
}

// NameContains reports whether name contains substr under Unicode case folding.
// An empty or blank substr matches every name.
func NameContains(name, substr string) bool {
	substr = strings.TrimSpace(substr)
	if substr == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(substr))
}
