package browse

import (
	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
)

// Selection is the state of the title → class → subject → chapter dropdowns.
// Choosing a level clears every level below it.
type Selection struct {
	TitleID   uuid.UUID
	ClassID   uuid.UUID
	SubjectID uuid.UUID
	ChapterID uuid.UUID
}

func (s *Selection) SelectTitle(id uuid.UUID) {
	s.TitleID = id
	s.ClassID = uuid.Nil
	s.SubjectID = uuid.Nil
	s.ChapterID = uuid.Nil
}

func (s *Selection) SelectClass(id uuid.UUID) {
	s.ClassID = id
	s.SubjectID = uuid.Nil
	s.ChapterID = uuid.Nil
}

func (s *Selection) SelectSubject(id uuid.UUID) {
	s.SubjectID = id
	s.ChapterID = uuid.Nil
}

func (s *Selection) SelectChapter(id uuid.UUID) {
	s.ChapterID = id
}

// Filter returns the chapter filter for the current selection and search text.
func (s Selection) Filter(name string) ChapterFilter {
	return ChapterFilter{
		TitleID:   s.TitleID,
		ClassID:   s.ClassID,
		SubjectID: s.SubjectID,
		ChapterID: s.ChapterID,
		Name:      name,
	}
}

// ScopeClasses returns the classes of the selected title. Nothing is offered until a
// title is selected.
func (s Selection) ScopeClasses(classes []*models.ClassWithTitle) []*models.ClassWithTitle {
	if s.TitleID == uuid.Nil {
		return nil
	}
	var result []*models.ClassWithTitle
	for _, c := range classes {
		if c.TitleID == s.TitleID {
			result = append(result, c)
		}
	}
	return result
}

// ScopeSubjects returns the subjects of the selected class.
func (s Selection) ScopeSubjects(subjects []*models.SubjectWithClass) []*models.SubjectWithClass {
	if s.ClassID == uuid.Nil {
		return nil
	}
	var result []*models.SubjectWithClass
	for _, sub := range subjects {
		if sub.ClassID == s.ClassID {
			result = append(result, sub)
		}
	}
	return result
}

// ScopeChapters returns the chapters of the selected subject.
func (s Selection) ScopeChapters(chapters []*models.ChapterChain) []*models.ChapterChain {
	if s.SubjectID == uuid.Nil {
		return nil
	}
	return FilterChapters(chapters, ChapterFilter{SubjectID: s.SubjectID})
}
