package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TitleRef, ClassRef and SubjectRef are the read-only projections attached to
// children when their ancestors are resolved. They are never persisted.
type TitleRef struct {
	TitleID uuid.UUID `json:"id"`
	Name    string    `json:"name"`
}

type ClassRef struct {
	ClassID uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Title   *TitleRef `json:"title"`
}

type SubjectRef struct {
	SubjectID uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Class     *ClassRef `json:"classId"`
}

// ClassWithTitle is a Class with its Title attached.
type ClassWithTitle struct {
	Class
	Title *TitleRef `json:"title"`
}

// SubjectWithClass is a Subject whose classId is replaced by the resolved Class and
// its Title in JSON output. A missing class leaves the raw classId in the output.
type SubjectWithClass struct {
	Subject
	Class *ClassRef `json:"classId"`
}

// ChapterChain is a Chapter whose subjectId is replaced by the resolved
// Subject → Class → Title chain in JSON output. Links are nil when an ancestor no
// longer exists; a missing subject leaves the raw subjectId in the output.
type ChapterChain struct {
	Chapter
	Subject *SubjectRef `json:"subjectId"`
}

// Complete reports whether every ancestor of the chapter was found.
func (c *ChapterChain) Complete() bool {
	return c.Subject != nil && c.Subject.Class != nil && c.Subject.Class.Title != nil
}

// ClassID returns the id of the resolved class, or uuid.Nil.
func (c *ChapterChain) ClassID() uuid.UUID {
	if c.Subject == nil || c.Subject.Class == nil {
		return uuid.Nil
	}
	return c.Subject.Class.ClassID
}

// TitleID returns the id of the resolved title, or uuid.Nil.
func (c *ChapterChain) TitleID() uuid.UUID {
	if c.Subject == nil || c.Subject.Class == nil || c.Subject.Class.Title == nil {
		return uuid.Nil
	}
	return c.Subject.Class.Title.TitleID
}

// hasObject reports whether the JSON value of key in b is an object.
func hasObject(b []byte, key string) (bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return false, err
	}
	v := fields[key]
	return len(v) > 0 && v[0] == '{', nil
}

func (s SubjectWithClass) MarshalJSON() ([]byte, error) {
	if s.Class == nil {
		return json.Marshal(s.Subject)
	}
	type subject SubjectWithClass
	return json.Marshal(subject(s))
}

func (s *SubjectWithClass) UnmarshalJSON(b []byte) error {
	resolved, err := hasObject(b, "classId")
	if err != nil {
		return err
	}
	if !resolved {
		*s = SubjectWithClass{}
		return json.Unmarshal(b, &s.Subject)
	}
	type subject SubjectWithClass
	var v subject
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	v.Subject.ClassID = v.Class.ClassID
	*s = SubjectWithClass(v)
	return nil
}

func (c ChapterChain) MarshalJSON() ([]byte, error) {
	if c.Subject == nil {
		return json.Marshal(c.Chapter)
	}
	type chain ChapterChain
	return json.Marshal(chain(c))
}

func (c *ChapterChain) UnmarshalJSON(b []byte) error {
	resolved, err := hasObject(b, "subjectId")
	if err != nil {
		return err
	}
	if !resolved {
		*c = ChapterChain{}
		return json.Unmarshal(b, &c.Chapter)
	}
	type chain ChapterChain
	var v chain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	v.Chapter.SubjectID = v.Subject.SubjectID
	*c = ChapterChain(v)
	return nil
}
