// Package seed loads a catalog tree from YAML and creates it through the catalog
// service. Entries that already exist are reused, so seeding is repeatable.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
	"sigs.k8s.io/yaml"
)

type Catalog struct {
	Titles []Title `json:"titles"`
}

type Title struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Classes     []Class `json:"classes,omitempty"`
}

type Class struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Subjects    []Subject `json:"subjects,omitempty"`
}

type Subject struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Chapters    []Chapter `json:"chapters,omitempty"`
}

type Chapter struct {
	Name        string `json:"name"`
	DriveLink   string `json:"driveLink"`
	Description string `json:"description,omitempty"`
}

type Counts struct {
	Titles   int `json:"titles"`
	Classes  int `json:"classes"`
	Subjects int `json:"subjects"`
	Chapters int `json:"chapters"`
}

// Report counts the entities created and the existing ones reused.
type Report struct {
	Created Counts `json:"created"`
	Reused  Counts `json:"reused"`
}

// Parse reads a YAML catalog. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := &Catalog{}
	if err := yaml.UnmarshalStrict(b, c); err != nil {
		return nil, fmt.Errorf("invalid seed file: %w", err)
	}
	return c, nil
}

func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Apply creates the catalog under the store bound to ctx. It stops at the first
// error other than a name conflict.
func Apply(ctx context.Context, c *Catalog) (*Report, error) {
	rep := &Report{}
	for _, t := range c.Titles {
		titleID, err := seedTitle(ctx, t, rep)
		if err != nil {
			return rep, fmt.Errorf("title %q: %w", t.Name, err)
		}
		for _, cl := range t.Classes {
			classID, err := seedClass(ctx, titleID, cl, rep)
			if err != nil {
				return rep, fmt.Errorf("class %q of %q: %w", cl.Name, t.Name, err)
			}
			for _, s := range cl.Subjects {
				subjectID, err := seedSubject(ctx, classID, s, rep)
				if err != nil {
					return rep, fmt.Errorf("subject %q of %q: %w", s.Name, cl.Name, err)
				}
				for _, ch := range s.Chapters {
					if err := seedChapter(ctx, subjectID, ch, rep); err != nil {
						return rep, fmt.Errorf("chapter %q of %q: %w", ch.Name, s.Name, err)
					}
				}
			}
		}
	}
	log.Ctx(ctx).Info().Interface("created", rep.Created).Interface("reused", rep.Reused).Msg("catalog seeded")
	return rep, nil
}

func isConflict(err apperrors.Error) bool {
	return err != nil && errors.Is(err, catalogmanager.ErrConflict)
}

func sameName(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func seedTitle(ctx context.Context, t Title, rep *Report) (uuid.UUID, error) {
	created, err := catalogmanager.CreateTitle(ctx, &api.CreateTitleReq{Name: t.Name, Description: t.Description})
	if err == nil {
		rep.Created.Titles++
		return created.TitleID, nil
	}
	if !isConflict(err) {
		return uuid.Nil, err
	}
	titles, err := catalogmanager.ListTitles(ctx, strings.TrimSpace(t.Name))
	if err != nil {
		return uuid.Nil, err
	}
	for _, existing := range titles {
		if sameName(existing.Name, t.Name) {
			rep.Reused.Titles++
			return existing.TitleID, nil
		}
	}
	return uuid.Nil, catalogmanager.ErrTitleNotFound
}

func seedClass(ctx context.Context, titleID uuid.UUID, c Class, rep *Report) (uuid.UUID, error) {
	created, err := catalogmanager.CreateClass(ctx, &api.CreateClassReq{TitleID: titleID, Name: c.Name, Description: c.Description})
	if err == nil {
		rep.Created.Classes++
		return created.ClassID, nil
	}
	if !isConflict(err) {
		return uuid.Nil, err
	}
	classes, err := catalogmanager.ListClasses(ctx, titleID, strings.TrimSpace(c.Name))
	if err != nil {
		return uuid.Nil, err
	}
	for _, existing := range classes {
		if sameName(existing.Name, c.Name) {
			rep.Reused.Classes++
			return existing.ClassID, nil
		}
	}
	return uuid.Nil, catalogmanager.ErrClassNotFound
}

func seedSubject(ctx context.Context, classID uuid.UUID, s Subject, rep *Report) (uuid.UUID, error) {
	created, err := catalogmanager.CreateSubject(ctx, &api.CreateSubjectReq{ClassID: classID, Name: s.Name, Description: s.Description})
	if err == nil {
		rep.Created.Subjects++
		return created.SubjectID, nil
	}
	if !isConflict(err) {
		return uuid.Nil, err
	}
	subjects, err := catalogmanager.ListSubjects(ctx, classID, strings.TrimSpace(s.Name))
	if err != nil {
		return uuid.Nil, err
	}
	for _, existing := range subjects {
		if sameName(existing.Name, s.Name) {
			rep.Reused.Subjects++
			return existing.SubjectID, nil
		}
	}
	return uuid.Nil, catalogmanager.ErrSubjectNotFound
}

func seedChapter(ctx context.Context, subjectID uuid.UUID, c Chapter, rep *Report) error {
	_, err := catalogmanager.CreateChapter(ctx, &api.CreateChapterReq{
		SubjectID:   subjectID,
		Name:        c.Name,
		DriveLink:   c.DriveLink,
		Description: c.Description,
	})
	if err == nil {
		rep.Created.Chapters++
		return nil
	}
	if !isConflict(err) {
		return err
	}
	list, err := catalogmanager.ListChapters(ctx, browse.ChapterFilter{SubjectID: subjectID, Name: strings.TrimSpace(c.Name)})
	if err != nil {
		return err
	}
	for _, existing := range list.Data {
		if sameName(existing.Name, c.Name) {
			rep.Reused.Chapters++
			return nil
		}
	}
	return catalogmanager.ErrChapterNotFound
}
