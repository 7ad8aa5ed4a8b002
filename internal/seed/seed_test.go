package seed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/catalogmanager"
	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYaml = `
titles:
  - name: B.Tech
    description: Bachelor of Technology
    classes:
      - name: Semester 1
        subjects:
          - name: Physics
            chapters:
              - name: Optics
                driveLink: https://drive.google.com/file/d/abc123/view
              - name: Mechanics
                driveLink: https://docs.google.com/document/d/def456/edit
          - name: Chemistry
      - name: Semester 2
  - name: M.Tech
`

func newSeedCtx(t *testing.T) context.Context {
	t.Helper()
	ctx := log.Logger.WithContext(context.Background())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString())
	pool, err := dbmanager.NewScopedDb(ctx, dbmanager.Options{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	db.Init(pool)
	ctx = db.ConnCtx(ctx)
	require.NotNil(t, db.DB(ctx))
	require.NoError(t, db.DB(ctx).Migrate(ctx))
	t.Cleanup(func() {
		db.DB(ctx).Close(ctx)
		db.Init(nil)
		pool.Close()
	})
	return ctx
}

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(catalogYaml))
	require.NoError(t, err)
	require.Len(t, c.Titles, 2)
	assert.Equal(t, "Bachelor of Technology", c.Titles[0].Description)
	require.Len(t, c.Titles[0].Classes, 2)
	require.Len(t, c.Titles[0].Classes[0].Subjects, 2)
	assert.Equal(t, "https://docs.google.com/document/d/def456/edit",
		c.Titles[0].Classes[0].Subjects[0].Chapters[1].DriveLink)

	_, err = Parse(strings.NewReader("titles:\n  - name: X\n    colour: red\n"))
	assert.Error(t, err)
}

func TestApplyTwice(t *testing.T) {
	ctx := newSeedCtx(t)
	c, err := Parse(strings.NewReader(catalogYaml))
	require.NoError(t, err)

	rep, err := Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Counts{Titles: 2, Classes: 2, Subjects: 2, Chapters: 2}, rep.Created)
	assert.Equal(t, Counts{}, rep.Reused)

	rep, err = Apply(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, Counts{}, rep.Created)
	assert.Equal(t, Counts{Titles: 2, Classes: 2, Subjects: 2, Chapters: 2}, rep.Reused)

	list, appErr := catalogmanager.ListChapters(ctx, browse.ChapterFilter{})
	require.NoError(t, appErr)
	assert.Equal(t, browse.Stats{TotalChapters: 2, TotalSubjects: 1, TotalClasses: 1, TotalTitles: 1}, list.Stats)
}

func TestApplyExtendsExistingTree(t *testing.T) {
	ctx := newSeedCtx(t)
	c, err := Parse(strings.NewReader(catalogYaml))
	require.NoError(t, err)
	_, err = Apply(ctx, c)
	require.NoError(t, err)

	more, err := Parse(strings.NewReader(`
titles:
  - name: B.Tech
    classes:
      - name: Semester 1
        subjects:
          - name: Physics
            chapters:
              - name: Thermodynamics
                driveLink: https://drive.google.com/file/d/ghi789/view
`))
	require.NoError(t, err)
	rep, err := Apply(ctx, more)
	require.NoError(t, err)
	assert.Equal(t, Counts{Chapters: 1}, rep.Created)
	assert.Equal(t, Counts{Titles: 1, Classes: 1, Subjects: 1}, rep.Reused)
}

func TestApplyStopsOnInvalidEntry(t *testing.T) {
	ctx := newSeedCtx(t)
	c, err := Parse(strings.NewReader(`
titles:
  - name: B.Tech
    classes:
      - name: Semester 1
        subjects:
          - name: Physics
            chapters:
              - name: Optics
                driveLink: https://example.com/optics.pdf
`))
	require.NoError(t, err)
	rep, err := Apply(ctx, c)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalogmanager.ErrValidation)
	assert.Equal(t, Counts{Titles: 1, Classes: 1, Subjects: 1}, rep.Created)

	var appErr interface{ StatusCode() int }
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.StatusCode())
}
