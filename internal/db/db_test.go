package db

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// newDb installs a fresh in-memory pool, migrates it and returns a context holding
// a connection.
func newDb(t *testing.T) context.Context {
	t.Helper()
	ctx := log.Logger.WithContext(context.Background())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString())
	pool, err := dbmanager.NewScopedDb(ctx, dbmanager.Options{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	Init(pool)
	t.Cleanup(func() {
		Init(nil)
		pool.Close()
	})

	ctx = ConnCtx(ctx)
	require.NotNil(t, DB(ctx))
	t.Cleanup(func() { DB(ctx).Close(ctx) })
	require.NoError(t, DB(ctx).Migrate(ctx))
	return ctx
}

func at(minutes int) time.Time {
	return baseTime.Add(time.Duration(minutes) * time.Minute)
}

func strPtr(s string) *string {
	return &s
}

func seedChain(t *testing.T, ctx context.Context) (*models.Title, *models.Class, *models.Subject, *models.Chapter) {
	t.Helper()
	title := &models.Title{Name: "Engineering", CreatedAt: at(0), UpdatedAt: at(0)}
	require.NoError(t, DB(ctx).CreateTitle(ctx, title))
	class := &models.Class{TitleID: title.TitleID, Name: "Year 1", CreatedAt: at(1), UpdatedAt: at(1)}
	require.NoError(t, DB(ctx).CreateClass(ctx, class))
	subject := &models.Subject{ClassID: class.ClassID, Name: "Mathematics", CreatedAt: at(2), UpdatedAt: at(2)}
	require.NoError(t, DB(ctx).CreateSubject(ctx, subject))
	chapter := &models.Chapter{
		SubjectID: subject.SubjectID,
		Name:      "Calculus",
		DriveLink: "https://drive.google.com/file/d/abc123/view",
		CreatedAt: at(3),
		UpdatedAt: at(3),
	}
	require.NoError(t, DB(ctx).CreateChapter(ctx, chapter))
	return title, class, subject, chapter
}

func TestNoPool(t *testing.T) {
	Init(nil)
	ctx := log.Logger.WithContext(context.Background())
	ctx = ConnCtx(ctx)
	assert.Nil(t, DB(ctx))
}

func TestTitle(t *testing.T) {
	ctx := newDb(t)

	title := &models.Title{Name: "Engineering", Description: "B.Tech notes", CreatedAt: at(0), UpdatedAt: at(0)}
	err := DB(ctx).CreateTitle(ctx, title)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, title.TitleID)

	// duplicate name
	err = DB(ctx).CreateTitle(ctx, &models.Title{Name: "Engineering", CreatedAt: at(1), UpdatedAt: at(1)})
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	got, err := DB(ctx).GetTitle(ctx, title.TitleID)
	require.NoError(t, err)
	assert.Equal(t, "Engineering", got.Name)
	assert.Equal(t, "B.Tech notes", got.Description)
	assert.True(t, got.CreatedAt.Equal(at(0)))

	_, err = DB(ctx).GetTitle(ctx, uuid.New())
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	// partial update keeps the description
	updated, err := DB(ctx).UpdateTitle(ctx, title.TitleID, models.EntityUpdate{Name: strPtr("Engineering 2024"), UpdatedAt: at(5)})
	require.NoError(t, err)
	assert.Equal(t, "Engineering 2024", updated.Name)
	assert.Equal(t, "B.Tech notes", updated.Description)
	assert.True(t, updated.UpdatedAt.Equal(at(5)))
	assert.True(t, updated.CreatedAt.Equal(at(0)))

	_, err = DB(ctx).UpdateTitle(ctx, uuid.New(), models.EntityUpdate{Name: strPtr("x"), UpdatedAt: at(5)})
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	require.NoError(t, DB(ctx).DeleteTitle(ctx, title.TitleID))
	assert.ErrorIs(t, DB(ctx).DeleteTitle(ctx, title.TitleID), dberror.ErrNotFound)
}

func TestUpdateTitleNameConflict(t *testing.T) {
	ctx := newDb(t)

	a := &models.Title{Name: "Engineering", CreatedAt: at(0), UpdatedAt: at(0)}
	b := &models.Title{Name: "Medicine", CreatedAt: at(1), UpdatedAt: at(1)}
	require.NoError(t, DB(ctx).CreateTitle(ctx, a))
	require.NoError(t, DB(ctx).CreateTitle(ctx, b))

	_, err := DB(ctx).UpdateTitle(ctx, b.TitleID, models.EntityUpdate{Name: strPtr("Engineering"), UpdatedAt: at(2)})
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)
}

func TestListTitlesNewestFirst(t *testing.T) {
	ctx := newDb(t)

	for i, name := range []string{"A", "B", "C"} {
		require.NoError(t, DB(ctx).CreateTitle(ctx, &models.Title{Name: name, CreatedAt: at(i), UpdatedAt: at(i)}))
	}
	titles, err := DB(ctx).ListTitles(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 3)
	assert.Equal(t, "C", titles[0].Name)
	assert.Equal(t, "B", titles[1].Name)
	assert.Equal(t, "A", titles[2].Name)
}

func TestClass(t *testing.T) {
	ctx := newDb(t)

	title := &models.Title{Name: "Engineering", CreatedAt: at(0), UpdatedAt: at(0)}
	require.NoError(t, DB(ctx).CreateTitle(ctx, title))
	other := &models.Title{Name: "Medicine", CreatedAt: at(0), UpdatedAt: at(0)}
	require.NoError(t, DB(ctx).CreateTitle(ctx, other))

	// missing parent
	err := DB(ctx).CreateClass(ctx, &models.Class{TitleID: uuid.New(), Name: "Year 1", CreatedAt: at(1), UpdatedAt: at(1)})
	assert.ErrorIs(t, err, dberror.ErrParentNotFound)
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	class := &models.Class{TitleID: title.TitleID, Name: "Year 1", CreatedAt: at(1), UpdatedAt: at(1)}
	require.NoError(t, DB(ctx).CreateClass(ctx, class))

	// same name under the same title
	err = DB(ctx).CreateClass(ctx, &models.Class{TitleID: title.TitleID, Name: "Year 1", CreatedAt: at(2), UpdatedAt: at(2)})
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	// same name under another title is allowed
	require.NoError(t, DB(ctx).CreateClass(ctx, &models.Class{TitleID: other.TitleID, Name: "Year 1", CreatedAt: at(3), UpdatedAt: at(3)}))

	got, err := DB(ctx).GetClass(ctx, class.ClassID)
	require.NoError(t, err)
	require.NotNil(t, got.Title)
	assert.Equal(t, "Engineering", got.Title.Name)

	classes, err := DB(ctx).ListClasses(ctx, title.TitleID)
	require.NoError(t, err)
	assert.Len(t, classes, 1)

	all, err := DB(ctx).ListClasses(ctx, uuid.Nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, other.TitleID, all[0].TitleID)

	updated, err := DB(ctx).UpdateClass(ctx, class.ClassID, models.EntityUpdate{Description: strPtr("first year"), UpdatedAt: at(9)})
	require.NoError(t, err)
	assert.Equal(t, "Year 1", updated.Name)
	assert.Equal(t, "first year", updated.Description)

	require.NoError(t, DB(ctx).DeleteClass(ctx, class.ClassID))
	_, err = DB(ctx).GetClass(ctx, class.ClassID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestSubject(t *testing.T) {
	ctx := newDb(t)
	title, class, subject, _ := seedChain(t, ctx)

	err := DB(ctx).CreateSubject(ctx, &models.Subject{ClassID: uuid.New(), Name: "Physics", CreatedAt: at(4), UpdatedAt: at(4)})
	assert.ErrorIs(t, err, dberror.ErrParentNotFound)

	err = DB(ctx).CreateSubject(ctx, &models.Subject{ClassID: class.ClassID, Name: "Mathematics", CreatedAt: at(4), UpdatedAt: at(4)})
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	got, err := DB(ctx).GetSubject(ctx, subject.SubjectID)
	require.NoError(t, err)
	require.NotNil(t, got.Class)
	require.NotNil(t, got.Class.Title)
	assert.Equal(t, "Year 1", got.Class.Name)
	assert.Equal(t, title.TitleID, got.Class.Title.TitleID)

	subjects, err := DB(ctx).ListSubjects(ctx, class.ClassID)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)

	updated, err := DB(ctx).UpdateSubject(ctx, subject.SubjectID, models.EntityUpdate{Name: strPtr("Maths"), UpdatedAt: at(9)})
	require.NoError(t, err)
	assert.Equal(t, "Maths", updated.Name)

	require.NoError(t, DB(ctx).DeleteSubject(ctx, subject.SubjectID))
	assert.ErrorIs(t, DB(ctx).DeleteSubject(ctx, subject.SubjectID), dberror.ErrNotFound)
}

func TestChapter(t *testing.T) {
	ctx := newDb(t)
	title, class, subject, chapter := seedChain(t, ctx)

	err := DB(ctx).CreateChapter(ctx, &models.Chapter{SubjectID: uuid.New(), Name: "Limits", DriveLink: "https://drive.google.com/file/d/x/view", CreatedAt: at(4), UpdatedAt: at(4)})
	assert.ErrorIs(t, err, dberror.ErrParentNotFound)

	err = DB(ctx).CreateChapter(ctx, &models.Chapter{SubjectID: subject.SubjectID, Name: "Calculus", DriveLink: "https://drive.google.com/file/d/y/view", CreatedAt: at(4), UpdatedAt: at(4)})
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	chain, err := DB(ctx).ResolveChapter(ctx, chapter.ChapterID)
	require.NoError(t, err)
	assert.True(t, chain.Complete())
	assert.Equal(t, "Mathematics", chain.Subject.Name)
	assert.Equal(t, class.ClassID, chain.ClassID())
	assert.Equal(t, title.TitleID, chain.TitleID())

	updated, err := DB(ctx).UpdateChapter(ctx, chapter.ChapterID, models.EntityUpdate{
		DriveLink: strPtr("https://drive.google.com/file/d/def456/view"),
		UpdatedAt: at(9),
	})
	require.NoError(t, err)
	assert.Equal(t, "Calculus", updated.Name)
	assert.Equal(t, "https://drive.google.com/file/d/def456/view", updated.DriveLink)

	_, err = DB(ctx).ResolveChapter(ctx, uuid.New())
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	require.NoError(t, DB(ctx).DeleteChapter(ctx, chapter.ChapterID))
	_, err = DB(ctx).GetChapter(ctx, chapter.ChapterID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
}

func TestListChapterChains(t *testing.T) {
	ctx := newDb(t)
	title, class, subject, _ := seedChain(t, ctx)

	physics := &models.Subject{ClassID: class.ClassID, Name: "Physics", CreatedAt: at(4), UpdatedAt: at(4)}
	require.NoError(t, DB(ctx).CreateSubject(ctx, physics))
	optics := &models.Chapter{SubjectID: physics.SubjectID, Name: "Optics", DriveLink: "https://drive.google.com/file/d/opt/view", CreatedAt: at(5), UpdatedAt: at(5)}
	require.NoError(t, DB(ctx).CreateChapter(ctx, optics))

	all, err := DB(ctx).ListChapterChains(ctx, models.ChapterQuery{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Optics", all[0].Name)
	assert.Equal(t, "Calculus", all[1].Name)

	bySubject, err := DB(ctx).ListChapterChains(ctx, models.ChapterQuery{SubjectID: subject.SubjectID})
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, "Calculus", bySubject[0].Name)

	byTitle, err := DB(ctx).ListChapterChains(ctx, models.ChapterQuery{TitleID: title.TitleID})
	require.NoError(t, err)
	assert.Len(t, byTitle, 2)

	none, err := DB(ctx).ListChapterChains(ctx, models.ChapterQuery{ClassID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestOrphanedChapter(t *testing.T) {
	ctx := newDb(t)
	_, class, _, chapter := seedChain(t, ctx)

	// removing a class leaves its subjects and chapters behind
	require.NoError(t, DB(ctx).DeleteClass(ctx, class.ClassID))

	_, err := DB(ctx).GetChapter(ctx, chapter.ChapterID)
	require.NoError(t, err)

	_, err = DB(ctx).ResolveChapter(ctx, chapter.ChapterID)
	assert.ErrorIs(t, err, dberror.ErrNotFound)
	assert.ErrorIs(t, err, dberror.ErrParentNotFound)

	chains, err := DB(ctx).ListChapterChains(ctx, models.ChapterQuery{})
	require.NoError(t, err)
	require.Len(t, chains, 1)
	assert.False(t, chains[0].Complete())
	require.NotNil(t, chains[0].Subject)
	assert.Nil(t, chains[0].Subject.Class)
	assert.Equal(t, uuid.Nil, chains[0].ClassID())
}

func TestMyDetail(t *testing.T) {
	ctx := newDb(t)

	_, err := DB(ctx).GetMyDetail(ctx)
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	d, err := DB(ctx).UpsertMyDetail(ctx, models.MyDetailUpdate{
		Email:      strPtr("me@example.com"),
		GithubLink: strPtr("https://github.com/me"),
		UpdatedAt:  at(0),
	})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", d.Email)
	assert.Equal(t, "", d.CVLink)
	assert.True(t, d.CreatedAt.Equal(at(0)))

	// a second save merges into the same record
	d, err = DB(ctx).UpsertMyDetail(ctx, models.MyDetailUpdate{
		ContactNumber: strPtr("+1 555 0100"),
		UpdatedAt:     at(10),
	})
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", d.Email)
	assert.Equal(t, "https://github.com/me", d.GithubLink)
	assert.Equal(t, "+1 555 0100", d.ContactNumber)
	assert.True(t, d.CreatedAt.Equal(at(0)))
	assert.True(t, d.UpdatedAt.Equal(at(10)))

	got, err := DB(ctx).GetMyDetail(ctx)
	require.NoError(t, err)
	assert.Equal(t, d.ContactNumber, got.ContactNumber)
}
