package db

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/db/catalogdb"
	"github.com/mugiliam/notecatalogsrv/internal/db/dbmanager"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/rs/zerolog/log"
)

// CatalogDB is the store for the note catalog. It is bound to a single pooled
// connection for the lifetime of a request.
type CatalogDB interface {
	// Title
	CreateTitle(ctx context.Context, title *models.Title) apperrors.Error
	GetTitle(ctx context.Context, titleID uuid.UUID) (*models.Title, apperrors.Error)
	ListTitles(ctx context.Context) ([]*models.Title, apperrors.Error)
	UpdateTitle(ctx context.Context, titleID uuid.UUID, upd models.EntityUpdate) (*models.Title, apperrors.Error)
	DeleteTitle(ctx context.Context, titleID uuid.UUID) apperrors.Error

	// Class
	CreateClass(ctx context.Context, class *models.Class) apperrors.Error
	GetClass(ctx context.Context, classID uuid.UUID) (*models.ClassWithTitle, apperrors.Error)
	ListClasses(ctx context.Context, titleID uuid.UUID) ([]*models.ClassWithTitle, apperrors.Error)
	UpdateClass(ctx context.Context, classID uuid.UUID, upd models.EntityUpdate) (*models.Class, apperrors.Error)
	DeleteClass(ctx context.Context, classID uuid.UUID) apperrors.Error

	// Subject
	CreateSubject(ctx context.Context, subject *models.Subject) apperrors.Error
	GetSubject(ctx context.Context, subjectID uuid.UUID) (*models.SubjectWithClass, apperrors.Error)
	ListSubjects(ctx context.Context, classID uuid.UUID) ([]*models.SubjectWithClass, apperrors.Error)
	UpdateSubject(ctx context.Context, subjectID uuid.UUID, upd models.EntityUpdate) (*models.Subject, apperrors.Error)
	DeleteSubject(ctx context.Context, subjectID uuid.UUID) apperrors.Error

	// Chapter
	CreateChapter(ctx context.Context, chapter *models.Chapter) apperrors.Error
	GetChapter(ctx context.Context, chapterID uuid.UUID) (*models.Chapter, apperrors.Error)
	UpdateChapter(ctx context.Context, chapterID uuid.UUID, upd models.EntityUpdate) (*models.Chapter, apperrors.Error)
	DeleteChapter(ctx context.Context, chapterID uuid.UUID) apperrors.Error
	ResolveChapter(ctx context.Context, chapterID uuid.UUID) (*models.ChapterChain, apperrors.Error)
	ListChapterChains(ctx context.Context, q models.ChapterQuery) ([]*models.ChapterChain, apperrors.Error)

	// My details
	GetMyDetail(ctx context.Context) (*models.MyDetail, apperrors.Error)
	UpsertMyDetail(ctx context.Context, upd models.MyDetailUpdate) (*models.MyDetail, apperrors.Error)

	// Schema and connectivity
	Migrate(ctx context.Context) apperrors.Error
	Ping(ctx context.Context) apperrors.Error

	// Close the connection to the database.
	Close(ctx context.Context)
}

var (
	poolMu sync.RWMutex
	pool   dbmanager.ScopedDb
)

// Init installs the process wide connection pool.
func Init(p dbmanager.ScopedDb) {
	poolMu.Lock()
	defer poolMu.Unlock()
	pool = p
}

// Pool returns the installed connection pool, or nil.
func Pool() dbmanager.ScopedDb {
	poolMu.RLock()
	defer poolMu.RUnlock()
	return pool
}

func Conn(ctx context.Context) dbmanager.ScopedConn {
	if p := Pool(); p != nil {
		conn, err := p.Conn(ctx)
		if err == nil {
			return conn
		}
		log.Ctx(ctx).Error().Err(err).Msg("unable to get db connection")
	}
	return nil
}

type ctxDbKeyType string

const ctxDbKey ctxDbKeyType = "NoteCatalogDb"

// ConnCtx acquires a connection and stores it in the returned context. If no
// connection could be acquired, the context is returned unchanged and DB returns nil.
func ConnCtx(ctx context.Context) context.Context {
	conn := Conn(ctx)
	if conn == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxDbKey, conn)
}

func DB(ctx context.Context) CatalogDB {
	if conn, ok := ctx.Value(ctxDbKey).(dbmanager.ScopedConn); ok {
		return catalogdb.NewCatalogDb(conn)
	}
	log.Ctx(ctx).Error().Msg("unable to get db connection from context")
	return nil
}
