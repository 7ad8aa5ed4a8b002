package catalogmanager

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/apperrors"
	"github.com/mugiliam/notecatalogsrv/internal/browse"
	"github.com/mugiliam/notecatalogsrv/internal/db"
	"github.com/mugiliam/notecatalogsrv/internal/db/dberror"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"github.com/mugiliam/notecatalogsrv/pkg/api"
	"github.com/rs/zerolog/log"
)

// ChapterList is a filtered chapter listing. Stats describe the listed chapters only.
type ChapterList struct {
	Stats browse.Stats           `json:"stats"`
	Data  []*models.ChapterChain `json:"data"`
}

// Materials is the browsing index of the chapters selected by a filter.
type Materials struct {
	Stats  browse.Stats         `json:"stats"`
	Titles []*browse.TitleGroup `json:"titles"`
}

// CreateChapter adds a chapter to an existing subject and returns it with its chain
// resolved.
func CreateChapter(ctx context.Context, req *api.CreateChapterReq) (*models.ChapterChain, apperrors.Error) {
	if req == nil {
		return nil, ErrInvalidSchema
	}
	req.Name = strings.TrimSpace(req.Name)
	req.DriveLink = strings.TrimSpace(req.DriveLink)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	c := &models.Chapter{
		ChapterID:   uuid.New(),
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		DriveLink:   req.DriveLink,
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.CreateChapter(ctx, c); err != nil {
		return nil, storeErr(ctx, err, chapterErrors)
	}
	log.Ctx(ctx).Info().Str("chapter_id", c.ChapterID.String()).Str("name", c.Name).Msg("chapter created")
	return chapterChain(ctx, store, c.ChapterID)
}

// UpdateChapter applies the supplied fields. A new driveLink must pass the same
// check as on create.
func UpdateChapter(ctx context.Context, req *api.UpdateChapterReq) (*models.ChapterChain, apperrors.Error) {
	if req == nil {
		return nil, ErrInvalidSchema
	}
	req.Name = trimPtr(req.Name)
	req.DriveLink = trimPtr(req.DriveLink)
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}

	_, err = store.UpdateChapter(ctx, req.ID, models.EntityUpdate{
		Name:        req.Name,
		Description: trimPtr(req.Description),
		DriveLink:   req.DriveLink,
		UpdatedAt:   timeNow(),
	})
	if err != nil {
		return nil, storeErr(ctx, err, chapterErrors)
	}
	return chapterChain(ctx, store, req.ID)
}

func DeleteChapter(ctx context.Context, id uuid.UUID) apperrors.Error {
	if id == uuid.Nil {
		return ErrValidation.WithFields(apperrors.FieldError{Field: "id", Reason: "missing required attribute"})
	}
	store, err := catalogDB(ctx)
	if err != nil {
		return err
	}
	if err := store.DeleteChapter(ctx, id); err != nil {
		return storeErr(ctx, err, chapterErrors)
	}
	log.Ctx(ctx).Info().Str("chapter_id", id.String()).Msg("chapter deleted")
	return nil
}

// chapterChain returns the chapter with as much of its chain as still exists.
func chapterChain(ctx context.Context, store db.CatalogDB, id uuid.UUID) (*models.ChapterChain, apperrors.Error) {
	chains, err := store.ListChapterChains(ctx, models.ChapterQuery{ChapterID: id})
	if err != nil {
		return nil, storeErr(ctx, err, chapterErrors)
	}
	if len(chains) == 0 {
		return nil, ErrChapterNotFound
	}
	return chains[0], nil
}

// ResolveChapter returns the chapter with its subject, class and title. It fails with
// ErrBrokenChain when any ancestor was deleted.
func ResolveChapter(ctx context.Context, id uuid.UUID) (*models.ChapterChain, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	c, err := store.ResolveChapter(ctx, id)
	if err != nil {
		if errors.Is(err, dberror.ErrParentNotFound) {
			return nil, ErrBrokenChain
		}
		return nil, storeErr(ctx, err, chapterErrors)
	}
	return c, nil
}

// ListChapters returns the chapters matching f, newest first, with statistics over
// the returned set.
func ListChapters(ctx context.Context, f browse.ChapterFilter) (*ChapterList, apperrors.Error) {
	chapters, err := filteredChapters(ctx, f)
	if err != nil {
		return nil, err
	}
	return &ChapterList{
		Stats: browse.ComputeStats(chapters),
		Data:  chapters,
	}, nil
}

// ListMaterials groups the chapters matching f by title, class and subject.
func ListMaterials(ctx context.Context, f browse.ChapterFilter) (*Materials, apperrors.Error) {
	chapters, err := filteredChapters(ctx, f)
	if err != nil {
		return nil, err
	}
	return &Materials{
		Stats:  browse.ComputeStats(chapters),
		Titles: browse.GroupChapters(chapters),
	}, nil
}

// filteredChapters narrows by id in the store, then applies the same predicate the
// browsing client uses so both paths agree.
func filteredChapters(ctx context.Context, f browse.ChapterFilter) ([]*models.ChapterChain, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	chains, err := store.ListChapterChains(ctx, f.Query())
	if err != nil {
		return nil, storeErr(ctx, err, chapterErrors)
	}
	return browse.FilterChapters(chains, f), nil
}

// PreviewChapter returns the embeddable preview link of a chapter's document.
func PreviewChapter(ctx context.Context, id uuid.UUID) (*api.ChapterPreviewRsp, apperrors.Error) {
	store, err := catalogDB(ctx)
	if err != nil {
		return nil, err
	}
	c, err := store.GetChapter(ctx, id)
	if err != nil {
		return nil, storeErr(ctx, err, chapterErrors)
	}
	return &api.ChapterPreviewRsp{
		ID:         c.ChapterID,
		Name:       c.Name,
		DriveLink:  c.DriveLink,
		PreviewURL: browse.PreviewURL(c.DriveLink),
	}, nil
}
