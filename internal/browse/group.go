package browse

import (
	"sort"

	"github.com/google/uuid"
	"github.com/mugiliam/notecatalogsrv/internal/db/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Stats struct {
	TotalChapters int `json:"totalChapters"`
	TotalSubjects int `json:"totalSubjects"`
	TotalClasses  int `json:"totalClasses"`
	TotalTitles   int `json:"totalTitles"`
}

// ComputeStats counts the chapters and the distinct subjects, classes and titles they
// belong to. Only ancestors that still exist are counted.
func ComputeStats(chapters []*models.ChapterChain) Stats {
	subjects := make(map[uuid.UUID]struct{})
	classes := make(map[uuid.UUID]struct{})
	titles := make(map[uuid.UUID]struct{})
	for _, c := range chapters {
		if c.Subject != nil {
			subjects[c.Subject.SubjectID] = struct{}{}
		}
		if id := c.ClassID(); id != uuid.Nil {
			classes[id] = struct{}{}
		}
		if id := c.TitleID(); id != uuid.Nil {
			titles[id] = struct{}{}
		}
	}
	return Stats{
		TotalChapters: len(chapters),
		TotalSubjects: len(subjects),
		TotalClasses:  len(classes),
		TotalTitles:   len(titles),
	}
}

type TitleGroup struct {
	ID      uuid.UUID     `json:"id"`
	Name    string        `json:"name"`
	Classes []*ClassGroup `json:"classes"`
}

type ClassGroup struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Subjects []*SubjectGroup `json:"subjects"`
}

type SubjectGroup struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ChapterCount int       `json:"chapterCount"`
}

// GroupChapters builds the title → class → subject index with chapter counts. Every
// level is sorted by name, ties broken by id. Chapters with an incomplete chain are
// left out.
func GroupChapters(chapters []*models.ChapterChain) []*TitleGroup {
	titles := make(map[uuid.UUID]*TitleGroup)
	classes := make(map[uuid.UUID]*ClassGroup)
	subjects := make(map[uuid.UUID]*SubjectGroup)

	for _, c := range chapters {
		if !c.Complete() {
			continue
		}
		sr := c.Subject
		cr := sr.Class
		tr := cr.Title

		tg, ok := titles[tr.TitleID]
		if !ok {
			tg = &TitleGroup{ID: tr.TitleID, Name: tr.Name}
			titles[tr.TitleID] = tg
		}
		cg, ok := classes[cr.ClassID]
		if !ok {
			cg = &ClassGroup{ID: cr.ClassID, Name: cr.Name}
			classes[cr.ClassID] = cg
			tg.Classes = append(tg.Classes, cg)
		}
		sg, ok := subjects[sr.SubjectID]
		if !ok {
			sg = &SubjectGroup{ID: sr.SubjectID, Name: sr.Name}
			subjects[sr.SubjectID] = sg
			cg.Subjects = append(cg.Subjects, sg)
		}
		sg.ChapterCount++
	}

	result := make([]*TitleGroup, 0, len(titles))
	for _, tg := range titles {
		result = append(result, tg)
	}

	col := collate.New(language.English, collate.IgnoreCase)
	less := func(aName, bName string, aID, bID uuid.UUID) bool {
		if c := col.CompareString(aName, bName); c != 0 {
			return c < 0
		}
		return aID.String() < bID.String()
	}
	sort.Slice(result, func(i, j int) bool {
		return less(result[i].Name, result[j].Name, result[i].ID, result[j].ID)
	})
	for _, tg := range result {
		sort.Slice(tg.Classes, func(i, j int) bool {
			return less(tg.Classes[i].Name, tg.Classes[j].Name, tg.Classes[i].ID, tg.Classes[j].ID)
		})
		for _, cg := range tg.Classes {
			sort.Slice(cg.Subjects, func(i, j int) bool {
				return less(cg.Subjects[i].Name, cg.Subjects[j].Name, cg.Subjects[i].ID, cg.Subjects[j].ID)
			})
		}
	}
	return result
}
