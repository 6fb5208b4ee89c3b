package index

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/loader"
	"github.com/jgivc/frqarchive/internal/util"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

type IndexStorage interface {
	Scan(ctx context.Context) (*entity.ScanResult, error)
}

type DocumentRepository interface {
	Save(ctx context.Context, docs []entity.Document) error
}

type IndexerService struct {
	store IndexStorage
	repos []DocumentRepository
	infos atomic.Pointer[[]*entity.BuildInfo]
	now   func() time.Time
	newID func() string
	log   *slog.Logger
}

// NewIndexService builds the data documents and hands them to every
// repository in order; the first one is normally the data folder.
func NewIndexService(store IndexStorage, log *slog.Logger, repos ...DocumentRepository) *IndexerService {
	return &IndexerService{
		store: store,
		repos: repos,
		now:   time.Now,
		newID: uuid.NewString,
		log:   log.With(slog.String("item", "IndexService")),
	}
}

func (i *IndexerService) Index(ctx context.Context) ([]*entity.BuildInfo, error) {
	res, err := i.store.Scan(ctx)
	if err != nil {
		i.log.Error("Cannot scan", slog.Any("error", err))

		return nil, fmt.Errorf("cannot scan source folders: %w", err)
	}

	if len(res.Courses) < 1 {
		i.log.Error("Cannot find courses")

		return nil, common.ErrNoCoursesFound
	}

	i.log.Info("Scan source folders", slog.Int("courses", len(res.Courses)), slog.Int("question_sets", len(res.Questions)))

	docs, infos, err := i.documents(res)
	if err != nil {
		return nil, err
	}

	for _, repo := range i.repos {
		if err := repo.Save(ctx, docs); err != nil {
			i.log.Error("Cannot save documents", slog.Any("error", err))

			return nil, fmt.Errorf("cannot save documents: %w", err)
		}
	}

	i.infos.Store(&infos)

	return infos, nil
}

// Info returns the summary of the last successful build.
func (i *IndexerService) Info(_ context.Context) ([]*entity.BuildInfo, error) {
	infos := i.infos.Load()
	if infos == nil {
		return nil, common.ErrNoCoursesFound
	}

	return *infos, nil
}

func (i *IndexerService) documents(res *entity.ScanResult) ([]entity.Document, []*entity.BuildInfo, error) {
	list := entity.CourseList{
		GeneratedAt: i.now().UTC().Format(timeFormat),
		BuildID:     i.newID(),
		Courses:     make([]entity.Course, 0, len(res.Courses)),
	}

	docs := make([]entity.Document, 0, len(res.Courses)+len(res.Questions)+1)
	infos := make([]*entity.BuildInfo, 0, len(res.Courses))

	for _, idx := range res.Courses {
		data, err := marshal(idx)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot encode course %s: %w", idx.Slug, err)
		}
		docs = append(docs, entity.Document{Name: "course-" + idx.Slug + ".json", Data: data})
		list.Courses = append(list.Courses, entity.Course{Slug: idx.Slug, Title: idx.Title})

		info := &entity.BuildInfo{
			Slug:       idx.Slug,
			Title:      idx.Title,
			SourcePath: idx.BasePath,
			YearCount:  len(idx.Years),
			FileCount:  idx.FileCount(),
		}
		if qi, ok := res.Questions[util.Slugify(idx.Title)]; ok {
			info.QuestionCount = len(qi.Questions)
		}
		infos = append(infos, info)
	}

	for _, slug := range slices.Sorted(maps.Keys(res.Questions)) {
		data, err := marshal(res.Questions[slug])
		if err != nil {
			return nil, nil, fmt.Errorf("cannot encode questions %s: %w", slug, err)
		}
		docs = append(docs, entity.Document{Name: "questions-" + slug + ".json", Data: data})
	}

	data, err := marshal(list)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot encode course list: %w", err)
	}
	// The list goes last so it never points at course documents not yet written.
	docs = append(docs, entity.Document{Name: loader.CoursesDocName, Data: data})

	return docs, infos, nil
}

func marshal(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
