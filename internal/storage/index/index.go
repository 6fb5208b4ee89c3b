package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/config"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/util"
	"github.com/spf13/afero"
)

type FSAdapter interface {
	ToCourse(courseDir string) (*entity.CourseIndex, error)
	ToQuestions(questionDir string) (*entity.QuestionIndex, error)
}

type jobKind int

const (
	jobCourse jobKind = iota
	jobQuestions
)

type job struct {
	kind jobKind
	dir  string
}

type result struct {
	course    *entity.CourseIndex
	questions *entity.QuestionIndex
	dir       string
}

type indexStorage struct {
	running atomic.Bool
	fs      afero.Fs
	adapter FSAdapter
	cfg     *config.BuildConfig
	log     *slog.Logger
}

func NewIndexStorage(fs afero.Fs, adapter FSAdapter, cfg *config.BuildConfig, log *slog.Logger) *indexStorage {
	return &indexStorage{
		fs:      fs,
		adapter: adapter,
		cfg:     cfg,
		log:     log.With(slog.String("item", "IndexStorage")),
	}
}

// Scan reads every course folder and every question folder with a fixed
// pool of workers. Only one scan may run at a time.
func (i *indexStorage) Scan(ctx context.Context) (*entity.ScanResult, error) {
	if !i.running.CompareAndSwap(false, true) {
		return nil, common.ErrBuildAlreadyRunning
	}
	defer i.running.Store(false)

	coursesDir := filepath.Join(i.cfg.RootDir, i.cfg.CoursesDir)
	courseDirs, err := i.subDirs(coursesDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read courses folder %s: %w", coursesDir, err)
	}

	questionsDir := filepath.Join(i.cfg.RootDir, i.cfg.QuestionsDir)
	questionDirs, err := i.subDirs(questionsDir)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("cannot read questions folder %s: %w", questionsDir, err)
		}

		i.log.Info("No questions folder, topic indexes are skipped", slog.String("path", questionsDir))
	}

	res := &entity.ScanResult{
		Courses:   []*entity.CourseIndex{},
		Questions: make(map[string]*entity.QuestionIndex),
	}

	if len(courseDirs)+len(questionDirs) == 0 {
		return res, nil
	}

	in := make(chan job, len(courseDirs)+len(questionDirs))
	out := make(chan result, len(courseDirs)+len(questionDirs))

	for _, dir := range courseDirs {
		in <- job{kind: jobCourse, dir: dir}
	}
	for _, dir := range questionDirs {
		in <- job{kind: jobQuestions, dir: dir}
	}
	close(in)

	workers := i.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for n := 0; n < workers; n++ {
		go i.worker(ctx, n, in, out, &wg)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	for r := range out {
		switch {
		case r.course != nil:
			i.log.Info("Found course", slog.String("slug", r.course.Slug), slog.Int("years", len(r.course.Years)), slog.String("path", r.dir))
			res.Courses = append(res.Courses, r.course)
		case r.questions != nil:
			slug := util.Slugify(r.questions.Course)
			i.log.Info("Found questions", slog.String("slug", slug), slog.Int("questions", len(r.questions.Questions)), slog.String("path", r.dir))
			res.Questions[slug] = r.questions
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("scan interrupted: %w", err)
	}

	sort.Slice(res.Courses, func(a, b int) bool {
		return res.Courses[a].Slug < res.Courses[b].Slug
	})

	return res, nil
}

func (i *indexStorage) worker(ctx context.Context, n int, in chan job, out chan result, wg *sync.WaitGroup) {
	defer wg.Done()

	log := i.log.With(slog.Int("worker_id", n))
	log.Debug("Started")

	for j := range in {
		r := result{dir: j.dir}

		var err error
		switch j.kind {
		case jobCourse:
			r.course, err = i.adapter.ToCourse(j.dir)
		case jobQuestions:
			r.questions, err = i.adapter.ToQuestions(j.dir)
		}
		if err != nil {
			log.Error("Cannot scan folder", slog.String("folder_path", j.dir), slog.Any("error", err))

			continue
		}

		select {
		case <-ctx.Done():
			log.Info("Interrupted")

			return
		case out <- r:
		}
	}

	log.Debug("Done")
}

func (i *indexStorage) subDirs(dir string) ([]string, error) {
	entries, err := afero.ReadDir(i.fs, dir)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, filepath.Join(dir, entry.Name()))
		}
	}

	return dirs, nil
}
