package fsadapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jgivc/frqarchive/internal/adapter/mdadapter"
	"github.com/jgivc/frqarchive/internal/config"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/spf13/afero"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

const (
	coursesURLPrefix = "/courses/"
	questionExt      = ".json"
	questionPDFExt   = ".pdf"
	timeFormat       = "2006-01-02T15:04:05.000Z07:00"
)

var (
	yearDirRegexp = regexp.MustCompile(`^\d{4}$`)

	errMissingYear  = errors.New("year is missing or not numeric")
	errMissingUnits = errors.New("units is not an array of strings")
)

type Frontmatter struct {
	Title string `yaml:"title"`
}

type fsAdapter struct {
	fs   afero.Fs
	cfg  *config.BuildConfig
	exts map[string]struct{}
	md   goldmark.Markdown
	now  func() time.Time

	log *slog.Logger
}

func NewFSAdapter(cfg *config.BuildConfig, log *slog.Logger) (*fsAdapter, error) {
	return NewFSAdapterWithFS(afero.NewOsFs(), cfg, log)
}

func NewFSAdapterWithFS(fs afero.Fs, cfg *config.BuildConfig, log *slog.Logger) (*fsAdapter, error) {
	if len(cfg.Extensions) == 0 {
		return nil, fmt.Errorf("no file extensions configured")
	}

	exts := make(map[string]struct{}, len(cfg.Extensions))
	for _, ext := range cfg.Extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			&frontmatter.Extender{},
			mdadapter.NewFilesExtension(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)

	return &fsAdapter{
		fs:   fs,
		cfg:  cfg,
		exts: exts,
		md:   md,
		now:  time.Now,
		log:  log.With(slog.String("item", "FSAdapter")),
	}, nil
}

// ToCourse builds the index of one course directory: year folders newest
// first, allowed files sorted by name, and the optional description.
func (a *fsAdapter) ToCourse(courseDir string) (*entity.CourseIndex, error) {
	slug := filepath.Base(courseDir)
	if strings.Contains(slug, "..") {
		return nil, fmt.Errorf("invalid course folder: %s", courseDir)
	}

	entries, err := afero.ReadDir(a.fs, courseDir)
	if err != nil {
		return nil, fmt.Errorf("cannot read course folder %s: %w", courseDir, err)
	}

	basePath := coursesURLPrefix + url.PathEscape(slug)
	idx := &entity.CourseIndex{
		Slug:        slug,
		Title:       slug,
		BasePath:    basePath,
		GeneratedAt: a.now().UTC().Format(timeFormat),
		Years:       []entity.YearEntry{},
	}

	var years []string
	for _, entry := range entries {
		if entry.IsDir() && yearDirRegexp.MatchString(entry.Name()) {
			years = append(years, entry.Name())
		}
	}
	sort.Slice(years, func(i, j int) bool {
		x, _ := strconv.Atoi(years[i])
		y, _ := strconv.Atoi(years[j])

		return x > y
	})

	for _, year := range years {
		files, err := a.readFiles(filepath.Join(courseDir, year), basePath+"/"+url.PathEscape(year))
		if err != nil {
			return nil, fmt.Errorf("cannot read year folder %s: %w", year, err)
		}

		idx.Years = append(idx.Years, entity.YearEntry{Year: year, Files: files})
	}

	if err := a.parseDescription(courseDir, idx); err != nil {
		return nil, fmt.Errorf("cannot parse description: %w", err)
	}

	return idx, nil
}

func (a *fsAdapter) readFiles(dir, urlPrefix string) ([]entity.FileEntry, error) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		return nil, err
	}

	files := []entity.FileEntry{}
	for _, entry := range entries {
		if !entry.Mode().IsRegular() {
			continue
		}

		name := entry.Name()
		if _, ok := a.exts[strings.ToLower(filepath.Ext(name))]; !ok {
			a.log.Debug("Skip file", slog.String("path", filepath.Join(dir, name)))

			continue
		}

		files = append(files, entity.FileEntry{
			Name: name,
			URL:  urlPrefix + "/" + url.PathEscape(name),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		return strings.ToLower(files[i].Name) < strings.ToLower(files[j].Name)
	})

	return files, nil
}

// parseDescription renders the course's description file, if any. Its
// frontmatter title replaces the slug as the course title.
func (a *fsAdapter) parseDescription(courseDir string, idx *entity.CourseIndex) error {
	mdFileName := filepath.Join(courseDir, a.cfg.DescFileName)
	if !a.fileExists(mdFileName) {
		return nil
	}

	data, err := afero.ReadFile(a.fs, mdFileName)
	if err != nil {
		return fmt.Errorf("cannot read md file: %w", err)
	}

	pc := parser.NewContext()
	pc.Set(mdadapter.FileResolverKey, newFileResolver(idx.Years))

	var buf bytes.Buffer
	if err := a.md.Convert(data, &buf, parser.WithContext(pc)); err != nil {
		return fmt.Errorf("cannot convert markdown: %w", err)
	}

	if d := frontmatter.Get(pc); d != nil {
		var fm Frontmatter
		if err := d.Decode(&fm); err != nil {
			return fmt.Errorf("cannot decode frontmatter: %w", err)
		}

		if title := strings.TrimSpace(fm.Title); title != "" {
			idx.Title = title
		}
	}

	idx.Description = strings.TrimSpace(buf.String())

	return nil
}

type questionRecord struct {
	Year         json.RawMessage `json:"year"`
	QuestionType json.RawMessage `json:"question_type"`
	Units        json.RawMessage `json:"units"`
}

// ToQuestions walks one course folder of question metadata. Records without
// a usable year or a units array are skipped, as are invalid files.
func (a *fsAdapter) ToQuestions(questionDir string) (*entity.QuestionIndex, error) {
	courseName := filepath.Base(questionDir)
	log := a.log.With(slog.String("course", courseName))

	qi := &entity.QuestionIndex{
		Course:        courseName,
		QuestionTypes: []string{},
		Units:         []string{},
		Questions:     []entity.Question{},
	}
	units := make(map[string]struct{})
	types := make(map[string]struct{})

	err := afero.Walk(a.fs, questionDir, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !info.Mode().IsRegular() || !strings.HasSuffix(info.Name(), questionExt) {
			return nil
		}

		q, err := a.readQuestion(path)
		if err != nil {
			log.Warn("Skip question file", slog.String("path", path), slog.Any("error", err))

			return nil
		}

		for _, u := range q.Units {
			units[u] = struct{}{}
		}
		if t := q.Type(); t != "" {
			types[t] = struct{}{}
		}
		qi.Questions = append(qi.Questions, *q)

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cannot walk question folder %s: %w", questionDir, err)
	}

	for u := range units {
		qi.Units = append(qi.Units, u)
	}
	sort.Strings(qi.Units)

	for t := range types {
		qi.QuestionTypes = append(qi.QuestionTypes, t)
	}
	sort.Strings(qi.QuestionTypes)

	sort.SliceStable(qi.Questions, func(i, j int) bool {
		return qi.Questions[i].Year.Int() > qi.Questions[j].Year.Int()
	})

	return qi, nil
}

func (a *fsAdapter) readQuestion(path string) (*entity.Question, error) {
	data, err := afero.ReadFile(a.fs, path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %w", err)
	}

	var rec questionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}

	var year entity.Year
	if len(rec.Year) == 0 || json.Unmarshal(rec.Year, &year) != nil || year.Int() == 0 {
		return nil, errMissingYear
	}

	var units []string
	if err := json.Unmarshal(rec.Units, &units); err != nil || units == nil {
		return nil, errMissingUnits
	}

	base := strings.TrimSuffix(filepath.Base(path), questionExt)

	rel, err := filepath.Rel(a.cfg.RootDir, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("cannot get relative path: %w", err)
	}

	return &entity.Question{
		Year:         entity.Year(strconv.Itoa(year.Int())),
		QuestionType: questionType(rec.QuestionType),
		Units:        units,
		FileBase:     base,
		QuestionPDF:  "/" + filepath.ToSlash(rel) + "/" + base + questionPDFExt,
	}, nil
}

// questionType trims the type; absent, null and blank all mean no type.
func questionType(raw json.RawMessage) *string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		s = string(raw)
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	return &s
}

func (a *fsAdapter) fileExists(path string) bool {
	if path == "" {
		return false
	}

	_, err := a.fs.Stat(path)
	if err == nil {
		return true
	}

	if !os.IsNotExist(err) {
		a.log.Warn("Cannot stat file", slog.String("path", path), slog.Any("error", err))
	}

	return false
}
