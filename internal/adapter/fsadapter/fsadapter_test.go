package fsadapter

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jgivc/frqarchive/internal/config"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func testConfig() *config.BuildConfig {
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.BuildConfig.RootDir = "/site"

	return &cfg.BuildConfig
}

func newTestAdapter(t *testing.T, files map[string]string) *fsAdapter {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	a, err := NewFSAdapterWithFS(fs, testConfig(), testLogger())
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return a
}

func TestToCourse(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/site/courses/ap-biology/2019/Free-Response Questions.pdf":   "x",
		"/site/courses/ap-biology/2023/scoring guidelines.PDF":        "x",
		"/site/courses/ap-biology/2023/Free-Response Questions.pdf":   "x",
		"/site/courses/ap-biology/2023/notes.docx":                    "x",
		"/site/courses/ap-biology/2023/.DS_Store":                     "x",
		"/site/courses/ap-biology/drafts/Free-Response Questions.pdf": "x",
		"/site/courses/ap-biology/202/old.pdf":                        "x",
	})

	idx, err := a.ToCourse("/site/courses/ap-biology")
	require.NoError(t, err)

	assert.Equal(t, "ap-biology", idx.Slug)
	assert.Equal(t, "ap-biology", idx.Title)
	assert.Equal(t, "/courses/ap-biology", idx.BasePath)
	assert.Equal(t, "2024-05-01T12:00:00.000Z", idx.GeneratedAt)
	assert.Empty(t, idx.Description)

	require.Len(t, idx.Years, 2)
	assert.Equal(t, "2023", idx.Years[0].Year)
	assert.Equal(t, "2019", idx.Years[1].Year)
	assert.Equal(t, []entity.FileEntry{
		{Name: "Free-Response Questions.pdf", URL: "/courses/ap-biology/2023/Free-Response%20Questions.pdf"},
		{Name: "scoring guidelines.PDF", URL: "/courses/ap-biology/2023/scoring%20guidelines.PDF"},
	}, idx.Years[0].Files)
}

func TestToCourseDescription(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/site/courses/ap-physics-1/2023/Free-Response Questions.pdf": "x",
		"/site/courses/ap-physics-1/description.md": `---
title: AP Physics 1 Algebra-Based
---
Start with {{ file: Free-Response Questions.pdf }}.
`,
	})

	idx, err := a.ToCourse("/site/courses/ap-physics-1")
	require.NoError(t, err)

	assert.Equal(t, "AP Physics 1 Algebra-Based", idx.Title)
	assert.Equal(t, `<p>Start with <a class="course-file" href="/courses/ap-physics-1/2023/Free-Response%20Questions.pdf">Free-Response Questions.pdf</a>.</p>`, idx.Description)
}

func TestToCourseMissingFolder(t *testing.T) {
	a := newTestAdapter(t, nil)

	_, err := a.ToCourse("/site/courses/none")
	assert.Error(t, err)
}

func TestToQuestions(t *testing.T) {
	a := newTestAdapter(t, map[string]string{
		"/site/questions/AP Biology/2019/q1.json":      `{"year": 2019, "question_type": " Long ", "units": ["Unit 2: Cell Structure"]}`,
		"/site/questions/AP Biology/2021/q2.json":      `{"year": "2021", "question_type": "", "units": ["Unit 1: Chemistry of Life", "Unit 2: Cell Structure"]}`,
		"/site/questions/AP Biology/2021/q3.json":      `{"year": 2021, "units": []}`,
		"/site/questions/AP Biology/2021/bad.json":     `{"year": 2021,`,
		"/site/questions/AP Biology/2021/noyear.json":  `{"units": ["Unit 1"]}`,
		"/site/questions/AP Biology/2021/zero.json":    `{"year": 0, "units": ["Unit 1"]}`,
		"/site/questions/AP Biology/2021/nounits.json": `{"year": 2021, "units": "Unit 1"}`,
		"/site/questions/AP Biology/2021/q2.pdf":       "x",
	})

	qi, err := a.ToQuestions("/site/questions/AP Biology")
	require.NoError(t, err)

	assert.Equal(t, "AP Biology", qi.Course)
	assert.Equal(t, []string{"Long"}, qi.QuestionTypes)
	assert.Equal(t, []string{"Unit 1: Chemistry of Life", "Unit 2: Cell Structure"}, qi.Units)

	var bases []string
	for _, q := range qi.Questions {
		bases = append(bases, q.FileBase)
	}
	assert.Equal(t, []string{"q2", "q3", "q1"}, bases)

	q2 := qi.Questions[0]
	assert.Equal(t, entity.Year("2021"), q2.Year)
	assert.Nil(t, q2.QuestionType)
	assert.Equal(t, "/questions/AP Biology/2021/q2.pdf", q2.QuestionPDF)

	q1 := qi.Questions[2]
	require.NotNil(t, q1.QuestionType)
	assert.Equal(t, "Long", *q1.QuestionType)
}

func TestNewFSAdapterRequiresExtensions(t *testing.T) {
	_, err := NewFSAdapterWithFS(afero.NewMemMapFs(), &config.BuildConfig{}, testLogger())
	assert.Error(t, err)
}
