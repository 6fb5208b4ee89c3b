package tpladapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetail(t *testing.T) {
	a, err := NewTplAdapter("")
	require.NoError(t, err)

	out, err := a.Parse(&view.Page{
		Meta:   view.Meta{Title: "AP Biology 2021 | APFRQs", Canonical: "https://apfrqs.example/course/ap-biology/2021"},
		Crumbs: []view.Link{{Label: "Home", Href: "/"}, {Label: "2021", Active: true}},
		Detail: &view.DetailView{
			Year:  "2021",
			Count: "Showing 1 of 2",
			Files: []view.FileItem{{
				Title:    "Scoring <Guidelines>",
				URL:      "/courses/ap-biology/2021/sg.pdf",
				Category: entity.CategoryScoringGuidelines,
			}},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<title>AP Biology 2021 | APFRQs</title>")
	assert.Contains(t, out, `<link rel="canonical" href="https://apfrqs.example/course/ap-biology/2021">`)
	assert.Contains(t, out, `href="/courses/ap-biology/2021/sg.pdf"`)
	assert.Contains(t, out, "Scoring &lt;Guidelines&gt;")
	assert.Contains(t, out, "Showing 1 of 2")
	assert.Contains(t, out, entity.CategoryScoringGuidelines.Label())
}

func TestParseNoticeAndError(t *testing.T) {
	a, err := NewTplAdapter("")
	require.NoError(t, err)

	out, err := a.Parse(&view.Page{
		Notice: &view.Notice{Title: "By topic is not available for this course yet.", Lines: []string{"Missing /data/questions-ap-art.json"}},
		Error:  &view.ErrorPanel{Message: "Could not load this course index.", Steps: []string{"Run the build command"}, Detail: "fetch failed"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, `<section class="notice">`)
	assert.Contains(t, out, "Missing /data/questions-ap-art.json")
	assert.Contains(t, out, `<section class="error-panel">`)
	assert.Contains(t, out, "<li>Run the build command</li>")
}

func TestParseCourseDescriptionIsHTML(t *testing.T) {
	a, err := NewTplAdapter("")
	require.NoError(t, err)

	out, err := a.Parse(&view.Page{
		Course: &view.CourseView{Title: "AP Biology", Description: "<p>Cells &amp; <em>more</em></p>"},
	})
	require.NoError(t, err)

	assert.Contains(t, out, "<p>Cells &amp; <em>more</em></p>")
}

func TestNewTplAdapterFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.html")
	require.NoError(t, os.WriteFile(good, []byte(`{{ .Meta.Title }}{{ define "FILES" }}{{ end }}{{ define "NOTICE" }}{{ end }}`), 0o644))

	a, err := NewTplAdapter(good)
	require.NoError(t, err)

	out, err := a.Parse(&view.Page{Meta: view.Meta{Title: "Custom"}})
	require.NoError(t, err)
	assert.Equal(t, "Custom", out)

	bad := filepath.Join(dir, "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte(`{{ .Meta.Title }}`), 0o644))

	_, err = NewTplAdapter(bad)
	require.Error(t, err)

	_, err = NewTplAdapter(filepath.Join(dir, "missing.html"))
	require.Error(t, err)
}
