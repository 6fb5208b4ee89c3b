package tpladapter

import (
	"bytes"
	"fmt"
	"html/template"
	"os"
	"strings"

	_ "embed"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/view"
)

const (
	templateNameFiles  = "FILES"
	templateNameNotice = "NOTICE"

	funcNameFiles    = "files"
	funcNameNotice   = "notice"
	funcNameCategory = "category"
	funcNameJoin     = "join"
)

//go:embed page.html
var defaultTemplate string

type tplAdapter struct {
	tpl *template.Template
}

// NewTplAdapter parses the page template. An empty file name selects the
// embedded default.
func NewTplAdapter(templateFileName string) (*tplAdapter, error) {
	a := &tplAdapter{}
	tpl := template.New("").Funcs(template.FuncMap{
		funcNameFiles:    a.renderFiles,
		funcNameNotice:   a.renderNotice,
		funcNameCategory: categoryLabel,
		funcNameJoin:     strings.Join,
	})

	src := defaultTemplate
	if templateFileName != "" {
		data, err := os.ReadFile(templateFileName)
		if err != nil {
			return nil, fmt.Errorf("cannot read template: %w", err)
		}

		src = string(data)
	}

	if _, err := tpl.Parse(src); err != nil {
		return nil, fmt.Errorf("cannot parse template: %w", err)
	}

	for _, name := range []string{templateNameFiles, templateNameNotice} {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s must be defined", name)
		}
	}

	a.tpl = tpl

	return a, nil
}

func (a *tplAdapter) Parse(page *view.Page) (string, error) {
	buf := bytes.Buffer{}
	if err := a.tpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("cannot execute template: %w", err)
	}

	return buf.String(), nil
}

func (a *tplAdapter) renderFiles(files []view.FileItem) (template.HTML, error) {
	return a.renderNamed(templateNameFiles, files)
}

func (a *tplAdapter) renderNotice(n *view.Notice) (template.HTML, error) {
	return a.renderNamed(templateNameNotice, n)
}

func (a *tplAdapter) renderNamed(name string, data any) (template.HTML, error) {
	buf := bytes.Buffer{}
	if err := a.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("cannot execute template %s: %w", name, err)
	}

	return template.HTML(buf.String()), nil
}

func categoryLabel(c entity.FileCategory) string {
	return c.Label()
}
