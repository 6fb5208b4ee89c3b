package mdadapter

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// FilesExtension adds the "{{ file: <name> }}" directive to goldmark.
type FilesExtension struct{}

func NewFilesExtension() goldmark.Extender {
	return &FilesExtension{}
}

func (e *FilesExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(NewFileLinkParser(), 500),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(NewFileLinkRenderer(), 500),
		),
	)
}
