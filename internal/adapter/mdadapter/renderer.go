package mdadapter

import (
	"fmt"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

type fileLinkRenderer struct{}

func NewFileLinkRenderer() renderer.NodeRenderer {
	return &fileLinkRenderer{}
}

func (r *fileLinkRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindFileLink, r.renderFileLink)
}

func (r *fileLinkRenderer) renderFileLink(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	link, ok := n.(*FileLink)
	if !ok {
		return ast.WalkStop, fmt.Errorf("unexpected node %T, expected *FileLink", n)
	}

	name := util.EscapeHTML([]byte(link.Name))

	// An unknown file is shown as plain text so a stale description does
	// not break the build.
	if !link.Found {
		_, _ = w.WriteString(`<span class="missing-file">`)
		_, _ = w.Write(name)
		_, _ = w.WriteString(`</span>`)

		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a class="course-file" href="`)
	_, _ = w.Write(util.EscapeHTML([]byte(link.URL)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(name)
	_, _ = w.WriteString(`</a>`)

	return ast.WalkContinue, nil
}
