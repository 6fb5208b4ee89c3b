package mdadapter

import (
	"github.com/yuin/goldmark/ast"
)

var KindFileLink = ast.NewNodeKind("FileLink")

// FileLink is a "{{ file: <name> }}" directive resolved against the files of
// the course being described.
type FileLink struct {
	ast.BaseInline
	Name  string
	URL   string
	Found bool
}

func (n *FileLink) Kind() ast.NodeKind {
	return KindFileLink
}

func (n *FileLink) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name": n.Name,
		"URL":  n.URL,
	}, nil)
}
