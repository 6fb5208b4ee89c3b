package mdadapter

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// FileResolverKey holds the FileResolver of the document being converted.
var FileResolverKey = parser.NewContextKey()

var directiveRegexp = regexp.MustCompile(`^\{\{\s*file:\s*([^}]+?)\s*\}\}`)

// FileResolver maps a file name used in a description to its public URL.
type FileResolver interface {
	FileURL(name string) (string, bool)
}

type fileLinkParser struct{}

func NewFileLinkParser() parser.InlineParser {
	return &fileLinkParser{}
}

func (p *fileLinkParser) Trigger() []byte {
	return []byte{'{'}
}

func (p *fileLinkParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, _ := block.PeekLine()

	m := directiveRegexp.FindSubmatch(line)
	if m == nil {
		return nil
	}
	block.Advance(len(m[0]))

	node := &FileLink{Name: strings.TrimSpace(string(m[1]))}
	if r, ok := pc.Get(FileResolverKey).(FileResolver); ok {
		node.URL, node.Found = r.FileURL(node.Name)
	}

	return node
}
