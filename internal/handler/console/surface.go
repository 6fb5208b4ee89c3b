package consolehandler

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jgivc/frqarchive/internal/view"
)

// textSurface prints every page it is shown and numbers its in-app links
// so they can be followed by number.
type textSurface struct {
	mu    sync.Mutex
	out   io.Writer
	page  *view.Page
	links []string
}

func newTextSurface(out io.Writer) *textSurface {
	return &textSurface{out: out}
}

func (s *textSurface) Show(p *view.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.page = p
	s.links = s.links[:0]

	w := &pageWriter{s: s}
	w.page(p)
	io.WriteString(s.out, w.b.String())
}

// Link returns the href of link n, counting from 1.
func (s *textSurface) Link(n int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n < 1 || n > len(s.links) {
		return "", false
	}

	return s.links[n-1], true
}

func (s *textSurface) Page() *view.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.page
}

type pageWriter struct {
	s *textSurface
	b strings.Builder
}

func (w *pageWriter) line(format string, args ...any) {
	fmt.Fprintf(&w.b, format+"\n", args...)
}

func (w *pageWriter) link(label, href string) string {
	w.s.links = append(w.s.links, href)

	return fmt.Sprintf("[%d] %s", len(w.s.links), label)
}

func (w *pageWriter) page(p *view.Page) {
	w.line("== %s ==", p.Meta.Title)

	if len(p.Crumbs) > 0 {
		parts := make([]string, 0, len(p.Crumbs))
		for _, c := range p.Crumbs {
			if c.Active || c.Href == "" {
				parts = append(parts, c.Label)
			} else {
				parts = append(parts, w.link(c.Label, c.Href))
			}
		}
		w.line("%s", strings.Join(parts, " / "))
	}

	if p.NotFound {
		w.line("Page not found.")
	}

	if e := p.Error; e != nil {
		w.line("! %s", e.Message)
		for i, step := range e.Steps {
			w.line("  %d. %s", i+1, step)
		}
		if e.Detail != "" {
			w.line("  %s", e.Detail)
		}
	}

	switch {
	case p.Home != nil:
		w.home(p.Home)
	case p.Course != nil:
		w.course(p.Course)
	}

	if p.Detail != nil {
		w.detail(p.Detail)
	}

	if n := p.Notice; n != nil {
		w.line("* %s", n.Title)
		for _, l := range n.Lines {
			w.line("  %s", l)
		}
	}
}

func (w *pageWriter) home(h *view.HomeView) {
	if h.Count != "" {
		w.line("%s", h.Count)
	}

	for _, c := range h.Courses {
		if len(c.Categories) > 0 {
			w.line("%s (%s)", w.link(c.Title, c.Href), strings.Join(c.Categories, ", "))

			continue
		}
		w.line("%s", w.link(c.Title, c.Href))
	}
}

func (w *pageWriter) course(c *view.CourseView) {
	w.line("# %s", c.Title)
	if c.Blurb != "" {
		w.line("%s", c.Blurb)
	}

	tabs := make([]string, 0, len(c.Tabs))
	for _, t := range c.Tabs {
		if t.Active {
			tabs = append(tabs, "<"+t.Label+">")
		} else {
			tabs = append(tabs, w.link(t.Label, t.Href))
		}
	}
	w.line("%s", strings.Join(tabs, " | "))

	if c.Count != "" {
		w.line("%s", c.Count)
	}

	for _, y := range c.Years {
		w.line("%s", w.link(y.Year, y.Href))
		w.files(y.Files)
	}

	if t := c.Topic; t != nil {
		if t.TypesAvailable {
			w.line("types: %s", options(t.Types))
		}
		w.line("units: %s", options(t.Units))
		for _, q := range t.Items {
			w.line("- %s <%s>", q.Title, q.URL)
		}
		w.line("%s", w.link("Reset filters", t.ResetHref))
	}
}

func (w *pageWriter) detail(d *view.DetailView) {
	cats := make([]string, 0, len(d.Categories))
	for _, c := range d.Categories {
		if c.Active {
			cats = append(cats, "<"+c.Label+">")
		} else {
			cats = append(cats, w.link(c.Label, c.Href))
		}
	}
	if len(cats) > 0 {
		w.line("%s", strings.Join(cats, " | "))
	}

	if d.Count != "" {
		w.line("%s", d.Count)
	}
	w.files(d.Files)
}

func (w *pageWriter) files(files []view.FileItem) {
	for _, f := range files {
		w.line("  - %s <%s>", f.Title, f.URL)
	}
}

func options(opts []view.Option) string {
	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		if o.Selected {
			parts = append(parts, "*"+o.Label)
		} else {
			parts = append(parts, o.Label)
		}
	}

	return strings.Join(parts, ", ")
}
