package navigation

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jgivc/frqarchive/internal/catalog"
	"github.com/jgivc/frqarchive/internal/common"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrigin = "https://apfrqs.example"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type recordingSurface struct {
	mu    sync.Mutex
	pages []*view.Page
}

func (s *recordingSurface) Show(p *view.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages = append(s.pages, p)
}

func (s *recordingSurface) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.pages)
}

func (s *recordingSurface) paths() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for _, p := range s.pages {
		out = append(out, p.Route.Location())
	}

	return out
}

func (s *recordingSurface) last() *view.Page {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.pages) == 0 {
		return nil
	}

	return s.pages[len(s.pages)-1]
}

// gatedRenderer blocks renders of the gated paths until their gate closes.
type gatedRenderer struct {
	gates map[string]chan struct{}
}

func (g *gatedRenderer) Render(_ context.Context, rt route.Route) *view.Page {
	if gate, ok := g.gates[rt.Location()]; ok {
		<-gate
	}

	return &view.Page{Route: rt, Href: rt.Location()}
}

type courseLoader struct{}

func (courseLoader) Courses(_ context.Context) (*entity.CourseList, error) {
	return &entity.CourseList{Courses: []entity.Course{{Slug: "ap-biology", Title: "AP Biology"}}}, nil
}

func (courseLoader) Course(_ context.Context, slug string) (*entity.CourseIndex, error) {
	if slug != "ap-biology" {
		return nil, fmt.Errorf("cannot load course %q: %w", slug, common.ErrNotFound)
	}

	return &entity.CourseIndex{
		Slug:  "ap-biology",
		Title: "AP Biology",
		Years: []entity.YearEntry{{Year: "2021", Files: []entity.FileEntry{{Name: "Free-Response Questions.pdf", URL: "/courses/ap-biology/2021/Free-Response%20Questions.pdf"}}}},
	}, nil
}

func (courseLoader) Questions(_ context.Context, slug string) (*entity.QuestionIndex, error) {
	return nil, fmt.Errorf("cannot load questions %q: %w", slug, common.ErrNotFound)
}

func newTestNavigator(start string, addr Addressing, r PageRenderer) (*Navigator, *History, *recordingSurface) {
	h := NewHistory(start)
	s := &recordingSurface{}

	return NewNavigator(h, addr, r, s, testOrigin, testLogger()), h, s
}

func realRenderer() PageRenderer {
	return view.NewRenderer(courseLoader{}, catalog.Default(), testOrigin, testLogger())
}

func TestHistory(t *testing.T) {
	h := NewHistory("/")
	h.Push("/a")
	h.Push("/b")
	assert.Equal(t, 3, h.Len())

	addr, ok := h.Back()
	require.True(t, ok)
	assert.Equal(t, "/a", addr)

	h.Push("/c")
	assert.Equal(t, 3, h.Len())
	_, ok = h.Forward()
	assert.False(t, ok)

	h.Replace("/c?q=1")
	assert.Equal(t, "/c?q=1", h.Current())

	entries, cur := h.Entries()
	assert.Equal(t, []string{"/", "/a", "/c?q=1"}, entries)
	assert.Equal(t, 2, cur)

	_, _ = h.Back()
	_, _ = h.Back()
	_, ok = h.Back()
	require.False(t, ok)
	assert.Equal(t, "/", h.Current())
}

func TestAddressing(t *testing.T) {
	testCases := []struct {
		name    string
		addr    Addressing
		href    string
		address string
	}{
		{name: "path", addr: PathAddressing{}, href: "/course/ap-biology?view=topic", address: "/course/ap-biology?view=topic"},
		{name: "path home", addr: PathAddressing{}, href: "/", address: "/"},
		{name: "fragment", addr: FragmentAddressing{}, href: "/course/ap-biology?view=topic", address: "/#/course/ap-biology?view=topic"},
		{name: "fragment home", addr: FragmentAddressing{}, href: "/", address: "/#/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.address, tc.addr.Address(tc.href))
			assert.Equal(t, tc.href, tc.addr.Href(tc.address))
		})
	}

	assert.Equal(t, "/", FragmentAddressing{}.Href("/"))
	assert.Equal(t, "/course/x", FragmentAddressing{}.Href("/#course/x"))
}

func TestClickIsNotIntercepted(t *testing.T) {
	testCases := []struct {
		name string
		ev   LinkEvent
	}{
		{name: "meta", ev: LinkEvent{Href: "/course/ap-biology", Meta: true}},
		{name: "ctrl", ev: LinkEvent{Href: "/course/ap-biology", Ctrl: true}},
		{name: "shift", ev: LinkEvent{Href: "/course/ap-biology", Shift: true}},
		{name: "alt", ev: LinkEvent{Href: "/course/ap-biology", Alt: true}},
		{name: "cross origin", ev: LinkEvent{Href: "https://apcentral.collegeboard.org/courses"}},
		{name: "other scheme", ev: LinkEvent{Href: "http://apfrqs.example/course/ap-biology"}},
		{name: "in-page anchor", ev: LinkEvent{Href: "#top"}},
		{name: "mailto", ev: LinkEvent{Href: "mailto:help@apfrqs.example"}},
		{name: "javascript", ev: LinkEvent{Href: "javascript:void(0)"}},
		{name: "tel", ev: LinkEvent{Href: "tel:123"}},
		{name: "data", ev: LinkEvent{Href: "data:text/plain,hi"}},
		{name: "file scheme", ev: LinkEvent{Href: "file:///course/ap-biology"}},
		{name: "protocol relative", ev: LinkEvent{Href: "//other.example/course/ap-biology"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nav, h, s := newTestNavigator("/", PathAddressing{}, &gatedRenderer{})

			assert.False(t, nav.Click(context.Background(), tc.ev))
			nav.Wait()
			assert.Equal(t, 1, h.Len())
			assert.Zero(t, s.count())
		})
	}
}

func TestClickPushesAndRenders(t *testing.T) {
	testCases := []struct {
		name string
		href string
	}{
		{name: "relative", href: "/course/ap-biology"},
		{name: "same origin", href: testOrigin + "/course/ap-biology"},
		{name: "fragment", href: "#/course/ap-biology"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			nav, h, s := newTestNavigator("/", PathAddressing{}, &gatedRenderer{})

			require.True(t, nav.Click(context.Background(), LinkEvent{Href: tc.href}))
			nav.Wait()

			assert.Equal(t, 2, h.Len())
			assert.Equal(t, "/course/ap-biology", h.Current())
			assert.Equal(t, []string{"/course/ap-biology"}, s.paths())
			assert.Equal(t, route.KindCourseByYear, nav.Current().Kind)
		})
	}
}

func TestStaleRenderIsDropped(t *testing.T) {
	gate := make(chan struct{})
	r := &gatedRenderer{gates: map[string]chan struct{}{"/course/slow": gate}}
	nav, h, s := newTestNavigator("/", PathAddressing{}, r)
	ctx := context.Background()

	nav.Navigate(ctx, "/course/slow")
	nav.Navigate(ctx, "/course/fast")

	require.Eventually(t, func() bool { return s.count() == 1 }, time.Second, time.Millisecond)
	close(gate)
	nav.Wait()

	assert.Equal(t, []string{"/course/fast"}, s.paths())
	assert.Equal(t, "/course/fast", h.Current())
	assert.Equal(t, "fast", nav.Current().Slug)
}

func TestBackAndForwardDoNotPush(t *testing.T) {
	nav, h, s := newTestNavigator("/", PathAddressing{}, &gatedRenderer{})
	ctx := context.Background()

	nav.Start(ctx)
	nav.Wait()
	nav.Navigate(ctx, "/course/ap-biology")
	nav.Wait()

	require.True(t, nav.Back(ctx))
	nav.Wait()
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/", h.Current())
	assert.Equal(t, route.KindHome, s.last().Route.Kind)

	require.True(t, nav.Forward(ctx))
	nav.Wait()
	assert.Equal(t, 2, h.Len())
	assert.Equal(t, "/course/ap-biology", s.last().Route.Location())

	assert.False(t, nav.Forward(ctx))
}

func TestViewSwitchClearsParams(t *testing.T) {
	nav, h, s := newTestNavigator("/course/ap-biology?view=year&type=Long&unit=Unit+1&q=frq", PathAddressing{}, realRenderer())
	ctx := context.Background()

	nav.Start(ctx)
	nav.Wait()

	page := s.last()
	require.NotNil(t, page.Course)
	assert.Equal(t, "/course/ap-biology?q=frq", h.Current())

	topic := page.Course.Tabs[1]
	require.True(t, nav.Click(ctx, LinkEvent{Href: topic.Href}))
	nav.Wait()

	assert.Equal(t, "/course/ap-biology?view=topic", h.Current())
	assert.Equal(t, route.KindCourseByTopic, s.last().Route.Kind)
	assert.True(t, s.last().State.IsEmpty())
}

func TestUpdateFilterReplaces(t *testing.T) {
	nav, h, s := newTestNavigator("/", PathAddressing{}, realRenderer())
	ctx := context.Background()

	nav.Start(ctx)
	nav.Wait()
	nav.UpdateFilter(ctx, entity.FilterState{Query: " biology ", Unit: "ignored"})
	nav.Wait()

	assert.Equal(t, 1, h.Len())
	assert.Equal(t, "/?q=biology", h.Current())
	require.NotNil(t, s.last().Home)
	assert.Equal(t, "Showing 1 of 1", s.last().Home.Count)
}

func TestFragmentAddressing(t *testing.T) {
	nav, h, s := newTestNavigator("/#/course/ap-biology/2021", FragmentAddressing{}, realRenderer())
	ctx := context.Background()

	nav.Start(ctx)
	nav.Wait()
	assert.Equal(t, route.KindCourseYearDetail, s.last().Route.Kind)

	require.True(t, nav.Click(ctx, LinkEvent{Href: "/course/ap-biology"}))
	nav.Wait()
	assert.Equal(t, "/#/course/ap-biology", h.Current())

	nav.UpdateFilter(ctx, entity.FilterState{Year: "2021"})
	nav.Wait()
	assert.Equal(t, "/#/course/ap-biology?year=2021", h.Current())
	assert.Equal(t, 2, h.Len())
}
