// Package navigation owns session history and decides which render may
// reach the output surface.
package navigation

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/urlstate"
	"github.com/jgivc/frqarchive/internal/view"
)

type PageRenderer interface {
	Render(ctx context.Context, rt route.Route) *view.Page
}

// Surface is the output owned by the active view. Every Show replaces the
// previous page entirely.
type Surface interface {
	Show(p *view.Page)
}

// LinkEvent is the activation of a link.
type LinkEvent struct {
	Href  string
	Meta  bool
	Ctrl  bool
	Shift bool
	Alt   bool
}

func (e LinkEvent) hasModifier() bool {
	return e.Meta || e.Ctrl || e.Shift || e.Alt
}

type Navigator struct {
	history  *History
	addr     Addressing
	renderer PageRenderer
	surface  Surface
	origin   *url.URL
	log      *slog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current route.Route
	wg      sync.WaitGroup
}

// NewNavigator creates a navigator. origin is the site's own origin
// ("https://host"); links to any other origin are left alone.
func NewNavigator(history *History, addr Addressing, renderer PageRenderer, surface Surface, origin string, log *slog.Logger) *Navigator {
	o, err := url.Parse(origin)
	if err != nil {
		o = &url.URL{}
	}

	return &Navigator{
		history:  history,
		addr:     addr,
		renderer: renderer,
		surface:  surface,
		origin:   o,
		log:      log.With(slog.String("item", "Navigator")),
	}
}

// Start renders the current history entry.
func (n *Navigator) Start(ctx context.Context) {
	n.show(ctx, n.addr.Href(n.history.Current()))
}

// Click handles a link activation. It reports false when the event is left
// to default handling: a modifier key is held or the target is another
// origin.
func (n *Navigator) Click(ctx context.Context, ev LinkEvent) bool {
	if ev.hasModifier() {
		return false
	}

	href, ok := n.internalHref(ev.Href)
	if !ok {
		return false
	}

	n.Navigate(ctx, href)

	return true
}

// Navigate pushes a new entry for href and renders it.
func (n *Navigator) Navigate(ctx context.Context, href string) {
	n.history.Push(n.addr.Address(href))
	n.show(ctx, href)
}

// Back renders the previous entry without pushing.
func (n *Navigator) Back(ctx context.Context) bool {
	address, ok := n.history.Back()
	if ok {
		n.show(ctx, n.addr.Href(address))
	}

	return ok
}

// Forward renders the next entry without pushing.
func (n *Navigator) Forward(ctx context.Context) bool {
	address, ok := n.history.Forward()
	if ok {
		n.show(ctx, n.addr.Href(address))
	}

	return ok
}

// UpdateFilter applies st to the current view. The current entry is
// replaced, so filtering never adds history.
func (n *Navigator) UpdateFilter(ctx context.Context, st entity.FilterState) {
	href := urlstate.Sync(n.Current(), st)

	n.history.Replace(n.addr.Address(href))
	n.show(ctx, href)
}

func (n *Navigator) Current() route.Route {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.current
}

// Wait blocks until every started render has finished.
func (n *Navigator) Wait() {
	n.wg.Wait()
}

func (n *Navigator) internalHref(raw string) (string, bool) {
	// Only "#/..." fragments are app routes; other fragments are in-page anchors.
	if strings.HasPrefix(raw, "#") {
		if !strings.HasPrefix(raw, "#/") {
			return "", false
		}

		return FragmentAddressing{}.Href(raw), true
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}

	// mailto:, javascript:, data: and the like are never this site.
	if u.Opaque != "" {
		return "", false
	}

	if (u.Scheme != "" || u.Host != "") && (u.Scheme != n.origin.Scheme || u.Host != n.origin.Host) {
		return "", false
	}

	if strings.HasPrefix(u.Fragment, "/") && (u.Path == "" || u.Path == "/") {
		return FragmentAddressing{}.Href("#" + u.Fragment), true
	}

	href := u.EscapedPath()
	if href == "" {
		href = "/"
	}
	if u.RawQuery != "" {
		href += "?" + u.RawQuery
	}

	return href, true
}

// show renders href on its own goroutine. Only the render of the latest
// call may reach the surface; older ones are cancelled and dropped.
func (n *Navigator) show(ctx context.Context, href string) {
	rt := route.ResolveURL(href)

	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.gen++
	gen := n.gen
	rctx, cancel := context.WithCancel(ctx)
	n.cancel = cancel
	n.current = rt
	n.mu.Unlock()

	n.log.Debug("Navigate", slog.String("href", href), slog.String("kind", rt.Kind.String()), slog.Uint64("gen", gen))

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer cancel()

		page := n.renderer.Render(rctx, rt)

		n.mu.Lock()
		defer n.mu.Unlock()

		if gen != n.gen {
			n.log.Debug("Drop stale render", slog.String("href", href), slog.Uint64("gen", gen))

			return
		}

		n.current = page.Route
		if page.Href != "" && page.Href != href {
			n.history.Replace(n.addr.Address(page.Href))
		}
		n.surface.Show(page)
	}()
}
