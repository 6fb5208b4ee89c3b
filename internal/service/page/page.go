package page

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/util"
	"github.com/jgivc/frqarchive/internal/view"
)

type PageRenderer interface {
	Render(ctx context.Context, rt route.Route) *view.Page
}

type TplAdapter interface {
	Parse(page *view.Page) (string, error)
}

type pageService struct {
	renderer PageRenderer
	tpl      TplAdapter
	log      *slog.Logger
}

func NewPageService(renderer PageRenderer, tpl TplAdapter, log *slog.Logger) *pageService {
	return &pageService{
		renderer: renderer,
		tpl:      tpl,
		log:      log.With(slog.String("item", "PageService")),
	}
}

// GetPage resolves an escaped path and query into a rendered page. Loader
// failures are part of the page; only template errors are returned.
func (s *pageService) GetPage(ctx context.Context, path string, query url.Values) (*entity.RenderedPage, error) {
	rt := route.Resolve(path, query)
	p := s.renderer.Render(ctx, rt)

	body, err := s.tpl.Parse(p)
	if err != nil {
		s.log.Error("Cannot render page", slog.String("path", path), slog.Any("error", err))

		return nil, fmt.Errorf("cannot render page %s: %w", path, err)
	}

	s.log.Debug("Render page", slog.String("path", path), slog.String("kind", rt.Kind.String()), slog.Int("status", p.Status))

	return &entity.RenderedPage{
		Status: p.Status,
		Href:   p.Href,
		Body:   body,
		ETag:   `"` + util.GetIDFromString(&body) + `"`,
	}, nil
}
