// Package view turns a resolved route into a Page. Loader failures, empty
// data and panics are all rendered inline; Render never returns an error.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jgivc/frqarchive/internal/catalog"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/urlstate"
)

const siteName = "APFRQs"

type IndexLoader interface {
	Courses(ctx context.Context) (*entity.CourseList, error)
	Course(ctx context.Context, slug string) (*entity.CourseIndex, error)
	Questions(ctx context.Context, slug string) (*entity.QuestionIndex, error)
}

type Renderer struct {
	loader  IndexLoader
	cat     *catalog.Catalog
	siteURL string
	log     *slog.Logger
}

func NewRenderer(loader IndexLoader, cat *catalog.Catalog, siteURL string, log *slog.Logger) *Renderer {
	return &Renderer{
		loader:  loader,
		cat:     cat,
		siteURL: strings.TrimRight(siteURL, "/"),
		log:     log.With(slog.String("item", "Renderer")),
	}
}

func (r *Renderer) Render(ctx context.Context, rt route.Route) (page *Page) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Render failed", slog.String("path", rt.Path), slog.Any("panic", rec))
			page = diagnosticPage(rt, rec)
		}
	}()

	switch rt.Kind {
	case route.KindHome:
		page = r.home(ctx, rt)
	case route.KindCourseByYear:
		page = r.courseByYear(ctx, rt)
	case route.KindCourseByTopic:
		page = r.courseByTopic(ctx, rt)
	case route.KindCourseYearDetail, route.KindCourseYearTypeDetail:
		page = r.yearDetail(ctx, rt)
	case route.KindNotFound:
		page = r.notFound(rt)
	default:
		panic(fmt.Sprintf("unhandled route kind %d", rt.Kind))
	}

	if page.Href == "" {
		page.Href = urlstate.Sync(rt, page.State)
	}

	return page
}

func (r *Renderer) newPage(rt route.Route, st entity.FilterState) *Page {
	return &Page{
		Route:  rt,
		State:  st,
		Status: http.StatusOK,
		Meta:   Meta{Canonical: r.siteURL + rt.Location()},
		Crumbs: []Link{{Label: "Home", Href: route.HomePath()}},
	}
}

func (r *Renderer) notFound(rt route.Route) *Page {
	return &Page{
		Route:    rt,
		Href:     rt.Path,
		Status:   http.StatusNotFound,
		NotFound: true,
		Meta:     Meta{Title: "404 | " + siteName, Description: "Page not found."},
		Crumbs:   []Link{{Label: "Go Home", Href: route.HomePath()}},
	}
}

// diagnosticPage is shown when rendering itself failed.
func diagnosticPage(rt route.Route, rec any) *Page {
	return &Page{
		Route:  rt,
		Href:   rt.Path,
		Status: http.StatusInternalServerError,
		Meta:   Meta{Title: "Error | " + siteName, Description: "Something went wrong."},
		Crumbs: []Link{{Label: "Home", Href: route.HomePath()}},
		Error: &ErrorPanel{
			Message: "Something went wrong while rendering this page.",
			Steps:   []string{"Reload the page", "Go back to the home page"},
			Detail:  fmt.Sprint(rec),
		},
	}
}
