package view

import (
	"context"

	"github.com/jgivc/frqarchive/internal/filter"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/urlstate"
)

func (r *Renderer) home(ctx context.Context, rt route.Route) *Page {
	st := urlstate.Seed(rt)
	if st.Category != "" && !r.cat.HasCategory(st.Category) {
		st.Category = ""
	}

	p := r.newPage(rt, st)
	p.Meta.Title = "AP FRQ Archive | Free Response Questions"
	p.Meta.Description = "Browse AP exam free-response questions, scoring guidelines, and sample responses by course and year."
	p.Crumbs = nil

	hv := &HomeView{Query: st.Query}
	for _, c := range r.cat.Categories() {
		hv.Categories = append(hv.Categories, Option{Value: c, Label: c, Selected: c == st.Category})
	}
	p.Home = hv

	list, err := r.loader.Courses(ctx)
	if err != nil {
		p.Error = &ErrorPanel{
			Message: "Could not load your courses list.",
			Steps: []string{
				"Run the build command to generate /data/courses.json",
				"Ensure the site is served over HTTP, not opened from disk",
			},
			Detail: err.Error(),
		}

		return p
	}

	if len(list.Courses) == 0 {
		p.Notice = &Notice{
			Title: "No courses found.",
			Lines: []string{"Run the build command to generate the course indexes."},
		}

		return p
	}

	courses := r.cat.SortCourses(list.Courses)
	shown := filter.Courses(courses, st, r.cat)

	for _, c := range shown {
		hv.Courses = append(hv.Courses, CourseCard{
			Slug:       c.Slug,
			Title:      r.cat.Title(c.Title),
			Href:       route.CoursePath(c.Slug),
			Categories: r.cat.CategoriesOf(c.Slug),
		})
	}
	hv.Count = filter.CountSummary(len(shown), len(courses))

	return p
}
