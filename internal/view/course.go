package view

import (
	"cmp"
	"context"
	"html/template"
	"log/slog"
	"slices"
	"strconv"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/facet"
	"github.com/jgivc/frqarchive/internal/filter"
	"github.com/jgivc/frqarchive/internal/route"
	"github.com/jgivc/frqarchive/internal/urlstate"
	"github.com/jgivc/frqarchive/internal/util"
)

// loadCourse fills the course header. It returns nil when the index could
// not be loaded; the page then carries the error panel.
func (r *Renderer) loadCourse(ctx context.Context, p *Page) *entity.CourseIndex {
	rt := p.Route

	cv := &CourseView{
		Slug:  rt.Slug,
		Title: rt.Slug,
		Query: p.State.Query,
		Tabs: []Link{
			{Label: "By year", Href: urlstate.SwitchView(rt, route.ViewYear), Active: rt.Kind != route.KindCourseByTopic},
			{Label: "By topic", Href: urlstate.SwitchView(rt, route.ViewTopic), Active: rt.Kind == route.KindCourseByTopic},
		},
	}
	p.Course = cv
	p.Meta.Title = rt.Slug + " | " + siteName
	p.Meta.Description = "AP materials for " + rt.Slug + "."

	idx, err := r.loader.Course(ctx, rt.Slug)
	if err != nil {
		p.Crumbs = append(p.Crumbs, Link{Label: rt.Slug, Active: true})
		p.Error = &ErrorPanel{
			Message: "Could not load this course index.",
			Steps:   []string{"Run the build command and publish the updated data/ folder"},
			Detail:  err.Error(),
		}

		return nil
	}

	if idx.Title != "" {
		cv.Title = r.cat.Title(idx.Title)
	}
	cv.Description = template.HTML(idx.Description)
	cv.Blurb = "This page contains archived " + cv.Title + " free-response questions, scoring guidelines, and related exam materials from past years."

	return idx
}

func (r *Renderer) courseByYear(ctx context.Context, rt route.Route) *Page {
	p := r.newPage(rt, urlstate.Seed(rt))

	idx := r.loadCourse(ctx, p)
	if idx == nil {
		return p
	}

	cv := p.Course
	p.Crumbs = append(p.Crumbs, Link{Label: cv.Title, Href: route.CoursePath(rt.Slug), Active: true})
	p.Meta.Title = cv.Title + " By Year | " + siteName
	p.Meta.Description = cv.Title + " free-response questions and related resources, organized by year."

	if len(idx.Years) == 0 {
		p.Notice = &Notice{Title: "No years found for this course."}

		return p
	}

	f := facet.FromCourse(idx)
	st := p.State
	if st.Year != "" && !slices.Contains(f.Years, st.Year) {
		st.Year = ""
	}
	p.State = st

	for _, y := range f.Years {
		cv.YearOptions = append(cv.YearOptions, Option{Value: y, Label: y, Selected: y == st.Year})
	}

	years := filter.Years(idx.Years, st)
	sortYearsDesc(years)

	shown := 0
	for _, y := range years {
		files := fileItems(filter.SortFiles(y.Files))
		shown += len(files)

		cv.Years = append(cv.Years, YearGroup{
			Year:    y.Year,
			Caption: cv.Title + " " + y.Year + " resources",
			Href:    route.YearPath(rt.Slug, y.Year),
			Files:   files,
		})
	}
	cv.Count = filter.CountSummary(shown, idx.FileCount())

	return p
}

func (r *Renderer) courseByTopic(ctx context.Context, rt route.Route) *Page {
	p := r.newPage(rt, urlstate.Seed(rt))

	idx := r.loadCourse(ctx, p)
	if idx == nil {
		return p
	}

	cv := p.Course
	p.Crumbs = append(p.Crumbs, Link{Label: cv.Title, Href: route.CoursePath(rt.Slug), Active: true})
	p.Meta.Title = cv.Title + " By Topic | " + siteName
	p.Meta.Description = cv.Title + " questions organized by unit, with optional question type filtering when available."

	source := idx.Title
	if source == "" {
		source = rt.Slug
	}
	questionSlug := util.Slugify(source)

	qIdx, err := r.loader.Questions(ctx, questionSlug)
	if err != nil {
		r.log.Info("Topic index unavailable", slog.String("slug", questionSlug), slog.Any("error", err))
		p.Notice = &Notice{
			Title: "By topic is not available for this course yet.",
			Lines: []string{
				"Missing /data/questions-" + questionSlug + ".json",
				"If you want it enabled, add question JSONs under /questions/" + cv.Title + "/ and rerun the build",
			},
		}

		return p
	}

	if len(qIdx.Questions) == 0 {
		p.Notice = &Notice{
			Title: "By topic is not available for this course yet.",
			Lines: []string{"No questions were found in the generated questions index."},
		}

		return p
	}

	f := facet.FromQuestions(qIdx)
	st := p.State
	if !f.TypesAvailable || !f.HasType(st.QuestionType) {
		st.QuestionType = ""
	}
	if !f.HasUnit(st.Unit) {
		st.Unit = ""
	}
	if st.Year != "" && !slices.Contains(f.Years, st.Year) {
		st.Year = ""
	}
	p.State = st

	tv := &TopicView{
		TypesAvailable: f.TypesAvailable,
		ResetHref:      urlstate.Sync(rt, entity.FilterState{}),
	}
	for _, t := range f.Types {
		tv.Types = append(tv.Types, Option{Value: t, Label: t, Selected: t == st.QuestionType})
	}
	for _, u := range f.Units {
		tv.Units = append(tv.Units, Option{Value: u, Label: u, Selected: u == st.Unit})
	}
	for _, y := range f.Years {
		cv.YearOptions = append(cv.YearOptions, Option{Value: y, Label: y, Selected: y == st.Year})
	}

	shown := filter.SortQuestions(filter.Questions(qIdx.Questions, st, f))
	titles := filter.Titles(shown)
	for i, q := range shown {
		tv.Items = append(tv.Items, QuestionItem{
			Title: titles[i],
			URL:   q.QuestionPDF,
			Units: q.Units,
		})
	}

	cv.Topic = tv
	cv.Count = filter.CountSummary(len(shown), len(qIdx.Questions))

	return p
}

func (r *Renderer) yearDetail(ctx context.Context, rt route.Route) *Page {
	p := r.newPage(rt, urlstate.Seed(rt))

	idx := r.loadCourse(ctx, p)
	if idx == nil {
		return p
	}

	cv := p.Course
	p.Crumbs = append(p.Crumbs,
		Link{Label: cv.Title, Href: route.CoursePath(rt.Slug)},
		Link{Label: rt.Year, Href: route.YearPath(rt.Slug, rt.Year), Active: rt.Kind == route.KindCourseYearDetail},
	)
	p.Meta.Title = cv.Title + " " + rt.Year + " | " + siteName
	p.Meta.Description = cv.Title + " " + rt.Year + " free-response questions, scoring guidelines, and related files."

	dv := &DetailView{Year: rt.Year}
	p.Detail = dv

	year, ok := idx.FindYear(rt.Year)
	if !ok {
		p.Notice = &Notice{Title: "No files found for " + rt.Year + "."}

		return p
	}

	files := year.Files
	present := facet.FromCourse(&entity.CourseIndex{Years: []entity.YearEntry{*year}})
	for _, c := range present.Categories {
		dv.Categories = append(dv.Categories, Link{
			Label:  c.Label(),
			Href:   route.TypePath(rt.Slug, rt.Year, string(c)),
			Active: rt.Kind == route.KindCourseYearTypeDetail && string(c) == rt.Type,
		})
	}

	if rt.Kind == route.KindCourseYearTypeDetail {
		c, ok := entity.ParseFileCategory(rt.Type)
		if !ok {
			p.Notice = &Notice{Title: "Unknown file type " + strconv.Quote(rt.Type) + "."}
			for _, known := range entity.FileCategories {
				p.Notice.Lines = append(p.Notice.Lines, string(known)+": "+known.Label())
			}

			return p
		}

		dv.Category = c
		files = filter.FilesOfCategory(files, c)
		p.Crumbs = append(p.Crumbs, Link{Label: c.Label(), Href: route.TypePath(rt.Slug, rt.Year, rt.Type), Active: true})
		p.Meta.Title = cv.Title + " " + rt.Year + " " + c.Label() + " | " + siteName
	}

	shown := filter.SortFiles(filter.Files(files, p.State))
	dv.Files = fileItems(shown)
	dv.Count = filter.CountSummary(len(shown), len(files))

	return p
}

func fileItems(files []entity.FileEntry) []FileItem {
	items := make([]FileItem, 0, len(files))
	for _, f := range files {
		items = append(items, FileItem{
			Title:    filter.StripExtension(f.Name),
			Name:     f.Name,
			URL:      f.URL,
			Category: entity.Classify(f.Name),
		})
	}

	return items
}

func sortYearsDesc(years []entity.YearEntry) {
	slices.SortStableFunc(years, func(a, b entity.YearEntry) int {
		x, _ := strconv.Atoi(a.Year)
		y, _ := strconv.Atoi(b.Year)

		return cmp.Compare(y, x)
	})
}
