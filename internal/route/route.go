// Package route maps a normalized path to one of a fixed set of views.
package route

import (
	"net/url"
	"regexp"
	"strings"
)

type Kind int

const (
	KindHome Kind = iota
	KindCourseByYear
	KindCourseByTopic
	KindCourseYearDetail
	KindCourseYearTypeDetail
	KindNotFound
)

// Kinds lists every route kind; a dispatcher over Kind must handle all of them.
var Kinds = []Kind{
	KindHome,
	KindCourseByYear,
	KindCourseByTopic,
	KindCourseYearDetail,
	KindCourseYearTypeDetail,
	KindNotFound,
}

func (k Kind) String() string {
	switch k {
	case KindHome:
		return "Home"
	case KindCourseByYear:
		return "CourseByYear"
	case KindCourseByTopic:
		return "CourseByTopic"
	case KindCourseYearDetail:
		return "CourseYearDetail"
	case KindCourseYearTypeDetail:
		return "CourseYearTypeDetail"
	}

	return "NotFound"
}

// IsCourse reports whether the kind belongs to a course page.
func (k Kind) IsCourse() bool {
	switch k {
	case KindCourseByYear, KindCourseByTopic, KindCourseYearDetail, KindCourseYearTypeDetail:
		return true
	}

	return false
}

const (
	ParamView = "view"

	ViewYear  = "year"
	ViewTopic = "topic"

	coursePrefix = "/course/"
)

var yearRegexp = regexp.MustCompile(`^\d{4}$`)

type Route struct {
	Kind  Kind
	Slug  string
	Year  string
	Type  string
	Path  string     // Escaped path as resolved
	Query url.Values // Never nil
}

// Resolve never fails: anything that is not a known view is KindNotFound.
// path is the escaped form, so an encoded "/" inside a slug stays in the slug.
func Resolve(path string, query url.Values) Route {
	if query == nil {
		query = url.Values{}
	}

	r := Route{Kind: KindNotFound, Path: path, Query: query}

	if path == "/" {
		r.Kind = KindHome

		return r
	}

	rest, ok := strings.CutPrefix(path, coursePrefix)
	if !ok {
		return r
	}

	raw := strings.Split(rest, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		seg, err := url.PathUnescape(s)
		if err != nil || seg == "" {
			return r
		}
		segs = append(segs, seg)
	}

	switch len(segs) {
	case 1:
		r.Slug = segs[0]
		r.Kind = KindCourseByYear
		if query.Get(ParamView) == ViewTopic {
			r.Kind = KindCourseByTopic
		}
	case 2:
		if !yearRegexp.MatchString(segs[1]) {
			return r
		}
		r.Slug, r.Year = segs[0], segs[1]
		r.Kind = KindCourseYearDetail
	case 3:
		if !yearRegexp.MatchString(segs[1]) {
			return r
		}
		r.Slug, r.Year, r.Type = segs[0], segs[1], segs[2]
		r.Kind = KindCourseYearTypeDetail
	}

	return r
}

// ResolveURL resolves a path with an optional raw query string attached.
func ResolveURL(pathAndQuery string) Route {
	p, rawQuery, _ := strings.Cut(pathAndQuery, "?")
	if p == "" {
		p = "/"
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		q = url.Values{}
	}

	return Resolve(p, q)
}

func HomePath() string {
	return "/"
}

func CoursePath(slug string) string {
	return coursePrefix + url.PathEscape(slug)
}

func YearPath(slug, year string) string {
	return CoursePath(slug) + "/" + url.PathEscape(year)
}

func TypePath(slug, year, typ string) string {
	return YearPath(slug, year) + "/" + url.PathEscape(typ)
}

// Location returns the escaped path that resolves back to r, without query.
func (r Route) Location() string {
	switch r.Kind {
	case KindHome:
		return HomePath()
	case KindCourseByYear, KindCourseByTopic:
		return CoursePath(r.Slug)
	case KindCourseYearDetail:
		return YearPath(r.Slug, r.Year)
	case KindCourseYearTypeDetail:
		return TypePath(r.Slug, r.Year, r.Type)
	}

	return r.Path
}

// Same reports whether both routes point at the same view and parameters.
// Query differences other than the view switch are ignored.
func (r Route) Same(o Route) bool {
	return r.Kind == o.Kind && r.Slug == o.Slug && r.Year == o.Year && r.Type == o.Type
}
