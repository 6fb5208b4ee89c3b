// Package urlstate maps filter state to query parameters and back.
package urlstate

import (
	"net/url"
	"strings"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
)

const (
	ParamQuery    = "q"
	ParamCategory = "cat"
	ParamUnit     = "unit"
	ParamType     = "type"
	ParamYear     = "year"
	ParamView     = route.ParamView
)

// Params lists the filter parameters a view understands.
func Params(kind route.Kind) []string {
	switch kind {
	case route.KindHome:
		return []string{ParamQuery, ParamCategory}
	case route.KindCourseByYear:
		return []string{ParamQuery, ParamYear}
	case route.KindCourseByTopic:
		return []string{ParamQuery, ParamUnit, ParamType, ParamYear}
	case route.KindCourseYearDetail, route.KindCourseYearTypeDetail:
		return []string{ParamQuery}
	}

	return nil
}

// Normalize trims the free text; it is the form every synchronized state
// takes.
func Normalize(st entity.FilterState) entity.FilterState {
	st.Query = strings.TrimSpace(st.Query)

	return st
}

// Encode writes every non-empty field. Empty fields are omitted, never
// written as empty values.
func Encode(st entity.FilterState) url.Values {
	st = Normalize(st)
	v := url.Values{}

	set := func(name, value string) {
		if value != "" {
			v.Set(name, value)
		}
	}
	set(ParamQuery, st.Query)
	set(ParamCategory, st.Category)
	set(ParamUnit, st.Unit)
	set(ParamType, st.QuestionType)
	set(ParamYear, st.Year)

	return v
}

func Decode(v url.Values) entity.FilterState {
	return entity.FilterState{
		Query:        v.Get(ParamQuery),
		Category:     v.Get(ParamCategory),
		Unit:         v.Get(ParamUnit),
		QuestionType: v.Get(ParamType),
		Year:         v.Get(ParamYear),
	}
}

// Scope clears the fields a view does not understand.
func Scope(kind route.Kind, st entity.FilterState) entity.FilterState {
	allowed := make(map[string]bool)
	for _, p := range Params(kind) {
		allowed[p] = true
	}

	if !allowed[ParamQuery] {
		st.Query = ""
	}
	if !allowed[ParamCategory] {
		st.Category = ""
	}
	if !allowed[ParamUnit] {
		st.Unit = ""
	}
	if !allowed[ParamType] {
		st.QuestionType = ""
	}
	if !allowed[ParamYear] {
		st.Year = ""
	}

	return st
}

// Seed derives the initial filter state of a view from its URL.
func Seed(r route.Route) entity.FilterState {
	return Normalize(Scope(r.Kind, Decode(r.Query)))
}

// Query builds the query string for a route with the given state. The topic
// view keeps its view=topic marker; other parameters outside the view's
// scope are dropped.
func Query(kind route.Kind, st entity.FilterState) url.Values {
	v := Encode(Scope(kind, st))
	if kind == route.KindCourseByTopic {
		v.Set(ParamView, route.ViewTopic)
	}

	return v
}

// Href returns path plus encoded query, without a dangling "?".
func Href(path string, v url.Values) string {
	if q := v.Encode(); q != "" {
		return path + "?" + q
	}

	return path
}

// Sync returns the address for the route's view with st applied. It is what
// the current history entry gets replaced with after a filter change.
func Sync(r route.Route, st entity.FilterState) string {
	return Href(r.Location(), Query(r.Kind, st))
}

// SwitchView returns the address of the other course tab. Filter parameters
// are not carried across views.
func SwitchView(r route.Route, view string) string {
	v := url.Values{}
	v.Set(ParamView, view)

	return Href(route.CoursePath(r.Slug), v)
}
