package view

import (
	"html/template"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/route"
)

// Page is the complete output of one render. A new page replaces the
// previous one wholesale; nothing is merged.
type Page struct {
	Route  route.Route
	State  entity.FilterState
	Href   string // Address with the effective filter state applied
	Status int

	Meta   Meta
	Crumbs []Link

	Home     *HomeView
	Course   *CourseView
	Detail   *DetailView
	Notice   *Notice
	Error    *ErrorPanel
	NotFound bool
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
}

type Link struct {
	Label  string
	Href   string
	Active bool
}

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Notice is an informational state such as an empty dataset or a missing
// optional index. It is not an error.
type Notice struct {
	Title string
	Lines []string
}

// ErrorPanel is the inline, recoverable failure of a view.
type ErrorPanel struct {
	Message string
	Steps   []string
	Detail  string
}

type HomeView struct {
	Query      string
	Categories []Option
	Courses    []CourseCard
	Count      string
}

type CourseCard struct {
	Slug       string
	Title      string
	Href       string
	Categories []string
}

type CourseView struct {
	Slug        string
	Title       string
	Description template.HTML
	Blurb       string
	Tabs        []Link
	Query       string

	Years       []YearGroup
	YearOptions []Option

	Topic *TopicView
	Count string
}

type YearGroup struct {
	Year    string
	Caption string
	Href    string
	Files   []FileItem
}

type FileItem struct {
	Title    string
	Name     string
	URL      string
	Category entity.FileCategory
}

type TopicView struct {
	TypesAvailable bool
	Types          []Option
	Units          []Option
	Items          []QuestionItem
	ResetHref      string
}

type QuestionItem struct {
	Title string
	URL   string
	Units []string
}

type DetailView struct {
	Year       string
	Category   entity.FileCategory
	Categories []Link
	Files      []FileItem
	Count      string
}
