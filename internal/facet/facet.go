// Package facet derives the filter options a loaded index offers.
package facet

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jgivc/frqarchive/internal/entity"
)

type Facets struct {
	Types          []string
	TypesAvailable bool // false means the type control is omitted and the type criterion ignored
	Units          []string
	Years          []string
	Categories     []entity.FileCategory
}

// FromQuestions collects the question types used by any question and the
// unit list the index itself declares.
func FromQuestions(idx *entity.QuestionIndex) Facets {
	var f Facets
	if idx == nil {
		return f
	}

	seen := make(map[string]struct{})
	for _, q := range idx.Questions {
		t := q.Type()
		if t == "" {
			continue
		}

		if _, ok := seen[t]; !ok {
			seen[t] = struct{}{}
			f.Types = append(f.Types, t)
		}
	}
	sort.Strings(f.Types)
	f.TypesAvailable = len(f.Types) > 0

	units := make(map[string]struct{}, len(idx.Units))
	for _, u := range idx.Units {
		if strings.TrimSpace(u) == "" {
			continue
		}

		if _, ok := units[u]; !ok {
			units[u] = struct{}{}
			f.Units = append(f.Units, u)
		}
	}

	years := make(map[string]struct{})
	for _, q := range idx.Questions {
		y := strings.TrimSpace(q.Year.String())
		if y == "" {
			continue
		}

		if _, ok := years[y]; !ok {
			years[y] = struct{}{}
			f.Years = append(f.Years, y)
		}
	}
	sortYearsDesc(f.Years)

	return f
}

// FromCourse collects the years of a course and the file categories found
// in it, ordered for display.
func FromCourse(idx *entity.CourseIndex) Facets {
	var f Facets
	if idx == nil {
		return f
	}

	present := make(map[entity.FileCategory]struct{})
	for _, y := range idx.Years {
		f.Years = append(f.Years, y.Year)

		for _, file := range y.Files {
			present[entity.Classify(file.Name)] = struct{}{}
		}
	}
	sortYearsDesc(f.Years)

	for _, c := range entity.FileCategories {
		if _, ok := present[c]; ok {
			f.Categories = append(f.Categories, c)
		}
	}

	return f
}

// HasUnit reports whether u is one of the declared units.
func (f Facets) HasUnit(u string) bool {
	for _, unit := range f.Units {
		if unit == u {
			return true
		}
	}

	return false
}

func (f Facets) HasType(t string) bool {
	i := sort.SearchStrings(f.Types, t)

	return i < len(f.Types) && f.Types[i] == t
}

func sortYearsDesc(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		a, _ := strconv.Atoi(years[i])
		b, _ := strconv.Atoi(years[j])
		if a != b {
			return a > b
		}

		return years[i] > years[j]
	})
}
