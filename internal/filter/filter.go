// Package filter applies a FilterState to loaded index data.
//
// Filtering and sorting are separate steps: the filter functions keep the
// input order, so Filter(items, empty) equals items and applying the same
// state twice changes nothing. Views display Sort(Filter(items, state)).
package filter

import (
	"fmt"
	"strings"

	"github.com/jgivc/frqarchive/internal/catalog"
	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/jgivc/frqarchive/internal/facet"
)

func keep[T any](items []T, match func(T) bool) []T {
	if items == nil {
		return nil
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if match(item) {
			out = append(out, item)
		}
	}

	return out
}

func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

func containsFold(haystack []string, needle string) bool {
	if needle == "" {
		return true
	}

	return strings.Contains(strings.ToLower(strings.Join(haystack, " ")), needle)
}

// Courses keeps the courses matching the free text (display title or slug)
// and the home category.
func Courses(courses []entity.Course, st entity.FilterState, cat *catalog.Catalog) []entity.Course {
	q := normalizeQuery(st.Query)

	return keep(courses, func(c entity.Course) bool {
		if !containsFold([]string{cat.Title(c.Title), c.Slug}, q) {
			return false
		}

		if st.Category != "" && !cat.InCategory(c.Slug, st.Category) {
			return false
		}

		return true
	})
}

// Files keeps the files whose name or category contains the free text.
func Files(files []entity.FileEntry, st entity.FilterState) []entity.FileEntry {
	q := normalizeQuery(st.Query)

	return keep(files, func(f entity.FileEntry) bool {
		return containsFold([]string{f.Name, string(entity.Classify(f.Name))}, q)
	})
}

// FilesOfCategory keeps the files classified as c.
func FilesOfCategory(files []entity.FileEntry, c entity.FileCategory) []entity.FileEntry {
	return keep(files, func(f entity.FileEntry) bool {
		return entity.Classify(f.Name) == c
	})
}

// Years applies the year criterion to the year list and the free text to
// every year's files. With free text set, years left without files are
// dropped.
func Years(years []entity.YearEntry, st entity.FilterState) []entity.YearEntry {
	q := normalizeQuery(st.Query)

	years = keep(years, func(y entity.YearEntry) bool {
		return st.Year == "" || y.Year == st.Year
	})
	if q == "" {
		return years
	}

	out := make([]entity.YearEntry, 0, len(years))
	for _, y := range years {
		files := Files(y.Files, st)
		if len(files) == 0 {
			continue
		}

		out = append(out, entity.YearEntry{Year: y.Year, Files: files})
	}

	return out
}

// Questions keeps the questions matching every set criterion. The type
// criterion is ignored when the facets say types are unavailable.
func Questions(qs []entity.Question, st entity.FilterState, f facet.Facets) []entity.Question {
	q := normalizeQuery(st.Query)
	typ := st.QuestionType
	if !f.TypesAvailable {
		typ = ""
	}

	return keep(qs, func(item entity.Question) bool {
		if typ != "" && item.Type() != typ {
			return false
		}

		if st.Unit != "" && !hasUnit(item.Units, st.Unit) {
			return false
		}

		if st.Year != "" && strings.TrimSpace(item.Year.String()) != st.Year {
			return false
		}

		hay := append([]string{item.Year.String(), item.Type()}, item.Units...)
		hay = append(hay, item.FileBase)

		return containsFold(hay, q)
	})
}

func hasUnit(units []string, unit string) bool {
	for _, u := range units {
		if u == unit {
			return true
		}
	}

	return false
}

// CountSummary renders the "Showing X of Y" line.
func CountSummary(shown, total int) string {
	return fmt.Sprintf("Showing %d of %d", shown, total)
}
