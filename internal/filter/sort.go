package filter

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/jgivc/frqarchive/internal/entity"
)

const defaultUnitLabel = "Question"

var (
	extRegexp        = regexp.MustCompile(`\.[^/.]+$`)
	unitPrefixRegexp = regexp.MustCompile(`(?i)^Unit\s*\d+\s*:\s*`)
)

// StripExtension drops the final extension of a file name.
func StripExtension(name string) string {
	return extRegexp.ReplaceAllString(name, "")
}

// FileRank orders files within a year: questions, guidelines, other
// scoring material, the rest, samples last.
func FileRank(name string) int {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "free-response questions"), strings.Contains(n, "free response questions"):
		return 0
	case strings.Contains(n, "scoring guidelines"):
		return 1
	case strings.Contains(n, "scoring"):
		return 2
	case strings.Contains(n, "score"):
		return 3
	case strings.Contains(n, "sample"):
		return 5
	}

	return 4
}

// SortFiles returns the files ordered by rank, then by lowercased name.
func SortFiles(files []entity.FileEntry) []entity.FileEntry {
	out := slices.Clone(files)

	slices.SortStableFunc(out, func(a, b entity.FileEntry) int {
		if c := cmp.Compare(FileRank(a.Name), FileRank(b.Name)); c != 0 {
			return c
		}

		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return out
}

// PrimaryUnitLabel returns the first unit without its "Unit N:" prefix.
func PrimaryUnitLabel(units []string) string {
	if len(units) == 0 {
		return defaultUnitLabel
	}

	u := strings.TrimSpace(units[0])
	if u == "" {
		return defaultUnitLabel
	}

	return unitPrefixRegexp.ReplaceAllString(u, "")
}

// SortQuestions returns the questions newest first, then by type, primary
// unit and file base. The order is total for distinct file bases.
func SortQuestions(qs []entity.Question) []entity.Question {
	out := slices.Clone(qs)

	slices.SortStableFunc(out, func(a, b entity.Question) int {
		if c := cmp.Compare(b.Year.Int(), a.Year.Int()); c != 0 {
			return c
		}

		if c := strings.Compare(a.Type(), b.Type()); c != 0 {
			return c
		}

		if c := strings.Compare(PrimaryUnitLabel(a.Units), PrimaryUnitLabel(b.Units)); c != 0 {
			return c
		}

		return strings.Compare(a.FileBase, b.FileBase)
	})

	return out
}

// QuestionTitle is "{year} {type}", or "{year} {primary unit}" without a type.
func QuestionTitle(q entity.Question) string {
	year := strings.TrimSpace(q.Year.String())

	label := q.Type()
	if label == "" {
		label = PrimaryUnitLabel(q.Units)
	}

	title := strings.TrimSpace(year + " " + label)
	if title == "" {
		return defaultUnitLabel
	}

	return title
}

// Titles computes display titles for a list, numbering repeats of the same
// title with " - 2", " - 3" and so on. Counting starts fresh on every call.
func Titles(qs []entity.Question) []string {
	seen := make(map[string]int, len(qs))
	titles := make([]string, 0, len(qs))

	for _, q := range qs {
		base := QuestionTitle(q)
		seen[base]++

		if n := seen[base]; n > 1 {
			titles = append(titles, base+" - "+strconv.Itoa(n))
		} else {
			titles = append(titles, base)
		}
	}

	return titles
}
