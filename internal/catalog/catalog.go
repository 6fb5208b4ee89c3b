// Package catalog holds the operator-maintained tables: course title
// overrides and home page categories. A Catalog is loaded once at startup
// and shared read-only by every component that needs display names.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	_ "embed"

	"github.com/jgivc/frqarchive/internal/entity"
	"gopkg.in/yaml.v2"
)

//go:embed catalog.yml
var defaultCatalogContent []byte

type document struct {
	TitleOverrides map[string]string   `yaml:"title_overrides"`
	LastCourses    []string            `yaml:"last_courses"`
	HomeCategories map[string][]string `yaml:"home_categories"`
}

type Catalog struct {
	titles     map[string]string
	last       map[string]struct{}
	categories []string
	members    map[string]map[string]struct{} // slug -> categories
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalogContent)
	if err != nil {
		panic(err)
	}

	return c
}

// Load reads a catalog file. An empty path selects the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read catalog: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("cannot parse catalog: %w", err)
	}

	c := &Catalog{
		titles:  make(map[string]string, len(doc.TitleOverrides)),
		last:    make(map[string]struct{}, len(doc.LastCourses)),
		members: make(map[string]map[string]struct{}),
	}

	for from, to := range doc.TitleOverrides {
		c.titles[from] = to
	}

	for _, title := range doc.LastCourses {
		c.last[title] = struct{}{}
	}

	for cat, slugs := range doc.HomeCategories {
		c.categories = append(c.categories, cat)

		for _, slug := range slugs {
			slug = strings.TrimSpace(slug)
			if slug == "" {
				continue
			}

			if c.members[slug] == nil {
				c.members[slug] = make(map[string]struct{})
			}
			c.members[slug][cat] = struct{}{}
		}
	}
	sort.Strings(c.categories)

	return c, nil
}

// Title maps a build-step course title to its display title.
func (c *Catalog) Title(title string) string {
	if t, ok := c.titles[title]; ok {
		return t
	}

	return title
}

// Categories returns the home category names in sorted order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

func (c *Catalog) HasCategory(cat string) bool {
	i := sort.SearchStrings(c.categories, cat)

	return i < len(c.categories) && c.categories[i] == cat
}

// InCategory reports whether the slug is listed under the category.
func (c *Catalog) InCategory(slug, cat string) bool {
	_, ok := c.members[slug][cat]

	return ok
}

// CategoriesOf returns the sorted categories a slug belongs to.
func (c *Catalog) CategoriesOf(slug string) []string {
	var cats []string
	for cat := range c.members[slug] {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	return cats
}

// SortCourses orders courses by display title, pushing the configured last
// courses to the end. The input is not modified.
func (c *Catalog) SortCourses(courses []entity.Course) []entity.Course {
	out := append([]entity.Course(nil), courses...)

	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := c.Title(out[i].Title), c.Title(out[j].Title)

		_, li := c.last[ti]
		_, lj := c.last[tj]
		if li != lj {
			return lj
		}

		if a, b := strings.ToLower(ti), strings.ToLower(tj); a != b {
			return a < b
		}

		return ti < tj
	})

	return out
}
