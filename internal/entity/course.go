package entity

// Course is one entry of the course list produced by the build step.
type Course struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type CourseList struct {
	GeneratedAt string   `json:"generatedAt"`
	BuildID     string   `json:"buildId,omitempty"`
	Courses     []Course `json:"courses"`
}

// CourseIndex is the per-course document. Years come newest first from the
// build step, but readers must not rely on it.
type CourseIndex struct {
	Slug        string      `json:"slug"`
	Title       string      `json:"title"`
	BasePath    string      `json:"basePath"`
	GeneratedAt string      `json:"generatedAt"`
	Description string      `json:"description,omitempty"` // HTML rendered from description.md
	Years       []YearEntry `json:"years"`
}

type YearEntry struct {
	Year  string      `json:"year"`
	Files []FileEntry `json:"files"`
}

type FileEntry struct {
	Name string `json:"name"` // Original file name with extension
	URL  string `json:"url"`
}

// FindYear returns the year entry with the given label.
func (c *CourseIndex) FindYear(year string) (*YearEntry, bool) {
	for i := range c.Years {
		if c.Years[i].Year == year {
			return &c.Years[i], true
		}
	}

	return nil, false
}

// FileCount returns the number of files over all years.
func (c *CourseIndex) FileCount() int {
	n := 0
	for _, y := range c.Years {
		n += len(y.Files)
	}

	return n
}
