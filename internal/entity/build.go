package entity

// BuildInfo summarizes one generated course document.
type BuildInfo struct {
	Slug          string
	Title         string
	SourcePath    string
	YearCount     int
	FileCount     int
	QuestionCount int
}

// ScanResult is everything one scan of the source folders found.
// Questions are keyed by the slug of their course folder name.
type ScanResult struct {
	Courses   []*CourseIndex
	Questions map[string]*QuestionIndex
}

// Document is one generated file of the data folder, such as
// "courses.json".
type Document struct {
	Name string
	Data []byte
}
