package entity

// FilterState is everything that decides which items are visible. It lives
// in the URL query string only; an empty field means the criterion is unset.
type FilterState struct {
	Query        string
	Category     string // Home category
	Unit         string
	QuestionType string
	Year         string
}

func (s FilterState) IsEmpty() bool {
	return s == FilterState{}
}
