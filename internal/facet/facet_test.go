package facet

import (
	"testing"

	"github.com/jgivc/frqarchive/internal/entity"
	"github.com/stretchr/testify/assert"
)

func str(s string) *string {
	return &s
}

func TestFromQuestions(t *testing.T) {
	idx := &entity.QuestionIndex{
		Units: []string{"Unit 2: Cells", "Unit 1: Chemistry", "", "Unit 2: Cells"},
		Questions: []entity.Question{
			{Year: "2019", QuestionType: str("Short")},
			{Year: "2021", QuestionType: str("Long")},
			{Year: "2021", QuestionType: str(" Short ")},
			{Year: "2020", QuestionType: nil},
			{Year: "2020", QuestionType: str("  ")},
		},
	}

	f := FromQuestions(idx)

	assert.True(t, f.TypesAvailable)
	assert.Equal(t, []string{"Long", "Short"}, f.Types)
	assert.Equal(t, []string{"Unit 2: Cells", "Unit 1: Chemistry"}, f.Units, "declared unit order is kept")
	assert.Equal(t, []string{"2021", "2020", "2019"}, f.Years)
	assert.True(t, f.HasType("Long"))
	assert.False(t, f.HasType("Medium"))
	assert.True(t, f.HasUnit("Unit 1: Chemistry"))
	assert.False(t, f.HasUnit("Unit 9"))
}

func TestFromQuestionsWithoutTypes(t *testing.T) {
	idx := &entity.QuestionIndex{
		Units: []string{"Unit 1"},
		Questions: []entity.Question{
			{Year: "2020", Units: []string{"Unit 1"}},
			{Year: "2021", QuestionType: str("")},
		},
	}

	f := FromQuestions(idx)

	assert.False(t, f.TypesAvailable)
	assert.Empty(t, f.Types)
	assert.Equal(t, []string{"Unit 1"}, f.Units)
}

func TestFromCourse(t *testing.T) {
	idx := &entity.CourseIndex{Years: []entity.YearEntry{
		{Year: "2019", Files: []entity.FileEntry{{Name: "Sample Responses.pdf"}}},
		{Year: "2023", Files: []entity.FileEntry{{Name: "Free-Response Questions.pdf"}, {Name: "notes.txt"}}},
	}}

	f := FromCourse(idx)

	assert.Equal(t, []string{"2023", "2019"}, f.Years)
	assert.Equal(t, []entity.FileCategory{entity.CategoryFRQ, entity.CategorySampleResponses, entity.CategoryOther}, f.Categories)
	assert.False(t, f.TypesAvailable)
}

func TestNilIndexes(t *testing.T) {
	assert.Equal(t, Facets{}, FromQuestions(nil))
	assert.Equal(t, Facets{}, FromCourse(nil))
}
