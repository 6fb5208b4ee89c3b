package entity

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

type QuestionIndex struct {
	Course        string     `json:"course"`
	QuestionTypes []string   `json:"question_types"`
	Units         []string   `json:"units"`
	Questions     []Question `json:"questions"`
}

type Question struct {
	Year         Year     `json:"year"`
	QuestionType *string  `json:"question_type"` // nil when the course has no type faceting
	Units        []string `json:"units"`         // First unit is the primary one
	FileBase     string   `json:"file_base"`
	QuestionPDF  string   `json:"question_pdf"`
}

// Type returns the trimmed question type or an empty string.
func (q Question) Type() string {
	if q.QuestionType == nil {
		return ""
	}

	return strings.TrimSpace(*q.QuestionType)
}

// Year keeps the textual form of a question year. Numbers, numeric strings
// and null are all accepted when decoding.
type Year string

func (y Year) String() string {
	return string(y)
}

// Int returns the numeric year, or 0 when the year is missing or not numeric.
func (y Year) Int() int {
	s := strings.TrimSpace(string(y))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}

	return 0
}

func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*y = ""

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = Year(s)

		return nil
	}

	*y = Year(data)

	return nil
}

func (y Year) MarshalJSON() ([]byte, error) {
	s := strings.TrimSpace(string(y))
	if s == "" {
		return []byte("null"), nil
	}

	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return []byte(s), nil
	}

	return json.Marshal(string(y))
}
