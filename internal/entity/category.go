package entity

import "strings"

type FileCategory string

const (
	CategoryFRQ                 FileCategory = "frq"
	CategoryScoringGuidelines   FileCategory = "scoring-guidelines"
	CategoryChiefReaderReport   FileCategory = "chief-reader-report"
	CategoryScoringStatistics   FileCategory = "scoring-statistics"
	CategoryScoringDistribution FileCategory = "scoring-distribution"
	CategorySampleResponses     FileCategory = "sample-responses"
	CategoryOther               FileCategory = "other"
)

// FileCategories lists every category in classification rule order.
var FileCategories = []FileCategory{
	CategoryFRQ,
	CategoryScoringGuidelines,
	CategoryChiefReaderReport,
	CategoryScoringStatistics,
	CategoryScoringDistribution,
	CategorySampleResponses,
	CategoryOther,
}

// ParseFileCategory reports whether s names one of the known categories.
func ParseFileCategory(s string) (FileCategory, bool) {
	for _, c := range FileCategories {
		if string(c) == s {
			return c, true
		}
	}

	return "", false
}

func (c FileCategory) Label() string {
	switch c {
	case CategoryFRQ:
		return "Free-Response Questions"
	case CategoryScoringGuidelines:
		return "Scoring Guidelines"
	case CategoryChiefReaderReport:
		return "Chief Reader Report"
	case CategoryScoringStatistics:
		return "Scoring Statistics"
	case CategoryScoringDistribution:
		return "Scoring Distribution"
	case CategorySampleResponses:
		return "Sample Responses"
	}

	return "Other"
}

type categoryRule struct {
	phrases  []string
	category FileCategory
}

// Rules are checked in order; the first phrase found in the lowercased
// file name decides the category.
var categoryRules = []categoryRule{
	{phrases: []string{"free-response questions", "free response questions"}, category: CategoryFRQ},
	{phrases: []string{"scoring guidelines"}, category: CategoryScoringGuidelines},
	{phrases: []string{"chief reader report", "chief-reader report"}, category: CategoryChiefReaderReport},
	{phrases: []string{"scoring statistics"}, category: CategoryScoringStatistics},
	{phrases: []string{"scoring distribution", "score distributions", "scoring distributions"}, category: CategoryScoringDistribution},
	{phrases: []string{"sample"}, category: CategorySampleResponses},
}

// Classify maps a file name to exactly one category.
func Classify(name string) FileCategory {
	n := strings.ToLower(name)

	for _, rule := range categoryRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(n, phrase) {
				return rule.category
			}
		}
	}

	return CategoryOther
}
