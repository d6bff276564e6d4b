package report

import "github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"

// Inspection frequency texts, one per rating, taken from the risk
// categorization worksheet.
const (
	FrequencyA = "Reduced Freq. once in 2yrs"
	FrequencyB = "Moderate Freq. Once in a year"
	FrequencyC = "Increased Freq. once in 6 months"
)

// Worksheet glyphs: circled numerals for the "circle one" row and
// checkbox glyphs for the "tick one" row.
const (
	glyphCircle1 = "①"
	glyphCircle2 = "②"
	glyphCircle3 = "③"

	glyphChecked = "☑"
	glyphBox     = "☐"
)

// Assessment is the risk tier derived from finding classifications.
// Never user-supplied.
type Assessment struct {
	Score       int    `json:"risk_score"`  // 1..3
	Rating      string `json:"risk_rating"` // A/B/C
	Level       string `json:"risk_level"`  // High/Medium/Low
	Frequency   string `json:"risk_frequency"`
	HasCritical bool   `json:"has_critical"`
	HasMajor    bool   `json:"has_major"`
}

// Classify derives the risk tier by strict precedence: any Critical
// finding dominates, then any Major, else Low. Counts never matter.
func Classify(findings []entity.Finding) Assessment {
	a := Assessment{
		Score:     1,
		Rating:    entity.RiskRatingC,
		Level:     entity.RiskLevelLow,
		Frequency: FrequencyC,
	}
	for _, f := range findings {
		switch f.Classification {
		case entity.ClassificationCritical:
			a.HasCritical = true
		case entity.ClassificationMajor:
			a.HasMajor = true
		}
	}
	if a.HasCritical {
		a.Score = 3
		a.Rating = entity.RiskRatingA
		a.Level = entity.RiskLevelHigh
		a.Frequency = FrequencyA
	} else if a.HasMajor {
		a.Score = 2
		a.Rating = entity.RiskRatingB
		a.Level = entity.RiskLevelMedium
		a.Frequency = FrequencyB
	}
	return a
}

// Circles returns the three "circle one" cells: the computed score as
// its circled numeral, the other two as plain digits.
func (a Assessment) Circles() (one, two, three string) {
	one, two, three = "1", "2", "3"
	switch a.Score {
	case 1:
		one = glyphCircle1
	case 2:
		two = glyphCircle2
	case 3:
		three = glyphCircle3
	}
	return one, two, three
}

// Ticks returns the three "tick one" cells: a checked box under the
// computed rating, empty boxes under the other two.
func (a Assessment) Ticks() (ratingA, ratingB, ratingC string) {
	ratingA, ratingB, ratingC = glyphBox, glyphBox, glyphBox
	switch a.Rating {
	case entity.RiskRatingA:
		ratingA = glyphChecked
	case entity.RiskRatingB:
		ratingB = glyphChecked
	case entity.RiskRatingC:
		ratingC = glyphChecked
	}
	return ratingA, ratingB, ratingC
}
