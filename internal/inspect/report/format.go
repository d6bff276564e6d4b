package report

import (
	"fmt"
	"strings"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

const bulletPrefix = "• "

// bulletFields are the free-text fields whose lines get bulleted
// before templating.
var bulletFields = []string{
	"activities_info",
	"premises_adequacy_info",
	"warehouse_info",
	"special_storage_info",
	"documentation_info",
	"distribution_info",
	"recommendations",
	"summary_conclusion",
	"inspected_areas",
	"licensing_adherence",
}

// BulletLines splits multi-line text into trimmed non-empty lines and
// prefixes each with a bullet. Empty input is returned unchanged.
func BulletLines(text string) string {
	if text == "" {
		return text
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, bulletPrefix+line)
	}
	return strings.Join(lines, "\n")
}

// StripBullet removes a single leading bullet so a list number can
// take its place.
func StripBullet(text string) string {
	return strings.TrimPrefix(text, bulletPrefix)
}

// GroupObservations renders a filtered finding subset as one numbered
// text block. Numbering is 1-based within the subset, independent of
// each finding's original index. An empty subset renders as "Nil".
func GroupObservations(findings []entity.Finding) string {
	if len(findings) == 0 {
		return "Nil"
	}
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = fmt.Sprintf("%d. %s", i+1, StripBullet(f.Observation))
	}
	return strings.Join(lines, "\n")
}

// GroupGuidelines renders the guideline references of the same subset
// under the same 1-based numbering, so observation and guideline
// blocks stay aligned for a given filter.
func GroupGuidelines(findings []entity.Finding) string {
	if len(findings) == 0 {
		return "Nil"
	}
	lines := make([]string, len(findings))
	for i, f := range findings {
		lines[i] = fmt.Sprintf("%d. %s", i+1, f.Guideline)
	}
	return strings.Join(lines, "\n")
}

// Classification filters. Each returns a fresh slice; the input
// sequence is never mutated.

func filterFindings(findings []entity.Finding, keep func(entity.Finding) bool) []entity.Finding {
	var out []entity.Finding
	for _, f := range findings {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

// CriticalFindings returns the Critical subset.
func CriticalFindings(findings []entity.Finding) []entity.Finding {
	return filterFindings(findings, func(f entity.Finding) bool {
		return f.Classification == entity.ClassificationCritical
	})
}

// MajorFindings returns the Major subset.
func MajorFindings(findings []entity.Finding) []entity.Finding {
	return filterFindings(findings, func(f entity.Finding) bool {
		return f.Classification == entity.ClassificationMajor
	})
}

// MajorOrCriticalFindings returns the combined Critical and Major
// subset, in original order.
func MajorOrCriticalFindings(findings []entity.Finding) []entity.Finding {
	return filterFindings(findings, func(f entity.Finding) bool {
		return f.Classification == entity.ClassificationCritical ||
			f.Classification == entity.ClassificationMajor
	})
}

// OtherFindings returns findings that are neither Critical nor Major.
func OtherFindings(findings []entity.Finding) []entity.Finding {
	return filterFindings(findings, func(f entity.Finding) bool {
		return f.Classification != entity.ClassificationCritical &&
			f.Classification != entity.ClassificationMajor
	})
}
