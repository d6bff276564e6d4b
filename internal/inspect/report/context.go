package report

import (
	"time"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

// Context is the fully enriched data mapping handed to the document
// renderer: the normalized raw fields plus every derived, aliased,
// grouped and glyph field. Built fresh per submission.
type Context map[string]interface{}

// BuildContext runs the whole transformation pipeline: normalize the
// flat record, expand the repeated groups, classify risk, and render
// the grouped text blocks. Idempotent given the same inputs.
func BuildContext(raw map[string]string, findings []entity.Finding, personnel []entity.Personnel, now time.Time) Context {
	fields := Normalize(raw, now)

	for _, key := range bulletFields {
		if v := fields[key]; v != "" {
			fields[key] = BulletLines(v)
		}
	}

	ctx := make(Context, len(fields)+40)
	for k, v := range fields {
		ctx[k] = v
	}

	expanded := ExpandFindings(findings)
	people := ExpandPersonnel(personnel)

	ctx["findings"] = findingRows(expanded)
	personnelList := personnelRows(people)
	ctx["personnel"] = personnelList
	ctx["personnel_list"] = personnelList
	ctx["inspectors_list"] = inspectorRows(fields)

	// Flat copy of the first person for templates that are not
	// list-aware.
	if len(people) > 0 {
		first := people[0]
		ctx["facility_personnelname"] = first.Name
		ctx["facility_personneldesignation"] = first.Designation
		ctx["facility_personnelqualification"] = first.Qualification
		ctx["facility_personnelphoneno"] = first.Phone
		ctx["facility_personnelemail"] = first.Email
	}

	// Letter summaries and the per-classification groupings share the
	// same numbered rendering; each group is re-numbered from 1.
	ctx["major_findings"] = GroupObservations(MajorOrCriticalFindings(expanded))
	ctx["other_findings"] = GroupObservations(OtherFindings(expanded))

	// The "major" grouped blocks cover Critical and Major together;
	// Critical-only gets its own block. Observation and guideline
	// blocks of one key share the same filter so their numbering lines
	// up.
	ctx["critical_findings_grouped"] = GroupObservations(CriticalFindings(expanded))
	ctx["major_findings_grouped"] = GroupObservations(MajorOrCriticalFindings(expanded))
	ctx["other_findings_grouped"] = GroupObservations(OtherFindings(expanded))

	ctx["critical_guidelines_grouped"] = GroupGuidelines(CriticalFindings(expanded))
	ctx["major_guidelines_grouped"] = GroupGuidelines(MajorOrCriticalFindings(expanded))
	ctx["other_guidelines_grouped"] = GroupGuidelines(OtherFindings(expanded))

	risk := Classify(expanded)
	ctx["has_critical"] = risk.HasCritical
	ctx["has_major"] = risk.HasMajor
	ctx["risk_score"] = risk.Score
	ctx["risk_rating"] = risk.Rating
	ctx["risk_level"] = risk.Level
	ctx["risk_frequency"] = risk.Frequency

	c1, c2, c3 := risk.Circles()
	ctx["risk_circle_1"] = c1
	ctx["risk_circle_2"] = c2
	ctx["risk_circle_3"] = c3
	// Older worksheet revisions tag the circles as scores.
	ctx["risk_score_1"] = c1
	ctx["risk_score_2"] = c2
	ctx["risk_score_3"] = c3

	tA, tB, tC := risk.Ticks()
	ctx["risk_tick_A"] = tA
	ctx["risk_tick_B"] = tB
	ctx["risk_tick_C"] = tC
	ctx["risk_score_A"] = tA
	ctx["risk_score_B"] = tB
	ctx["risk_score_C"] = tC

	ctx["timestamp"] = now
	ctx["status"] = entity.StatusCompleted

	return ctx
}

// String returns the context value under key rendered as a string,
// or "" when absent or non-scalar.
func (c Context) String(key string) string {
	switch v := c[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return ""
	}
}
