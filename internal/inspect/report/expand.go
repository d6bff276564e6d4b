package report

import (
	"strconv"

	"github.com/NIAD-1/GSDP-INSPECTIONS/internal/inspect/entity"
)

// ExpandFindings assigns 1-based indexes and bullet-formats each
// observation. Index assignment restarts at 1 on every call.
func ExpandFindings(findings []entity.Finding) []entity.Finding {
	out := make([]entity.Finding, len(findings))
	for i, f := range findings {
		if f.Classification == "" {
			f.Classification = entity.ClassificationOthers
		}
		f.Index = i + 1
		f.Observation = BulletLines(f.Observation)
		out[i] = f
	}
	return out
}

// ExpandPersonnel assigns 1-based indexes. Index assignment restarts
// at 1 on every call.
func ExpandPersonnel(personnel []entity.Personnel) []entity.Personnel {
	out := make([]entity.Personnel, len(personnel))
	for i, p := range personnel {
		p.Index = i + 1
		out[i] = p
	}
	return out
}

// findingRows converts expanded findings into the row maps template
// loops iterate over.
func findingRows(findings []entity.Finding) []map[string]string {
	rows := make([]map[string]string, len(findings))
	for i, f := range findings {
		rows[i] = map[string]string{
			"index":          strconv.Itoa(f.Index),
			"observation":    f.Observation,
			"guideline":      f.Guideline,
			"classification": f.Classification,
		}
	}
	return rows
}

// personnelRows converts expanded personnel into row maps, with each
// field duplicated under its personnel_-prefixed alias and rank
// aliasing designation.
func personnelRows(personnel []entity.Personnel) []map[string]string {
	rows := make([]map[string]string, len(personnel))
	for i, p := range personnel {
		rows[i] = map[string]string{
			"index":         strconv.Itoa(p.Index),
			"name":          p.Name,
			"designation":   p.Designation,
			"qualification": p.Qualification,
			"phone":         p.Phone,
			"email":         p.Email,

			"personnel_name":          p.Name,
			"personnel_designation":   p.Designation,
			"personnel_qualification": p.Qualification,
			"personnel_phone":         p.Phone,
			"personnel_email":         p.Email,

			"rank": p.Designation,
		}
	}
	return rows
}

// inspectorRows builds the ordered inspector list from the flat
// record: Lead, Co, then up to two trainees when present.
func inspectorRows(fields map[string]string) []map[string]string {
	rows := []map[string]string{
		{
			"name":        fields["lead_inspector"],
			"designation": fields["lead_inspector_designation"],
			"rank":        fields["lead_inspector_designation"],
			"role":        entity.RoleLeadInspector,
		},
		{
			"name":        fields["co_inspector"],
			"designation": fields["co_inspector_designation"],
			"rank":        fields["co_inspector_designation"],
			"role":        entity.RoleCoInspector,
		},
	}
	if fields["trainee_inspector"] != "" {
		rows = append(rows, map[string]string{
			"name":        fields["trainee_inspector"],
			"designation": fields["trainee_inspector_designation"],
			"rank":        fields["trainee_inspector_designation"],
			"role":        entity.RoleTraineeInspector,
		})
	}
	if fields["trainee_inspector_2"] != "" {
		rows = append(rows, map[string]string{
			"name":        fields["trainee_inspector_2"],
			"designation": fields["trainee_inspector_2_designation"],
			"rank":        fields["trainee_inspector_2_designation"],
			"role":        entity.RoleTraineeInspector,
		})
	}
	return rows
}
