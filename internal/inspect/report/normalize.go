// Package report turns a flat captured inspection record and its
// repeated finding/personnel groups into the enriched data context the
// document templates consume, and the derived risk fields that get
// persisted with the record.
package report

import (
	"strings"
	"time"
)

// dateLayouts are the input formats accepted for date fields. The
// capture UI sends ISO dates; edited records may already carry the
// output format.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	time.RFC3339,
}

// outputDateLayout is the DD-MM-YYYY form every template expects.
const outputDateLayout = "02-01-2006"

// fieldAliases maps a canonical field name to the synonym keys that
// must carry the same value, so that older template revisions keep
// resolving. Declarative on purpose: the alias set is part of the
// template compatibility contract.
var fieldAliases = map[string][]string{
	"inspection_date":               {"date"},
	"lead_inspector":                {"lead_inspectors"},
	"lead_inspector_designation":    {"lead_designation", "lead_rank"},
	"co_inspector":                  {"co_inspectors"},
	"co_inspector_designation":      {"co_designation", "co_rank"},
	"trainee_inspector":             {"trainee_inspector_1"},
	"trainee_inspector_designation": {"trainee_designation", "trainee_rank"},
	"operations_carried_out":        {"operations"},
}

// Normalize reformats date fields, stamps the log date, and populates
// the alias keys. Pure function of (raw, now); the input map is not
// mutated.
func Normalize(raw map[string]string, now time.Time) map[string]string {
	out := make(map[string]string, len(raw)+16)
	for k, v := range raw {
		out[k] = v
	}

	for key, value := range out {
		if !strings.HasSuffix(key, "_date") || key == "log_date" {
			continue
		}
		if formatted, ok := reformatDate(value); ok {
			out[key] = formatted
		}
		// Unparseable values pass through unchanged.
	}

	out["log_date"] = now.Format(outputDateLayout)

	for canonical, aliases := range fieldAliases {
		value, ok := out[canonical]
		if !ok {
			continue
		}
		for _, alias := range aliases {
			out[alias] = value
		}
	}

	// Trainees collapse into one comma-joined tag for templates that
	// render a single trainee line.
	trainees := make([]string, 0, 2)
	if t := out["trainee_inspector"]; t != "" {
		trainees = append(trainees, t)
	}
	if t := out["trainee_inspector_2"]; t != "" {
		trainees = append(trainees, t)
	}
	out["trainee_inspectors"] = strings.Join(trainees, ", ")

	// No history lookup is wired to the form yet.
	out["last_inspection_date"] = "N/A"

	return out
}

func reformatDate(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(outputDateLayout), true
		}
	}
	return "", false
}
