package entity

import (
	"encoding/json"
	"time"
)

// Finding is one recorded observation row on an inspection.
type Finding struct {
	Index          int    `json:"index,omitempty"`
	Observation    string `json:"observation"`
	Guideline      string `json:"guideline"`
	Classification string `json:"classification"`
}

// Classification values a finding row may carry.
const (
	ClassificationOthers   = "Others"
	ClassificationMajor    = "Major"
	ClassificationCritical = "Critical"
)

// Personnel is one facility staff row captured during the visit.
type Personnel struct {
	Index         int    `json:"index,omitempty"`
	Name          string `json:"name"`
	Designation   string `json:"designation"`
	Qualification string `json:"qualification"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
}

// Inspector roles, in the fixed order they appear on report cover pages.
const (
	RoleLeadInspector    = "Lead Inspector"
	RoleCoInspector      = "Co-Inspector"
	RoleTraineeInspector = "Trainee Inspector"
)

// Risk tiers derived from finding classifications.
const (
	RiskLevelLow    = "Low"
	RiskLevelMedium = "Medium"
	RiskLevelHigh   = "High"

	RiskRatingA = "A"
	RiskRatingB = "B"
	RiskRatingC = "C"
)

// Backends an inspection record can live on.
const (
	BackendRemote = "remote"
	BackendLocal  = "local"
)

// StatusCompleted is the only status a submitted inspection carries.
const StatusCompleted = "Completed"

// Inspection is the persisted form of a submitted inspection: the raw
// captured fields plus the repeated groups and the derived risk tier.
// Edits are full-record replaces.
type Inspection struct {
	ID             string `json:"id" gorm:"primaryKey;size:36"`
	FacilityName   string `json:"facility_name" gorm:"size:200;index"`
	InspectionDate string `json:"inspection_date" gorm:"size:20"`
	RiskLevel      string `json:"risk_level" gorm:"size:10"`
	RiskRating     string `json:"risk_rating" gorm:"size:2"`
	Status         string `json:"status" gorm:"size:20;default:Completed"`

	Fields    json.RawMessage `json:"fields" gorm:"type:jsonb"`
	Findings  json.RawMessage `json:"findings" gorm:"type:jsonb"`
	Personnel json.RawMessage `json:"personnel" gorm:"type:jsonb"`

	Timestamp time.Time `json:"timestamp" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Source names the backend the record was loaded from; not a column.
	Source string `json:"source" gorm:"-"`
}

func (Inspection) TableName() string {
	return "inspections"
}

// DecodeFields unmarshals the raw captured form fields.
func (i *Inspection) DecodeFields() (map[string]string, error) {
	fields := map[string]string{}
	if len(i.Fields) == 0 {
		return fields, nil
	}
	err := json.Unmarshal(i.Fields, &fields)
	return fields, err
}

// DecodeFindings unmarshals the finding rows.
func (i *Inspection) DecodeFindings() ([]Finding, error) {
	var findings []Finding
	if len(i.Findings) == 0 {
		return nil, nil
	}
	err := json.Unmarshal(i.Findings, &findings)
	return findings, err
}

// DecodePersonnel unmarshals the personnel rows.
func (i *Inspection) DecodePersonnel() ([]Personnel, error) {
	var personnel []Personnel
	if len(i.Personnel) == 0 {
		return nil, nil
	}
	err := json.Unmarshal(i.Personnel, &personnel)
	return personnel, err
}
