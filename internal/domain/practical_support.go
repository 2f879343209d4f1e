package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Practical support sources that are always offered, regardless of the
// configured external pledge sources.
const (
	SourceClinicDiscount = "Clinic discount"
	SourceOtherFunds     = "Other funds (see notes)"
)

// FixedPracticalSupportSources lists the always-available sources.
var FixedPracticalSupportSources = []string{SourceClinicDiscount, SourceOtherFunds}

// PracticalSupport is financial or material aid logged against a patient.
type PracticalSupport struct {
	ID          uuid.UUID `json:"id"`
	PatientID   uuid.UUID `json:"patient_id"`
	SupportType string    `json:"support_type" validate:"required,max=255"`
	Source      string    `json:"source" validate:"required,max=255"`
	Confirmed   bool      `json:"confirmed"`
	CreatedBy   string    `json:"created_by"`
	UpdatedBy   string    `json:"updated_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PracticalSupportParams carries the editable fields of a PracticalSupport.
type PracticalSupportParams struct {
	SupportType string
	Source      string
	Confirmed   bool
}

// NewPracticalSupport creates a PracticalSupport for a patient attributed to
// actor. The support type is stored lower-cased. Returns a *ValidationError
// if required fields are missing.
func NewPracticalSupport(patientID uuid.UUID, params PracticalSupportParams, actor string) (*PracticalSupport, error) {
	now := time.Now().UTC()
	ps := &PracticalSupport{
		ID:        uuid.New(),
		PatientID: patientID,
		CreatedBy: actor,
		CreatedAt: now,
	}
	ps.apply(params, actor, now)

	if err := ps.Validate(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Apply copies params onto the entry and stamps the update.
func (p *PracticalSupport) Apply(params PracticalSupportParams, actor string) {
	p.apply(params, actor, time.Now().UTC())
}

func (p *PracticalSupport) apply(params PracticalSupportParams, actor string, now time.Time) {
	p.SupportType = NormalizeSupportType(params.SupportType)
	p.Source = strings.TrimSpace(params.Source)
	p.Confirmed = params.Confirmed
	p.UpdatedBy = actor
	p.UpdatedAt = now
}

// Validate checks required fields.
func (p *PracticalSupport) Validate() error {
	ve := validateStruct(p)
	if ve == nil {
		ve = &ValidationError{}
	}
	if p.PatientID == uuid.Nil {
		ve.Add("patient_id", MsgBlank)
	}
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// NormalizeSupportType lower-cases and trims a support type for storage,
// so "Companion" is stored as "companion".
func NormalizeSupportType(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
