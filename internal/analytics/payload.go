// Package analytics defines the payload contract between the backend and
// the dashboard renderer.
package analytics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrMissingField reports a payload that violates the backend contract.
// It is not a user-facing failure: callers must propagate it.
var ErrMissingField = errors.New("analytics payload missing field")

// ErrMalformedBody reports a success response whose body is not a JSON
// payload at all (a proxy page, a truncated body). Unlike ErrMissingField it
// is an ordinary acquisition failure.
var ErrMalformedBody = errors.New("invalid response body")

// Distribution is an ordered label/value series.
type Distribution struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// Len returns the number of categories.
func (d *Distribution) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Labels)
}

// Payload is the normalized statistics object returned by every flow.
// Pointer fields distinguish "absent" from "empty".
type Payload struct {
	TotalPatients         *int          `json:"total_patients"`
	AgeDistribution       *Distribution `json:"age_distribution"`
	GenderDistribution    *Distribution `json:"gender_distribution"`
	DiagnosesDistribution *Distribution `json:"diagnoses_distribution"`
	PrescriptionFrequency *Distribution `json:"prescription_frequency"`
	ExamFrequency         *Distribution `json:"exam_frequency"`
	ReferralFrequency     *Distribution `json:"referral_frequency"`
	TemporalDistribution  *Distribution `json:"temporal_distribution"`
}

// Field names in payload order, as they appear on the wire.
const (
	FieldTotalPatients = "total_patients"
	FieldAge           = "age_distribution"
	FieldGender        = "gender_distribution"
	FieldDiagnoses     = "diagnoses_distribution"
	FieldPrescriptions = "prescription_frequency"
	FieldExams         = "exam_frequency"
	FieldReferrals     = "referral_frequency"
	FieldTemporal      = "temporal_distribution"
)

// Field returns the distribution stored under a wire name, or nil.
func (p *Payload) Field(name string) *Distribution {
	switch name {
	case FieldAge:
		return p.AgeDistribution
	case FieldGender:
		return p.GenderDistribution
	case FieldDiagnoses:
		return p.DiagnosesDistribution
	case FieldPrescriptions:
		return p.PrescriptionFrequency
	case FieldExams:
		return p.ExamFrequency
	case FieldReferrals:
		return p.ReferralFrequency
	case FieldTemporal:
		return p.TemporalDistribution
	}
	return nil
}

// Total returns total_patients, or 0 when absent.
func (p *Payload) Total() int {
	if p.TotalPatients == nil {
		return 0
	}
	return *p.TotalPatients
}

// Validate checks every field is present and every distribution has
// matching label/value lengths.
func (p *Payload) Validate() error {
	if p.TotalPatients == nil {
		return fmt.Errorf("%w: %s", ErrMissingField, FieldTotalPatients)
	}
	for _, name := range []string{FieldAge, FieldGender, FieldDiagnoses, FieldPrescriptions, FieldExams, FieldReferrals, FieldTemporal} {
		d := p.Field(name)
		if d == nil {
			return fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		if len(d.Labels) != len(d.Values) {
			return fmt.Errorf("%w: %s has %d labels and %d values", ErrMissingField, name, len(d.Labels), len(d.Values))
		}
	}
	return nil
}

// Decode parses and validates a payload body.
func Decode(r io.Reader) (*Payload, error) {
	var p Payload
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// DecodeBytes is Decode over a byte slice.
func DecodeBytes(b []byte) (*Payload, error) {
	return Decode(bytes.NewReader(b))
}
