package render

import "github.com/abelbrown/medview/internal/analytics"

// Kind is a chart kind.
type Kind string

const (
	KindBar  Kind = "bar"
	KindPie  Kind = "pie"
	KindLine Kind = "line"
)

// Slot binds a dashboard position to a chart kind and a payload field.
type Slot struct {
	Name  string
	Kind  Kind
	Title string
	Field string
}

// Slots is the static dashboard layout in render order.
var Slots = []Slot{
	{Name: "age", Kind: KindBar, Title: "Age Distribution", Field: analytics.FieldAge},
	{Name: "gender", Kind: KindPie, Title: "Gender Distribution", Field: analytics.FieldGender},
	{Name: "diagnoses", Kind: KindBar, Title: "Top Diagnoses", Field: analytics.FieldDiagnoses},
	{Name: "prescriptions", Kind: KindBar, Title: "Top Prescriptions", Field: analytics.FieldPrescriptions},
	{Name: "exams", Kind: KindBar, Title: "Top Exams", Field: analytics.FieldExams},
	{Name: "referrals", Kind: KindBar, Title: "Top Referrals", Field: analytics.FieldReferrals},
	{Name: "timeline", Kind: KindLine, Title: "Encounters Timeline", Field: analytics.FieldTemporal},
}
