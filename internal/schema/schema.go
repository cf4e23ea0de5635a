// Package schema defines the canonical complaint-form field set (QAF-12-01
// rev 04), the section layout used for rendering, and the lexical mapping
// from raw form question titles to canonical keys.
package schema

import "strings"

// columns is the canonical header order. The trailing technical column
// carries the submission timestamp for tracing and idempotency. This order is
// an external contract: downstream spreadsheets and archives depend on column
// position, so it must stay byte-stable across versions.
var columns = []string{
	"date",
	"complaint_received_by",
	"first_name",
	"last_name",
	"phone_no",
	"email_address",
	"address",
	"product_name",
	"product_size",
	"lot_serial_no",
	"quantity",
	"purchased_from_distributor",
	"country",
	"complaint_description",
	"complaint_evaluation_level",
	"report_to_authorities",
	"used_on_patient",
	"cleaned_before_sending_back_to_rn",
	"system_kind",
	"primary_solution",
	"comments",
	"complaint_no",
	"date_received_at_qa",
	"submission_timestamp",
}

// Section groups canonical keys under a heading for document rendering.
type Section struct {
	Title string
	Keys  []string
}

var sections = []Section{
	{Title: "Customer Complaint Form", Keys: []string{"date", "complaint_received_by"}},
	{
		Title: "Contact Information / Complainant Details",
		Keys:  []string{"first_name", "last_name", "phone_no", "email_address", "address"},
	},
	{
		Title: "Product Details",
		Keys: []string{
			"product_name",
			"product_size",
			"lot_serial_no",
			"quantity",
			"purchased_from_distributor",
			"country",
		},
	},
	{Title: "Complaint", Keys: []string{"complaint_description"}},
	{
		Title: "Complaint Evaluation",
		Keys: []string{
			"complaint_evaluation_level",
			"report_to_authorities",
			"used_on_patient",
			"cleaned_before_sending_back_to_rn",
			"system_kind",
		},
	},
	{Title: "Additional Information", Keys: []string{"primary_solution", "comments"}},
	{Title: "QA Manager", Keys: []string{"complaint_no", "date_received_at_qa"}},
	{Title: "System", Keys: []string{"submission_timestamp"}},
}

// questionMap maps normalized form question text to canonical keys. Several
// phrasings may map to the same key; the reverse is never true. The form
// frontend should already send normalized keys, so this is a safety belt for
// payloads that still carry raw question titles.
var questionMap = map[string]string{
	"date":                  "date",
	"complaint received by": "complaint_received_by",
	"first name":            "first_name",
	"last name":             "last_name",
	"phone number":          "phone_no",
	"phone no":              "phone_no",
	"email address":         "email_address",
	"address":               "address",
	"product name":          "product_name",
	"product size":          "product_size",
	"lot / serial number":   "lot_serial_no",
	"lot / serial no":       "lot_serial_no",
	"lot/serial no":         "lot_serial_no",
	"quantity":              "quantity",
	"purchased from (distributer)": "purchased_from_distributor",
	"purchased from (distributor)": "purchased_from_distributor",
	"country":                      "country",
	"complaint description":        "complaint_description",
	"complaint type":               "complaint_evaluation_level",
	"should this complaint be reported to authorities ?": "report_to_authorities",
	"was the device used on a patient?":                  "used_on_patient",
	"was the device cleaned before sending back to rn?":  "cleaned_before_sending_back_to_rn",
	"what kind of system is this?":                       "system_kind",
	"primary solution (if provided)":                     "primary_solution",
	"comments (if applicable)":                           "comments",
	"complaint no.":                                      "complaint_no",
	"complaint no":                                       "complaint_no",
	"date complaint received at qa":                      "date_received_at_qa",
	"timestamp":                                          "submission_timestamp",
	"submission_timestamp":                               "submission_timestamp",
}

// Registry exposes the canonical schema read-only. It is constructed once at
// process start and injected into the components that need it.
type Registry struct {
	columns   []string
	sections  []Section
	questions map[string]string
	canonical map[string]bool
}

// NewRegistry builds the immutable schema registry.
func NewRegistry() *Registry {
	canonical := make(map[string]bool, len(columns))
	for _, c := range columns {
		canonical[c] = true
	}
	return &Registry{
		columns:   columns,
		sections:  sections,
		questions: questionMap,
		canonical: canonical,
	}
}

// Columns returns the canonical column order.
func (r *Registry) Columns() []string {
	out := make([]string, len(r.columns))
	copy(out, r.columns)
	return out
}

// Sections returns the ordered section layout for rendering.
func (r *Registry) Sections() []Section {
	out := make([]Section, len(r.sections))
	copy(out, r.sections)
	return out
}

// CanonicalKey maps a raw question title to its canonical key via the
// normalized question map.
func (r *Registry) CanonicalKey(question string) (string, bool) {
	key, ok := r.questions[NormalizeQuestion(question)]
	return key, ok
}

// IsCanonical reports whether key is one of the canonical column names.
func (r *Registry) IsCanonical(key string) bool {
	return r.canonical[key]
}

// NormalizeQuestion lower-cases a question title and collapses internal
// whitespace so lookups tolerate sloppy form labels.
func NormalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
