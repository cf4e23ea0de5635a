package domain

// Record is one normalized complaint submission, keyed by canonical field
// name. Every canonical key is present (empty string when unmapped); column
// order lives in the schema registry, not in the record itself.
type Record map[string]string

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Submission is one normalized complaint ready for downstream delivery.
type Submission struct {
	ID         string
	Source     string
	FormTitle  string
	Timestamp  string
	Recipients []string
	Fields     Record
}
