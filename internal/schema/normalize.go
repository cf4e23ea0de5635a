package schema

import (
	"fmt"

	"github.com/likithjayaramgowda/redentnova-complaints-pipeline/internal/domain"
)

// timestampKey is the technical column that carries the submission timestamp.
const timestampKey = "submission_timestamp"

// NormalizeFields maps arbitrary form fields into a canonical Record. Every
// canonical key is present in the output (empty string when unmapped). A field
// whose normalized question title is known wins over an exact canonical-key
// match; anything else is dropped silently. The function is total: no input
// shape causes an error.
func (r *Registry) NormalizeFields(raw map[string]any) domain.Record {
	out := make(domain.Record, len(r.columns))
	for _, c := range r.columns {
		out[c] = ""
	}

	for k, v := range raw {
		if mapped, ok := r.CanonicalKey(k); ok {
			out[mapped] = stringify(v)
			continue
		}
		if r.canonical[k] {
			out[k] = stringify(v)
		}
	}

	// A top-level 'timestamp' that did not reach the system column via the
	// question map still fills it.
	if out[timestampKey] == "" {
		if ts, ok := raw["timestamp"]; ok {
			out[timestampKey] = stringify(ts)
		}
	}
	return out
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
