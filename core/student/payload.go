package student

import (
	"github.com/collegedesk/console/core"
)

// BuildPayload serializes an edited student for the update call.
//
// Only the fields the viewer is authorized for are sent. Nil values and the
// staff display fields are skipped, responses go out as a call_N object,
// the payment date uses "-" separators and pending documents become file parts.
// Stored document paths are not sent back.
func BuildPayload(viewer core.Viewer, values Record, responses []string, files map[string]*core.File) *core.Payload {
	keys := make([]string, 0, len(values)+len(files)+1)
	seen := make(fieldSet, cap(keys))
	add := func(k string) {
		if !seen.has(k) {
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	for k := range values {
		add(k)
	}
	for k := range files {
		add(k)
	}
	if len(responses) > 0 {
		add(FieldStudentResponse)
	}

	p := core.NewPayload()
	for _, field := range NewPolicy(viewer).Authorized(keys) {
		switch {
		case field == FieldStudentResponse:
			if s, ok := EncodeResponses(responses); ok {
				p.Set(field, s)
			}
		case skippedSet.has(field):
		case docFieldSet.has(field):
			if f, ok := files[field]; ok && f != nil {
				p.SetFile(field, f)
			}
		case field == FieldDateOfPayment:
			if s, ok := core.FormString(values[field]); ok {
				p.Set(field, core.NormalizeDate(s))
			}
		default:
			if s, ok := core.FormString(values[field]); ok {
				p.Set(field, s)
			}
		}
	}
	return p
}
