package student

import (
	"sort"

	"github.com/collegedesk/console/core"
)

// Policy answers the per-field questions for one viewer.
type Policy struct {
	viewer core.Viewer
}

func NewPolicy(viewer core.Viewer) Policy {
	return Policy{viewer: viewer}
}

// Editable reports whether the viewer may change field. Auto-calculated
// fields are never editable.
func (p Policy) Editable(field string) bool {
	if autoCalculatedSet.has(field) {
		return false
	}
	if p.viewer.IsAdmin {
		return adminEditableSet.has(field)
	}
	return !employeeRestrictedSet.has(field)
}

// Visible reports whether field is shown at all to the viewer for the given record.
func (p Policy) Visible(field string, r Record) bool {
	switch {
	case field == FieldEmployeeIncentive:
		return !p.viewer.IsEmployee
	case serviceChargeSet.has(field):
		return p.viewer.IsEmployee
	case field == FieldAdminNotes:
		return p.viewer.IsAdmin
	case field == FieldKEAID, field == FieldPassword:
		return r.String(FieldCourse) == NursingCourse
	}
	return true
}

// Authorized filters the submitted keys down to what the viewer may send.
// The result is sorted.
func (p Policy) Authorized(keys []string) []string {
	allowed := make(fieldSet, len(keys))
	for _, k := range keys {
		switch {
		case p.viewer.IsAdmin:
			if adminEditableSet.has(k) {
				allowed[k] = struct{}{}
			}
		case !employeeRestrictedSet.has(k) && !alwaysExcludedSet.has(k):
			allowed[k] = struct{}{}
		}
	}

	if !p.viewer.IsAdmin && p.viewer.IsAgent {
		for _, k := range keys {
			if k == FieldUniformFee || k == FieldExtraFee {
				allowed[k] = struct{}{}
			}
		}
	}

	out := make([]string, 0, len(allowed))
	for k := range allowed {
		if autoCalculatedSet.has(k) {
			continue
		}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
