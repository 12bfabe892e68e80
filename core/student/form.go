package student

import (
	"sort"
	"strconv"
	"strings"

	"github.com/collegedesk/console/core"
)

// Group names in display order.
const (
	GroupBasicInfo = "Basic Info"
	GroupFeesInfo  = "Fees Info"
	GroupOthers    = "Others"
)

// Descriptor is everything a client needs to render one field.
type Descriptor struct {
	Field    string      `json:"field"`
	Label    string      `json:"label"`
	Variant  Variant     `json:"variant"`
	Value    interface{} `json:"value"`
	Disabled bool        `json:"disabled"`
	Options  []Option    `json:"options,omitempty"`
	// URL links to the stored document, documents only.
	URL string `json:"url,omitempty"`
}

type Group struct {
	Name   string       `json:"name"`
	Fields []Descriptor `json:"fields"`
}

// Form is the rendered student editor. Responses is set before admission,
// Documents after.
type Form struct {
	ID        string       `json:"id"`
	Admitted  bool         `json:"admitted"`
	Groups    []Group      `json:"groups"`
	Responses []Descriptor `json:"responses,omitempty"`
	Documents []Descriptor `json:"documents,omitempty"`
	Dirty     bool         `json:"dirty"`
}

// Label turns a field name into its display label.
func Label(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}

// VariantOf returns the control used for field.
func VariantOf(field string) Variant {
	switch {
	case textAreaSet.has(field):
		return VariantTextArea
	case field == FieldCollege:
		return VariantCollegeSelect
	case field == FieldStaffAssignedFullName:
		return VariantStaffSelect
	case field == FieldDateOfPayment:
		return VariantDate
	case docFieldSet.has(field):
		return VariantFile
	}
	if _, ok := dropdownOptions[field]; ok {
		return VariantDropdown
	}
	return VariantText
}

// DropdownOptions returns the fixed options of a dropdown field.
func DropdownOptions(field string) []Option {
	return dropdownOptions[field]
}

type formBuilder struct {
	policy  Policy
	values  Record
	docsURL string
}

func (b formBuilder) descriptor(field string) Descriptor {
	d := Descriptor{
		Field:    field,
		Label:    Label(field),
		Variant:  VariantOf(field),
		Value:    b.values[field],
		Disabled: !b.policy.Editable(field),
		Options:  dropdownOptions[field],
	}
	if field == FieldStaffAssignedFullName {
		d.Disabled = !b.policy.viewer.IsAdmin
	}
	return d
}

// group lists the visible fields of order that the record holds.
func (b formBuilder) group(name string, order []string) Group {
	g := Group{Name: name, Fields: []Descriptor{}}
	for _, f := range order {
		if _, ok := b.values[f]; !ok || !b.policy.Visible(f, b.values) {
			continue
		}
		g.Fields = append(g.Fields, b.descriptor(f))
	}
	return g
}

// others lists the remaining record fields: known ones in table order,
// then unknown ones alphabetically.
func (b formBuilder) others() Group {
	known := newFieldSet(otherFields)
	order := append(make([]string, 0, len(b.values)), otherFields...)

	var extra []string
	for f := range b.values {
		if !known.has(f) && !othersExcludedSet.has(f) {
			extra = append(extra, f)
		}
	}
	sort.Strings(extra)
	return b.group(GroupOthers, append(order, extra...))
}

func (b formBuilder) responses(list []string) []Descriptor {
	out := make([]Descriptor, 0, len(list))
	disabled := !b.policy.Editable(FieldStudentResponse)
	for i, r := range list {
		out = append(out, Descriptor{
			Field:    FieldStudentResponse + "." + strconv.Itoa(i),
			Label:    "calls " + strconv.Itoa(i+1),
			Variant:  VariantTextArea,
			Value:    r,
			Disabled: disabled,
		})
	}
	return out
}

func (b formBuilder) documents(pending map[string]*core.File) []Descriptor {
	out := make([]Descriptor, 0, len(docFields))
	for _, f := range docFields {
		if _, ok := b.values[f]; !ok {
			if _, ok = pending[f]; !ok {
				continue
			}
		}
		d := b.descriptor(f)
		d.URL = core.DocumentURL(b.docsURL, b.values.String(f))
		if file, ok := pending[f]; ok {
			d.Value = file.Name
		}
		out = append(out, d)
	}
	return out
}
