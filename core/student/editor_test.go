package student_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/student"
	"github.com/collegedesk/console/tests"
)

var (
	translator = core.NewTranslator()
	validate   = core.NewValidator(translator)

	admin    = core.Viewer{ID: "1", Name: "Asha", IsAdmin: true}
	agent    = core.Viewer{ID: "2", Name: "Ravi", IsAgent: true}
	employee = core.Viewer{ID: "3", Name: "Meera", IsEmployee: true}
)

const studentJSON = `{
	"id": 42,
	"name": "Anu Joseph",
	"email": "anu@example.com",
	"phone_number": "9876543210",
	"place": "Kottayam",
	"college": "St Mary College",
	"course": "Bsc Nursing",
	"admission_year": 2024,
	"total_fees": 400000,
	"first_year": "100000",
	"second_year": "100000",
	"third_year": "100000",
	"fourth_year": "100000",
	"uniform_fee": "5000",
	"extra_fee": "2000",
	"mode_of_payment": "cash",
	"amount_paid_to_agent": "10000",
	"amount_paid_to_college": "90000",
	"date_of_payment": "2024/06/01",
	"service_charge": "30000",
	"total_service_charge": "30000",
	"service_charge_withdrawn": "10000",
	"balance_service_charge": "20000",
	"employee_incentive": "1500",
	"status": "follow_up",
	"approval_status": "pending",
	"admin_messages": "",
	"admin_notes": "call back",
	"staff_assigned": 3,
	"staff_assigned_full_name": "Meera",
	"admitted_by": "Ravi",
	"date_of_admission": null,
	"KEA_id": "KEA-1",
	"password": "secret",
	"passport_photo": "media/docs/photo.jpg",
	"SSLC": null,
	"plus_two": "",
	"aadhar": "",
	"other_documents": "",
	"payments": [],
	"student_response": {"call_1": "second", "call_0": "first", "call_10": "eleventh", "call_2": "third"}
}`

func newRecord(t *testing.T) student.Record {
	t.Helper()
	r, err := student.DecodeRecord([]byte(studentJSON))
	require.NoError(t, err)
	return r
}

func newEditor(t *testing.T, viewer core.Viewer, admitted bool) (*student.Editor, *testutil.Backend, *testutil.Notifications) {
	t.Helper()
	backend := testutil.NewBackend()
	backend.Students["42"] = newRecord(t)
	notes := new(testutil.Notifications)
	ed := student.NewEditor(backend, notes, validate, translator, new(testutil.Logger), viewer, "https://files.example.com/")
	require.NoError(t, ed.Load(context.Background(), "42", admitted))
	return ed, backend, notes
}

func TestEditor_Load_responses(t *testing.T) {
	ed, _, _ := newEditor(t, admin, false)
	assert.Equal(t, []string{"first", "second", "third", "eleventh"}, ed.Responses())
	assert.False(t, ed.Dirty())
}

func TestEditor_SetField(t *testing.T) {
	tests := []struct {
		name      string
		viewer    core.Viewer
		field     string
		value     interface{}
		unchanged bool
		wantErr   error
	}{
		{name: "admin edits college", viewer: admin, field: "college", value: "Govt College"},
		{name: "admin cannot edit auto-calculated", viewer: admin, field: "total_fees", value: "1", wantErr: core.ErrFieldReadOnly},
		{name: "auto-calculated unchanged is fine", viewer: admin, field: "total_fees", value: json.Number("400000")},
		{name: "employee cannot edit college", viewer: employee, field: "college", value: "Govt College", wantErr: core.ErrFieldReadOnly},
		{name: "employee edits phone", viewer: employee, field: "phone_number", value: "9000000000"},
		{name: "agent cannot edit uniform fee", viewer: agent, field: "uniform_fee", value: "1", wantErr: core.ErrFieldReadOnly},
		{name: "employee edits status", viewer: employee, field: "status", value: "admitted"},
		{name: "null auto-calculated posted empty", viewer: admin, field: "date_of_admission", value: "", unchanged: true},
		{name: "empty dropdown is no selection", viewer: employee, field: "gender", value: "", unchanged: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, _, _ := newEditor(t, tt.viewer, false)
			err := ed.SetField(tt.field, tt.value)
			if tt.wantErr != nil {
				assert.True(t, core.IsCause(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			if tt.unchanged {
				assert.False(t, ed.Dirty())
				return
			}
			assert.Equal(t, tt.value, ed.Values()[tt.field])
		})
	}
}

func TestEditor_SetField_invalidOption(t *testing.T) {
	ed, _, _ := newEditor(t, admin, false)
	err := ed.SetField("gender", "unknown")
	require.Error(t, err)
	ve, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "gender", ve.Fields[0].Field)
}

func TestEditor_SetField_storedOption(t *testing.T) {
	backend := testutil.NewBackend()
	r := newRecord(t)
	r["status"] = "Enquired"
	r["gender"] = ""
	backend.Students["42"] = r
	ed := student.NewEditor(backend, new(testutil.Notifications), validate, translator, new(testutil.Logger), employee, "https://files.example.com/")
	require.NoError(t, ed.Load(context.Background(), "42", false))

	require.NoError(t, ed.SetField("status", "Enquired"))
	require.NoError(t, ed.SetField("gender", ""))
	assert.False(t, ed.Dirty())

	require.NoError(t, ed.SetField("gender", "female"))
	assert.Equal(t, "female", ed.Values()["gender"])
	assert.Error(t, ed.SetField("status", "Enquired again"))
}

func TestEditor_SelectStaff(t *testing.T) {
	ed, _, _ := newEditor(t, admin, false)
	require.NoError(t, ed.SelectStaff(student.Option{Label: "Ravi", Value: "2"}))
	assert.Equal(t, "2", ed.Values()["staff_assigned"])
	assert.Equal(t, "Ravi", ed.Values()["staff_assigned_full_name"])

	ed, _, _ = newEditor(t, employee, false)
	assert.True(t, core.IsCause(ed.SelectStaff(student.Option{Label: "Ravi", Value: "2"}), core.ErrFieldReadOnly))
}

func TestEditor_responses(t *testing.T) {
	ed, _, _ := newEditor(t, employee, false)
	before := ed.Responses()

	require.NoError(t, ed.AppendResponse("fifth"))
	assert.Equal(t, append(append([]string{}, before...), "fifth"), ed.Responses())
	assert.True(t, ed.Dirty())

	require.NoError(t, ed.RemoveResponse(len(before)))
	assert.Equal(t, before, ed.Responses())
	assert.False(t, ed.Dirty())

	require.NoError(t, ed.InsertResponse(1, "inserted"))
	require.NoError(t, ed.RemoveResponse(1))
	assert.Equal(t, before, ed.Responses())

	require.NoError(t, ed.SetResponse(0, "changed"))
	assert.Equal(t, "changed", ed.Responses()[0])

	assert.Error(t, ed.RemoveResponse(99))
	assert.Error(t, ed.SetResponse(-1, "x"))
}

func TestEditor_SetResponses(t *testing.T) {
	ed, _, _ := newEditor(t, employee, false)
	before := ed.Responses()

	require.NoError(t, ed.SetResponses(before))
	assert.False(t, ed.Dirty())

	require.NoError(t, ed.SetResponses([]string{"only"}))
	assert.Equal(t, []string{"only"}, ed.Responses())
	assert.True(t, ed.Dirty())

	admitted, _, _ := newEditor(t, admin, true)
	assert.NoError(t, admitted.SetResponses(admitted.Responses()))
	assert.True(t, core.IsCause(admitted.SetResponses([]string{"x"}), core.ErrFieldReadOnly))
}

func TestEditor_responses_afterAdmission(t *testing.T) {
	ed, _, _ := newEditor(t, admin, true)
	assert.True(t, core.IsCause(ed.AppendResponse("x"), core.ErrFieldReadOnly))
}

func TestEditor_AttachDocument(t *testing.T) {
	tests := []struct {
		name     string
		admitted bool
		field    string
		file     *core.File
		wantErr  error
	}{
		{name: "pdf under 1MB", admitted: true, field: "SSLC", file: testutil.File(t, "sslc.pdf", "application/pdf", core.MB)},
		{name: "pdf over 1MB", admitted: true, field: "SSLC", file: testutil.File(t, "sslc.pdf", "application/pdf", core.MB+1), wantErr: core.ErrFileTooLarge},
		{name: "image under 2MB", admitted: true, field: "aadhar", file: testutil.File(t, "aadhar.jpg", "image/jpeg", 2*core.MB)},
		{name: "image over 2MB", admitted: true, field: "aadhar", file: testutil.File(t, "aadhar.jpg", "image/jpeg", 2*core.MB+1), wantErr: core.ErrFileTooLarge},
		{name: "passport photo must be jpeg", admitted: true, field: "passport_photo", file: testutil.File(t, "p.pdf", "application/pdf", 10), wantErr: core.ErrUnsupportedFile},
		{name: "passport photo jpeg", admitted: true, field: "passport_photo", file: testutil.File(t, "p.jpeg", "image/jpeg", 10)},
		{name: "text file rejected", admitted: true, field: "plus_two", file: testutil.File(t, "p.txt", "text/plain", 10), wantErr: core.ErrUnsupportedFile},
		{name: "before admission", admitted: false, field: "SSLC", file: testutil.File(t, "sslc.pdf", "application/pdf", 10), wantErr: core.ErrFieldReadOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, _, _ := newEditor(t, admin, tt.admitted)
			err := ed.AttachDocument(tt.field, tt.file)
			if tt.wantErr != nil {
				assert.True(t, core.IsCause(err, tt.wantErr), "got %v", err)
				assert.False(t, ed.Dirty())
				return
			}
			require.NoError(t, err)
			assert.True(t, ed.Dirty())
		})
	}
}

func TestEditor_Form(t *testing.T) {
	ed, _, _ := newEditor(t, employee, false)
	form := ed.Form()

	require.Len(t, form.Groups, 3)
	fields := func(g student.Group) map[string]student.Descriptor {
		m := map[string]student.Descriptor{}
		for _, d := range g.Fields {
			m[d.Field] = d
		}
		return m
	}
	basic, fees, others := fields(form.Groups[0]), fields(form.Groups[1]), fields(form.Groups[2])

	assert.Equal(t, "name", form.Groups[0].Fields[0].Field)
	assert.Equal(t, student.VariantCollegeSelect, basic["college"].Variant)
	assert.True(t, basic["college"].Disabled)
	assert.Equal(t, student.VariantTextArea, basic["place"].Variant)
	assert.Equal(t, "phone number", basic["phone_number"].Label)

	// employees see the service charge breakdown, not the incentive
	assert.Contains(t, fees, "balance_service_charge")
	assert.NotContains(t, fees, "employee_incentive")
	assert.True(t, fees["total_fees"].Disabled)
	assert.Equal(t, student.VariantDate, fees["date_of_payment"].Variant)
	assert.Equal(t, student.VariantDropdown, fees["mode_of_payment"].Variant)
	assert.NotEmpty(t, fees["mode_of_payment"].Options)

	assert.NotContains(t, others, "admin_notes")
	assert.NotContains(t, others, "id")
	assert.NotContains(t, others, "staff_assigned")
	assert.NotContains(t, others, "payments")
	assert.Contains(t, others, "KEA_id")
	assert.True(t, others["staff_assigned_full_name"].Disabled)
	assert.Equal(t, student.VariantStaffSelect, others["staff_assigned_full_name"].Variant)

	assert.Len(t, form.Responses, 4)
	assert.Equal(t, "calls 1", form.Responses[0].Label)
	assert.Empty(t, form.Documents)
}

func TestEditor_Form_admitted(t *testing.T) {
	ed, _, _ := newEditor(t, admin, true)
	require.NoError(t, ed.SetField("course", "Bcom"))
	form := ed.Form()

	assert.Empty(t, form.Responses)
	require.NotEmpty(t, form.Documents)
	assert.Equal(t, "passport_photo", form.Documents[0].Field)
	assert.Equal(t, "https://files.example.com/media/docs/photo.jpg", form.Documents[0].URL)
	assert.Equal(t, "", form.Documents[1].URL)

	var others []string
	for _, d := range form.Groups[2].Fields {
		others = append(others, d.Field)
	}
	assert.NotContains(t, others, "KEA_id")
	assert.NotContains(t, others, "password")
	assert.Contains(t, others, "admin_notes")
}

func TestEditor_Submit(t *testing.T) {
	ed, backend, notes := newEditor(t, employee, false)
	require.NoError(t, ed.SetField("place", "Pala"))
	require.NoError(t, ed.AppendResponse("fifth"))

	msg, err := ed.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Success", msg)

	calls := backend.CallsTo("UpdateStudent")
	require.Len(t, calls, 1)
	p := calls[0].Payload
	assert.Equal(t, "42", calls[0].ID)
	assert.False(t, p.Has("balance_service_charge"))
	assert.False(t, p.Has("college"))

	place, _ := p.Get("place")
	assert.Equal(t, "Pala", place)
	responses, ok := p.Get("student_response")
	require.True(t, ok)
	assert.JSONEq(t, `{"call_0":"first","call_1":"second","call_2":"third","call_3":"eleventh","call_4":"fifth"}`, responses)

	// reloaded from the backend
	assert.Len(t, backend.CallsTo("ViewStudentDetails"), 2)
	assert.False(t, ed.Dirty())
	assert.False(t, ed.Submitting())
	require.Len(t, notes.All(), 1)
	assert.Equal(t, core.ActionStudentUpdate, notes.All()[0].Action)
}

func TestEditor_Submit_validation(t *testing.T) {
	tests := []struct {
		name      string
		field     string
		value     interface{}
		wantField string
	}{
		{name: "name required", field: "name", value: "  ", wantField: "name"},
		{name: "bad email", field: "email", value: "anu@", wantField: "email"},
		{name: "short phone", field: "phone_number", value: "12345", wantField: "phone_number"},
		{name: "phone not numeric", field: "phone_number", value: "98765abcde", wantField: "phone_number"},
		{name: "fee not numeric", field: "amount_paid_to_agent", value: "ten", wantField: "amount_paid_to_agent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ed, backend, _ := newEditor(t, admin, false)
			require.NoError(t, ed.SetField(tt.field, tt.value))
			_, err := ed.Submit(context.Background())
			require.Error(t, err)
			ve, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %T", err)
			require.Len(t, ve.Fields, 1)
			assert.Equal(t, tt.wantField, ve.Fields[0].Field)
			assert.NotEmpty(t, ve.Fields[0].Error)
			assert.Empty(t, backend.CallsTo("UpdateStudent"))
			assert.False(t, ed.Submitting())
		})
	}
}
