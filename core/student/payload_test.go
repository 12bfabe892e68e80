package student_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/student"
	"github.com/collegedesk/console/tests"
)

var employeeRestricted = []string{
	"college", "course", "first_year", "second_year", "third_year", "fourth_year",
	"uniform_fee", "extra_fee", "amount_paid_to_college", "service_charge",
	"total_service_charge", "balance_service_charge", "employee_incentive",
	"approval_status", "admin_messages", "admin_notes", "staff_assigned",
	"staff_assigned_full_name",
}

func TestBuildPayload_roles(t *testing.T) {
	tests := []struct {
		name        string
		viewer      core.Viewer
		wantAllowed []string
	}{
		{name: "employee", viewer: employee},
		{name: "agent", viewer: agent, wantAllowed: []string{"uniform_fee", "extra_fee"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := student.BuildPayload(tt.viewer, newRecord(t), []string{"a"}, nil)
			allowed := map[string]bool{}
			for _, f := range tt.wantAllowed {
				allowed[f] = true
			}
			for _, f := range employeeRestricted {
				assert.Equal(t, allowed[f], p.Has(f), f)
			}
			for _, f := range []string{"payments", "service_charge_withdrawn", "date_of_admission", "total_fees"} {
				assert.False(t, p.Has(f), f)
			}
		})
	}
}

func TestBuildPayload_admin(t *testing.T) {
	p := student.BuildPayload(admin, newRecord(t), nil, nil)

	for _, f := range []string{"college", "course", "admin_notes", "staff_assigned", "service_charge_withdrawn", "first_year"} {
		assert.True(t, p.Has(f), f)
	}
	// auto-calculated, display-only or not admin-editable
	for _, f := range []string{
		"total_fees", "total_service_charge", "balance_service_charge", "date_of_admission",
		"admitted_by", "staff_assigned_full_name", "id", "payments", "student_response",
	} {
		assert.False(t, p.Has(f), f)
	}
}

func TestBuildPayload_values(t *testing.T) {
	r := newRecord(t)
	r["date_of_payment"] = "2024/06/01"
	r["email"] = nil
	photo := testutil.File(t, "p.jpg", "image/jpeg", 10)

	p := student.BuildPayload(employee, r, nil, map[string]*core.File{"passport_photo": photo})

	date, ok := p.Get("date_of_payment")
	require.True(t, ok)
	assert.Equal(t, "2024-06-01", date)
	assert.NotContains(t, date, "/")

	assert.False(t, p.Has("email"), "nil values are skipped")
	assert.False(t, p.Has("student_response"), "empty responses are not sent")
	assert.False(t, p.Has("admitted_by"))
	assert.False(t, p.Has("SSLC"), "stored documents are not sent back")

	f, ok := p.File("passport_photo")
	require.True(t, ok)
	assert.Same(t, photo, f)

	year, _ := p.Get("admission_year")
	assert.Equal(t, "2024", year)
}

func TestPolicy_Authorized(t *testing.T) {
	keys := []string{"name", "college", "uniform_fee", "total_fees", "payments", "balance_service_charge"}

	tests := []struct {
		name   string
		viewer core.Viewer
		want   []string
	}{
		{name: "admin", viewer: admin, want: []string{"college", "name", "uniform_fee"}},
		{name: "agent", viewer: agent, want: []string{"name", "uniform_fee"}},
		{name: "employee", viewer: employee, want: []string{"name"}},
		{name: "no role", viewer: core.Viewer{ID: "9"}, want: []string{"name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, student.NewPolicy(tt.viewer).Authorized(keys))
		})
	}
}

func TestPolicy_Visible(t *testing.T) {
	nursing := student.Record{"course": "Bsc Nursing"}
	bcom := student.Record{"course": "Bcom"}

	tests := []struct {
		name   string
		viewer core.Viewer
		field  string
		record student.Record
		want   bool
	}{
		{name: "incentive hidden from employees", viewer: employee, field: "employee_incentive", want: false},
		{name: "incentive shown to agents", viewer: agent, field: "employee_incentive", want: true},
		{name: "balance shown to employees", viewer: employee, field: "balance_service_charge", want: true},
		{name: "balance hidden from admins", viewer: admin, field: "balance_service_charge", want: false},
		{name: "admin notes for admins", viewer: admin, field: "admin_notes", want: true},
		{name: "admin notes hidden from agents", viewer: agent, field: "admin_notes", want: false},
		{name: "KEA id for nursing", viewer: agent, field: "KEA_id", record: nursing, want: true},
		{name: "KEA id hidden otherwise", viewer: agent, field: "password", record: bcom, want: false},
		{name: "plain field", viewer: employee, field: "name", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, student.NewPolicy(tt.viewer).Visible(tt.field, tt.record))
		})
	}
}

func TestResponses(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want []string
	}{
		{name: "nil", in: nil, want: nil},
		{name: "list", in: []interface{}{"a", "b"}, want: []string{"a", "b"}},
		{name: "map by call index", in: map[string]interface{}{"call_10": "k", "call_2": "c", "call_0": "a"}, want: []string{"a", "c", "k"}},
		{name: "non numeric keys last", in: map[string]interface{}{"note": "z", "call_1": "b"}, want: []string{"b", "z"}},
		{name: "encoded map", in: `{"call_1":"b","call_0":"a"}`, want: []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, student.Responses(tt.in))
		})
	}
}
