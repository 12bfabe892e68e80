package student

// Field names referenced outside the static tables.
const (
	FieldID                    = "id"
	FieldName                  = "name"
	FieldCollege               = "college"
	FieldCourse                = "course"
	FieldPlace                 = "place"
	FieldModeOfPayment         = "mode_of_payment"
	FieldDateOfPayment         = "date_of_payment"
	FieldUniformFee            = "uniform_fee"
	FieldExtraFee              = "extra_fee"
	FieldEmployeeIncentive     = "employee_incentive"
	FieldAdminMessages         = "admin_messages"
	FieldAdminNotes            = "admin_notes"
	FieldStaffAssigned         = "staff_assigned"
	FieldStaffAssignedFullName = "staff_assigned_full_name"
	FieldAdmittedBy            = "admitted_by"
	FieldStudentResponse       = "student_response"
	FieldPayments              = "payments"
	FieldPassportPhoto         = "passport_photo"
	FieldKEAID                 = "KEA_id"
	FieldPassword              = "password"

	// NursingCourse is the only course that shows the KEA credentials.
	NursingCourse = "Bsc Nursing"
)

// Variant is the control a field is rendered with.
type Variant string

const (
	VariantText          Variant = "text"
	VariantTextArea      Variant = "textarea"
	VariantDropdown      Variant = "dropdown"
	VariantCollegeSelect Variant = "college_select"
	VariantStaffSelect   Variant = "staff_select"
	VariantDate          Variant = "date"
	VariantFile          Variant = "file"
)

// Option is a select entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var (
	basicInfo = []string{
		"name", "email", "phone_number", "alternate_phone_number", "parent_name",
		"date_of_birth", "place", "college", "course", "admission_year",
	}

	paymentFields = []string{
		"total_fees", "first_year", "second_year", "third_year", "fourth_year",
		"uniform_fee", "extra_fee", "mode_of_payment", "amount_paid_to_agent",
		"amount_paid_to_college", "date_of_payment", "service_charge",
		"total_service_charge", "service_charge_withdrawn", "balance_service_charge",
		"employee_incentive",
	}

	docFields = []string{"passport_photo", "SSLC", "plus_two", "aadhar", "other_documents"}

	// otherFields is only used for ordering; any other record key lands at the end.
	otherFields = []string{
		"status", "approval_status", "course_status", "gender", "blood_group",
		"staff_assigned_full_name", "admin_messages", "admin_notes",
		"date_of_admission", "KEA_id", "password",
	}

	// never listed in the "others" group
	othersExcluded = []string{"id", "staff_assigned", "admitted_by", "student_response", "payments"}

	// derived by the backend, never editable
	autoCalculatedFields = []string{
		"total_fees", "total_service_charge", "balance_service_charge",
		"date_of_admission", "admitted_by",
	}

	adminEditableFields = []string{
		"name", "email", "phone_number", "alternate_phone_number", "parent_name",
		"date_of_birth", "place", "college", "course", "admission_year",
		"first_year", "second_year", "third_year", "fourth_year", "uniform_fee",
		"extra_fee", "mode_of_payment", "amount_paid_to_agent", "amount_paid_to_college",
		"date_of_payment", "service_charge", "service_charge_withdrawn",
		"employee_incentive", "status", "approval_status", "course_status", "gender",
		"blood_group", "staff_assigned", "admin_messages", "admin_notes", "KEA_id",
		"password", "student_response",
		"passport_photo", "SSLC", "plus_two", "aadhar", "other_documents",
	}

	employeeRestrictedFields = []string{
		"college", "course", "first_year", "second_year", "third_year", "fourth_year",
		"uniform_fee", "extra_fee", "amount_paid_to_college", "service_charge",
		"total_service_charge", "balance_service_charge", "employee_incentive",
		"approval_status", "admin_messages", "admin_notes", "staff_assigned",
		"staff_assigned_full_name",
	}

	// computed or sensitive, never submitted by non-admins
	alwaysExcludedFields = []string{
		"payments", "service_charge_withdrawn", "balance_service_charge",
		"date_of_admission", "total_fees",
	}

	// never transmitted whatever the role
	skippedFields = []string{"staff_assigned_full_name", "admitted_by"}

	serviceChargeBreakdown = []string{"balance_service_charge", "total_service_charge", "service_charge_withdrawn"}

	textAreaFields = []string{"place", "admin_messages", "admin_notes"}

	dropdownOptions = map[string][]Option{
		"mode_of_payment": {
			{Label: "Cash", Value: "cash"},
			{Label: "Bank Transfer", Value: "bank_transfer"},
			{Label: "UPI", Value: "upi"},
			{Label: "Cheque", Value: "cheque"},
			{Label: "Loan", Value: "loan"},
		},
		"status": {
			{Label: "Enquiry", Value: "enquiry"},
			{Label: "Follow Up", Value: "follow_up"},
			{Label: "Admitted", Value: "admitted"},
			{Label: "Dropped", Value: "dropped"},
		},
		"approval_status": {
			{Label: "Pending", Value: "pending"},
			{Label: "Approved", Value: "approved"},
			{Label: "Rejected", Value: "rejected"},
		},
		"course_status": {
			{Label: "Ongoing", Value: "ongoing"},
			{Label: "Completed", Value: "completed"},
			{Label: "Discontinued", Value: "discontinued"},
		},
		"gender": {
			{Label: "Male", Value: "male"},
			{Label: "Female", Value: "female"},
			{Label: "Other", Value: "other"},
		},
		"blood_group": {
			{Label: "A+", Value: "A+"}, {Label: "A-", Value: "A-"},
			{Label: "B+", Value: "B+"}, {Label: "B-", Value: "B-"},
			{Label: "AB+", Value: "AB+"}, {Label: "AB-", Value: "AB-"},
			{Label: "O+", Value: "O+"}, {Label: "O-", Value: "O-"},
		},
	}

	// validation tags applied on submit
	validationRules = map[string]string{
		"name":                   "required,notblank",
		"email":                  "omitempty,email",
		"phone_number":           "omitempty,numeric,min=10,max=15",
		"alternate_phone_number": "omitempty,numeric,min=10,max=15",
		"first_year":             "omitempty,numeric",
		"second_year":            "omitempty,numeric",
		"third_year":             "omitempty,numeric",
		"fourth_year":            "omitempty,numeric",
		"uniform_fee":            "omitempty,numeric",
		"extra_fee":              "omitempty,numeric",
		"amount_paid_to_agent":   "omitempty,numeric",
		"amount_paid_to_college": "omitempty,numeric",
		"service_charge":         "omitempty,numeric",
	}
)

type fieldSet map[string]struct{}

func newFieldSet(lists ...[]string) fieldSet {
	s := make(fieldSet)
	for _, l := range lists {
		for _, f := range l {
			s[f] = struct{}{}
		}
	}
	return s
}

func (s fieldSet) has(f string) bool {
	_, ok := s[f]
	return ok
}

var (
	basicInfoSet          = newFieldSet(basicInfo)
	paymentFieldSet       = newFieldSet(paymentFields)
	docFieldSet           = newFieldSet(docFields)
	othersExcludedSet     = newFieldSet(basicInfo, paymentFields, docFields, othersExcluded)
	autoCalculatedSet     = newFieldSet(autoCalculatedFields)
	adminEditableSet      = newFieldSet(adminEditableFields)
	employeeRestrictedSet = newFieldSet(employeeRestrictedFields)
	alwaysExcludedSet     = newFieldSet(alwaysExcludedFields)
	skippedSet            = newFieldSet(skippedFields)
	serviceChargeSet      = newFieldSet(serviceChargeBreakdown)
	textAreaSet           = newFieldSet(textAreaFields)
)

// IsDocumentField reports whether field holds an uploaded document.
func IsDocumentField(field string) bool {
	return docFieldSet.has(field)
}
