package payment

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/collegedesk/console/core"
)

// Installment field names.
const (
	FieldID                        = "id"
	FieldAccountDetails            = "account_details"
	FieldAmountReceivedFromStudent = "amount_received_from_student"
	FieldAmountPaidToCollege       = "amount_paid_to_college"
	FieldDateOfPayment             = "date_of_payment"
	FieldRemarks                   = "remarks"
	FieldPaymentScreenshot         = "payment_screenshot"
)

// validation tags applied before a row is submitted
var rowRules = map[string]string{
	FieldAmountReceivedFromStudent: "required,numeric",
	FieldAmountPaidToCollege:       "omitempty,numeric",
	FieldDateOfPayment:             "required",
}

// Installment is one payment of a student, as stored by the backend.
// ID is 0 until the backend assigns one.
type Installment struct {
	ID                        int64           `json:"id"`
	AccountDetails            core.FlexString `json:"account_details"`
	AmountReceivedFromStudent core.FlexString `json:"amount_received_from_student"`
	AmountPaidToCollege       core.FlexString `json:"amount_paid_to_college"`
	DateOfPayment             core.FlexString `json:"date_of_payment"`
	Remarks                   core.FlexString `json:"remarks"`
	PaymentScreenshot         core.FlexString `json:"payment_screenshot"`
}

// State is where a row is in its lifecycle.
type State string

const (
	StateNew       State = "unsaved-new"
	StatePersisted State = "persisted"
	StateRemoved   State = "removed"
)

// Row is an installment on the board. Key stays the same when the row is
// replaced by the backend's copy.
type Row struct {
	Key         uuid.UUID   `json:"key"`
	Installment Installment `json:"installment"`
	New         bool        `json:"isNew"`
	// Screenshot is a picked file not yet submitted.
	Screenshot *core.File `json:"-"`
}

func (r Row) State() State {
	if r.New {
		return StateNew
	}
	return StatePersisted
}

// values returns the text fields keyed by name, for validation.
func (r Row) values() map[string]interface{} {
	in := r.Installment
	return map[string]interface{}{
		FieldAccountDetails:            in.AccountDetails.String(),
		FieldAmountReceivedFromStudent: in.AmountReceivedFromStudent.String(),
		FieldAmountPaidToCollege:       in.AmountPaidToCollege.String(),
		FieldDateOfPayment:             in.DateOfPayment.String(),
		FieldRemarks:                   in.Remarks.String(),
	}
}

func (r *Row) set(field, value string) bool {
	v := core.FlexString(value)
	switch field {
	case FieldAccountDetails:
		r.Installment.AccountDetails = v
	case FieldAmountReceivedFromStudent:
		r.Installment.AmountReceivedFromStudent = v
	case FieldAmountPaidToCollege:
		r.Installment.AmountPaidToCollege = v
	case FieldDateOfPayment:
		r.Installment.DateOfPayment = v
	case FieldRemarks:
		r.Installment.Remarks = v
	default:
		return false
	}
	return true
}

// Payload serializes the row. New rows use plain keys for the create call,
// persisted rows use payments[0][field] keys for the edit call. A zero id
// and the isNew marker are never sent.
func (r Row) Payload() *core.Payload {
	key := func(f string) string { return f }
	if !r.New {
		key = func(f string) string { return "payments[0][" + f + "]" }
	}

	in := r.Installment
	p := core.NewPayload()
	if !r.New && in.ID != 0 {
		p.Set(key(FieldID), strconv.FormatInt(in.ID, 10))
	}
	p.Set(key(FieldAccountDetails), in.AccountDetails.String())
	p.Set(key(FieldAmountReceivedFromStudent), in.AmountReceivedFromStudent.String())
	p.Set(key(FieldAmountPaidToCollege), in.AmountPaidToCollege.String())
	p.Set(key(FieldDateOfPayment), core.NormalizeDate(in.DateOfPayment.String()))
	p.Set(key(FieldRemarks), in.Remarks.String())
	if r.Screenshot != nil {
		p.SetFile(key(FieldPaymentScreenshot), r.Screenshot)
	}
	return p
}
