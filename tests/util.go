package testutil

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/college"
	"github.com/collegedesk/console/core/payment"
	"github.com/collegedesk/console/core/student"
	"github.com/collegedesk/console/services/backend"
)

// Call is one recorded backend call.
type Call struct {
	Method    string
	ID        string
	Payload   *core.Payload
	DeleteIDs []int64
}

// Backend is an in-memory stand-in for the REST backend. Set Err to make
// every mutating call fail.
type Backend struct {
	mu sync.Mutex

	Courses   map[string]college.CourseCollege
	Students  map[string]student.Record
	Payments  map[string][]payment.Installment
	Colleges  []string
	Employees []student.EmployeeName

	Err        error
	OptionsErr error
	Message    string

	Calls  []Call
	nextID int64
}

var (
	_ college.Backend        = (*Backend)(nil)
	_ student.Backend        = (*Backend)(nil)
	_ student.OptionsBackend = (*Backend)(nil)
	_ payment.Backend        = (*Backend)(nil)
)

func NewBackend() *Backend {
	return &Backend{
		Courses:  map[string]college.CourseCollege{},
		Students: map[string]student.Record{},
		Payments: map[string][]payment.Installment{},
		Message:  "Success",
		nextID:   100,
	}
}

func (b *Backend) record(c Call) {
	b.Calls = append(b.Calls, c)
}

// CallsTo returns the recorded calls of one method.
func (b *Backend) CallsTo(method string) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func (b *Backend) GetCourseDetails(_ context.Context, id string) (college.CourseCollege, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "GetCourseDetails", ID: id})
	cc, ok := b.Courses[id]
	if !ok {
		return college.CourseCollege{}, notFound(id)
	}
	return cc, nil
}

func (b *Backend) RegisterCollege(_ context.Context, payload *core.Payload) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "RegisterCollege", Payload: payload})
	if b.Err != nil {
		return "", b.Err
	}
	b.nextID++
	b.Courses[strconv.FormatInt(b.nextID, 10)] = courseFromPayload(payload)
	return b.Message, nil
}

func (b *Backend) UpdateCollege(_ context.Context, payload *core.Payload, id string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "UpdateCollege", ID: id, Payload: payload})
	if b.Err != nil {
		return "", b.Err
	}
	b.Courses[id] = courseFromPayload(payload)
	return b.Message, nil
}

func courseFromPayload(p *core.Payload) college.CourseCollege {
	var cc college.CourseCollege
	cc.CollegeName, _ = p.Get(college.FieldCollegeName)
	cc.CourseName, _ = p.Get(college.FieldCourseName)
	cc.CollegeLocation, _ = p.Get(college.FieldCollegeLocation)
	cc.CourseDescription, _ = p.Get(college.FieldCourseDescription)
	if f, ok := p.File(college.FieldBrochure); ok {
		cc.BrochureURL = "media/brochures/" + f.Name
	}
	return cc
}

func (b *Backend) ListCollegeNames(_ context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "ListCollegeNames"})
	if b.OptionsErr != nil {
		return nil, b.OptionsErr
	}
	return append([]string(nil), b.Colleges...), nil
}

func (b *Backend) ListEmployeeNames(_ context.Context, q student.EmployeeQuery) (student.EmployeePage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "ListEmployeeNames", ID: q.Search})
	if b.OptionsErr != nil {
		return student.EmployeePage{}, b.OptionsErr
	}

	var matched []student.EmployeeName
	for _, e := range b.Employees {
		if q.Search == "" || strings.Contains(strings.ToLower(e.Name), strings.ToLower(q.Search)) {
			matched = append(matched, e)
		}
	}
	page := student.EmployeePage{Count: len(matched), Results: []student.EmployeeName{}}
	start := (q.Page - 1) * q.Limit
	if start >= 0 && start < len(matched) {
		end := start + q.Limit
		if end > len(matched) {
			end = len(matched)
		}
		page.Results = append(page.Results, matched[start:end]...)
	}
	return page, nil
}

func (b *Backend) ViewStudentDetails(_ context.Context, id string) (student.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "ViewStudentDetails", ID: id})
	r, ok := b.Students[id]
	if !ok {
		return nil, notFound(id)
	}
	return r.Clone(), nil
}

func (b *Backend) UpdateStudent(_ context.Context, id string, payload *core.Payload) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "UpdateStudent", ID: id, Payload: payload})
	if b.Err != nil {
		return "", b.Err
	}
	r := b.Students[id].Clone()
	for _, k := range payload.Keys() {
		if v, ok := payload.Get(k); ok {
			r[k] = v
		}
	}
	b.Students[id] = r
	return b.Message, nil
}

func (b *Backend) ListPayments(_ context.Context, studentID string) ([]payment.Installment, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "ListPayments", ID: studentID})
	return append([]payment.Installment(nil), b.Payments[studentID]...), nil
}

func (b *Backend) CreatePayments(_ context.Context, studentID string, payload *core.Payload) (payment.Installment, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "CreatePayments", ID: studentID, Payload: payload})
	if b.Err != nil {
		return payment.Installment{}, "", b.Err
	}
	b.nextID++
	in := payment.Installment{ID: b.nextID}
	get := func(k string) core.FlexString { v, _ := payload.Get(k); return core.FlexString(v) }
	in.AccountDetails = get(payment.FieldAccountDetails)
	in.AmountReceivedFromStudent = get(payment.FieldAmountReceivedFromStudent)
	in.AmountPaidToCollege = get(payment.FieldAmountPaidToCollege)
	in.DateOfPayment = get(payment.FieldDateOfPayment)
	in.Remarks = get(payment.FieldRemarks)
	b.Payments[studentID] = append(append([]payment.Installment(nil), b.Payments[studentID]...), in)
	return in, b.Message, nil
}

func (b *Backend) EditPayments(_ context.Context, studentID string, payload *core.Payload) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Call{Method: "EditPayments", ID: studentID, Payload: payload})
	if b.Err != nil {
		return "", b.Err
	}
	return b.Message, nil
}

func (b *Backend) DeletePayments(_ context.Context, studentID string, ids []int64) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b.record(Call{Method: "DeletePayments", ID: studentID, DeleteIDs: sorted})
	if b.Err != nil {
		return "", b.Err
	}
	gone := make(map[int64]bool, len(ids))
	for _, id := range ids {
		gone[id] = true
	}
	var kept []payment.Installment
	for _, in := range b.Payments[studentID] {
		if !gone[in.ID] {
			kept = append(kept, in)
		}
	}
	b.Payments[studentID] = kept
	return b.Message, nil
}

func notFound(id string) error {
	return &backend.Error{StatusCode: http.StatusNotFound, Message: "Not found: " + id}
}

// Notifications collects notifications for assertions.
type Notifications struct {
	mu   sync.Mutex
	list []core.Notification
}

func (n *Notifications) Notify(_ context.Context, notif core.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.list = append(n.list, notif)
}

func (n *Notifications) All() []core.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]core.Notification(nil), n.list...)
}

// Logger is a core.Logger that keeps messages in memory.
type Logger struct {
	mu       sync.Mutex
	Messages []string
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Messages = append(l.Messages, level+": "+msg)
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.add("debug", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.add("info", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.add("warn", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.add("error", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { l.add("fatal", msg) }

// File builds an upload of size bytes.
func File(t *testing.T, name, contentType string, size int) *core.File {
	t.Helper()
	return core.NewFile(name, contentType, make([]byte, size))
}
