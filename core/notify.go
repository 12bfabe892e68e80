package core

import (
	"context"
	"time"
)

// Actions reported by the editors on a successful mutation.
const (
	ActionCollegeCreate = "college.create"
	ActionCollegeUpdate = "college.update"
	ActionStudentUpdate = "student.update"
	ActionPaymentCreate = "payment.create"
	ActionPaymentEdit   = "payment.edit"
	ActionPaymentDelete = "payment.delete"
)

// Notification is the transient success message shown after a mutation.
type Notification struct {
	Action   string
	RecordID string
	Message  string
	Fields   []string
	Viewer   Viewer
	At       time.Time
}

// Notifier is anything that can surface a success Notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NotifierFunc adapts a plain func to Notifier.
type NotifierFunc func(ctx context.Context, n Notification)

func (f NotifierFunc) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// NopNotifier drops every notification.
var NopNotifier Notifier = NotifierFunc(func(context.Context, Notification) {})
