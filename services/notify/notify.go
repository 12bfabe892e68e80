package notifysvc

import (
	"context"
	"fmt"
	"strings"

	"github.com/collegedesk/console/core"
	"github.com/collegedesk/console/core/audit"
)

// Multi fans a notification out to every notifier in order.
type Multi []core.Notifier

func (m Multi) Notify(ctx context.Context, n core.Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// NewLogNotifier logs every notification at info level.
func NewLogNotifier(logger core.Logger) core.Notifier {
	return core.NotifierFunc(func(_ context.Context, n core.Notification) {
		logger.Info(fmt.Sprintf("%s %s: %s", n.Action, n.RecordID, n.Message), n.Viewer, map[string]interface{}{
			"fields": n.Fields,
		})
	})
}

// NewJournalNotifier records every notification in the audit journal.
// Journal failures are logged and never reach the caller.
func NewJournalNotifier(svc *audit.Service, logger core.Logger) core.Notifier {
	return core.NotifierFunc(func(ctx context.Context, n core.Notification) {
		if _, err := svc.Record(ctx, n); err != nil {
			logger.Error("failed to journal notification", err, n.Viewer)
		}
	})
}

// NewMailNotifier e-mails every notification to the watchers.
func NewMailNotifier(mailer core.EmailService, recipients []string) core.Notifier {
	to := core.ParseAddresses(recipients...)
	return core.NotifierFunc(func(_ context.Context, n core.Notification) {
		if len(to) == 0 {
			return
		}
		mailer.SendMessages(&core.EmailMessage{
			To:          to,
			Subject:     subject(n),
			TextContent: body(n),
			Categories:  []string{"console", n.Action},
		})
	})
}

func subject(n core.Notification) string {
	if n.RecordID == "" {
		return n.Action
	}
	return n.Action + " #" + n.RecordID
}

func body(n core.Notification) string {
	b := new(strings.Builder)
	_, _ = fmt.Fprintf(b, "%s\n\n", n.Message)
	who := n.Viewer.Name
	if who == "" {
		who = n.Viewer.ID
	}
	_, _ = fmt.Fprintf(b, "By: %s (%s)\n", who, n.Viewer.Role())
	_, _ = fmt.Fprintf(b, "At: %s\n", n.At.Format("2006-01-02 15:04:05 MST"))
	if len(n.Fields) > 0 {
		_, _ = fmt.Fprintf(b, "Fields: %s\n", strings.Join(n.Fields, ", "))
	}
	return b.String()
}
