package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/collegedesk/console/core"
)

// RollbarLogger prints to a std logger and reports to Rollbar when enabled.
//
// Arguments after the message may be: an error, a map[string]interface{} of extras,
// a core.Viewer (reported as the rollbar person) or a core.Notification (its
// action, record and fields become extras and its viewer the person).
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	rollbar.SetCustom(map[string]interface{}{"app": conf.AppName, "backend": conf.Backend.BaseURL})
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// Flush waits for queued reports, call it before exiting.
func (l RollbarLogger) Flush() {
	rollbar.Wait()
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	var person *core.Viewer
	extras := make(map[string]interface{})
	out := make([]interface{}, 0, len(args)+2)
	out = append(out, msg)

	for _, arg := range args {
		switch a := arg.(type) {
		case core.Viewer:
			if person == nil && a.ID != "" {
				v := a
				person = &v
			}
		case core.Notification:
			extras["action"] = a.Action
			extras["record_id"] = a.RecordID
			extras["fields"] = a.Fields
			if person == nil && a.Viewer.ID != "" {
				v := a.Viewer
				person = &v
			}
		case map[string]interface{}:
			for k, v := range a {
				extras[k] = v
			}
		default:
			out = append(out, arg)
		}
	}

	if person != nil {
		extras["role"] = string(person.Role())
		rollbar.SetPerson(person.ID, person.Name, "")
	} else {
		rollbar.ClearPerson()
	}
	if len(extras) > 0 {
		out = append(out, extras)
	}
	return out
}

func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		l.std.Printf("%+v\n", arg)
	}
}

func (l RollbarLogger) log(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.log(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.log(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.log(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.log(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log(rollbar.CRIT, msg, args)
	rollbar.Wait()
	l.std.Fatal(msg)
}
