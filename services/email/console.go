package emailsvc

import (
	"fmt"
	"log"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/collegedesk/console/core"
)

type consoleService struct {
	std        *log.Logger
	from       mail.Address
	subjPrefix string
	blocking   bool

	mu   sync.Mutex
	sent []core.EmailMessage
}

var _ core.EmailService = (*consoleService)(nil)

// NewConsoleService prints messages instead of sending them.
func NewConsoleService(std *log.Logger, conf *core.Config) *consoleService {
	return &consoleService{
		std:        std,
		from:       mail.Address{Name: conf.AppName, Address: conf.Notify.FromEmail},
		subjPrefix: "[" + conf.AppName + "] ",
	}
}

// NewConsoleServiceMock records messages synchronously without printing them.
func NewConsoleServiceMock(conf *core.Config) *consoleService {
	svc := NewConsoleService(nil, conf)
	svc.blocking = true
	return svc
}

func (svc *consoleService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if svc.blocking {
			svc.sendMessage(msg)
			continue
		}
		go svc.sendMessage(msg)
	}
}

// SentMessages returns what was sent so far.
func (svc *consoleService) SentMessages() []core.EmailMessage {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]core.EmailMessage(nil), svc.sent...)
}

func (svc *consoleService) sendMessage(msg *core.EmailMessage) {
	if !msg.HasRecipients() || !msg.HasContent() {
		return
	}
	if svc.std != nil {
		svc.std.Println(svc.render(*msg))
	}
	svc.mu.Lock()
	svc.sent = append(svc.sent, *msg)
	svc.mu.Unlock()
}

func (svc *consoleService) render(msg core.EmailMessage) string {
	body := new(strings.Builder)
	_, _ = fmt.Fprintf(body, "From: %s\r\n", svc.from.String())
	_, _ = fmt.Fprintf(body, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	_, _ = fmt.Fprintf(body, "Subject: %s\r\n", svc.subjPrefix+msg.Subject)
	_, _ = fmt.Fprintf(body, "To: %s\r\n", joinAddresses(msg.To))
	if len(msg.Cc) > 0 {
		_, _ = fmt.Fprintf(body, "CC: %s\r\n", joinAddresses(msg.Cc))
	}
	if len(msg.Categories) > 0 {
		_, _ = fmt.Fprintf(body, "X-Categories: %s\r\n", strings.Join(msg.Categories, ", "))
	}
	_, _ = fmt.Fprint(body, "\r\n")
	_, _ = fmt.Fprintf(body, "%s\r\n", msg.TextContent)
	return body.String()
}

func joinAddresses(addrs []mail.Address) string {
	toJoin := make([]string, 0, len(addrs))
	for _, a := range addrs {
		toJoin = append(toJoin, a.String())
	}
	return strings.Join(toJoin, ", ")
}
