package emailsvc

import (
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/collegedesk/console/core"
)

var (
	host     = "https://api.sendgrid.com"
	endpoint = "/v3/mail/send"

	// one retry on throttling or provider errors
	retryDelay = 2 * time.Second
	sendFunc   = sendgrid.API // mockable
)

type sendgridService struct {
	key        string
	host       string
	from       *sgmail.Email
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*sendgridService)(nil)

// NewSendgridService sends notification mails through the sendgrid v3 API.
func NewSendgridService(conf *core.Config, logger core.Logger) core.EmailService {
	return &sendgridService{
		key:        conf.Notify.SendgridKey,
		host:       host,
		from:       sgmail.NewEmail(conf.AppName, conf.Notify.FromEmail),
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc sendgridService) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		if !msg.HasRecipients() || !msg.HasContent() {
			continue
		}
		go svc.send(*msg)
	}
}

func (svc sendgridService) prepare(msg core.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = svc.subjPrefix + msg.Subject
	for _, to := range msg.To {
		p.AddTos(sgEmail(to))
	}
	for _, cc := range msg.Cc {
		p.AddCCs(sgEmail(cc))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(svc.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.TextContent))
	if msg.HTMLContent != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTMLContent))
	}
	if len(msg.Categories) > 0 {
		m.AddCategories(msg.Categories...)
	}
	return m
}

func sgEmail(addr mail.Address) *sgmail.Email {
	return sgmail.NewEmail(addr.Name, addr.Address)
}

func retryable(res *rest.Response, err error) bool {
	if err != nil {
		return true
	}
	return res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= http.StatusInternalServerError
}

func (svc sendgridService) send(msg core.EmailMessage) {
	body := sgmail.GetRequestBody(svc.prepare(msg))
	request := func() (*rest.Response, error) {
		req := sendgrid.GetRequest(svc.key, endpoint, svc.host)
		req.Method = http.MethodPost
		req.Body = body
		return sendFunc(req)
	}

	res, err := request()
	if retryable(res, err) {
		time.Sleep(retryDelay)
		res, err = request()
	}

	switch {
	case err != nil:
		svc.logger.Error(fmt.Sprintf("sending notification mail %q: %v", msg.Subject, err), err)
	case res.StatusCode >= http.StatusBadRequest:
		svc.logger.Error(fmt.Sprintf("sending notification mail %q - status: %d - body: %s", msg.Subject, res.StatusCode, res.Body))
	}
}
