package core

import (
	"net/mail"
	"strings"
)

type (
	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Subject     string
		TextContent string
		HTMLContent string
		// Categories tag the message for the mail provider's statistics.
		Categories []string
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseAddresses parses plain e-mail addresses, skipping the malformed ones.
func ParseAddresses(addrs ...string) []mail.Address {
	out := make([]mail.Address, 0, len(addrs))
	for _, a := range addrs {
		parsed, err := mail.ParseAddress(strings.TrimSpace(a))
		if err != nil {
			continue
		}
		out = append(out, *parsed)
	}
	return out
}
