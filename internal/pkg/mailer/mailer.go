package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// SMTP sends plain-text mail through a single SMTP server. Delivery is
// best-effort: Send reports success as a bool and never panics the caller.
type SMTP struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func New(host, port, username, password, from string) *SMTP {
	return &SMTP{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers one message. Returns false when the mailer is not configured
// or the server rejects the message; the failure is logged either way.
func (m *SMTP) Send(to, subject, body string) bool {
	if m.host == "" || m.from == "" {
		log.Println("mailer: not configured, skipping email to", to)
		return false
	}

	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
		log.Printf("mailer: failed to send email to %s: %v", to, err)
		return false
	}

	log.Printf("mailer: email sent to %s", to)
	return true
}
