package mail

import (
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// Sender delivers messages over SMTP with STARTTLS-capable plain auth.
type Sender struct {
	host     string
	port     int
	username string
	password string
	from     string
	fromName string
}

// NewSender configures an SMTP sender. from is the envelope and header
// sender address; fromName is the display name.
func NewSender(host string, port int, username, password, from, fromName string) *Sender {
	return &Sender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
		fromName: fromName,
	}
}

// Send delivers msg as an HTML email.
func (s *Sender) Send(msg Message) error {
	if s.host == "" || s.from == "" {
		return errors.New("smtp not configured")
	}
	if len(msg.To) == 0 {
		return errors.New("no recipients")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, msg.To, []byte(b.String()))
}
