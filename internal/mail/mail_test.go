package mail

import (
	"strings"
	"testing"
)

func TestVerificationMessage(t *testing.T) {
	msg := VerificationMessage("reader@example.com", "Jane", "Doe", "http://localhost:8000/api/v1/auth/verify-email?token=abc")

	if len(msg.To) != 1 || msg.To[0] != "reader@example.com" {
		t.Errorf("To = %v, want [reader@example.com]", msg.To)
	}
	if !strings.Contains(msg.Subject, "Verify") {
		t.Errorf("Subject = %q, want verification subject", msg.Subject)
	}
	if !strings.Contains(msg.Body, "Jane Doe") {
		t.Error("body missing recipient name")
	}
	if !strings.Contains(msg.Body, "verify-email?token=abc") {
		t.Error("body missing verification link")
	}
}

func TestVerificationMessageEscapesName(t *testing.T) {
	msg := VerificationMessage("x@example.com", "<script>", "Doe", "http://example.com")
	if strings.Contains(msg.Body, "<script>") {
		t.Error("body contains unescaped HTML from user input")
	}
}

func TestPasswordResetMessage(t *testing.T) {
	msg := PasswordResetMessage("reader@example.com", "Jane", "http://localhost:8000/api/v1/auth/reset-password?token=xyz")

	if !strings.Contains(msg.Subject, "Password Reset") {
		t.Errorf("Subject = %q, want reset subject", msg.Subject)
	}
	if !strings.Contains(msg.Body, "reset-password?token=xyz") {
		t.Error("body missing reset link")
	}
}

func TestSenderRequiresConfig(t *testing.T) {
	s := NewSender("", 587, "", "", "", "Bookly")
	err := s.Send(Message{To: []string{"x@example.com"}, Subject: "s", Body: "b"})
	if err == nil {
		t.Fatal("Send with unconfigured SMTP succeeded, want error")
	}
}
