package mail

import (
	"fmt"
	"html"
)

// Message is an HTML email queued for delivery.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// VerificationMessage builds the signup email carrying the account
// verification link.
func VerificationMessage(to, firstName, lastName, link string) Message {
	body := fmt.Sprintf(`<html>
<body>
<h2>Welcome to Bookly, %s %s!</h2>
<p>Thank you for signing up. Please verify your email address by clicking the link below:</p>
<a href="%s">Verify Email</a>
<p>If you did not sign up for this account, please ignore this email.</p>
<br>
<p>Best regards,<br>The Bookly Team</p>
</body>
</html>`, html.EscapeString(firstName), html.EscapeString(lastName), link)

	return Message{
		To:      []string{to},
		Subject: "Welcome to Bookly - Verify Your Email",
		Body:    body,
	}
}

// PasswordResetMessage builds the email carrying a password reset link.
func PasswordResetMessage(to, firstName, link string) Message {
	body := fmt.Sprintf(`<html>
<body>
<h2>Password Reset Request</h2>
<p>Hi %s,</p>
<p>We received a request to reset your password. Click the link below to reset your password:</p>
<a href="%s">Reset Password</a>
<p>If you did not request a password reset, please ignore this email.</p>
<br>
<p>Best regards,<br>The Bookly Team</p>
</body>
</html>`, html.EscapeString(firstName), link)

	return Message{
		To:      []string{to},
		Subject: "Bookly - Password Reset Request",
		Body:    body,
	}
}
