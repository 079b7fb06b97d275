package email

import (
	"fmt"
	"net/smtp"
	"os"

	"github.com/sirupsen/logrus"
)

// SendEmail sends a plain text email using the SMTP server configured via
// environment variables. Used for password reset links.
func SendEmail(to, subject, body string) error {
	from := os.Getenv("SMTP_SENDER")
	password := os.Getenv("SMTP_PASSWORD")
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")

	auth := smtp.PlainAuth("", from, password, smtpHost)

	msg := []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	address := smtpHost + ":" + smtpPort

	if err := smtp.SendMail(address, auth, from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}

	logrus.WithField("to", to).Info("Email sent")
	return nil
}
