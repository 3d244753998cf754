// utils/mailer.go
package utils

import (
	"fmt"
	"os"

	"gopkg.in/gomail.v2"
)

func smtpDialer() (*gomail.Dialer, string) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	smtpPort := 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}

	from := os.Getenv("FROM_EMAIL")
	if from == "" {
		from = smtpUser
	}

	return gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass), from
}

func sendMail(to, subject, body string) error {
	d, from := smtpDialer()

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return d.DialAndSend(m)
}

// SendWelcomeMail delivers the member id and initial password after a
// membership is provisioned
func SendWelcomeMail(email, companyName, memberID, password string) error {
	subject := "Welcome - Your Membership is Active"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour membership has been activated.\n\nMember ID: %s\nPassword: %s\n\nPlease log in to the member panel and keep these credentials safe.\n\nBest regards,\nThe Association",
		companyName, memberID, password)
	return sendMail(email, subject, body)
}

// SendOTPMail delivers the password reset code. The code expires in 10
// minutes.
func SendOTPMail(email, companyName, otp string) error {
	subject := "Password Reset Code"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour password reset code is: %s\n\nThis code is valid for 10 minutes. If you did not request a reset, you can ignore this mail.\n\nBest regards,\nThe Association",
		companyName, otp)
	return sendMail(email, subject, body)
}

// SendPasswordResetSuccessMail confirms a completed password reset
func SendPasswordResetSuccessMail(email, companyName string) error {
	subject := "Password Changed"
	body := fmt.Sprintf(
		"Dear %s,\n\nYour member panel password has been changed. If this was not you, contact the association office immediately.\n\nBest regards,\nThe Association",
		companyName)
	return sendMail(email, subject, body)
}
