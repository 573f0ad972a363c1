package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// sendMail delivers a single HTML email through the configured SMTP relay.
// Email is best effort everywhere it is used; callers log and move on.
func sendMail(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, os.Getenv("SMTP_USERNAME"), os.Getenv("SMTP_PASSWORD"))
	return d.DialAndSend(m)
}

// SendOTP sends a signup verification OTP via email
func SendOTP(to, otp string) error {
	body := fmt.Sprintf(`
		<h2>Verify your DigiKart account</h2>
		<p>Your verification code is: <strong>%s</strong></p>
		<p>This code expires in 10 minutes.</p>`, otp)
	return sendMail(to, "DigiKart verification code", body)
}

// SendPayoutCompletedEmail notifies a referrer that their payout was paid out
func SendPayoutCompletedEmail(to string, amountCents int64, method string) error {
	body := fmt.Sprintf(`
		<h2>Your payout is on its way</h2>
		<p>Your referral payout of <strong>%.2f</strong> has been completed via %s.</p>
		<p>Thanks for sharing DigiKart!</p>`, float64(amountCents)/100, method)
	return sendMail(to, "DigiKart payout completed", body)
}
