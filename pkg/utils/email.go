package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

var (
	emailFrom     = os.Getenv("EMAIL_FROM")
	emailPassword = os.Getenv("EMAIL_PASSWORD")
	smtpHost      = os.Getenv("SMTP_HOST")
	smtpPort      = os.Getenv("SMTP_PORT")
	companyName   = "DegreeWheels"
	baseURL       = os.Getenv("BASE_URL")
)

// Common header template for all emails
const emailHeader = `
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; margin: 0; padding: 0;">
	<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
		<div style="text-align: center; margin-bottom: 30px; background-color: #f9f9f9; padding: 20px;">
			<h2 style="color: #4F46E5; margin: 0;">DegreeWheels</h2>
		</div>
`

// Common footer template for all emails
const emailFooter = `
		<div style="text-align: center; margin-top: 20px; font-size: 12px; color: #666; border-top: 1px solid #eee; padding-top: 20px;">
			<p>This is an automated message, please do not reply to this email.</p>
			<p>© 2026 DegreeWheels. All rights reserved.</p>
		</div>
	</div>
</body>
</html>
`

func sendEmail(to []string, subject, body string) error {
	if emailFrom == "" || emailPassword == "" || smtpHost == "" || smtpPort == "" {
		return fmt.Errorf("email configuration not set")
	}

	// Headers
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("%s <%s>", companyName, emailFrom)
	headers["To"] = strings.Join(to, ",")
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	// Build message
	message := ""
	for key, value := range headers {
		message += fmt.Sprintf("%s: %s\r\n", key, value)
	}
	message += "\r\n" + body

	// Authentication
	auth := smtp.PlainAuth("", emailFrom, emailPassword, smtpHost)

	// Send email
	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, emailFrom, to, []byte(message))
	if err != nil {
		log.Printf("Failed to send email: %v", err)
		return err
	}

	log.Printf("Successfully sent email to recipients: %v", to)
	return nil
}

// SendRideReminderEmail mails a passenger about an upcoming departure.
func SendRideReminderEmail(passengerEmail, destination string, departure time.Time) error {
	subject := "Ride Reminder - DegreeWheels"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Your Ride Is Coming Up</h1>
					<p>Hello,</p>
					<p>Your ride to <strong>%s</strong> departs at <strong>%s</strong>.</p>
					<p>Please be at the pickup point a few minutes early.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/dashboard/passenger" style="background-color: #4F46E5; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">View Your Booking</a>
					</div>
					<p>Safe travels,<br>The DegreeWheels Team</p>
				</div>`+emailFooter,
		destination, departure.Format("Monday, Jan 2 at 15:04"), baseURL)

	return sendEmail([]string{passengerEmail}, subject, body)
}

// SendRideCancelledEmail mails a passenger whose ride was called off.
func SendRideCancelledEmail(passengerEmail, destination string) error {
	subject := "Ride Cancelled - DegreeWheels"
	body := fmt.Sprintf(emailHeader+`
				<div style="background-color: #f9f9f9; padding: 20px; border-radius: 5px;">
					<h1 style="color: #2c3e50; text-align: center;">Ride Cancelled</h1>
					<p>Hello,</p>
					<p>Unfortunately, the driver cancelled the ride to <strong>%s</strong>.</p>
					<p>Don't worry! You can look for another available ride.</p>
					<div style="text-align: center; margin: 30px 0;">
						<a href="%s/rides" style="background-color: #4F46E5; color: white; padding: 12px 25px; text-decoration: none; border-radius: 5px;">Find Another Ride</a>
					</div>
					<p>Best regards,<br>The DegreeWheels Team</p>
				</div>`+emailFooter,
		destination, baseURL)

	return sendEmail([]string{passengerEmail}, subject, body)
}
