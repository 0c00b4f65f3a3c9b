package mailer

import (
	"fmt"
	"time"
)

const bodyTimeFormat = "Monday, 2 January 2006 at 15:04"

// ConfirmationEmail builds the subject and HTML body sent right after a
// booking is accepted.
func ConfirmationEmail(clientName, staffName string, start, end time.Time) (subject, body string) {
	subject = "Your appointment is booked"

	body = fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment has been booked.</p>
		<ul>
			<li><strong>With:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
			<li><strong>End:</strong> %s</li>
		</ul>
		<p>If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Salon Team</p>
	`, clientName, staffName, start.Format(bodyTimeFormat), end.Format(bodyTimeFormat))

	return subject, body
}

// CancellationEmail builds the subject and HTML body sent after an
// appointment is cancelled.
func CancellationEmail(clientName string, start time.Time) (subject, body string) {
	subject = "Your appointment has been cancelled"

	body = fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your appointment scheduled for %s has been cancelled.</p>
		<p>You are welcome to book a new time slot whenever it suits you.</p>
		<p>Best regards,</p>
		<p>The Salon Team</p>
	`, clientName, start.Format(bodyTimeFormat))

	return subject, body
}

// ReminderEmail builds the subject and HTML body for the day-before reminder.
func ReminderEmail(clientName, staffName string, start time.Time) (subject, body string) {
	subject = "Reminder: your appointment is coming up"

	body = fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your upcoming appointment.</p>
		<ul>
			<li><strong>With:</strong> %s</li>
			<li><strong>Start:</strong> %s</li>
		</ul>
		<p>Please arrive on time. If you need to reschedule or cancel, contact us as soon as possible.</p>
		<p>Best regards,</p>
		<p>The Salon Team</p>
	`, clientName, staffName, start.Format(bodyTimeFormat))

	return subject, body
}
