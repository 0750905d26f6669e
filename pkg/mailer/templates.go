package mailer

import "fmt"

// Render fills in subject and text body for a job kind. Jobs that already
// carry an explicit subject/body pass through untouched.
func Render(job *EmailJob) {
	if job.Subject != "" && job.Text != "" {
		return
	}
	name := job.Data["Name"]
	if name == "" {
		name = "there"
	}
	switch job.Kind {
	case KindVerifyEmail:
		job.Subject = "Verify your Key2Key email address"
		job.Text = fmt.Sprintf(
			"Hi %s,\n\nPlease confirm your email address by opening the link below:\n\n%s\n\nThe link expires in 24 hours. If you did not create a Key2Key account, you can ignore this message.\n",
			name, job.Data["Link"])
	case KindResetPassword:
		job.Subject = "Reset your Key2Key password"
		job.Text = fmt.Sprintf(
			"Hi %s,\n\nA password reset was requested for your account. Open the link below to choose a new password:\n\n%s\n\nThe link expires in 30 minutes. If you did not request a reset, no action is needed.\n",
			name, job.Data["Link"])
	case KindReceipt:
		job.Subject = "Your Key2Key transaction receipt"
		job.Text = fmt.Sprintf(
			"Hi %s,\n\nWe recorded your transaction %s for %s %s via %s. Current status: %s.\n\nThank you for using Key2Key.\n",
			name, job.Data["TransactionID"], job.Data["Amount"], job.Data["Currency"], job.Data["Gateway"], job.Data["Status"])
	default:
		if job.Subject == "" {
			job.Subject = "Key2Key notification"
		}
	}
}
