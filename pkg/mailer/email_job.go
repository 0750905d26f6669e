package mailer

// Job kinds understood by the email worker.
const (
	KindVerifyEmail   = "verify_email"
	KindResetPassword = "reset_password"
	KindReceipt       = "transaction_receipt"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Kind selects a template; Data feeds it. Subject/Text/HTML set explicitly
// override the template output.
type EmailJob struct {
	To      string            `json:"to"`
	Kind    string            `json:"kind,omitempty"`
	Subject string            `json:"subject,omitempty"`
	Text    string            `json:"text,omitempty"`
	HTML    string            `json:"html,omitempty"`
	Data    map[string]string `json:"data,omitempty"`
}
