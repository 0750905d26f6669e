package mailer

import (
	"strings"
	"testing"
)

func TestRenderVerifyEmail(t *testing.T) {
	job := &EmailJob{
		To:   "x@example.com",
		Kind: KindVerifyEmail,
		Data: map[string]string{"Name": "Alice", "Link": "https://app/verify?token=abc"},
	}
	Render(job)
	if job.Subject == "" {
		t.Fatal("no subject rendered")
	}
	if !strings.Contains(job.Text, "Alice") || !strings.Contains(job.Text, "https://app/verify?token=abc") {
		t.Fatalf("body missing fields: %q", job.Text)
	}
}

func TestRenderKeepsExplicitContent(t *testing.T) {
	job := &EmailJob{
		To:      "x@example.com",
		Kind:    KindVerifyEmail,
		Subject: "custom subject",
		Text:    "custom body",
	}
	Render(job)
	if job.Subject != "custom subject" || job.Text != "custom body" {
		t.Fatalf("explicit content was overwritten: %q / %q", job.Subject, job.Text)
	}
}

func TestRenderUnknownKindGetsFallbackSubject(t *testing.T) {
	job := &EmailJob{To: "x@example.com", Kind: "mystery"}
	Render(job)
	if job.Subject == "" {
		t.Fatal("fallback subject missing")
	}
}
