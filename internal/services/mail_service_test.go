package services

import (
	"strings"
	"testing"
)

func TestInquiryNotificationMessage(t *testing.T) {
	svc, err := NewSMTPMailService(SMTPConfig{
		From:       "noreply@estatehub.test",
		FromName:   "EstateHub",
		AppName:    "EstateHub",
		AppBaseURL: "https://estatehub.test/",
	})
	if err != nil {
		t.Fatalf("NewSMTPMailService: %v", err)
	}

	var sentTo string
	var raw []byte
	svc.(*smtpMailService).sendFn = func(to string, msg []byte) error {
		sentTo, raw = to, msg
		return nil
	}

	err = svc.SendInquiryNotification("agent@example.com", InquiryMail{
		ListingID:    "abc",
		ListingTitle: "Lake view house",
		Name:         "Mutale",
		Email:        "mutale@example.com",
		Phone:        "+260 97 000 0000",
		Message:      "Can I view it <on Saturday>?",
	})
	if err != nil {
		t.Fatalf("SendInquiryNotification: %v", err)
	}

	msg := string(raw)
	if sentTo != "agent@example.com" {
		t.Fatalf("sent to %q", sentTo)
	}
	for _, want := range []string{
		"To: agent@example.com\r\n",
		"Content-Type: multipart/alternative",
		"https://estatehub.test/listings/abc",
		"Phone: +260 97 000 0000",
		"&lt;on Saturday&gt;",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestResetPasswordLinkEscapesParams(t *testing.T) {
	svc, _ := NewSMTPMailService(SMTPConfig{AppName: "EstateHub", AppBaseURL: "https://estatehub.test"})
	var raw []byte
	svc.(*smtpMailService).sendFn = func(_ string, msg []byte) error {
		raw = msg
		return nil
	}

	if err := svc.SendMailToResetPassword("a+b@example.com", "tok/en"); err != nil {
		t.Fatalf("SendMailToResetPassword: %v", err)
	}
	if !strings.Contains(string(raw), "reset-password?token=tok%2Fen&email=a%2Bb%40example.com") {
		t.Fatal("reset link not escaped")
	}
}

func TestNotifyResolvesRelativeLinks(t *testing.T) {
	svc, _ := NewSMTPMailService(SMTPConfig{AppName: "EstateHub", AppBaseURL: "https://estatehub.test/"})
	var raw []byte
	svc.(*smtpMailService).sendFn = func(_ string, msg []byte) error {
		raw = msg
		return nil
	}

	if err := svc.SendMailToNotifyUser("a@example.com", "Approved", "You can sign in.", "Sign in", "/admin/login"); err != nil {
		t.Fatalf("SendMailToNotifyUser: %v", err)
	}
	if !strings.Contains(string(raw), "https://estatehub.test/admin/login") {
		t.Fatal("relative link not resolved against base url")
	}

	if err := svc.SendMailToNotifyUser("a@example.com", "Suspended", "Contact us.", "", ""); err != nil {
		t.Fatalf("SendMailToNotifyUser: %v", err)
	}
	if strings.Contains(string(raw), "Open this link") {
		t.Fatal("message without a link rendered a call to action")
	}
}
