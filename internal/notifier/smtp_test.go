package notifier

import (
	"testing"

	"github.com/wneessen/go-mail"
)

func TestSMTPConfig_Configured(t *testing.T) {
	cases := []struct {
		name string
		cfg  SMTPConfig
		want bool
	}{
		{"empty", SMTPConfig{}, false},
		{"host only", SMTPConfig{Host: "smtp.example.com"}, false},
		{"from only", SMTPConfig{From: "a@b.co"}, false},
		{"host and from", SMTPConfig{Host: "smtp.example.com", From: "a@b.co"}, true},
	}
	for _, tc := range cases {
		if got := tc.cfg.Configured(); got != tc.want {
			t.Fatalf("%s: Configured() = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestTLSPolicyFromEncryption(t *testing.T) {
	cases := map[string]mail.TLSPolicy{
		"ssl_tls":  mail.TLSMandatory,
		"starttls": mail.TLSOpportunistic,
		"none":     mail.NoTLS,
		"":         mail.NoTLS,
		"bogus":    mail.NoTLS,
	}
	for in, want := range cases {
		if got := tlsPolicyFromEncryption(in); got != want {
			t.Fatalf("tlsPolicyFromEncryption(%q) = %v, want %v", in, got, want)
		}
	}
}
