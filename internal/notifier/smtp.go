package notifier

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// SMTPConfig holds connection parameters for the SMTP notifier.
type SMTPConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	Encryption string // "none", "starttls", "ssl_tls"

	// StoreURL is the storefront host used to build buy-now links;
	// StoreName appears in the email footer.
	StoreURL  string
	StoreName string
}

// Configured reports whether enough is set to attempt SMTP delivery.
func (c SMTPConfig) Configured() bool { return c.Host != "" && c.From != "" }

// SMTPNotifier delivers restock notifications via SMTP using go-mail.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier creates an SMTPNotifier with the given configuration.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send implements Notifier. Each call dials a fresh SMTP session; delivery
// volume here is one email per restocked interest, not bulk traffic.
func (n *SMTPNotifier) Send(ctx context.Context, req domain.StockRequest, ev domain.InventoryEvent) error {
	email, err := RenderEmail(req, n.cfg.StoreURL, n.cfg.StoreName)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(req.Email); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", req.Email, err)
	}

	m.Subject(email.Subject)
	m.SetBodyString(mail.TypeTextPlain, email.Text)
	m.AddAlternativeString(mail.TypeTextHTML, email.HTML)

	opts := []mail.Option{
		mail.WithPort(n.cfg.Port),
		mail.WithTLSPolicy(tlsPolicyFromEncryption(n.cfg.Encryption)),
	}
	if n.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(n.cfg.Username),
			mail.WithPassword(n.cfg.Password),
		)
	}

	c, err := mail.NewClient(n.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create mail client: %w", err)
	}

	return c.DialAndSendWithContext(ctx, m)
}

// tlsPolicyFromEncryption converts the encryption setting to a go-mail
// TLSPolicy.
func tlsPolicyFromEncryption(enc string) mail.TLSPolicy {
	switch enc {
	case "ssl_tls":
		return mail.TLSMandatory
	case "starttls":
		return mail.TLSOpportunistic
	default:
		return mail.NoTLS
	}
}
