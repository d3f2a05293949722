package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/go-restock-backend/internal/domain"
)

// fallbackGreeting is used when a request carries no customer name and no
// usable email local part.
const fallbackGreeting = "Valued Customer"

// emailTmpl is the HTML body of the restock notification. All interpolated
// values are auto-escaped by html/template.
var emailTmpl = template.Must(template.New("restock").Parse(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;">
  <h2 style="color:#28a745;">Great news!</h2>
  <p>Hello <strong>{{.Greeting}}</strong>,</p>
  <p>The product you asked about is back in stock:</p>

  <div style="border:2px solid #28a745;padding:20px;margin:20px 0;background:#f8fff9;border-radius:8px;">
    <h3 style="color:#155724;margin:0 0 10px 0;">{{.ProductTitle}}</h3>
    <p style="margin:5px 0;"><strong>Option:</strong> {{.OptionLabel}}</p>
    <p style="margin:5px 0;"><strong>Status:</strong> <span style="color:#28a745;">In stock now</span></p>
  </div>

  <div style="text-align:center;margin:30px 0;">
    <a href="{{.BuyURL}}"
       style="background:#007bff;color:#ffffff;padding:15px 30px;text-decoration:none;border-radius:5px;display:inline-block;font-weight:bold;">
      Buy now
    </a>
  </div>

  <div style="background:#fff3cd;border:1px solid #ffeaa7;padding:15px;border-radius:5px;margin:20px 0;">
    <p style="margin:0;color:#856404;"><strong>Stock is limited.</strong> Don't miss out.</p>
  </div>

  <hr style="margin:30px 0;border:none;border-top:1px solid #eee;">
  <p style="color:#666;font-size:12px;text-align:center;">
    You received this email because you asked to be notified when this item restocks.<br>
    {{.StoreName}}
  </p>
</div>`))

// Email is a rendered notification ready for transport.
type Email struct {
	Subject string
	HTML    string
	Text    string
}

// RenderEmail builds the restock notification for a single request.
// storeURL is the storefront host (no scheme); storeName appears in the
// footer. Display metadata from the request is forwarded verbatim, with
// fallbacks for the optional fields.
func RenderEmail(req domain.StockRequest, storeURL, storeName string) (Email, error) {
	if storeName == "" {
		storeName = "Our Store"
	}

	option := req.OptionLabel
	if option == "" {
		option = "Standard"
	}

	buyURL := fmt.Sprintf("https://%s/products/%s?variant=%s",
		storeURL, url.PathEscape(req.ProductID), url.QueryEscape(req.VariantID))

	data := struct {
		Greeting     string
		ProductTitle string
		OptionLabel  string
		BuyURL       string
		StoreName    string
	}{
		Greeting:     greeting(req),
		ProductTitle: req.ProductTitle,
		OptionLabel:  option,
		BuyURL:       buyURL,
		StoreName:    storeName,
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, data); err != nil {
		return Email{}, err
	}

	text := fmt.Sprintf(
		"Hello %s,\n\n%s is back in stock (option: %s).\n\nBuy now: %s\n\n%s\n",
		data.Greeting, req.ProductTitle, option, buyURL, storeName,
	)

	return Email{
		Subject: fmt.Sprintf("%s is back in stock!", req.ProductTitle),
		HTML:    buf.String(),
		Text:    text,
	}, nil
}

// greeting picks the display name for the salutation: the customer name when
// given, otherwise a readable name derived from the email local part
// ("jane.doe@x.com" -> "Jane Doe"), otherwise a generic fallback.
func greeting(req domain.StockRequest) string {
	if name := strings.TrimSpace(req.CustomerName); name != "" {
		return name
	}

	local, _, found := strings.Cut(req.Email, "@")
	if !found || local == "" {
		return fallbackGreeting
	}

	words := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(words) == 0 {
		return fallbackGreeting
	}

	return cases.Title(language.English).String(strings.Join(words, " "))
}
