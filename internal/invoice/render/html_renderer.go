package render

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"
)

const receiptHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Receipt {{.Details.Invoice.InvoiceNumber}}</title>
  <style>
    :root {
      --primary: {{.Receipt.PrimaryColor}};
      --font: "Courier New", Courier, monospace;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 24px;
      font-family: var(--font);
      color: #111827;
      background: #f3f4f6;
    }
    .receipt {
      background: #ffffff;
      max-width: 380px;
      margin: 0 auto;
      padding: 24px;
      border-top: 4px solid var(--primary);
    }
    .center { text-align: center; }
    .org-name { font-size: 18px; font-weight: 700; margin: 0 0 4px; }
    .muted { font-size: 12px; color: #4b5563; line-height: 1.5; }
    .divider { border-top: 1px dashed #9ca3af; margin: 12px 0; }
    .meta { display: flex; justify-content: space-between; font-size: 12px; padding: 2px 0; }
    table { width: 100%; border-collapse: collapse; font-size: 12px; }
    th { text-align: left; border-bottom: 1px dashed #9ca3af; padding: 4px 0; }
    td { padding: 4px 0; vertical-align: top; }
    .r { text-align: right; }
    .item-sub { color: #6b7280; font-size: 11px; }
    .total-row { display: flex; justify-content: space-between; font-size: 13px; padding: 2px 0; }
    .grand { font-weight: 700; font-size: 16px; color: var(--primary); }
    @media print {
      body { background: #ffffff; padding: 0; }
      .receipt { border-top: none; }
    }
  </style>
</head>
<body>
  <div class="receipt">
    <div class="center">
      <p class="org-name">{{.Organization.Name}}</p>
      <div class="muted">
        {{if .Organization.Address}}{{.Organization.Address}}<br>{{end}}
        {{if .Organization.Phone}}Ph: {{.Organization.Phone}}<br>{{end}}
        {{if .Organization.Email}}{{.Organization.Email}}<br>{{end}}
        {{if .Organization.GST}}GSTIN: {{.Organization.GST}}{{end}}
      </div>
    </div>

    <div class="divider"></div>

    <div class="meta"><span>Bill No</span><span>{{.Details.Invoice.InvoiceNumber}}</span></div>
    <div class="meta"><span>Date</span><span>{{formatDateTime .Details.Invoice.CreatedAt}}</span></div>
    <div class="meta"><span>Order</span><span>{{orderType .Details.Invoice.OrderType}}</span></div>
    {{with deref .Details.Invoice.TableNumber}}<div class="meta"><span>Table</span><span>{{.}}</span></div>{{end}}
    {{if .Details.EmployeeName}}<div class="meta"><span>Served by</span><span>{{.Details.EmployeeName}}</span></div>{{end}}
    <div class="meta"><span>Status</span><span>{{.Details.Invoice.Status}}</span></div>

    <div class="divider"></div>

    <table>
      <thead>
        <tr>
          <th>Item</th>
          <th class="r">Qty</th>
          <th class="r">Rate</th>
          <th class="r">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Details.Items}}
        <tr>
          <td>
            {{.Description}}
            <div class="item-sub">GST {{formatPercent .TaxRate}}{{if not .DiscountAmount.IsZero}} &middot; less {{money .DiscountAmount $.Receipt.Currency}}{{end}}</div>
          </td>
          <td class="r">{{formatQuantity .Quantity}}</td>
          <td class="r">{{money .UnitPrice $.Receipt.Currency}}</td>
          <td class="r">{{money .LineTotalExclTax $.Receipt.Currency}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="divider"></div>

    <div class="total-row"><span>Subtotal</span><span>{{money .Details.Totals.Subtotal .Receipt.Currency}}</span></div>
    <div class="total-row"><span>GST</span><span>{{money .Details.Totals.Tax .Receipt.Currency}}</span></div>
    <div class="total-row grand"><span>Total</span><span>{{money .Details.Totals.Total .Receipt.Currency}}</span></div>

    {{with deref .Details.Invoice.Notes}}
    <div class="divider"></div>
    <div class="muted">Note: {{.}}</div>
    {{end}}

    {{if .Receipt.FooterNotes}}
    <div class="divider"></div>
    <div class="center muted">{{.Receipt.FooterNotes}}</div>
    {{end}}
  </div>
</body>
</html>
`

var hexColorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type HTMLRenderer struct {
	tpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	funcs := template.FuncMap{
		"money":          FormatMoney,
		"formatDateTime": formatDateTime,
		"formatQuantity": formatQuantity,
		"formatPercent":  formatPercent,
		"orderType":      orderTypeLabel,
		"deref":          deref,
	}
	return &HTMLRenderer{
		tpl: template.Must(template.New("receipt").Funcs(funcs).Parse(receiptHTMLTemplate)),
	}
}

func (r *HTMLRenderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *HTMLRenderer) Render(input ReceiptInput) ([]byte, error) {
	input.Receipt.PrimaryColor = sanitizeColor(input.Receipt.PrimaryColor)
	input.Receipt.Currency = normalizeCurrency(input.Receipt.Currency)
	if strings.TrimSpace(input.Organization.Name) == "" {
		input.Organization.Name = "Receipt"
	}

	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sanitizeColor(value string) string {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return trimmed
	}
	return "#111827"
}
