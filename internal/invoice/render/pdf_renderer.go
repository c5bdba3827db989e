package render

import (
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) ContentType() string {
	return "application/pdf"
}

// Render lays the receipt out on an A4 page. Amounts use the currency code
// because the built-in PDF fonts cannot draw the rupee sign.
func (r *PDFRenderer) Render(input ReceiptInput) ([]byte, error) {
	details := input.Details
	inv := details.Invoice
	currency := normalizeCurrency(input.Receipt.Currency)

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	orgName := strings.TrimSpace(input.Organization.Name)
	if orgName == "" {
		orgName = "Receipt"
	}
	m.AddRow(12,
		text.NewCol(12, orgName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
	)

	orgLines := make([]string, 0, 4)
	for _, v := range []string{
		input.Organization.Address,
		input.Organization.Phone,
		input.Organization.Email,
	} {
		if strings.TrimSpace(v) != "" {
			orgLines = append(orgLines, v)
		}
	}
	if input.Organization.GST != "" {
		orgLines = append(orgLines, "GSTIN: "+input.Organization.GST)
	}
	for _, l := range orgLines {
		m.AddRow(5, text.NewCol(12, l, props.Text{Size: 9, Align: align.Center}))
	}
	m.AddRows(line.NewRow(6))

	meta := [][2]string{
		{"Bill No", inv.InvoiceNumber},
		{"Date", formatDateTime(inv.CreatedAt)},
		{"Order", orderTypeLabel(inv.OrderType)},
	}
	if table := deref(inv.TableNumber); table != "" {
		meta = append(meta, [2]string{"Table", table})
	}
	if details.EmployeeName != "" {
		meta = append(meta, [2]string{"Served by", details.EmployeeName})
	}
	meta = append(meta, [2]string{"Status", string(inv.Status)})
	for _, kv := range meta {
		m.AddRow(5,
			text.NewCol(4, kv[0], props.Text{Size: 9, Style: fontstyle.Bold}),
			text.NewCol(8, kv[1], props.Text{Size: 9, Align: align.Right}),
		)
	}
	m.AddRows(line.NewRow(6))

	header := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(7,
		text.NewCol(5, "Item", props.Text{Size: 9, Style: fontstyle.Bold}),
		text.NewCol(1, "Qty", header),
		text.NewCol(1, "GST", header),
		text.NewCol(2, "Rate", header),
		text.NewCol(3, "Amount", header),
	)

	cell := props.Text{Size: 9, Align: align.Right}
	for _, item := range details.Items {
		description := item.Description
		if !item.DiscountAmount.IsZero() {
			description += " (less " + FormatMoneyCode(item.DiscountAmount, currency) + ")"
		}
		m.AddRow(6,
			text.NewCol(5, description, props.Text{Size: 9}),
			text.NewCol(1, formatQuantity(item.Quantity), cell),
			text.NewCol(1, formatPercent(item.TaxRate), cell),
			text.NewCol(2, FormatMoneyCode(item.UnitPrice, currency), cell),
			text.NewCol(3, FormatMoneyCode(item.LineTotalExclTax, currency), cell),
		)
	}
	m.AddRows(line.NewRow(6))

	totals := [][2]string{
		{"Subtotal", FormatMoneyCode(details.Totals.Subtotal, currency)},
		{"GST", FormatMoneyCode(details.Totals.Tax, currency)},
	}
	for _, kv := range totals {
		m.AddRow(6,
			col.New(7),
			text.NewCol(2, kv[0], props.Text{Size: 9}),
			text.NewCol(3, kv[1], cell),
		)
	}
	m.AddRow(8,
		col.New(7),
		text.NewCol(2, "Total", props.Text{Size: 11, Style: fontstyle.Bold}),
		text.NewCol(3, FormatMoneyCode(details.Totals.Total, currency), props.Text{Size: 11, Style: fontstyle.Bold, Align: align.Right}),
	)

	if notes := deref(inv.Notes); notes != "" {
		m.AddRow(8, text.NewCol(12, "Note: "+notes, props.Text{Size: 9, Top: 3}))
	}
	if footer := strings.TrimSpace(input.Receipt.FooterNotes); footer != "" {
		m.AddRow(10, text.NewCol(12, footer, props.Text{Size: 9, Top: 4, Align: align.Center, Style: fontstyle.Italic}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
