// Package render turns a resolved invoice into a printable receipt.
package render

import (
	"github.com/smallbiznis/hotelbill/internal/config"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	orgdomain "github.com/smallbiznis/hotelbill/internal/organization/domain"
)

const (
	FormatHTML = "html"
	FormatPDF  = "pdf"
)

type ReceiptInput struct {
	Details      invoicedomain.InvoiceDetails
	Organization orgdomain.Profile
	Receipt      config.ReceiptConfig
}

type Renderer interface {
	ContentType() string
	Render(input ReceiptInput) ([]byte, error)
}
