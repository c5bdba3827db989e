package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/hotelbill/internal/invoice/domain"
	"github.com/smallbiznis/hotelbill/internal/invoice/render"
	"go.uber.org/zap"
)

type quoteRequest struct {
	Items []invoicedomain.LineRequest `json:"items"`
}

type updateStatusRequest struct {
	Status invoicedomain.Status `json:"status"`
}

func (s *Server) ListInvoices(c *gin.Context) {
	req, err := parseListInvoiceRequest(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoices, err := s.invoiceSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func parseListInvoiceRequest(c *gin.Context) (invoicedomain.ListInvoiceRequest, error) {
	var req invoicedomain.ListInvoiceRequest

	date, err := parseOptionalDate(c.Query("date"))
	if err != nil {
		return req, newValidationError("date", "invalid_date", "date must be YYYY-MM-DD")
	}
	req.Date = date
	req.EmployeeName = strings.TrimSpace(c.Query("employee"))

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := invoicedomain.Status(strings.ToLower(raw))
		if !status.Valid() {
			return req, invoicedomain.ErrInvalidStatus
		}
		req.Status = &status
	}

	if req.MinTotal, err = parseOptionalDecimal(c.Query("min_total")); err != nil {
		return req, newValidationError("min_total", "invalid_min_total", "min_total must be a number")
	}
	if req.MaxTotal, err = parseOptionalDecimal(c.Query("max_total")); err != nil {
		return req, newValidationError("max_total", "invalid_max_total", "max_total must be a number")
	}
	return req, nil
}

func (s *Server) QuoteInvoice(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	quote, err := s.invoiceSvc.Quote(c.Request.Context(), req.Items)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": quote})
}

func (s *Server) CreateInvoice(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	var req invoicedomain.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.EmployeeID == nil {
		req.EmployeeID = session.EmployeeID
	}

	invoice, err := s.invoiceSvc.Create(c.Request.Context(), identityFromSession(session), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	details, err := s.invoiceSvc.GetDetails(c.Request.Context(), invoice.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": details})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	details, err := s.invoiceSvc.GetDetails(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (s *Server) ReplaceInvoice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req invoicedomain.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if _, err := s.invoiceSvc.UpdateWithItems(c.Request.Context(), id, req); err != nil {
		AbortWithError(c, err)
		return
	}

	details, err := s.invoiceSvc.GetDetails(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": details})
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(string(req.Status)) == "" {
		AbortWithError(c, newValidationError("status", "required", "status is required"))
		return
	}

	status := req.Status
	invoice, err := s.invoiceSvc.Update(c.Request.Context(), id, invoicedomain.UpdateInvoiceRequest{Status: &status})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	if err := s.invoiceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) RenderReceipt(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", render.FormatHTML)))
	var renderer render.Renderer
	switch format {
	case render.FormatHTML:
		renderer = s.htmlRenderer
	case render.FormatPDF:
		renderer = s.pdfRenderer
	default:
		AbortWithError(c, newValidationError("format", "invalid_format", "format must be html or pdf"))
		return
	}

	details, err := s.invoiceSvc.GetDetails(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	profile, err := s.organizationSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	body, err := renderer.Render(render.ReceiptInput{
		Details:      details,
		Organization: profile,
		Receipt:      s.orgConfig.Get().Receipt,
	})
	if err != nil {
		s.log.Error("failed to render receipt",
			zap.Int64("invoice_id", id),
			zap.String("format", format),
			zap.Error(err),
		)
		AbortWithError(c, err)
		return
	}

	if format == render.FormatPDF {
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", details.Invoice.InvoiceNumber+".pdf"))
	}
	c.Data(http.StatusOK, renderer.ContentType(), body)
}
