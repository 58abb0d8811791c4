package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apcmsapp "github.com/Klabsprojects/rcs-dashboard-api/internal/application/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/export"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/dto"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/middleware"
)

// APCMSHandler handles the cooperative-society endpoints
type APCMSHandler struct {
	BaseHandler
	service *apcmsapp.Service
}

// NewAPCMSHandler creates a new APCMSHandler
func NewAPCMSHandler(service *apcmsapp.Service, opts ...HandlerOption) *APCMSHandler {
	h := &APCMSHandler{
		service: service,
	}
	for _, opt := range opts {
		opt(&h.BaseHandler)
	}
	return h
}

// LoanReportQuery holds the loan report query string
type LoanReportQuery struct {
	FromPeriod string `form:"fromPeriod" binding:"omitempty,datetime=2006-01-02"`
	ToPeriod   string `form:"toPeriod" binding:"omitempty,datetime=2006-01-02"`
	Type       string `form:"type" binding:"omitempty,oneof=MEMBER LOAN DEPOSIT member loan deposit"`
}

// loanReportColumns is the spreadsheet layout of the loan report export.
var loanReportColumns = []export.Column{
	{Header: "Entry Date", Field: "entry_date"},
	{Header: "Society Code", Field: "society_code"},
	{Header: "Society Name", Field: "society_name"},
	{Header: "Item Code", Field: "item_code"},
	{Header: "Item Name", Field: "item_name"},
	{Header: "Account Type", Field: "acc_type"},
	{Header: "Account Sub Type", Field: "acc_sub_type"},
	{Header: "Members", Field: "member_count"},
	{Header: "Opening Qty", Field: "opening_qty"},
	{Header: "Issued Qty", Field: "issued_qty"},
	{Header: "Collected Qty", Field: "collected_qty"},
	{Header: "Balance Qty", Field: "balance_qty"},
	{Header: "Opening Value", Field: "opening_value"},
	{Header: "Issued Value", Field: "issued_value"},
	{Header: "Collected Value", Field: "collected_value"},
	{Header: "Balance Value", Field: "balance_value"},
}

// decodeJSON reads the body with numbers kept as json.Number so integer and
// decimal fields are coerced without a float64 round trip.
func decodeJSON(c *gin.Context) (any, error) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, shared.NewDomainError(dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		}
		return nil, shared.NewValidationError("Invalid JSON body")
	}
	return payload, nil
}

// Upsert returns the handler for a single-record endpoint.
func (h *APCMSHandler) Upsert(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := decodeJSON(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		obj, ok := payload.(map[string]any)
		if !ok {
			h.BadRequest(c, "Request body must be a JSON object")
			return
		}

		out, err := h.service.Upsert(c.Request.Context(), entity, record.Record(obj))
		if err != nil {
			h.HandleError(c, err)
			return
		}

		status := http.StatusOK
		if out.Action == upsert.ActionInsert {
			status = http.StatusCreated
		}
		c.JSON(status, dto.NewUpsertResponse(out))
	}
}

// UpsertBatch returns the handler for a batch endpoint. Per-record failures
// are reported in the body with status 200.
func (h *APCMSHandler) UpsertBatch(entity string) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := decodeJSON(c)
		if err != nil {
			h.HandleError(c, err)
			return
		}

		res, err := h.service.UpsertBatch(c.Request.Context(), entity, payload)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewBatchResponse(res))
	}
}

// criteriaFrom collects the filter parameters the entity accepts. A path
// parameter wins over a query parameter of the same name.
func criteriaFrom(c *gin.Context, s *record.Schema) record.Criteria {
	criteria := record.Criteria{}
	take := func(name string) {
		if v := c.Param(name); v != "" {
			criteria[name] = v
			return
		}
		if v, ok := c.GetQuery(name); ok {
			criteria[name] = strings.TrimSpace(v)
		}
	}
	for _, f := range s.Filters.Exact {
		take(f.Param)
	}
	for _, r := range s.Filters.Ranges {
		take(r.FromParam)
		take(r.ToParam)
	}
	return criteria
}

// List returns the handler for a read endpoint.
func (h *APCMSHandler) List(entity string) gin.HandlerFunc {
	schema := apcms.MustLookup(entity)
	return func(c *gin.Context) {
		page, err := h.service.List(c.Request.Context(), entity, criteriaFrom(c, schema))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewListResponse(page.Rows, page.Total, listMessage(page.Total)))
	}
}

func listMessage(total int64) string {
	if total == 0 {
		return "No records found"
	}
	return fmt.Sprintf("%d records found", total)
}

// LastRecord returns the newest row of the entity named in the path.
func (h *APCMSHandler) LastRecord(c *gin.Context) {
	row, err := h.service.Last(c.Request.Context(), c.Param("entity"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.RecordResponse{Success: true, Data: row})
}

func (h *APCMSHandler) loanReport(c *gin.Context) (record.Page, bool) {
	var q LoanReportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BadRequest(c, middleware.ValidationMessage(err))
		return record.Page{}, false
	}
	page, err := h.service.LoanReport(c.Request.Context(), apcmsapp.LoanReportQuery{
		SocietyID:  c.Param("societyId"),
		ItemID:     c.Param("itemId"),
		FromPeriod: q.FromPeriod,
		ToPeriod:   q.ToPeriod,
		Type:       strings.ToUpper(q.Type),
	})
	if err != nil {
		h.HandleError(c, err)
		return record.Page{}, false
	}
	return page, true
}

// LoanReport lists ledger rows for a society and item, either of which may be "all".
func (h *APCMSHandler) LoanReport(c *gin.Context) {
	page, ok := h.loanReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.NewListResponse(page.Rows, page.Total, listMessage(page.Total)))
}

// ExportLoanReport streams the loan report as an XLSX workbook.
func (h *APCMSHandler) ExportLoanReport(c *gin.Context) {
	page, ok := h.loanReport(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("loan_report_%s_%s.xlsx", c.Param("societyId"), c.Param("itemId"))
	c.Header("Content-Type", export.ContentTypeXLSX)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := export.WriteXLSX(c.Writer, "Loan Report", loanReportColumns, page.Rows); err != nil {
		// Headers are already sent; record the failure for the access log.
		_ = c.Error(err)
	}
}
