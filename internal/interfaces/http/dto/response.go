package dto

import "github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the failure envelope shared by every endpoint.
type ErrorResponse struct {
	Success       bool       `json:"success"`
	Message       string     `json:"message"`
	Error         *ErrorInfo `json:"error,omitempty"`
	MissingFields []string   `json:"missing_fields,omitempty"`
	RequestID     string     `json:"request_id,omitempty"`
}

// UpsertResponse is returned by the single-record endpoints.
type UpsertResponse struct {
	Success bool           `json:"success"`
	Action  upsert.Action  `json:"action"`
	ID      any            `json:"id"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

// BatchResponse is returned by the batch endpoints.
type BatchResponse struct {
	Success bool                `json:"success"`
	Summary upsert.Summary      `json:"summary"`
	Results []upsert.ItemResult `json:"results"`
	Message string              `json:"message"`
}

// ListResponse is returned by the read endpoints.
type ListResponse struct {
	Success bool   `json:"success"`
	Total   int64  `json:"total"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

// RecordResponse carries one row.
type RecordResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

// NewUpsertResponse builds the single-record envelope.
func NewUpsertResponse(out upsert.Outcome) UpsertResponse {
	return UpsertResponse{
		Success: true,
		Action:  out.Action,
		ID:      out.ID,
		Message: upsert.ActionMessage(out.Action),
		Data:    out.Row,
	}
}

// NewBatchResponse builds the batch envelope.
func NewBatchResponse(res upsert.BatchResult) BatchResponse {
	return BatchResponse{
		Success: res.Success,
		Summary: res.Summary,
		Results: res.Results,
		Message: res.Message(),
	}
}

// NewListResponse builds the list envelope. data is never null.
func NewListResponse[T any](rows []T, total int64, message string) ListResponse {
	if rows == nil {
		rows = []T{}
	}
	return ListResponse{
		Success: true,
		Total:   total,
		Data:    rows,
		Message: message,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Message: message,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewErrorResponseWithRequestID creates an error response tagged with the request id
func NewErrorResponseWithRequestID(code, message, requestID string) ErrorResponse {
	resp := NewErrorResponse(code, message)
	resp.RequestID = requestID
	return resp
}
