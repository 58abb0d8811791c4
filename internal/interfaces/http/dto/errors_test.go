package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/record"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeNotFoundPostWrite, http.StatusInternalServerError},
		{shared.CodeInfrastructure, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNewErrorResponse_JSON(t *testing.T) {
	resp := NewErrorResponseWithRequestID(shared.CodeValidation, "Missing required fields: item_code", "req-1")
	resp.MissingFields = []string{"item_code"}

	b, err := json.Marshal(resp)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, false, got["success"])
	assert.Equal(t, "Missing required fields: item_code", got["message"])
	assert.Equal(t, "VALIDATION_ERROR", got["error"].(map[string]any)["code"])
	assert.Equal(t, []any{"item_code"}, got["missing_fields"])
	assert.Equal(t, "req-1", got["request_id"])
}

func TestNewListResponse_NeverNull(t *testing.T) {
	resp := NewListResponse[record.Row](nil, 0, "No records found")

	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"total":0,"data":[],"message":"No records found"}`, string(b))
}

func TestNewUpsertResponse(t *testing.T) {
	resp := NewUpsertResponse(upsert.Outcome{Action: upsert.ActionUpdate, ID: int64(4), Row: record.Row{"item_code": "PADDY"}})

	assert.True(t, resp.Success)
	assert.Equal(t, "Updated existing record.", resp.Message)
	assert.Equal(t, int64(4), resp.ID)
	assert.Equal(t, "PADDY", resp.Data["item_code"])
}

func TestNewBatchResponse(t *testing.T) {
	res := upsert.BatchResult{
		Success: false,
		Summary: upsert.Summary{Total: 2, Inserted: 1, Failed: 1},
		Results: []upsert.ItemResult{{Action: upsert.ActionInsert}, {Action: upsert.ActionError, Message: "bad"}},
	}
	resp := NewBatchResponse(res)

	assert.False(t, resp.Success)
	assert.Equal(t, "Batch process complete. Inserted 1, updated 0, skipped 0, failed 1.", resp.Message)
	assert.Len(t, resp.Results, 2)
}
