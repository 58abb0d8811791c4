package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apcmsapp "github.com/Klabsprojects/rcs-dashboard-api/internal/application/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/application/upsert"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/domain/apcms"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence/persistencetest"
	"github.com/Klabsprojects/rcs-dashboard-api/internal/interfaces/http/middleware"
)

type apcmsFixture struct {
	router    *gin.Engine
	societyID int64
	itemID    int64
}

func setupAPCMS(t *testing.T) apcmsFixture {
	t.Helper()
	middleware.SetupValidator()

	db := persistencetest.NewSQLite(t)
	societyID, itemID := persistencetest.SeedReferences(t, db)
	repo := persistence.NewGormRecordRepository(db)
	h := NewAPCMSHandler(apcmsapp.NewService(repo, upsert.NewResolver(repo)))

	router := gin.New()
	router.Use(middleware.RequestID())
	g := router.Group("/apcms")
	g.POST("/add_item_master", h.Upsert(apcms.ItemMaster))
	g.GET("/get_item_master", h.List(apcms.ItemMaster))
	g.POST("/add_society_master", h.Upsert(apcms.SocietyMaster))
	g.POST("/add_member_loan_deposit", h.UpsertBatch(apcms.MemberLoanDeposit))
	g.GET("/get_member_loan_deposit/:type", h.List(apcms.MemberLoanDeposit))
	g.POST("/add_godown_utilization", h.UpsertBatch(apcms.GodownUtilization))
	g.GET("/get_godown_utilization", h.List(apcms.GodownUtilization))
	g.GET("/get_last_record/:entity", h.LastRecord)
	g.GET("/loan_report/:societyId/:itemId", h.LoanReport)
	g.GET("/loan_report/:societyId/:itemId/export", h.ExportLoanReport)

	return apcmsFixture{router: router, societyID: societyID, itemID: itemID}
}

func (f apcmsFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f apcmsFixture) ledger(date, accType string, balance string) string {
	return fmt.Sprintf(`{"entry_date":%q,"society_id":%d,"acc_type":%q,"acc_sub_type":"KCC","item_id":%d,"balance_value":%s}`,
		date, f.societyID, accType, f.itemID, balance)
}

func TestAPCMSHandler_SingleUpsert(t *testing.T) {
	f := setupAPCMS(t)

	t.Run("insert returns 201", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_item_master", `{"item_code":"FERT","category":"Input","item_name":"Fertilizer"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["success"])
		assert.Equal(t, "insert", body["action"])
		assert.Equal(t, "Inserted new record.", body["message"])
		assert.NotNil(t, body["id"])
		assert.Equal(t, "Fertilizer", body["data"].(map[string]any)["item_name"])
	})

	t.Run("same key updates with 200", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_item_master", `{"item_code":"FERT","category":"Input","item_name":"Urea"}`)

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "update", body["action"])
		assert.Equal(t, "Urea", body["data"].(map[string]any)["item_name"])
	})

	t.Run("missing fields", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_item_master", `{"item_code":"X","item_name":null}`)

		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Missing required fields: category, item_name", body["message"])
		assert.Equal(t, []any{"category", "item_name"}, body["missing_fields"])
	})

	t.Run("array body is rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_item_master", `[{"item_code":"X"}]`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body must be a JSON object", decodeBody(t, w)["message"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_item_master", `{"item_code":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("society defaults to active", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_society_master", `{"society_code":"BET02","society_name":"Beta Coop"}`)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "active", decodeBody(t, w)["data"].(map[string]any)["status"])
	})
}

func TestAPCMSHandler_Batch(t *testing.T) {
	f := setupAPCMS(t)

	payload := "[" + f.ledger("2024-01-10", "LOAN", "1200.50") + `,{"entry_date":"2024-01-11"},` + f.ledger("2024-01-12", "DEPOSIT", "10") + "]"
	w := f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit", payload)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Batch process complete. Inserted 2, updated 0, skipped 0, failed 1.", body["message"])

	results := body["results"].([]any)
	require.Len(t, results, 3)
	assert.Equal(t, "insert", results[0].(map[string]any)["action"])
	assert.Equal(t, "error", results[1].(map[string]any)["action"])
	assert.Contains(t, results[1].(map[string]any)["message"], "Missing required fields")

	t.Run("resubmission updates", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit", "["+f.ledger("2024-01-10", "LOAN", "1300")+"]")

		summary := decodeBody(t, w)["summary"].(map[string]any)
		assert.EqualValues(t, 1, summary["updated"])
	})

	t.Run("godown resubmission is skipped", func(t *testing.T) {
		row := fmt.Sprintf(`[{"entry_date":"2024-02-01","society_id":%d,"acc_type":"OWN","acc_sub_type":"MAIN","item_id":%d,"no_of_bags":40}]`, f.societyID, f.itemID)
		f.do(t, http.MethodPost, "/apcms/add_godown_utilization", row)
		w := f.do(t, http.MethodPost, "/apcms/add_godown_utilization", row)

		summary := decodeBody(t, w)["summary"].(map[string]any)
		assert.EqualValues(t, 1, summary["skipped"])
	})

	t.Run("non-array body", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit", `{"entry_date":"2024-01-10"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Request body must be a non-empty array of records", decodeBody(t, w)["message"])
	})

	t.Run("empty array", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit", `[]`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPCMSHandler_List(t *testing.T) {
	f := setupAPCMS(t)
	f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit",
		"["+f.ledger("2024-01-10", "LOAN", "1")+","+f.ledger("2024-01-31", "LOAN", "2")+","+f.ledger("2024-01-15", "MEMBER", "3")+"]")

	t.Run("type from path with day-inclusive range", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_member_loan_deposit/LOAN?startdate=2024-01-01&enddate=2024-01-31", "")

		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.EqualValues(t, 2, body["total"])
		rows := body["data"].([]any)
		require.Len(t, rows, 2)
		assert.Equal(t, "Alpha Coop", rows[0].(map[string]any)["society_name"])
	})

	t.Run("all sentinel", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_member_loan_deposit/loan?society_id=ALL&item_id=all", "")

		assert.EqualValues(t, 2, decodeBody(t, w)["total"])
	})

	t.Run("unknown type", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_member_loan_deposit/SAVINGS", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_member_loan_deposit/LOAN?startdate=31-01-2024", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid startdate format. Use YYYY-MM-DD.", decodeBody(t, w)["message"])
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_godown_utilization", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"total":0,"data":[],"message":"No records found"}`, w.Body.String())
	})

	t.Run("master list", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_item_master", "")

		assert.EqualValues(t, 1, decodeBody(t, w)["total"])
	})
}

func TestAPCMSHandler_LastRecord(t *testing.T) {
	f := setupAPCMS(t)

	t.Run("empty table", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_last_record/godown_utilization", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown entity", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_last_record/ledger", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("newest row", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/get_last_record/society_master", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ALP01", decodeBody(t, w)["data"].(map[string]any)["society_code"])
	})
}

func TestAPCMSHandler_LoanReport(t *testing.T) {
	f := setupAPCMS(t)
	f.do(t, http.MethodPost, "/apcms/add_member_loan_deposit",
		"["+f.ledger("2024-03-10", "LOAN", "300")+","+f.ledger("2024-03-01", "LOAN", "100")+","+f.ledger("2024-03-05", "DEPOSIT", "50")+"]")

	t.Run("ordered by entry date", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/loan_report/all/all", "")

		require.Equal(t, http.StatusOK, w.Code)
		rows := decodeBody(t, w)["data"].([]any)
		require.Len(t, rows, 2)
		assert.Contains(t, rows[0].(map[string]any)["entry_date"], "2024-03-01")
	})

	t.Run("period and type", func(t *testing.T) {
		w := f.do(t, http.MethodGet, fmt.Sprintf("/apcms/loan_report/%d/all?fromPeriod=2024-03-02&toPeriod=2024-03-31&type=deposit", f.societyID), "")

		assert.EqualValues(t, 1, decodeBody(t, w)["total"])
	})

	t.Run("bad period", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/loan_report/all/all?fromPeriod=March", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid fromPeriod format. Use YYYY-MM-DD.", decodeBody(t, w)["message"])
	})

	t.Run("unknown society is empty", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/loan_report/9999/all", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.EqualValues(t, 0, decodeBody(t, w)["total"])
	})

	t.Run("export", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/apcms/loan_report/all/all/export", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "loan_report_all_all.xlsx")

		wb, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer wb.Close()
		rows, err := wb.GetRows("Loan Report")
		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, "Entry Date", rows[0][0])
		assert.Equal(t, "Alpha Coop", rows[1][2])
	})
}
