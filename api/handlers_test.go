/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Schedule endpoints (normal, recalc, calculate-recognition)
- Stored summary endpoints (save/get/delete, replace-on-write)
- The admin refresh endpoint
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/recognition-engine/recognition"
	"github.com/warp/recognition-engine/store/memory"
)

func testDate(year int, month time.Month, day int) recognition.Date {
	return recognition.NewDate(year, month, day)
}

// newTestServer wires a handler over the in-memory store with "today"
// pinned, and returns it with a running httptest server.
func newTestServer(t *testing.T, now recognition.Date) (*Handler, *httptest.Server) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewHandler(memory.New(), logger)
	h.JWTSecret = "test-secret"
	h.Now = func() recognition.Date { return now }
	h.Refresher = NewRefresher(h.Store, nil, logger)
	h.Refresher.Now = h.Now

	srv := httptest.NewServer(NewRouter(h, nil))
	t.Cleanup(srv.Close)
	return h, srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// =============================================================================
// SCHEDULE ENDPOINTS
// =============================================================================

func TestNormalSchedule_SixMonths(t *testing.T) {
	// GIVEN: A six month subscription opened mid-January
	// WHEN: Requesting the baseline schedule
	// THEN: Six on-time rounds come back, all recognized by the end date

	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/normal", map[string]any{
		"open_date": "2024-01-15",
		"due_day":   15,
		"end_date":  "2024-06-30",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[recognition.ScheduleSummary](t, resp)
	assert.Equal(t, 6, summary.TotalInstallments)
	assert.Zero(t, summary.TotalDelayDays)
	assert.Zero(t, summary.TotalPrepaidDays)
	require.Len(t, summary.Payments, 6)
	assert.Equal(t, testDate(2024, time.January, 15), summary.Payments[0].DueDate)
	assert.Equal(t, testDate(2024, time.June, 15), summary.Payments[5].DueDate)
}

func TestNormalSchedule_ImpossibleDayIsBadRequest(t *testing.T) {
	// GIVEN: Day 31 across a range containing February
	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/normal", map[string]any{
		"open_date": "2024-01-31",
		"due_day":   31,
		"end_date":  "2024-06-30",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestNormalSchedule_MalformedDateIsBadRequest(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/normal", map[string]any{
		"open_date": "15/01/2024",
		"due_day":   15,
		"end_date":  "2024-06-30",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecalcSchedule_DelayPropagates(t *testing.T) {
	// GIVEN: Round 2 paid 9 days late
	// WHEN: Recalculating over the wire
	// THEN: Round 2's recognized date slips by floor(9/2) = 4 days

	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/recalc", map[string]any{
		"open_date": "2025-01-01",
		"end_date":  "2025-02-28",
		"payments": []map[string]any{
			{"installment_no": 1, "due_date": "2025-01-01", "paid_date": "2025-01-01"},
			{"installment_no": 2, "due_date": "2025-02-01", "paid_date": "2025-02-10"},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[recognition.ScheduleSummary](t, resp)
	require.Len(t, summary.Payments, 2)
	assert.Equal(t, 9, summary.TotalDelayDays)
	require.NotNil(t, summary.Payments[1].RecognizedDate)
	assert.Equal(t, testDate(2025, time.February, 5), *summary.Payments[1].RecognizedDate)
	assert.Equal(t, recognition.StatusDelayed, summary.Payments[1].Status)
}

func TestCalculateRecognition_StandardOption(t *testing.T) {
	// GIVEN: A six month simulation at 100,000 per round, all on time
	// WHEN: "Today" is past the last due date
	// THEN: All six rounds are recognized for 600,000 total

	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/calculate-recognition", map[string]any{
		"payment_day":             10,
		"start_date":              "2025-01-01",
		"end_date":                "2025-06-30",
		"payment_amount_option":   "standard",
		"standard_payment_amount": 100000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decodeBody[recognition.Summary](t, resp)
	assert.Equal(t, 6, summary.RecognizedRounds)
	assert.Zero(t, summary.UnrecognizedRounds)
	assert.Equal(t, recognition.NewAmount(600_000), summary.TotalRecognizedAmount)
}

func TestCalculateRecognition_PrepaymentCapIsBadRequest(t *testing.T) {
	// GIVEN: An override prepaying a round beyond the 721-day cap
	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/calculate-recognition", map[string]any{
		"payment_day":             10,
		"start_date":              "2025-01-01",
		"end_date":                "2025-06-30",
		"payment_amount_option":   "standard",
		"standard_payment_amount": 100000,
		"payments": []map[string]any{
			{"installment_no": 6, "paid_date": "2023-01-01"},
		},
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalculateRecognition_UnknownOptionIsBadRequest(t *testing.T) {
	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/payments/calculate-recognition", map[string]any{
		"payment_day":           10,
		"start_date":            "2025-01-01",
		"end_date":              "2025-06-30",
		"payment_amount_option": "deluxe",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// =============================================================================
// STORED SUMMARY ENDPOINTS
// =============================================================================

func authedRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func signupAndLogin(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	creds := map[string]any{"email": email, "password": "hunter2hunter2"}

	resp := postJSON(t, srv.URL+"/api/signup", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/login", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decodeBody[TokenResponse](t, resp)
	require.NotEmpty(t, token.AccessToken)
	return token.AccessToken
}

func sampleSummary(t *testing.T, srv *httptest.Server) []byte {
	t.Helper()
	resp := postJSON(t, srv.URL+"/api/payments/calculate-recognition", map[string]any{
		"payment_day":             10,
		"start_date":              "2025-01-01",
		"end_date":                "2025-06-30",
		"payment_amount_option":   "standard",
		"standard_payment_amount": 100000,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return body
}

func TestStoredSummary_SaveGetDelete(t *testing.T) {
	// GIVEN: An authenticated owner and a computed summary
	_, srv := newTestServer(t, testDate(2025, time.December, 31))
	token := signupAndLogin(t, srv, "owner@example.com")
	payload := sampleSummary(t, srv)
	url := srv.URL + "/api/me/subscription-detail"

	// Nothing stored yet
	resp := authedRequest(t, http.MethodGet, url, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// Save
	resp = authedRequest(t, http.MethodPost, url, token, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Fetch back
	resp = authedRequest(t, http.MethodGet, url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decodeBody[recognition.Summary](t, resp)
	assert.Equal(t, 6, stored.RecognizedRounds)
	assert.Equal(t, recognition.NewAmount(600_000), stored.TotalRecognizedAmount)

	// Delete
	resp = authedRequest(t, http.MethodDelete, url, token, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = authedRequest(t, http.MethodGet, url, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestStoredSummary_ReplaceOnWrite(t *testing.T) {
	// GIVEN: An owner with a stored summary
	// WHEN: Saving a different one
	// THEN: Only the latest copy survives

	h, srv := newTestServer(t, testDate(2025, time.December, 31))
	token := signupAndLogin(t, srv, "owner@example.com")
	url := srv.URL + "/api/me/subscription-detail"

	first := sampleSummary(t, srv)
	resp := authedRequest(t, http.MethodPost, url, token, first)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var second recognition.Summary
	require.NoError(t, json.Unmarshal(first, &second))
	second.PaymentDay = 25
	secondPayload, err := json.Marshal(second)
	require.NoError(t, err)

	resp = authedRequest(t, http.MethodPost, url, token, secondPayload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = authedRequest(t, http.MethodGet, url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := decodeBody[recognition.Summary](t, resp)
	assert.Equal(t, 25, stored.PaymentDay)

	owners, err := h.Store.ListOwners(context.Background())
	require.NoError(t, err)
	assert.Len(t, owners, 1)
}

// =============================================================================
// ADMIN REFRESH
// =============================================================================

func TestTriggerRefresh_AdvancesRecognition(t *testing.T) {
	// GIVEN: A summary computed mid-schedule and stored, then time passing
	// WHEN: The admin refresh runs with a later "today"
	// THEN: Rounds whose recognized dates have passed flip to recognized

	h, srv := newTestServer(t, testDate(2025, time.March, 31))
	token := signupAndLogin(t, srv, "owner@example.com")
	url := srv.URL + "/api/me/subscription-detail"

	// As of March 31 only three of six rounds are recognized.
	payload := sampleSummary(t, srv)
	var before recognition.Summary
	require.NoError(t, json.Unmarshal(payload, &before))
	require.Equal(t, 3, before.RecognizedRounds)

	resp := authedRequest(t, http.MethodPost, url, token, payload)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Time passes.
	later := testDate(2025, time.December, 31)
	h.Now = func() recognition.Date { return later }
	h.Refresher.Now = h.Now

	resp = postJSON(t, srv.URL+"/api/admin/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[RefreshResponse](t, resp)
	assert.Equal(t, 1, result.Refreshed)

	resp = authedRequest(t, http.MethodGet, url, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := decodeBody[recognition.Summary](t, resp)
	assert.Equal(t, 6, after.RecognizedRounds)
	assert.Zero(t, after.UnrecognizedRounds)
	assert.Equal(t, recognition.NewAmount(600_000), after.TotalRecognizedAmount)
}

func TestTriggerRefresh_NothingToDo(t *testing.T) {
	// A second run with no time movement touches nothing.
	_, srv := newTestServer(t, testDate(2025, time.December, 31))

	resp := postJSON(t, srv.URL+"/api/admin/refresh", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeBody[RefreshResponse](t, resp)
	assert.Zero(t, result.Refreshed)
}
