package fakecrm

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var fixedTime = time.Date(2023, 7, 15, 14, 30, 0, 0, time.UTC)

func newTestServer(capabilities ...string) *Server {
	config := DefaultConfig()
	if capabilities != nil {
		config.Capabilities = capabilities
	}
	return NewServer(config, NewStore(func() time.Time { return fixedTime }), nil)
}

func do(s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m), "body: %s", rec.Body.String())
	return m
}

func TestStatusDeclaresCapabilities(t *testing.T) {
	s := newTestServer(servicedef.CapabilityGetLead)

	rec := do(s, http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var status servicedef.StatusRep
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, []string{servicedef.CapabilityGetLead}, status.Capabilities)
	assert.Equal(t, DefaultConfig().Description, status.Description)
}

func TestDeleteStatusStopsService(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodDelete, "/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	select {
	case <-s.Stopped():
	default:
		t.Fatal("service was not stopped")
	}

	rec = do(s, http.MethodDelete, "/", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code, "second stop request is harmless")
}

func TestUndeclaredCapabilityAnswersWithPlaceholder(t *testing.T) {
	s := newTestServer(servicedef.CapabilityGetLead)

	rec := do(s, http.MethodDelete, "/leads/"+SeedLeadID, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not implemented", decode(t, rec)["error"])
	_, ok := s.store.GetLead(SeedLeadID)
	assert.True(t, ok, "lead should not have been deleted")
}

func TestLeadLifecycle(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodPost, "/leads", servicedef.LeadParams{
		FirstName: "John", LastName: "Doe", Email: "john.doe@example.com", Phone: "555-123-4567",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)
	id, _ := created["lead_id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "John", created["first_name"])
	assert.Equal(t, "new", created["status"])
	assert.Equal(t, map[string]interface{}{"email": "john.doe@example.com", "phone": "555-123-4567"},
		created["contact_info"])
	assert.Equal(t, "2023-07-15T14:30:00Z", created["created_at"])

	rec = do(s, http.MethodPut, "/leads/"+id, servicedef.LeadUpdateParams{Status: "qualified"})
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "qualified", updated["status"])
	assert.Equal(t, "John", updated["first_name"], "fields not in the update are kept")

	rec = do(s, http.MethodGet, "/leads/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qualified", decode(t, rec)["status"])

	rec = do(s, http.MethodDelete, "/leads/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(s, http.MethodGet, "/leads/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.NotContains(t, body, "error", "a missing record is not the not-implemented placeholder")
	assert.Contains(t, body, "message")
}

func TestListLeads(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodGet, "/leads", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(1), body["total"])
	leads, ok := body["leads"].([]interface{})
	require.True(t, ok)
	require.Len(t, leads, 1)
	assert.Equal(t, SeedLeadID, leads[0].(map[string]interface{})["lead_id"])
}

func TestCreateLeadValidation(t *testing.T) {
	s := newTestServer()

	for _, p := range []struct {
		name string
		body interface{}
	}{
		{"missing names", servicedef.LeadParams{Email: "a@example.com"}},
		{"bad email", servicedef.LeadParams{FirstName: "A", LastName: "B", Email: "not-an-email"}},
		{"not an object", []string{"x"}},
	} {
		t.Run(p.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/leads", p.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec), "message")
		})
	}
}

func TestDocuments(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodPost, "/leads/"+SeedLeadID+"/documents", servicedef.FileData{
		Filename: "claim_form.pdf", ContentType: "application/pdf", Data: []byte("mock file content"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	uploaded := decode(t, rec)
	docID := uploaded["document_id"].(string)
	assert.Equal(t, SeedLeadID, uploaded["lead_id"])
	assert.Equal(t, "https://storage.example.com/upload/"+docID, uploaded["upload_url"])
	assert.Equal(t, float64(len("mock file content")), uploaded["size"], "size defaults to data length")

	rec = do(s, http.MethodGet, "/leads/"+SeedLeadID+"/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode(t, rec)
	assert.Equal(t, float64(2), list["total"])

	rec = do(s, http.MethodGet, "/documents/"+SeedDocumentID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	assert.Equal(t, "policy.pdf", doc["filename"])
	assert.Equal(t, "https://storage.example.com/download/"+SeedDocumentID, doc["download_url"])

	rec = do(s, http.MethodDelete, "/documents/"+SeedDocumentID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(s, http.MethodDelete, "/documents/"+SeedDocumentID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDocumentListForUnknownLeadIsEmpty(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodGet, "/leads/nobody/documents", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"documents":[],"total":0}`, rec.Body.String())
}

func TestUploadRequiresContentType(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodPost, "/leads/"+SeedLeadID+"/documents", servicedef.FileData{Filename: "x.pdf"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalls(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodPost, "/calls", map[string]interface{}{
		"contact_id": "contact-12345",
		"agent_id":   "agent-789",
		"lead_id":    "lead-456",
		"timestamp":  "2023-07-15T14:30:00Z",
		"duration":   360,
		"call_type":  "inbound",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	call := decode(t, rec)
	callID := call["call_id"].(string)
	assert.Equal(t, "contact-12345", call["contact_id"])
	assert.Equal(t, float64(360), call["duration"])

	rec = do(s, http.MethodPut, "/calls/"+callID+"/notes", servicedef.CallNotesParams{Notes: "call back"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "call back", decode(t, rec)["notes"])

	rec = do(s, http.MethodGet, "/calls/"+callID+"/recording", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{
		"call_id":       callID,
		"recording_url": "https://recordings.example.com/" + callID + ".wav",
		"expiration":    "2023-07-15T15:30:00Z",
	}, decode(t, rec))
}

func TestCallValidation(t *testing.T) {
	s := newTestServer()

	for _, p := range []struct {
		name string
		body map[string]interface{}
	}{
		{"missing agent", map[string]interface{}{"contact_id": "c", "lead_id": "l"}},
		{"bad call type", map[string]interface{}{"contact_id": "c", "agent_id": "a", "lead_id": "l", "call_type": "sideways"}},
		{"bad timestamp", map[string]interface{}{"contact_id": "c", "agent_id": "a", "lead_id": "l", "timestamp": "yesterday"}},
	} {
		t.Run(p.name, func(t *testing.T) {
			rec := do(s, http.MethodPost, "/calls", p.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRecordingForUnknownCall(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodGet, "/calls/nope/recording", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	rec = do(s, http.MethodGet, "/", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestMetricsUseRouteTemplates(t *testing.T) {
	s := newTestServer()

	do(s, http.MethodGet, "/leads/"+SeedLeadID, nil)
	do(s, http.MethodGet, "/leads/missing", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("GET", "/leads/{id}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("GET", "/leads/{id}", "404")))

	rec := do(s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fake_crm_http_requests_total")
}

func TestUnmatchedRequestsAreTaggedAndCounted(t *testing.T) {
	s := newTestServer()

	rec := do(s, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.NotContains(t, decode(t, rec), "error", "an unknown route is not the not-implemented placeholder")

	rec = do(s, http.MethodPatch, "/leads", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.metrics.requests.WithLabelValues("PATCH", "unmatched", "405")))
}
