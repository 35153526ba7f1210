package crmtests

import (
	"net/http"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const testCallID = "call-12345"

var testCall = servicedef.CallMetadataParams{
	ContactID:   "contact-12345",
	AgentID:     "agent-789",
	LeadID:      "lead-456",
	Timestamp:   "2023-07-15T14:30:00Z",
	Duration:    ldvalue.NewOptionalInt(360),
	CallType:    "inbound",
	Disposition: "qualified",
}

var testCallNotes = servicedef.CallNotesParams{
	Notes: "Follow up next week",
}

// DoCallIntegrationTests covers the contact-center integration: call metadata written by the
// telephony side and recordings read back by agents.
func DoCallIntegrationTests(t *T) {
	t.Run("save call metadata", func(t *T) {
		resp, err := t.Calls().SaveCallMetadata(t.Context(), testCall)
		t.RequireImplemented(servicedef.CapabilitySaveCallMetadata, resp, err)

		t.RequireStatus(resp, http.StatusCreated, "Created")
		body := t.RequireJSONObject(resp)
		t.AssertHasFields(body, "$.call_id")
		t.AssertEchoed(body, "contact_id", testCall.ContactID)
		t.AssertEchoed(body, "lead_id", testCall.LeadID)
	})

	t.Run("get call recording", func(t *T) {
		resp, err := t.Calls().GetCallRecording(t.Context(), testCallID)
		t.RequireImplemented(servicedef.CapabilityGetCallRecording, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		t.AssertEchoed(body, "call_id", testCallID)
		t.AssertHasFields(body, "$.recording_url", "$.expiration")
	})

	t.Run("update call notes", func(t *T) {
		resp, err := t.Calls().UpdateCallNotes(t.Context(), testCallID, testCallNotes)
		t.RequireImplemented(servicedef.CapabilityUpdateCallNotes, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		t.AssertEchoed(body, "call_id", testCallID)
		t.AssertEchoed(body, "notes", testCallNotes.Notes)
	})
}
