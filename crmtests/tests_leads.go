package crmtests

import (
	"net/http"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const testLeadID = "12345"

var testLead = servicedef.LeadParams{
	FirstName: "John",
	LastName:  "Doe",
	Phone:     "555-123-4567",
	Email:     "john.doe@example.com",
	ClaimType: "auto",
	Notes:     "Initial contact made",
}

var testLeadUpdate = servicedef.LeadUpdateParams{
	Status: "qualified",
	Notes:  "Updated client information",
}

func DoLeadTests(t *T) {
	t.Run("get lead", func(t *T) {
		resp, err := t.Leads().GetLead(t.Context(), testLeadID)
		t.RequireImplemented(servicedef.CapabilityGetLead, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		t.AssertHasFields(body, "$.lead_id", "$.contact_info", "$.status")
	})

	t.Run("create lead", func(t *T) {
		resp, err := t.Leads().CreateLead(t.Context(), testLead)
		t.RequireImplemented(servicedef.CapabilityCreateLead, resp, err)

		t.RequireStatus(resp, http.StatusCreated, "Created")
		body := t.RequireJSONObject(resp)
		t.AssertHasFields(body, "$.lead_id")
		t.AssertEchoed(body, "first_name", testLead.FirstName)
		t.AssertEchoed(body, "email", testLead.Email)
	})

	t.Run("update lead", func(t *T) {
		resp, err := t.Leads().UpdateLead(t.Context(), testLeadID, testLeadUpdate)
		t.RequireImplemented(servicedef.CapabilityUpdateLead, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		t.AssertEchoed(body, "lead_id", testLeadID)
		t.AssertEchoed(body, "status", testLeadUpdate.Status)
	})

	t.Run("delete lead", func(t *T) {
		resp, err := t.Leads().DeleteLead(t.Context(), testLeadID)
		t.RequireImplemented(servicedef.CapabilityDeleteLead, resp, err)

		t.RequireStatus(resp, http.StatusNoContent, "No Content")
		assert.Empty(t, resp.Body, "204 response should not have a body")
	})

	t.Run("list leads", func(t *T) {
		resp, err := t.Leads().ListLeads(t.Context())
		t.RequireImplemented(servicedef.CapabilityListLeads, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		require.Equal(t, ldvalue.ArrayType, body.GetByKey("leads").Type(), "leads should be a list")
		t.AssertHasFields(body, "$.total")
	})
}
