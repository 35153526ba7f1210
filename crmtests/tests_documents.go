package crmtests

import (
	"net/http"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const testDocumentID = "doc-12345"

var testFile = servicedef.FileData{
	Filename:    "claim_form.pdf",
	ContentType: "application/pdf",
	Size:        ldvalue.NewOptionalInt(1024),
	Data:        []byte("mock file content"),
}

func DoDocumentTests(t *T) {
	t.Run("upload document", func(t *T) {
		resp, err := t.Documents().UploadDocument(t.Context(), testLeadID, testFile)
		t.RequireImplemented(servicedef.CapabilityUploadDocument, resp, err)

		t.RequireStatus(resp, http.StatusCreated, "Created")
		body := t.RequireJSONObject(resp)
		t.AssertHasFields(body, "$.document_id", "$.upload_url")
		t.AssertEchoed(body, "lead_id", testLeadID)
	})

	t.Run("get document", func(t *T) {
		resp, err := t.Documents().GetDocument(t.Context(), testDocumentID)
		t.RequireImplemented(servicedef.CapabilityGetDocument, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		t.AssertEchoed(body, "document_id", testDocumentID)
		t.AssertHasFields(body, "$.filename", "$.upload_date", "$.download_url")
	})

	t.Run("list documents", func(t *T) {
		resp, err := t.Documents().ListDocuments(t.Context(), testLeadID)
		t.RequireImplemented(servicedef.CapabilityListDocuments, resp, err)

		t.RequireStatus(resp, http.StatusOK, "OK")
		body := t.RequireJSONObject(resp)
		documents := body.GetByKey("documents")
		require.Equal(t, ldvalue.ArrayType, documents.Type(), "documents should be a list")

		if documents.Count() > 0 {
			t.AssertHasFields(body,
				"$.documents[0].document_id",
				"$.documents[0].filename",
				"$.documents[0].upload_date",
			)
		}
	})

	t.Run("delete document", func(t *T) {
		resp, err := t.Documents().DeleteDocument(t.Context(), testDocumentID)
		t.RequireImplemented(servicedef.CapabilityDeleteDocument, resp, err)

		t.RequireStatus(resp, http.StatusNoContent, "No Content")
		assert.Empty(t, resp.Body, "204 response should not have a body")
	})
}
