package crmapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/claimconnectors/crm-contract-tests/servicedef"
)

// NotImplemented returns a backend in which every operation is unavailable.
func NotImplemented() Backend {
	return Backend{}.WithDefaults()
}

// NotImplementedResponse is the legacy placeholder response.
func NotImplementedResponse() Response {
	body, _ := json.Marshal(servicedef.ErrorRep{Error: "Not implemented"})
	return Response{StatusCode: http.StatusNotFound, Body: body}
}

type notImplemented struct{}

func (notImplemented) Capabilities() []string { return nil }

func (notImplemented) GetLead(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) CreateLead(context.Context, servicedef.LeadParams) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) UpdateLead(context.Context, string, servicedef.LeadUpdateParams) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) DeleteLead(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) ListLeads(context.Context) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) UploadDocument(context.Context, string, servicedef.FileData) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) GetDocument(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) ListDocuments(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) DeleteDocument(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) SaveCallMetadata(context.Context, servicedef.CallMetadataParams) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) GetCallRecording(context.Context, string) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}

func (notImplemented) UpdateCallNotes(context.Context, string, servicedef.CallNotesParams) (Response, error) {
	return NotImplementedResponse(), ErrNotImplemented
}
