// Package crmapi defines the capabilities the Claim Connectors CRM backend must provide, as seen
// by the contract tests.
//
// A backend is composed from three services. Any of them can be the stand-in returned by
// NotImplemented, which lets the contract tests run end to end before the real implementation
// exists: every call on a stand-in reports ErrNotImplemented and the corresponding test is
// skipped as pending rather than failed.
package crmapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// ErrNotImplemented is returned by a collaborator that does not provide the requested operation.
var ErrNotImplemented = errors.New("not implemented")

// Response is an HTTP-style response from the backend.
type Response struct {
	StatusCode int
	Body       []byte
}

// IsNotImplementedSentinel reports whether this is the legacy placeholder response: status 404
// with a JSON body that has an "error" property.
func (r Response) IsNotImplementedSentinel() bool {
	if r.StatusCode != http.StatusNotFound {
		return false
	}
	body := ldvalue.Parse(r.Body)
	if body.Type() != ldvalue.ObjectType {
		return false
	}
	for _, key := range body.Keys() {
		if key == "error" {
			return true
		}
	}
	return false
}

type LeadService interface {
	GetLead(ctx context.Context, leadID string) (Response, error)
	CreateLead(ctx context.Context, lead servicedef.LeadParams) (Response, error)
	UpdateLead(ctx context.Context, leadID string, update servicedef.LeadUpdateParams) (Response, error)
	DeleteLead(ctx context.Context, leadID string) (Response, error)
	ListLeads(ctx context.Context) (Response, error)
}

type DocumentService interface {
	UploadDocument(ctx context.Context, leadID string, file servicedef.FileData) (Response, error)
	GetDocument(ctx context.Context, documentID string) (Response, error)
	ListDocuments(ctx context.Context, leadID string) (Response, error)
	DeleteDocument(ctx context.Context, documentID string) (Response, error)
}

type CallService interface {
	SaveCallMetadata(ctx context.Context, call servicedef.CallMetadataParams) (Response, error)
	GetCallRecording(ctx context.Context, callID string) (Response, error)
	UpdateCallNotes(ctx context.Context, callID string, notes servicedef.CallNotesParams) (Response, error)
}

// CapabilityReporter is implemented by backends that can say which capabilities they provide.
type CapabilityReporter interface {
	Capabilities() []string
}

// Backend is the set of collaborators the contract tests exercise.
type Backend struct {
	Leads     LeadService
	Documents DocumentService
	Calls     CallService
}

// WithDefaults returns a copy of the backend in which every missing service is replaced by the
// not-implemented stand-in.
func (b Backend) WithDefaults() Backend {
	if b.Leads == nil {
		b.Leads = notImplemented{}
	}
	if b.Documents == nil {
		b.Documents = notImplemented{}
	}
	if b.Calls == nil {
		b.Calls = notImplemented{}
	}
	return b
}
