// Package servicedef defines the JSON messages exchanged with the CRM service and the names of
// the capabilities it can declare.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	CapabilityGetLead          = "get_lead"
	CapabilityCreateLead       = "create_lead"
	CapabilityUpdateLead       = "update_lead"
	CapabilityDeleteLead       = "delete_lead"
	CapabilityListLeads        = "list_leads"
	CapabilityUploadDocument   = "upload_document"
	CapabilityGetDocument      = "get_document"
	CapabilityListDocuments    = "list_documents"
	CapabilityDeleteDocument   = "delete_document"
	CapabilitySaveCallMetadata = "save_call_metadata"
	CapabilityGetCallRecording = "get_call_recording"
	CapabilityUpdateCallNotes  = "update_call_notes"
)

// AllCapabilities lists every capability the contract tests know about.
var AllCapabilities = []string{
	CapabilityGetLead,
	CapabilityCreateLead,
	CapabilityUpdateLead,
	CapabilityDeleteLead,
	CapabilityListLeads,
	CapabilityUploadDocument,
	CapabilityGetDocument,
	CapabilityListDocuments,
	CapabilityDeleteDocument,
	CapabilitySaveCallMetadata,
	CapabilityGetCallRecording,
	CapabilityUpdateCallNotes,
}

// StatusRep is the body of the service's status resource.
type StatusRep struct {
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// ErrorRep is the body of an error response. A 404 carrying an Error field is the legacy
// "not implemented" signal.
type ErrorRep struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

type LeadParams struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email" validate:"required,email"`
	Company   string `json:"company,omitempty"`
	ClaimType string `json:"claim_type,omitempty"`
	Status    string `json:"status,omitempty"`
	Source    string `json:"source,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// LeadUpdateParams is a partial update; empty fields are left unchanged.
type LeadUpdateParams struct {
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Company   string `json:"company,omitempty"`
	ClaimType string `json:"claim_type,omitempty"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// FileData describes a document being attached to a lead. Data is sent base64-encoded.
type FileData struct {
	Filename    string              `json:"filename" validate:"required"`
	ContentType string              `json:"content_type" validate:"required"`
	Size        ldvalue.OptionalInt `json:"size,omitempty"`
	Data        []byte              `json:"data,omitempty"`
}

type CallMetadataParams struct {
	ContactID   string              `json:"contact_id" validate:"required"`
	AgentID     string              `json:"agent_id" validate:"required"`
	LeadID      string              `json:"lead_id" validate:"required"`
	Timestamp   string              `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Duration    ldvalue.OptionalInt `json:"duration,omitempty"`
	CallType    string              `json:"call_type,omitempty" validate:"omitempty,oneof=inbound outbound"`
	Disposition string              `json:"disposition,omitempty"`
}

type CallNotesParams struct {
	Notes string `json:"notes"`
}
