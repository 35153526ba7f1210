package fakecrm

import (
	"strings"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// JSON representations of the fake service's records.

type contactInfoRep struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type leadRep struct {
	LeadID      string         `json:"lead_id"`
	FirstName   string         `json:"first_name"`
	LastName    string         `json:"last_name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone,omitempty"`
	Company     string         `json:"company,omitempty"`
	ClaimType   string         `json:"claim_type,omitempty"`
	Status      string         `json:"status"`
	Source      string         `json:"source,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	ContactInfo contactInfoRep `json:"contact_info"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
}

type leadListRep struct {
	Leads []leadRep `json:"leads"`
	Total int       `json:"total"`
}

type documentRep struct {
	DocumentID  string              `json:"document_id"`
	LeadID      string              `json:"lead_id"`
	Filename    string              `json:"filename"`
	ContentType string              `json:"content_type"`
	Size        ldvalue.OptionalInt `json:"size"`
	UploadDate  string              `json:"upload_date"`
	UploadURL   string              `json:"upload_url"`
	DownloadURL string              `json:"download_url"`
}

type documentListRep struct {
	Documents []documentRep `json:"documents"`
	Total     int           `json:"total"`
}

type callRep struct {
	CallID      string              `json:"call_id"`
	ContactID   string              `json:"contact_id"`
	AgentID     string              `json:"agent_id"`
	LeadID      string              `json:"lead_id"`
	Timestamp   string              `json:"timestamp,omitempty"`
	Duration    ldvalue.OptionalInt `json:"duration"`
	CallType    string              `json:"call_type,omitempty"`
	Disposition string              `json:"disposition,omitempty"`
	Notes       string              `json:"notes,omitempty"`
	SavedAt     string              `json:"saved_at"`
}

type recordingRep struct {
	CallID       string `json:"call_id"`
	RecordingURL string `json:"recording_url"`
	Expiration   string `json:"expiration"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func makeLeadRep(l Lead) leadRep {
	p := l.Params
	return leadRep{
		LeadID:      l.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		Company:     p.Company,
		ClaimType:   p.ClaimType,
		Status:      p.Status,
		Source:      p.Source,
		Notes:       p.Notes,
		ContactInfo: contactInfoRep{Email: p.Email, Phone: p.Phone},
		CreatedAt:   formatTime(l.CreatedAt),
		UpdatedAt:   formatTime(l.UpdatedAt),
	}
}

func makeDocumentRep(d Document, storageBaseURL string) documentRep {
	base := strings.TrimSuffix(storageBaseURL, "/")
	return documentRep{
		DocumentID:  d.ID,
		LeadID:      d.LeadID,
		Filename:    d.File.Filename,
		ContentType: d.File.ContentType,
		Size:        d.File.Size,
		UploadDate:  formatTime(d.UploadedAt),
		UploadURL:   base + "/upload/" + d.ID,
		DownloadURL: base + "/download/" + d.ID,
	}
}

func makeCallRep(c Call) callRep {
	m := c.Metadata
	return callRep{
		CallID:      c.ID,
		ContactID:   m.ContactID,
		AgentID:     m.AgentID,
		LeadID:      m.LeadID,
		Timestamp:   m.Timestamp,
		Duration:    m.Duration,
		CallType:    m.CallType,
		Disposition: m.Disposition,
		Notes:       c.Notes,
		SavedAt:     formatTime(c.SavedAt),
	}
}
