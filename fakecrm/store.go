package fakecrm

import (
	"sort"
	"sync"
	"time"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// IDs of the records every new Store starts with. The contract tests read and modify these.
const (
	SeedLeadID     = "12345"
	SeedDocumentID = "doc-12345"
	SeedCallID     = "call-12345"
)

type Lead struct {
	ID        string
	Params    servicedef.LeadParams
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Document struct {
	ID         string
	LeadID     string
	File       servicedef.FileData
	UploadedAt time.Time
}

type Call struct {
	ID       string
	Metadata servicedef.CallMetadataParams
	Notes    string
	SavedAt  time.Time
}

// Store holds the fake service's records in memory. It does not check references between
// records: a document can be attached to a lead ID that does not exist.
type Store struct {
	lock      sync.Mutex
	leads     map[string]*Lead
	documents map[string]*Document
	calls     map[string]*Call
	now       func() time.Time
	newID     func() string
}

// NewStore returns a Store containing the seed records. If now is nil, time.Now is used.
func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{
		leads:     make(map[string]*Lead),
		documents: make(map[string]*Document),
		calls:     make(map[string]*Call),
		now:       now,
		newID:     func() string { return uuid.New().String() },
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	t := s.now().UTC()
	s.leads[SeedLeadID] = &Lead{
		ID: SeedLeadID,
		Params: servicedef.LeadParams{
			FirstName: "Jane",
			LastName:  "Roe",
			Phone:     "555-987-6543",
			Email:     "jane.roe@example.com",
			ClaimType: "home",
			Status:    "new",
			Source:    "web",
		},
		CreatedAt: t,
		UpdatedAt: t,
	}
	s.documents[SeedDocumentID] = &Document{
		ID:     SeedDocumentID,
		LeadID: SeedLeadID,
		File: servicedef.FileData{
			Filename:    "policy.pdf",
			ContentType: "application/pdf",
		},
		UploadedAt: t,
	}
	s.calls[SeedCallID] = &Call{
		ID: SeedCallID,
		Metadata: servicedef.CallMetadataParams{
			ContactID: "contact-1",
			AgentID:   "agent-1",
			LeadID:    SeedLeadID,
			CallType:  "inbound",
		},
		SavedAt: t,
	}
}

func (s *Store) GetLead(id string) (Lead, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return Lead{}, false
	}
	return *l, true
}

// CreateLead stores a new lead. A lead with no status gets the status "new".
func (s *Store) CreateLead(params servicedef.LeadParams) Lead {
	if params.Status == "" {
		params.Status = "new"
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	t := s.now().UTC()
	l := &Lead{ID: s.newID(), Params: params, CreatedAt: t, UpdatedAt: t}
	s.leads[l.ID] = l
	return *l
}

// UpdateLead applies the non-empty fields of update.
func (s *Store) UpdateLead(id string, update servicedef.LeadUpdateParams) (Lead, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	l, ok := s.leads[id]
	if !ok {
		return Lead{}, false
	}
	p := &l.Params
	setIfNotEmpty(&p.FirstName, update.FirstName)
	setIfNotEmpty(&p.LastName, update.LastName)
	setIfNotEmpty(&p.Phone, update.Phone)
	setIfNotEmpty(&p.Email, update.Email)
	setIfNotEmpty(&p.Company, update.Company)
	setIfNotEmpty(&p.ClaimType, update.ClaimType)
	setIfNotEmpty(&p.Status, update.Status)
	setIfNotEmpty(&p.Notes, update.Notes)
	l.UpdatedAt = s.now().UTC()
	return *l, true
}

func (s *Store) DeleteLead(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.leads[id]; !ok {
		return false
	}
	delete(s.leads, id)
	return true
}

// ListLeads returns all leads, oldest first.
func (s *Store) ListLeads() []Lead {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := make([]Lead, 0, len(s.leads))
	for _, l := range s.leads {
		ret = append(ret, *l)
	}
	sort.Slice(ret, func(i, j int) bool {
		if !ret[i].CreatedAt.Equal(ret[j].CreatedAt) {
			return ret[i].CreatedAt.Before(ret[j].CreatedAt)
		}
		return ret[i].ID < ret[j].ID
	})
	return ret
}

// AddDocument stores a document. If the file size was not given, it is the length of the data.
func (s *Store) AddDocument(leadID string, file servicedef.FileData) Document {
	if !file.Size.IsDefined() {
		file.Size = ldvalue.NewOptionalInt(len(file.Data))
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	d := &Document{ID: s.newID(), LeadID: leadID, File: file, UploadedAt: s.now().UTC()}
	s.documents[d.ID] = d
	return *d
}

func (s *Store) GetDocument(id string) (Document, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return Document{}, false
	}
	return *d, true
}

// ListDocuments returns the documents attached to a lead, oldest first.
func (s *Store) ListDocuments(leadID string) []Document {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := []Document{}
	for _, d := range s.documents {
		if d.LeadID == leadID {
			ret = append(ret, *d)
		}
	}
	sort.Slice(ret, func(i, j int) bool {
		if !ret[i].UploadedAt.Equal(ret[j].UploadedAt) {
			return ret[i].UploadedAt.Before(ret[j].UploadedAt)
		}
		return ret[i].ID < ret[j].ID
	})
	return ret
}

func (s *Store) DeleteDocument(id string) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.documents[id]; !ok {
		return false
	}
	delete(s.documents, id)
	return true
}

func (s *Store) SaveCall(metadata servicedef.CallMetadataParams) Call {
	s.lock.Lock()
	defer s.lock.Unlock()
	c := &Call{ID: s.newID(), Metadata: metadata, SavedAt: s.now().UTC()}
	s.calls[c.ID] = c
	return *c
}

func (s *Store) GetCall(id string) (Call, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return Call{}, false
	}
	return *c, true
}

func (s *Store) UpdateCallNotes(id, notes string) (Call, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	c, ok := s.calls[id]
	if !ok {
		return Call{}, false
	}
	c.Notes = notes
	return *c, true
}

// Now is the store's clock, used for timestamps in responses.
func (s *Store) Now() time.Time {
	return s.now()
}

func setIfNotEmpty(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}
