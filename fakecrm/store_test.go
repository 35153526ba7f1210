package fakecrm

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestStoreIsSeeded(t *testing.T) {
	s := NewStore(nil)

	_, ok := s.GetLead(SeedLeadID)
	assert.True(t, ok)
	_, ok = s.GetDocument(SeedDocumentID)
	assert.True(t, ok)
	_, ok = s.GetCall(SeedCallID)
	assert.True(t, ok)
}

func TestListLeadsIsOrderedByCreation(t *testing.T) {
	clock := fixedTime
	s := NewStore(func() time.Time { return clock })
	clock = clock.Add(time.Minute)
	second := s.CreateLead(servicedef.LeadParams{FirstName: "B"})
	clock = clock.Add(time.Minute)
	third := s.CreateLead(servicedef.LeadParams{FirstName: "C"})

	leads := s.ListLeads()

	require.Len(t, leads, 3)
	assert.Equal(t, []string{SeedLeadID, second.ID, third.ID}, []string{leads[0].ID, leads[1].ID, leads[2].ID})
}

func TestCreateLeadKeepsGivenStatus(t *testing.T) {
	s := NewStore(nil)

	l := s.CreateLead(servicedef.LeadParams{FirstName: "A", Status: "contacted"})

	assert.Equal(t, "contacted", l.Params.Status)
}

func TestUpdateMissingLead(t *testing.T) {
	s := NewStore(nil)

	_, ok := s.UpdateLead("missing", servicedef.LeadUpdateParams{Status: "x"})

	assert.False(t, ok)
}

func TestDocumentsDoNotRequireAnExistingLead(t *testing.T) {
	s := NewStore(nil)

	d := s.AddDocument("no-such-lead", servicedef.FileData{Filename: "a.pdf", Size: ldvalue.NewOptionalInt(5)})

	assert.Equal(t, 5, d.File.Size.IntValue())
	assert.Len(t, s.ListDocuments("no-such-lead"), 1)
}

func TestStoreIsSafeForConcurrentUse(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l := s.CreateLead(servicedef.LeadParams{FirstName: fmt.Sprint(i)})
			s.UpdateLead(l.ID, servicedef.LeadUpdateParams{Status: "qualified"})
			s.ListLeads()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.ListLeads(), 21)
}
