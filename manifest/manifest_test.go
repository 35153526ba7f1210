package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBuildWithNothingDeclared(t *testing.T) {
	checklist := Build(nil)

	implemented, total := checklist.Counts()
	assert.Equal(t, 0, implemented)
	assert.Equal(t, 9, total)
}

func TestBuildMarksDeclaredFunctions(t *testing.T) {
	checklist := Build([]string{
		servicedef.CapabilityGetLead,
		servicedef.CapabilityListDocuments,
		servicedef.CapabilityUpdateCallNotes, // not part of the checklist
	})

	expected := Checklist{
		{Name: "Lead Management", Entries: []Entry{
			{Function: "get_lead", Implemented: true},
			{Function: "create_lead"},
			{Function: "update_lead"},
			{Function: "delete_lead"},
		}},
		{Name: "Document Management", Entries: []Entry{
			{Function: "upload_document"},
			{Function: "get_document"},
			{Function: "list_documents", Implemented: true},
		}},
		{Name: "Connect Integration", Entries: []Entry{
			{Function: "save_call_metadata"},
			{Function: "get_call_recording"},
		}},
	}
	if diff := cmp.Diff(expected, checklist); diff != "" {
		t.Errorf("checklist mismatch (-want +got):\n%s", diff)
	}
	implemented, _ := checklist.Counts()
	assert.Equal(t, 2, implemented)
}

func TestPrint(t *testing.T) {
	saved := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = saved }()
	var buf bytes.Buffer

	Print(&buf, Build([]string{servicedef.CapabilitySaveCallMetadata}))

	expected := `
Backend API Implementation:

Lead Management:
  - get_lead: ✗ Not implemented
  - create_lead: ✗ Not implemented
  - update_lead: ✗ Not implemented
  - delete_lead: ✗ Not implemented

Document Management:
  - upload_document: ✗ Not implemented
  - get_document: ✗ Not implemented
  - list_documents: ✗ Not implemented

Connect Integration:
  - save_call_metadata: ✓ Implemented
  - get_call_recording: ✗ Not implemented

Implemented: 1/9 functions
`
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func writeManifest(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "capabilities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeManifest(t, "description: sprint 3\ncapabilities:\n  - get_lead\n  - upload_document\n")

	f, err := LoadFile(path)

	require.NoError(t, err)
	assert.Equal(t, File{Description: "sprint 3", Capabilities: []string{"get_lead", "upload_document"}}, f)
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeManifest(t, "capabilities: {get_lead: true}\n"))
	assert.Error(t, err)

	_, err = LoadFile(writeManifest(t, "capabilities: [get_leads]\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown capability "get_leads"`)
}
