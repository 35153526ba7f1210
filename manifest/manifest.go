// Package manifest builds the implementation-status checklist from a declared list of
// capabilities. Capabilities can come from the CRM service's status resource, from a YAML
// manifest file, or from an in-process backend.
package manifest

import (
	"fmt"
	"os"

	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"gopkg.in/yaml.v3"
)

// Area is a functional area and the functions it is expected to provide.
type Area struct {
	Name      string
	Functions []string
}

// Areas is the checklist of expected functions, in display order.
var Areas = []Area{
	{
		Name: "Lead Management",
		Functions: []string{
			servicedef.CapabilityGetLead,
			servicedef.CapabilityCreateLead,
			servicedef.CapabilityUpdateLead,
			servicedef.CapabilityDeleteLead,
		},
	},
	{
		Name: "Document Management",
		Functions: []string{
			servicedef.CapabilityUploadDocument,
			servicedef.CapabilityGetDocument,
			servicedef.CapabilityListDocuments,
		},
	},
	{
		Name: "Connect Integration",
		Functions: []string{
			servicedef.CapabilitySaveCallMetadata,
			servicedef.CapabilityGetCallRecording,
		},
	},
}

type Entry struct {
	Function    string
	Implemented bool
}

type AreaStatus struct {
	Name    string
	Entries []Entry
}

// Checklist is the implementation status of every function in Areas.
type Checklist []AreaStatus

// Build marks each expected function as implemented if it appears in declared.
func Build(declared []string) Checklist {
	have := make(map[string]bool, len(declared))
	for _, d := range declared {
		have[d] = true
	}
	checklist := make(Checklist, 0, len(Areas))
	for _, area := range Areas {
		status := AreaStatus{Name: area.Name}
		for _, f := range area.Functions {
			status.Entries = append(status.Entries, Entry{Function: f, Implemented: have[f]})
		}
		checklist = append(checklist, status)
	}
	return checklist
}

// Counts returns the number of implemented functions and the number of expected functions.
func (c Checklist) Counts() (implemented, total int) {
	for _, area := range c {
		for _, e := range area.Entries {
			total++
			if e.Implemented {
				implemented++
			}
		}
	}
	return implemented, total
}

// File is the format of a capability manifest file.
type File struct {
	Description  string   `yaml:"description"`
	Capabilities []string `yaml:"capabilities"`
}

// LoadFile reads a capability manifest. Unknown capability names are rejected, so that a typo
// does not silently show up as "not implemented".
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("reading capability manifest: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parsing capability manifest %s: %w", path, err)
	}
	known := make(map[string]bool, len(servicedef.AllCapabilities))
	for _, c := range servicedef.AllCapabilities {
		known[c] = true
	}
	for _, c := range f.Capabilities {
		if !known[c] {
			return File{}, fmt.Errorf("capability manifest %s: unknown capability %q", path, c)
		}
	}
	return f, nil
}
