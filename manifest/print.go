package manifest

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	implementedLabel    = color.New(color.FgGreen).SprintFunc()
	notImplementedLabel = color.New(color.FgRed).SprintFunc()
)

func Print(w io.Writer, checklist Checklist) {
	fmt.Fprintln(w, "\nBackend API Implementation:")
	for _, area := range checklist {
		fmt.Fprintf(w, "\n%s:\n", area.Name)
		for _, e := range area.Entries {
			status := notImplementedLabel("✗ Not implemented")
			if e.Implemented {
				status = implementedLabel("✓ Implemented")
			}
			fmt.Fprintf(w, "  - %s: %s\n", e.Function, status)
		}
	}
	implemented, total := checklist.Counts()
	fmt.Fprintf(w, "\nImplemented: %d/%d functions\n", implemented, total)
}
