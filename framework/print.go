package framework

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

const bannerWidth = 80

var (
	bannerRule = strings.Repeat("=", bannerWidth)

	// These are shared with the console test logger in package main.
	PassColor  = color.New(color.FgGreen)
	FailColor  = color.New(color.FgRed)
	SkipColor  = color.New(color.FgYellow)
	TitleColor = color.New(color.FgCyan, color.Bold)
)

// PrintBanner prints a section title between two horizontal rules.
func PrintBanner(w io.Writer, title string, c *color.Color) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, c.Sprint(title))
	fmt.Fprintln(w, bannerRule)
}

// PrintResults prints the test summary, the implementation progress, the list of tests that
// did not pass, and guidance on what to do next.
func PrintResults(w io.Writer, results Results) {
	PrintBanner(w, "TEST SUMMARY", color.New(color.FgYellow, color.Bold))

	fmt.Fprintf(w, "\nTotal tests: %d\n", results.Total())
	fmt.Fprintf(w, "Passed: %s\n", PassColor.Sprint(results.Passed()))
	fmt.Fprintf(w, "Failed: %s\n", FailColor.Sprint(len(results.Failures)))
	fmt.Fprintf(w, "Errors: %s\n", FailColor.Sprint(len(results.Errors)))
	fmt.Fprintf(w, "Skipped: %s (Not implemented yet)\n", SkipColor.Sprint(len(results.Skipped)))

	if progress, ok := results.ImplementationProgress(); ok {
		fmt.Fprintf(w, "\nImplementation progress: %.1f%%\n", progress)
	}

	if len(results.Failures) > 0 || len(results.Errors) > 0 {
		fmt.Fprintln(w)
		for _, f := range results.Failures {
			fmt.Fprintf(w, "  %s %s\n", FailColor.Sprint("FAILED:"), f.TestID)
		}
		for _, e := range results.Errors {
			fmt.Fprintf(w, "  %s %s\n", FailColor.Sprint("ERROR:"), e.TestID)
		}
	}

	PrintBanner(w, "NEXT STEPS", TitleColor)
	for _, line := range NextSteps(results) {
		fmt.Fprintln(w, line)
	}
}

// NextSteps returns the guidance text for the end of a run. The first line is blank.
func NextSteps(results Results) []string {
	switch {
	case len(results.Failures) > 0 || len(results.Errors) > 0:
		return []string{
			"",
			"1. Fix failing tests before proceeding",
			"2. Implement skipped functionality",
		}
	case len(results.Skipped) > 0:
		return []string{
			"",
			"1. Implement missing functionality",
			"2. Run tests again to verify implementation",
		}
	default:
		return []string{
			"",
			"All tests passing! You can proceed to the next development phase.",
		}
	}
}
