package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/claimconnectors/crm-contract-tests/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
)

const (
	colorAuto   = "auto"
	colorAlways = "always"
	colorNever  = "never"
)

type commandParams struct {
	serviceURL       string
	filters          framework.RegexFilters
	manifestPath     string
	requestTimeout   time.Duration
	stopServiceAtEnd bool
	debug            bool
	debugAll         bool
	colorMode        string
	metricsFile      string
}

func (c *commandParams) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.serviceURL, "url", "", "CRM service URL; if omitted, every operation is reported as not implemented")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.StringVar(&c.manifestPath, "manifest", "", "YAML capability manifest, used if the service does not declare capabilities")
	fs.DurationVar(&c.requestTimeout, "timeout", defaultRequestTimeout, "timeout for each request to the CRM service")
	fs.BoolVar(&c.stopServiceAtEnd, "stop-service-at-end", false, "tell the CRM service to exit after the test run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.StringVar(&c.colorMode, "color", colorAuto, "colored output: auto, always, or never")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "write results in Prometheus text format to this file")
}

func (c *commandParams) validate() error {
	switch c.colorMode {
	case colorAuto, colorAlways, colorNever:
	default:
		return fmt.Errorf("invalid --color value %q: must be auto, always, or never", c.colorMode)
	}
	if c.requestTimeout <= 0 {
		return fmt.Errorf("--timeout must be positive, got %s", c.requestTimeout)
	}
	if c.stopServiceAtEnd && c.serviceURL == "" {
		return fmt.Errorf("--stop-service-at-end requires --url")
	}
	return nil
}

// rerunCommand builds a command line that runs only the given tests, with the same target and
// output options as this run.
func (c *commandParams) rerunCommand(program string, tests []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	if c.serviceURL != "" {
		b.add("--url", c.serviceURL)
	}
	if c.manifestPath != "" {
		b.add("--manifest", c.manifestPath)
	}
	if c.requestTimeout != defaultRequestTimeout {
		b.add("--timeout", c.requestTimeout.String())
	}
	for _, t := range tests {
		b.add("--run", framework.ExactTestPattern(t.TestID))
	}
	if c.debugAll {
		b.add("--debug-all")
	} else {
		b.add("--debug")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
