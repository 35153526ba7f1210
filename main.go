package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/claimconnectors/crm-contract-tests/crmapi"
	"github.com/claimconnectors/crm-contract-tests/crmclient"
	"github.com/claimconnectors/crm-contract-tests/crmtests"
	"github.com/claimconnectors/crm-contract-tests/framework"
	"github.com/claimconnectors/crm-contract-tests/manifest"
	"github.com/claimconnectors/crm-contract-tests/servicedef"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	statusQueryTimeout    = time.Second * 10
	defaultRequestTimeout = time.Second * 5
)

func main() {
	os.Exit(execute(os.Args, os.Stdout, os.Stderr))
}

// execute runs the command and returns the process exit status: the number of failed or errored
// tests, or 1 if the run could not be set up.
func execute(args []string, stdout, stderr io.Writer) int {
	var params commandParams
	exitCode := 0

	cmd := &cobra.Command{
		Use:           filepath.Base(args[0]),
		Short:         "Contract tests for the Claim Connectors CRM backend",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := params.validate(); err != nil {
				return err
			}
			code, err := runTests(cmd.Context(), &params, args[0], stdout)
			exitCode = code
			return err
		},
	}
	params.addFlags(cmd.Flags())
	cmd.SetArgs(args[1:])
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return exitCode
}

func runTests(ctx context.Context, params *commandParams, program string, out io.Writer) (int, error) {
	level := os.Getenv("LOG_LEVEL")
	if level == "" && params.debugAll {
		level = "DEBUG"
	}
	logger, err := framework.NewLogger(level)
	if err != nil {
		return 1, fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	configureColor(params.colorMode, out)

	var harness *framework.TestHarness
	backend := crmapi.NotImplemented()
	if params.serviceURL != "" {
		debugLogger := framework.NullLogger()
		if params.debugAll {
			debugLogger = framework.LoggerWithPrefix(framework.ZapLogger(logger), "[crm] ")
		}
		harness, err = framework.NewTestHarness(
			params.serviceURL,
			statusQueryTimeout,
			params.requestTimeout,
			debugLogger,
			out,
		)
		if err != nil {
			return 1, fmt.Errorf("CRM service error: %w", err)
		}
		backend = crmclient.New(harness, nil).Backend()
	} else {
		logger.Info("no --url given; every operation will be reported as not implemented")
	}

	declared, source, err := declaredCapabilities(harness, params.manifestPath, backend)
	if err != nil {
		return 1, err
	}
	logger.Debug("capabilities resolved", zap.String("source", source), zap.Strings("capabilities", declared))

	fmt.Fprintln(out)
	var missing []string
	if harness != nil {
		missing = harness.MissingCapabilities(servicedef.AllCapabilities)
	}
	framework.PrintFilterDescription(out, params.filters, missing)

	framework.PrintBanner(out, "RUNNING TESTS", color.New(color.FgGreen, color.Bold))
	fmt.Fprintln(out)

	testLogger := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := crmtests.RunTestSuite(ctx, backend, params.filters.AsFilter, testLogger)

	framework.PrintBanner(out, "IMPLEMENTATION STATUS CHECK", framework.TitleColor)
	manifest.Print(out, manifest.Build(declared))

	framework.PrintResults(out, results)

	if !results.OK() {
		notPassed := append(append([]framework.TestResult(nil), results.Failures...), results.Errors...)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "To run only the tests that did not pass:")
		fmt.Fprintf(out, "  %s\n", params.rerunCommand(program, notPassed))
	}

	if params.metricsFile != "" {
		if err := framework.WriteResultsMetrics(params.metricsFile, results); err != nil {
			logger.Error("could not write metrics file", zap.String("file", params.metricsFile), zap.Error(err))
		}
	}

	if params.stopServiceAtEnd && harness != nil {
		fmt.Fprintln(out, "Stopping CRM service")
		if err := harness.StopService(); err != nil {
			logger.Warn("CRM service did not stop cleanly", zap.Error(err))
		}
	}

	return results.ExitCode(), nil
}

// declaredCapabilities decides which capabilities count as implemented in the status checklist.
// The service's own declaration wins, then the manifest file, then whatever an in-process backend
// reports. A manifest file that cannot be read is an error even when it would not be used.
func declaredCapabilities(
	harness *framework.TestHarness,
	manifestPath string,
	backend crmapi.Backend,
) ([]string, string, error) {
	var fromFile []string
	if manifestPath != "" {
		f, err := manifest.LoadFile(manifestPath)
		if err != nil {
			return nil, "", err
		}
		fromFile = f.Capabilities
	}

	switch {
	case harness != nil && harness.DeclaresCapabilities():
		return harness.TestServiceInfo().Capabilities, "service status", nil
	case manifestPath != "":
		return fromFile, manifestPath, nil
	}
	if reporter, ok := backend.Leads.(crmapi.CapabilityReporter); ok {
		return reporter.Capabilities(), "backend", nil
	}
	return nil, "none", nil
}

func configureColor(mode string, out io.Writer) {
	switch mode {
	case colorAlways:
		color.NoColor = false
	case colorNever:
		color.NoColor = true
	default:
		f, ok := out.(*os.File)
		color.NoColor = !ok || os.Getenv("TERM") == "dumb" ||
			(!isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()))
	}
}
