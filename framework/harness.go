package framework

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestServiceInfo is status information returned by the CRM service from the initial status query.
type TestServiceInfo struct {
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// TestHarness holds the connection to the CRM service under test.
type TestHarness struct {
	serviceBaseURL  string
	testServiceInfo TestServiceInfo
	httpClient      *http.Client
	logger          Logger
}

// NewTestHarness creates a TestHarness instance, and verifies that the CRM service is responding
// by querying its status resource. The query is retried until statusQueryTimeout elapses, so the
// harness can be started at the same time as the service.
func NewTestHarness(
	serviceBaseURL string,
	statusQueryTimeout time.Duration,
	requestTimeout time.Duration,
	debugLogger Logger,
	startupOutput io.Writer,
) (*TestHarness, error) {
	if debugLogger == nil {
		debugLogger = NullLogger()
	}
	if startupOutput == nil {
		startupOutput = io.Discard
	}

	h := &TestHarness{
		serviceBaseURL: strings.TrimSuffix(serviceBaseURL, "/"),
		httpClient:     &http.Client{Timeout: requestTimeout},
		logger:         debugLogger,
	}

	info, err := h.queryTestServiceInfo(statusQueryTimeout, startupOutput)
	if err != nil {
		return nil, err
	}
	h.testServiceInfo = info
	return h, nil
}

func (h *TestHarness) ServiceBaseURL() string {
	return h.serviceBaseURL
}

func (h *TestHarness) HTTPClient() *http.Client {
	return h.httpClient
}

func (h *TestHarness) Logger() Logger {
	return h.logger
}

func (h *TestHarness) TestServiceInfo() TestServiceInfo {
	return h.testServiceInfo
}

// DeclaresCapabilities is true if the service's status resource listed any capabilities at all.
func (h *TestHarness) DeclaresCapabilities() bool {
	return len(h.testServiceInfo.Capabilities) != 0
}

func (h *TestHarness) TestServiceHasCapability(desired string) bool {
	for _, capability := range h.testServiceInfo.Capabilities {
		if capability == desired {
			return true
		}
	}
	return false
}

// MissingCapabilities returns the members of all that the service did not declare. It returns
// nil if the service declared no capabilities, since then nothing is known either way.
func (h *TestHarness) MissingCapabilities(all []string) []string {
	if !h.DeclaresCapabilities() {
		return nil
	}
	var missing []string
	for _, c := range all {
		if !h.TestServiceHasCapability(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

func (h *TestHarness) queryTestServiceInfo(timeout time.Duration, output io.Writer) (TestServiceInfo, error) {
	fmt.Fprintf(output, "Connecting to CRM service at %s", h.serviceBaseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := h.httpClient.Get(h.serviceBaseURL + "/")
		if err == nil {
			fmt.Fprintln(output)
			respData, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return TestServiceInfo{}, fmt.Errorf("CRM service returned status code %d", resp.StatusCode)
			}
			if readErr != nil {
				return TestServiceInfo{}, readErr
			}
			if len(respData) == 0 {
				fmt.Fprintf(output, "Status query successful, but service provided no metadata\n")
				return TestServiceInfo{}, nil
			}
			fmt.Fprintf(output, "Status query returned metadata: %s\n", string(respData))
			var info TestServiceInfo
			if err := json.Unmarshal(respData, &info); err != nil {
				return TestServiceInfo{}, fmt.Errorf("malformed status response from CRM service: %s", string(respData))
			}
			return info, nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return TestServiceInfo{}, fmt.Errorf("timed out, result of last query was: %w", err)
		}
		h.logger.Printf("Status query failed, will retry: %s", err)
		time.Sleep(time.Millisecond * 100)
	}
}

// StopService tells the CRM service that it should exit.
func (h *TestHarness) StopService() error {
	req, err := http.NewRequest(http.MethodDelete, h.serviceBaseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := h.httpClient.Do(req)
	if err == nil {
		_ = resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("service returned HTTP %d", resp.StatusCode)
		}
	}
	// It's normal for the request to return an I/O error if the service immediately quit before sending a response
	return nil
}
