// Package crmclient implements the crmapi services by calling a CRM backend over HTTP.
package crmclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/claimconnectors/crm-contract-tests/crmapi"
	"github.com/claimconnectors/crm-contract-tests/framework"
	"github.com/claimconnectors/crm-contract-tests/servicedef"
)

// Client talks to the CRM service that the TestHarness is connected to.
//
// If the service declared its capabilities, an operation it did not declare returns
// crmapi.ErrNotImplemented without a request being made. A 501 response also maps to
// crmapi.ErrNotImplemented. Every other response, including a 404, is returned as is.
//
// Requests and responses are logged to the debug logger carried by the call's context, if any,
// and otherwise to the client's own logger.
type Client struct {
	harness *framework.TestHarness
	logger  framework.Logger
}

func New(harness *framework.TestHarness, logger framework.Logger) *Client {
	if logger == nil {
		logger = harness.Logger()
	}
	return &Client{harness: harness, logger: logger}
}

// Backend returns a crmapi.Backend whose services are all this client.
func (c *Client) Backend() crmapi.Backend {
	return crmapi.Backend{Leads: c, Documents: c, Calls: c}
}

func (c *Client) Capabilities() []string {
	return append([]string(nil), c.harness.TestServiceInfo().Capabilities...)
}

func (c *Client) GetLead(ctx context.Context, leadID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityGetLead, http.MethodGet, "/leads/"+url.PathEscape(leadID), nil)
}

func (c *Client) CreateLead(ctx context.Context, lead servicedef.LeadParams) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityCreateLead, http.MethodPost, "/leads", lead)
}

func (c *Client) UpdateLead(ctx context.Context, leadID string, update servicedef.LeadUpdateParams) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityUpdateLead, http.MethodPut, "/leads/"+url.PathEscape(leadID), update)
}

func (c *Client) DeleteLead(ctx context.Context, leadID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityDeleteLead, http.MethodDelete, "/leads/"+url.PathEscape(leadID), nil)
}

func (c *Client) ListLeads(ctx context.Context) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityListLeads, http.MethodGet, "/leads", nil)
}

func (c *Client) UploadDocument(ctx context.Context, leadID string, file servicedef.FileData) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityUploadDocument, http.MethodPost,
		"/leads/"+url.PathEscape(leadID)+"/documents", file)
}

func (c *Client) GetDocument(ctx context.Context, documentID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityGetDocument, http.MethodGet, "/documents/"+url.PathEscape(documentID), nil)
}

func (c *Client) ListDocuments(ctx context.Context, leadID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityListDocuments, http.MethodGet,
		"/leads/"+url.PathEscape(leadID)+"/documents", nil)
}

func (c *Client) DeleteDocument(ctx context.Context, documentID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityDeleteDocument, http.MethodDelete,
		"/documents/"+url.PathEscape(documentID), nil)
}

func (c *Client) SaveCallMetadata(ctx context.Context, call servicedef.CallMetadataParams) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilitySaveCallMetadata, http.MethodPost, "/calls", call)
}

func (c *Client) GetCallRecording(ctx context.Context, callID string) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityGetCallRecording, http.MethodGet,
		"/calls/"+url.PathEscape(callID)+"/recording", nil)
}

func (c *Client) UpdateCallNotes(ctx context.Context, callID string, notes servicedef.CallNotesParams) (crmapi.Response, error) {
	return c.do(ctx, servicedef.CapabilityUpdateCallNotes, http.MethodPut,
		"/calls/"+url.PathEscape(callID)+"/notes", notes)
}

func (c *Client) do(
	ctx context.Context,
	capability string,
	method string,
	path string,
	params interface{},
) (crmapi.Response, error) {
	logger := framework.DebugLoggerFromContext(ctx, c.logger)
	if c.harness.DeclaresCapabilities() && !c.harness.TestServiceHasCapability(capability) {
		logger.Printf("Not calling %s: service does not declare capability %q", path, capability)
		return crmapi.Response{}, crmapi.ErrNotImplemented
	}

	var body io.Reader
	var data []byte
	if params != nil {
		var err error
		if data, err = json.Marshal(params); err != nil {
			return crmapi.Response{}, err
		}
		body = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.harness.ServiceBaseURL()+path, body)
	if err != nil {
		return crmapi.Response{}, err
	}
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
		logger.Printf("%s %s %s", method, path, string(data))
	} else {
		logger.Printf("%s %s", method, path)
	}

	resp, err := c.harness.HTTPClient().Do(req)
	if err != nil {
		return crmapi.Response{}, fmt.Errorf("%s request failed: %w", capability, err)
	}
	defer func() { _ = resp.Body.Close() }()
	respData, err := io.ReadAll(resp.Body)
	if err != nil {
		return crmapi.Response{}, fmt.Errorf("error reading %s response body: %w", capability, err)
	}
	logger.Printf("Response: HTTP %d %s", resp.StatusCode, string(respData))

	result := crmapi.Response{StatusCode: resp.StatusCode, Body: respData}
	if resp.StatusCode == http.StatusNotImplemented {
		return result, crmapi.ErrNotImplemented
	}
	return result, nil
}
