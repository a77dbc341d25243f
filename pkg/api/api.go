// Package api implements the REST transport for the Microsoft Graph
// endpoints used by this library. It carries no command logic: URL
// resolution, auth headers, JSON envelope decoding and status mapping
// happen here, everything else lives in the root package and the CLI.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	msgraph "github.com/jhoneill/MSGraphAPI"
	"github.com/jhoneill/MSGraphAPI/internal/logging"
)

// DefaultBaseURL is the Graph v1.0 endpoint.
const DefaultBaseURL = "https://graph.microsoft.com/v1.0"

// API endpoints, relative to the base URL.
const (
	epNotebooks         = "/me/onenote/notebooks"
	epSections          = "/me/onenote/sections"
	epPages             = "/me/onenote/pages"
	epServicePrincipals = "/servicePrincipals"
	epPlans             = "/planner/plans"
	epTasks             = "/planner/tasks"
)

// Client represents the ReST API for the Microsoft Graph service.
//
// Requests are synchronous and strictly sequential; the client keeps no
// mutable state between calls beyond the immutable configuration set at
// construction time.
type Client struct {
	base   string
	token  string
	client *http.Client

	// DefaultSection is the section used when a page operation is
	// invoked without an explicit target. It is a URL or a display
	// name, injected from configuration at the boundary.
	DefaultSection string
}

// NewClient sets up an API client with the given base URL and bearer
// token. An empty base selects the public Graph v1.0 endpoint.
func NewClient(base, token string) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		base:   strings.TrimRight(base, "/"),
		token:  token,
		client: &http.Client{},
	}
}

// resolverFor returns a resolver whose base collection matches the
// capability, so that display-name handles filter the right collection.
func (c *Client) resolverFor(cap msgraph.Capability) msgraph.Resolver {
	switch cap {
	case msgraph.NotebookSections:
		return msgraph.Resolver{Base: c.base + epSections}
	default:
		// pages collections filter on the title field
		return msgraph.Resolver{Base: c.base + epPages, NameField: "title"}
	}
}

// reqOption mutates a request before it is sent.
type reqOption func(*http.Request)

// withConsistency adds the header the directory endpoints require for
// advanced filter expressions.
func withConsistency() reqOption {
	return func(req *http.Request) {
		req.Header.Set("ConsistencyLevel", "eventual")
	}
}

// do sends a request with an optional JSON payload and decodes the JSON
// response into dst (when dst is non-nil).
func (c *Client) do(method, path, query string, payload, dst interface{}, opts ...reqOption) error {
	var body []byte
	contentType := ""
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("could not encode request payload: %v", err)
		}
		contentType = "application/json"
	}

	data, err := c.doRaw(method, path, query, contentType, body, opts...)
	if err != nil {
		return err
	}

	if dst != nil && len(data) != 0 {
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("failed to read API response: %v", err)
		}
	}
	return nil
}

// doRaw sends a request with a preassembled body and returns the raw
// response body. This is the single seam every operation goes through.
func (c *Client) doRaw(method, path, query, contentType string, body []byte, opts ...reqOption) ([]byte, error) {
	url := c.resolveURL(path, query)
	logging.Debug("API %v %v", method, url)

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		return nil, fmt.Errorf("could not prepare API request: %v", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(c.token))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "msgraphapi")
	req.Header.Set("client-request-id", uuid.New().String())

	for _, opt := range opts {
		opt(req)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer res.Body.Close()
	// must read body to end, see https://golang.org/pkg/net/http/#Client.Do
	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	logging.Debug("API request %v %v returned status %v", req.Method, req.URL, res.StatusCode)

	if err := expectSuccess(res, "graph request failed"); err != nil {
		return nil, err
	}
	return data, nil
}

// expectSuccess accepts any 2xx status and maps everything else through
// the shared status-to-error rules.
func expectSuccess(res *http.Response, msg string) error {
	if res.StatusCode >= 200 && res.StatusCode < 300 {
		return nil
	}
	return msgraph.ExpectStatus(res, http.StatusOK, msg)
}

// resolveURL joins a path with the base URL unless the path is already
// absolute, and appends the query fragment.
func (c *Client) resolveURL(path, query string) string {
	url := path
	if !strings.Contains(path, "://") {
		url = c.base + path
	}
	if query != "" {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		// filter expressions contain spaces, everything else in a
		// Graph query is URL-safe already
		url = url + sep + strings.ReplaceAll(query, " ", "%20")
	}
	return url
}

// listResponse is the envelope Graph wraps collections in. The
// @odata bookkeeping fields are consumed here and never surface in
// result entities.
type listResponse struct {
	Value    json.RawMessage `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// list fetches a collection, following @odata.nextLink pages, and calls
// decode once per response page with the raw value array.
func (c *Client) list(path, query string, decode func(raw json.RawMessage) error, opts ...reqOption) error {
	url := path
	for url != "" {
		var env listResponse
		if err := c.do("GET", url, query, nil, &env, opts...); err != nil {
			return err
		}
		if len(env.Value) != 0 {
			if err := decode(env.Value); err != nil {
				return fmt.Errorf("failed to read API response: %v", err)
			}
		}
		// the next link is absolute and carries the query already
		url = env.NextLink
		query = ""
	}
	return nil
}
