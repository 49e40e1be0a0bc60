// Package client is the HTTP harness for talking to the blog API service.
// It wraps the four operations of the CRUD contract and returns raw
// responses for the test suite to make assertions against. It performs no
// retries: any transport failure surfaces immediately.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/dermio/blog-contract-tests/framework"
	"github.com/dermio/blog-contract-tests/servicedef"
)

const postsPath = "/posts"
const startupPollInterval = time.Millisecond * 100

// APIResponse is the captured outcome of one request: status, headers, and
// the raw body.
type APIResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// JSONValue parses the response body as JSON. The suite uses the resulting
// ldvalue.Value for shape assertions such as exact key sets.
func (r *APIResponse) JSONValue() (ldvalue.Value, error) {
	var v ldvalue.Value
	if err := json.Unmarshal(r.Body, &v); err != nil {
		return ldvalue.Null(), fmt.Errorf("response body is not valid JSON: %w (body: %q)", err, string(r.Body))
	}
	return v, nil
}

// APIClient issues requests against a running blog API service.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

// NewAPIClient creates a client for the service at baseURL, and verifies
// that the service is responding by polling its posts resource until the
// startup timeout elapses.
func NewAPIClient(baseURL string, startupTimeout time.Duration, logger framework.Logger) (*APIClient, error) {
	if logger == nil {
		logger = framework.NullLogger()
	}
	c := &APIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		logger:     logger,
	}

	deadline := time.Now().Add(startupTimeout)
	for {
		c.logger.Printf("Querying %s%s to see if the service is up", baseURL, postsPath)
		resp, err := c.httpClient.Get(baseURL + postsPath)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return c, nil
			}
			err = fmt.Errorf("service returned status %d", resp.StatusCode)
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("timed out waiting for the API service at %s: %w", baseURL, err)
		}
		time.Sleep(startupPollInterval)
	}
}

// WithLogger returns a copy of the client that logs its requests to the
// given logger. The suite uses this to route request logging into each
// test's captured debug output.
func (c *APIClient) WithLogger(logger framework.Logger) *APIClient {
	if logger == nil {
		return c
	}
	copied := *c
	copied.logger = logger
	return &copied
}

// ListPosts performs GET /posts.
func (c *APIClient) ListPosts() (*APIResponse, error) {
	return c.do(http.MethodGet, postsPath, nil)
}

// CreatePost performs POST /posts with the given payload.
func (c *APIClient) CreatePost(submission servicedef.PostSubmission) (*APIResponse, error) {
	return c.do(http.MethodPost, postsPath, submission)
}

// UpdatePost performs PUT /posts/{id} with a full replacement payload.
func (c *APIClient) UpdatePost(id string, update servicedef.PostUpdate) (*APIResponse, error) {
	return c.do(http.MethodPut, postsPath+"/"+id, update)
}

// DeletePost performs DELETE /posts/{id}.
func (c *APIClient) DeletePost(id string) (*APIResponse, error) {
	return c.do(http.MethodDelete, postsPath+"/"+id, nil)
}

// StopService tells the service that it should exit. It is normal for the
// request to return an I/O error if the service quit before responding.
func (c *APIClient) StopService() error {
	c.logger.Printf("Telling the service to exit")
	req, err := http.NewRequest(http.MethodDelete, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err == nil && resp.StatusCode >= 300 {
		return fmt.Errorf("service returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func (c *APIClient) do(method, path string, payload interface{}) (*APIResponse, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		c.logger.Printf("%s %s: %s", method, path, string(data))
		body = bytes.NewBuffer(data)
	} else {
		c.logger.Printf("%s %s", method, path)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response of %s %s: %w", method, path, err)
	}

	c.logger.Printf("%s %s returned %d (%d bytes)", method, path, resp.StatusCode, len(respBody))
	return &APIResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}
