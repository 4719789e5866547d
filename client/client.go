package client

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
)

//go:generate mockgen -destination=mock_client.go -package=client github.com/vitelabs/go-referendum/client NodeClient

var ErrNotFound = errors.New("message not found")

// NodeClient retrieves messages from a node. Implementations do not retry.
type NodeClient interface {
	GetMessage(ctx context.Context, id types.Hash) (*ledger.Message, error)
}

// StatusError is returned when an endpoint answers with an unexpected status.
type StatusError struct {
	Endpoint string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s responded %d: %s", e.Endpoint, e.Code, e.Body)
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(hc *HTTPClient) {
		hc.httpClient = c
	}
}

func WithRequestTimeout(d time.Duration) Option {
	return func(hc *HTTPClient) {
		hc.httpClient.Timeout = d
	}
}

// HTTPClient fetches raw messages from a node REST API and falls back to a
// permanode for messages the node has pruned.
type HTTPClient struct {
	node       string
	permanode  string
	httpClient *http.Client
	log        log15.Logger
}

func NewHTTPClient(node, permanode string, opts ...Option) (*HTTPClient, error) {
	if node == "" && permanode == "" {
		return nil, errors.New("either a node or a permanode endpoint is required")
	}
	for _, endpoint := range []string{node, permanode} {
		if endpoint == "" {
			continue
		}
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return nil, errors.Wrapf(err, "invalid endpoint %q", endpoint)
		}
	}

	c := &HTTPClient{
		node:       strings.TrimRight(node, "/"),
		permanode:  strings.TrimRight(permanode, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log15.New("module", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *HTTPClient) GetMessage(ctx context.Context, id types.Hash) (*ledger.Message, error) {
	if c.node != "" {
		msg, err := c.fetch(ctx, c.node, id)
		if err == nil || c.permanode == "" || errors.Cause(err) != ErrNotFound {
			return msg, err
		}
		c.log.Debug("message pruned on node, asking permanode", "messageId", id)
	}
	return c.fetch(ctx, c.permanode, id)
}

func (c *HTTPClient) fetch(ctx context.Context, endpoint string, id types.Hash) (*ledger.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"/api/v1/messages/"+id.Hex()+"/raw", nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "get message %s", id)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, errors.Wrapf(ErrNotFound, "%s at %s", id, endpoint)
	default:
		body, _ := ioutil.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	data, err := ioutil.ReadAll(io.LimitReader(resp.Body, ledger.MessageMaxSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "read message %s", id)
	}
	msg, err := ledger.DeserializeMessage(data)
	if err != nil {
		return nil, errors.WithMessagef(err, "message %s from %s", id, endpoint)
	}
	return msg, nil
}
