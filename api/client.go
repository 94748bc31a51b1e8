package api

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/go-resty/resty/v2"
	"github.com/gravitational/trace"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/withkit/withings/auth"
	"github.com/withkit/withings/lib/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client dispatches authenticated requests to the Withings data endpoints.
// Credentials are obtained from the provider before every request, so an
// expired access token is refreshed exactly once before the request is sent.
type Client struct {
	client      *resty.Client
	credentials auth.CredentialsProvider
	dataDir     string
	log         logrus.FieldLogger
}

// ClientConfig groups the Client dependencies.
type ClientConfig struct {
	// Credentials yields valid credentials for every request.
	Credentials auth.CredentialsProvider
	// APIURL overrides the service base URL. Used in tests.
	APIURL string
	// DataDir is where response bodies are persisted when requested.
	// Empty disables persistence.
	DataDir string
	Log     logrus.FieldLogger
}

func (cfg *ClientConfig) CheckAndSetDefaults() error {
	if cfg.Credentials == nil {
		return trace.BadParameter("missing Credentials")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = BaseURL
	}
	if cfg.Log == nil {
		cfg.Log = logger.Standard()
	}
	return nil
}

// NewClient returns a Client ready to dispatch requests.
func NewClient(cfg ClientConfig) (*Client, error) {
	if err := cfg.CheckAndSetDefaults(); err != nil {
		return nil, trace.Wrap(err)
	}
	return &Client{
		client:      NewHTTPClient(cfg.APIURL),
		credentials: cfg.Credentials,
		dataDir:     cfg.DataDir,
		log:         cfg.Log,
	}, nil
}

// RequestOption adjusts the handling of a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	save bool
}

// SaveResponse persists the response body as pretty-printed JSON to
// user_<id>/<endpoint>_<action>.json under the client's data directory.
func SaveResponse() RequestOption {
	return func(opts *requestOptions) {
		opts.save = true
	}
}

func (c *Client) do(ctx context.Context, endpoint string, form url.Values, opts []RequestOption) ([]byte, error) {
	var options requestOptions
	for _, opt := range opts {
		opt(&options)
	}

	creds, err := c.credentials.Credentials(ctx)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Authorization", creds.TokenType+" "+creds.AccessToken).
		SetFormDataFromValues(form).
		Post(endpoint)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if resp.IsError() {
		return nil, trace.Errorf("endpoint %s returned %v", endpoint, resp.Status())
	}

	body, err := UnwrapBody(resp.Body())
	if err != nil {
		return nil, trace.Wrap(err)
	}

	if options.save {
		if err := c.saveBody(creds.UserID, endpoint, form.Get("action"), body); err != nil {
			return nil, trace.Wrap(err)
		}
	}

	return body, nil
}

func (c *Client) saveBody(userID, endpoint, action string, body []byte) error {
	if c.dataDir == "" {
		return trace.BadParameter("response persistence requires a data directory")
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return trace.Wrap(err)
	}
	payload, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return trace.Wrap(err)
	}

	dir := filepath.Join(c.dataDir, "user_"+userID)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return trace.ConvertSystemError(err)
	}

	filename := path.Base(endpoint) + "_" + action + ".json"
	target := filepath.Join(dir, filename)
	c.log.WithField("file", target).Debug("Persisting response body")

	return trace.ConvertSystemError(os.WriteFile(target, payload, 0600))
}
