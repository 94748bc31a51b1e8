package api

import (
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	// BaseURL is the root of the Withings service API.
	BaseURL = "https://wbsapi.withings.net/"

	// defaultTimeout is the fixed per-request socket timeout.
	defaultTimeout = 10 * time.Second

	maxConns = 10
)

// NewHTTPClient builds the resty client used for every call against the
// Withings service API, including the token endpoint.
func NewHTTPClient(apiURL string) *resty.Client {
	if apiURL == "" {
		apiURL = BaseURL
	}
	return resty.
		NewWithClient(&http.Client{
			Timeout: defaultTimeout,
			Transport: &http.Transport{
				MaxConnsPerHost:     maxConns,
				MaxIdleConnsPerHost: maxConns,
			},
		}).
		SetHeader("Accept", "application/json").
		SetBaseURL(apiURL)
}
