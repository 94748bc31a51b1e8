package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/gravitational/trace"
)

// HeartGetParams describes a heart get request for a single ECG recording.
type HeartGetParams struct {
	SignalID int64
}

// Values translates the parameters into the request form data.
func (p HeartGetParams) Values() (url.Values, error) {
	if p.SignalID <= 0 {
		return nil, trace.BadParameter("parameter signalid must be a positive integer, got %d", p.SignalID)
	}
	form := url.Values{}
	form.Set("action", "get")
	form.Set("signalid", strconv.FormatInt(p.SignalID, 10))
	return form, nil
}

// HeartListParams describes a heart list request. When more records exist
// than the chunk limit, the newest come first.
type HeartListParams struct {
	StartDate int64
	EndDate   int64
	Offset    int64
}

// Values translates the parameters into the request form data.
func (p HeartListParams) Values() (url.Values, error) {
	for _, check := range []struct {
		name  string
		value int64
	}{
		{"startdate", p.StartDate},
		{"enddate", p.EndDate},
		{"offset", p.Offset},
	} {
		if err := checkNonNegative(check.name, check.value); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	warnIfEndBeforeStart(p.StartDate, p.EndDate)
	warnIfStartEqualsEnd(p.StartDate, p.EndDate)

	form := url.Values{}
	form.Set("action", "list")
	setNonZero(form, "startdate", p.StartDate)
	setNonZero(form, "enddate", p.EndDate)
	form.Set("offset", strconv.FormatInt(p.Offset, 10))
	return form, nil
}

// GetHeart retrieves a single heart signal with its full ECG data.
func (c *Client) GetHeart(ctx context.Context, params HeartGetParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointHeartV2, form, opts)
}

// ListHeart retrieves heart signal records within a date range.
func (c *Client) ListHeart(ctx context.Context, params HeartListParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointHeartV2, form, opts)
}
