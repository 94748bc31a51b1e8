package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gravitational/trace"
)

// SleepGetParams describes a sleep get request for high-frequency sleep
// data. Both dates are required; spans over 24 hours are truncated by the
// vendor. Unlike the activity actions, an unknown data field here is an
// error.
type SleepGetParams struct {
	StartDate  int64
	EndDate    int64
	DataFields []string
}

// Values translates the parameters into the request form data.
func (p SleepGetParams) Values() (url.Values, error) {
	if p.StartDate == 0 || p.EndDate == 0 {
		return nil, trace.BadParameter("both startdate and enddate must be provided")
	}
	if err := checkNonNegative("startdate", p.StartDate); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("enddate", p.EndDate); err != nil {
		return nil, trace.Wrap(err)
	}
	warnIfEndBeforeStart(p.StartDate, p.EndDate)
	warnIfStartEqualsEnd(p.StartDate, p.EndDate)
	warnIfSpanExceeds24h(p.StartDate, p.EndDate)

	fields, err := checkFields(p.DataFields, SleepFields)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	form := url.Values{}
	form.Set("action", "get")
	form.Set("startdate", strconv.FormatInt(p.StartDate, 10))
	form.Set("enddate", strconv.FormatInt(p.EndDate, 10))
	form.Set("data_fields", strings.Join(fields, ","))
	return form, nil
}

// SleepSummaryParams describes a getsummary request. Either the
// StartDate/EndDate pair or LastUpdate must be set, but not both. An
// unknown data field is an error.
type SleepSummaryParams struct {
	StartDate  int64
	EndDate    int64
	LastUpdate int64
	Offset     int64
	DataFields []string
}

// Values translates the parameters into the request form data.
func (p SleepSummaryParams) Values() (url.Values, error) {
	window, err := splitDateWindow(p.StartDate, p.EndDate, p.LastUpdate)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("offset", p.Offset); err != nil {
		return nil, trace.Wrap(err)
	}

	fields, err := checkFields(p.DataFields, SleepSummaryFields)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	form := url.Values{}
	form.Set("action", "getsummary")
	window.apply(form)
	form.Set("offset", strconv.FormatInt(p.Offset, 10))
	form.Set("data_fields", strings.Join(fields, ","))
	return form, nil
}

// GetSleep retrieves high-frequency sleep data including sleep stages.
func (c *Client) GetSleep(ctx context.Context, params SleepGetParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointSleepV2, form, opts)
}

// GetSleepSummary retrieves nightly sleep summaries.
func (c *Client) GetSleepSummary(ctx context.Context, params SleepSummaryParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointSleepV2, form, opts)
}
