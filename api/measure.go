package api

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/gravitational/trace"
)

// Measure categories accepted by the getmeas action.
const (
	CategoryReal       = 1
	CategoryObjectives = 2
)

// ActivityParams describes a getactivity request. Either the
// StartDate/EndDate pair or LastUpdate must be set, but not both.
type ActivityParams struct {
	StartDate  int64
	EndDate    int64
	LastUpdate int64
	Offset     int64
	DataFields []string
}

// Values translates the parameters into the request form data.
func (p ActivityParams) Values() (url.Values, error) {
	window, err := splitDateWindow(p.StartDate, p.EndDate, p.LastUpdate)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("offset", p.Offset); err != nil {
		return nil, trace.Wrap(err)
	}

	fields := filterFields(p.DataFields, ActivityFields)

	form := url.Values{}
	form.Set("action", "getactivity")
	window.apply(form)
	form.Set("offset", strconv.FormatInt(p.Offset, 10))
	form.Set("data_fields", strings.Join(fields, ","))
	return form, nil
}

// IntradayActivityParams describes a getintradayactivity request. At least
// one of StartDate and EndDate must be set; spans over 24 hours are
// truncated by the vendor.
type IntradayActivityParams struct {
	StartDate  int64
	EndDate    int64
	DataFields []string
}

// Values translates the parameters into the request form data.
func (p IntradayActivityParams) Values() (url.Values, error) {
	if p.StartDate == 0 && p.EndDate == 0 {
		return nil, trace.BadParameter("at least one of startdate and enddate must be provided")
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

	fields := filterFields(p.DataFields, IntradayActivityFields)

	form := url.Values{}
	form.Set("action", "getintradayactivity")
	setNonZero(form, "startdate", p.StartDate)
	setNonZero(form, "enddate", p.EndDate)
	form.Set("data_fields", strings.Join(fields, ","))
	return form, nil
}

// MeasParams describes a getmeas request. Measure types can be given by
// code (Types) or by name (TypeNames, see MeasTypes); unknown entries are
// dropped with a warning and an empty selection requests all known types.
type MeasParams struct {
	StartDate  int64
	EndDate    int64
	LastUpdate int64
	Offset     int64
	Category   int
	Types      []int
	TypeNames  []string
}

// Values translates the parameters into the request form data.
func (p MeasParams) Values() (url.Values, error) {
	for _, check := range []struct {
		name  string
		value int64
	}{
		{"startdate", p.StartDate},
		{"enddate", p.EndDate},
		{"lastupdate", p.LastUpdate},
		{"offset", p.Offset},
	} {
		if err := checkNonNegative(check.name, check.value); err != nil {
			return nil, trace.Wrap(err)
		}
	}
	warnIfEndBeforeStart(p.StartDate, p.EndDate)
	warnIfStartEqualsEnd(p.StartDate, p.EndDate)

	category := p.Category
	if category == 0 {
		category = CategoryReal
	}
	if category != CategoryReal && category != CategoryObjectives {
		return nil, trace.BadParameter("parameter category must be %d for real measures or %d for user objectives", CategoryReal, CategoryObjectives)
	}

	types := p.measTypes()

	form := url.Values{}
	form.Set("action", "getmeas")
	form.Set("category", strconv.Itoa(category))
	setNonZero(form, "startdate", p.StartDate)
	setNonZero(form, "enddate", p.EndDate)
	setNonZero(form, "lastupdate", p.LastUpdate)
	form.Set("offset", strconv.FormatInt(p.Offset, 10))

	// A single type goes into `meastype`, several into `meastypes`.
	if len(types) == 1 {
		form.Set("meastype", strconv.Itoa(types[0]))
	} else {
		form.Set("meastypes", joinInts(types))
	}
	return form, nil
}

func (p MeasParams) measTypes() []int {
	known := make(map[int]bool, len(MeasTypes))
	for _, code := range MeasTypes {
		known[code] = true
	}

	var types []int
	for _, code := range p.Types {
		if !known[code] {
			log().Warnf("%d is not a valid measure type and will not be sent in the request", code)
			continue
		}
		types = append(types, code)
	}
	for _, name := range p.TypeNames {
		code, ok := MeasTypes[name]
		if !ok {
			log().Warnf("%q is not a valid measure type and will not be sent in the request", name)
			continue
		}
		types = append(types, code)
	}

	if len(types) == 0 {
		return measTypeCodes()
	}
	return types
}

// WorkoutsParams describes a getworkouts request. Either the
// StartDate/EndDate pair or LastUpdate must be set, but not both.
type WorkoutsParams struct {
	StartDate  int64
	EndDate    int64
	LastUpdate int64
	Offset     int64
	DataFields []string
}

// Values translates the parameters into the request form data.
func (p WorkoutsParams) Values() (url.Values, error) {
	window, err := splitDateWindow(p.StartDate, p.EndDate, p.LastUpdate)
	if err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("offset", p.Offset); err != nil {
		return nil, trace.Wrap(err)
	}

	fields := filterFields(p.DataFields, WorkoutFields)

	form := url.Values{}
	form.Set("action", "getworkouts")
	window.apply(form)
	form.Set("offset", strconv.FormatInt(p.Offset, 10))
	form.Set("data_fields", strings.Join(fields, ","))
	return form, nil
}

// GetActivity retrieves daily activity summaries.
func (c *Client) GetActivity(ctx context.Context, params ActivityParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointMeasureV2, form, opts)
}

// GetIntradayActivity retrieves high-frequency activity data.
func (c *Client) GetIntradayActivity(ctx context.Context, params IntradayActivityParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointMeasureV2, form, opts)
}

// GetMeas retrieves body measurements. This is the only action served by
// the v1 measure endpoint.
func (c *Client) GetMeas(ctx context.Context, params MeasParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointMeasure, form, opts)
}

// GetWorkouts retrieves workout summaries.
func (c *Client) GetWorkouts(ctx context.Context, params WorkoutsParams, opts ...RequestOption) ([]byte, error) {
	form, err := params.Values()
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return c.do(ctx, endpointMeasureV2, form, opts)
}

func (w *dateWindow) apply(form url.Values) {
	if w.lastUpdate != 0 {
		form.Set("lastupdate", strconv.FormatInt(w.lastUpdate, 10))
		return
	}
	form.Set("startdateymd", w.startYMD)
	form.Set("enddateymd", w.endYMD)
}

func setNonZero(form url.Values, key string, value int64) {
	if value != 0 {
		form.Set(key, strconv.FormatInt(value, 10))
	}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}
