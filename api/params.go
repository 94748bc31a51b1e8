package api

import (
	"time"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"

	"github.com/withkit/withings/lib/logger"
	"github.com/withkit/withings/lib/stringset"
)

// Timestamps are Unix seconds throughout; zero means "not set".

// dateWindow is the start/end-pair-XOR-lastupdate rule shared by the
// activity, workouts and sleep summary actions. When the pair is used the
// dates are sent in YYYY-MM-DD form, when lastupdate is used it stays a
// Unix timestamp.
type dateWindow struct {
	startYMD   string
	endYMD     string
	lastUpdate int64
}

func splitDateWindow(startDate, endDate, lastUpdate int64) (*dateWindow, error) {
	if err := checkNonNegative("startdate", startDate); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("enddate", endDate); err != nil {
		return nil, trace.Wrap(err)
	}
	if err := checkNonNegative("lastupdate", lastUpdate); err != nil {
		return nil, trace.Wrap(err)
	}

	switch {
	case (startDate == 0 || endDate == 0) && lastUpdate == 0:
		return nil, trace.BadParameter("either both startdate and enddate, or lastupdate must be provided")
	case (startDate != 0 || endDate != 0) && lastUpdate != 0:
		return nil, trace.BadParameter("startdate/enddate and lastupdate are mutually exclusive")
	}

	if lastUpdate != 0 {
		return &dateWindow{lastUpdate: lastUpdate}, nil
	}

	warnIfEndBeforeStart(startDate, endDate)
	return &dateWindow{
		startYMD: formatYMD(startDate),
		endYMD:   formatYMD(endDate),
	}, nil
}

func formatYMD(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02")
}

func checkNonNegative(name string, value int64) error {
	if value < 0 {
		return trace.BadParameter("parameter %s must be a non-negative integer, got %d", name, value)
	}
	return nil
}

func warnIfEndBeforeStart(start, end int64) {
	if start != 0 && end != 0 && end < start {
		log().Warn("The end date is before the start date, the request is unlikely to return data")
	}
}

func warnIfStartEqualsEnd(start, end int64) {
	if start != 0 && end != 0 && start == end {
		log().Warn("The start date equals the end date, the request is unlikely to return data")
	}
}

func warnIfSpanExceeds24h(start, end int64) {
	if start != 0 && end != 0 && end-start > 24*3600 {
		log().Warn("The requested time span exceeds 24 hours, only the first 24 hours of data will be returned")
	}
}

// filterFields drops fields that are not in the allowed set, warning about
// each. An empty selection falls back to the full allowed list.
func filterFields(fields []string, allowed []string) []string {
	allowedSet := stringset.New(allowed...)

	valid := make([]string, 0, len(fields))
	for _, field := range fields {
		if !allowedSet.Contains(field) {
			log().Warnf("%q is not a valid data field and will not be sent in the request", field)
			continue
		}
		valid = append(valid, field)
	}

	if len(valid) == 0 {
		return allowed
	}
	return valid
}

// checkFields is the strict variant used by the sleep actions: any unknown
// field is an error. An empty selection still falls back to the full list.
func checkFields(fields []string, allowed []string) ([]string, error) {
	if len(fields) == 0 {
		return allowed, nil
	}
	allowedSet := stringset.New(allowed...)
	for _, field := range fields {
		if !allowedSet.Contains(field) {
			return nil, trace.BadParameter("%q is not a valid data field", field)
		}
	}
	return fields, nil
}

func log() logrus.FieldLogger {
	return logger.Standard()
}
