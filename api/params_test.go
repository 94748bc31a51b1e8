package api

import (
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *test.Hook {
	t.Helper()
	hook := test.NewGlobal()
	t.Cleanup(func() {
		logrus.StandardLogger().ReplaceHooks(make(logrus.LevelHooks))
	})
	return hook
}

func requireWarning(t *testing.T, hook *test.Hook, substr string) {
	t.Helper()
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel && strings.Contains(entry.Message, substr) {
			return
		}
	}
	t.Fatalf("no warning containing %q was logged", substr)
}

// Suspicious date windows warn but never fail the request.
func TestDateWindowWarnings(t *testing.T) {
	t.Run("EndBeforeStart", func(t *testing.T) {
		hook := captureLog(t)
		form, err := ActivityParams{StartDate: 1700086400, EndDate: 1700000000}.Values()
		require.NoError(t, err)
		require.Equal(t, "2023-11-15", form.Get("startdateymd"))
		require.Equal(t, "2023-11-14", form.Get("enddateymd"))
		requireWarning(t, hook, "end date is before the start date")
	})

	t.Run("EndBeforeStartMeas", func(t *testing.T) {
		hook := captureLog(t)
		form, err := MeasParams{StartDate: 1700086400, EndDate: 1700000000}.Values()
		require.NoError(t, err)
		require.Equal(t, "1700086400", form.Get("startdate"))
		requireWarning(t, hook, "end date is before the start date")
	})

	t.Run("StartEqualsEnd", func(t *testing.T) {
		hook := captureLog(t)
		form, err := IntradayActivityParams{StartDate: 1700000000, EndDate: 1700000000}.Values()
		require.NoError(t, err)
		require.Equal(t, "1700000000", form.Get("startdate"))
		require.Equal(t, "1700000000", form.Get("enddate"))
		requireWarning(t, hook, "start date equals the end date")
	})

	t.Run("SpanOver24Hours", func(t *testing.T) {
		hook := captureLog(t)
		form, err := IntradayActivityParams{StartDate: 1700000000, EndDate: 1700000000 + 25*3600}.Values()
		require.NoError(t, err)
		require.Equal(t, "1700090000", form.Get("enddate"))
		requireWarning(t, hook, "exceeds 24 hours")
	})

	t.Run("OrderedWindowStaysQuiet", func(t *testing.T) {
		hook := captureLog(t)
		_, err := ActivityParams{StartDate: 1700000000, EndDate: 1700086400}.Values()
		require.NoError(t, err)
		require.Empty(t, hook.AllEntries())
	})
}
