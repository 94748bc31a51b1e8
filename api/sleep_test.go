package api

import (
	"strings"
	"testing"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestSleepGetParams(t *testing.T) {
	t.Run("BothDatesRequired", func(t *testing.T) {
		_, err := SleepGetParams{StartDate: 1700000000}.Values()
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})

	t.Run("UnknownFieldIsAnError", func(t *testing.T) {
		_, err := SleepGetParams{
			StartDate:  1700000000,
			EndDate:    1700003600,
			DataFields: []string{"hr", "bogus"},
		}.Values()
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})

	t.Run("DatesStayUnix", func(t *testing.T) {
		form, err := SleepGetParams{StartDate: 1700000000, EndDate: 1700003600}.Values()
		require.NoError(t, err)
		require.Equal(t, "get", form.Get("action"))
		require.Equal(t, "1700000000", form.Get("startdate"))
		require.Equal(t, "1700003600", form.Get("enddate"))
		require.Equal(t, strings.Join(SleepFields, ","), form.Get("data_fields"))
	})
}

func TestSleepSummaryParams(t *testing.T) {
	t.Run("DateWindowRule", func(t *testing.T) {
		_, err := SleepSummaryParams{}.Values()
		require.Error(t, err)

		_, err = SleepSummaryParams{StartDate: 1700000000, EndDate: 1700086400, LastUpdate: 1}.Values()
		require.Error(t, err)
	})

	t.Run("UnknownFieldIsAnError", func(t *testing.T) {
		_, err := SleepSummaryParams{
			LastUpdate: 1700000000,
			DataFields: []string{"bogus"},
		}.Values()
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})

	t.Run("Values", func(t *testing.T) {
		form, err := SleepSummaryParams{
			StartDate:  1700000000,
			EndDate:    1700086400,
			DataFields: []string{"sleep_score", "hr_average"},
		}.Values()
		require.NoError(t, err)
		require.Equal(t, "getsummary", form.Get("action"))
		require.Equal(t, "2023-11-14", form.Get("startdateymd"))
		require.Equal(t, "2023-11-15", form.Get("enddateymd"))
		require.Equal(t, "sleep_score,hr_average", form.Get("data_fields"))
	})
}

func TestHeartParams(t *testing.T) {
	t.Run("SignalIDMustBePositive", func(t *testing.T) {
		_, err := HeartGetParams{}.Values()
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))

		_, err = HeartGetParams{SignalID: -5}.Values()
		require.Error(t, err)
	})

	t.Run("Get", func(t *testing.T) {
		form, err := HeartGetParams{SignalID: 12345}.Values()
		require.NoError(t, err)
		require.Equal(t, "get", form.Get("action"))
		require.Equal(t, "12345", form.Get("signalid"))
	})

	t.Run("List", func(t *testing.T) {
		form, err := HeartListParams{StartDate: 1700000000, Offset: 7}.Values()
		require.NoError(t, err)
		require.Equal(t, "list", form.Get("action"))
		require.Equal(t, "1700000000", form.Get("startdate"))
		require.Equal(t, "7", form.Get("offset"))
	})

	t.Run("ListNegative", func(t *testing.T) {
		_, err := HeartListParams{Offset: -1}.Values()
		require.Error(t, err)
		require.True(t, trace.IsBadParameter(err))
	})
}
