package dateparse_test

import (
	"testing"

	"github.com/robonexus/communitybot/dateparse"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("month-day with dash", func(t *testing.T) {
		md, err := dateparse.Parse("03-15")
		require.NoError(t, err)
		require.Equal(t, dateparse.MonthDay{Month: 3, Day: 15}, md)
	})

	t.Run("month-day with slash", func(t *testing.T) {
		md, err := dateparse.Parse("7/4")
		require.NoError(t, err)
		require.Equal(t, dateparse.MonthDay{Month: 7, Day: 4}, md)
	})

	t.Run("year is validated then discarded", func(t *testing.T) {
		md, err := dateparse.Parse("02-29-1996")
		require.NoError(t, err)
		require.Equal(t, dateparse.MonthDay{Month: 2, Day: 29}, md)
	})

	t.Run("leap day in a non-leap year", func(t *testing.T) {
		_, err := dateparse.Parse("02-29-1995")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})

	t.Run("impossible day", func(t *testing.T) {
		_, err := dateparse.Parse("02-30")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})

	t.Run("month out of range", func(t *testing.T) {
		_, err := dateparse.Parse("13-01")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})

	t.Run("year out of range", func(t *testing.T) {
		_, err := dateparse.Parse("03-15-1850")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := dateparse.Parse("march fifteenth")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := dateparse.Parse("   ")
		require.ErrorIs(t, err, dateparse.ErrInvalidDate)
	})
}

func TestFormatting(t *testing.T) {
	md := dateparse.MonthDay{Month: 3, Day: 15}
	require.Equal(t, "03-15", md.String())
	require.Equal(t, "March 15", md.Display())

	require.Equal(t, "December 25", dateparse.FormatString("12-25"))
	require.Equal(t, "not-a-date", dateparse.FormatString("not-a-date"))
}
