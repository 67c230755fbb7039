package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonthValid(t *testing.T) {
	require.True(t, MonthFebrero.Valid())
	require.True(t, MonthDiciembre.Valid())
	require.False(t, Month("FEBRUARY").Valid())
	require.False(t, Month("").Valid())
}

func TestMonthNumber(t *testing.T) {
	require.Equal(t, 1, MonthEnero.Number())
	require.Equal(t, 12, MonthDiciembre.Number())
	require.Equal(t, 0, Month("???").Number())
}

func TestMonthFromTime(t *testing.T) {
	require.Equal(t, MonthEnero, MonthFromTime(time.January))
	require.Equal(t, MonthDiciembre, MonthFromTime(time.December))
}

func TestPrevPeriod(t *testing.T) {
	year, month := PrevPeriod(2026, MonthFebrero)
	require.Equal(t, 2026, year)
	require.Equal(t, MonthEnero, month)

	// январь откатывается в декабрь прошлого года
	year, month = PrevPeriod(2026, MonthEnero)
	require.Equal(t, 2025, year)
	require.Equal(t, MonthDiciembre, month)
}
