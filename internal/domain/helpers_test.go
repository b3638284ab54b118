package domain

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

var rawHeader = []string{"DATA", "LOCAL", "REFERENCIA", "SENTIDO", "INICIO", "FIM", "SITUACAO", "SUB"}

// event builds a raw row for location on an ISO date.
func event(date, location string) []string {
	return []string{date, location, "Rua A", "Centro/Bairro", "08:00", "09:30", "transitavel", "Se"}
}

// eventsInYear builds n rows for location spread over the given year.
func eventsInYear(n, year int, location string) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = event(strconv.Itoa(year)+"-0"+strconv.Itoa(i%9+1)+"-15", location)
	}
	return rows
}

func rawTable(rows ...[]string) Table {
	return NewTable(rawHeader, rows)
}

func mustNormalize(t *testing.T, tbl Table) Table {
	t.Helper()
	out, err := Normalize(tbl)
	require.NoError(t, err)
	return out
}
