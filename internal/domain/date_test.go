package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want Date
	}{
		{name: "excel serial", cell: Cell{Text: "39448"}, want: NewDate(2008, time.January, 1)},
		{name: "iso", cell: Cell{Text: "2015-01-01"}, want: NewDate(2015, time.January, 1)},
		{name: "month first", cell: Cell{Text: "03/04/2010"}, want: NewDate(2010, time.March, 4)},
		{name: "day first fallback", cell: Cell{Text: "25/12/2012"}, want: NewDate(2012, time.December, 25)},
		{name: "surrounding space", cell: Cell{Text: " 2011-06-30 "}, want: NewDate(2011, time.June, 30)},
		{name: "zero filled", cell: Cell{Text: ZeroFill, Filled: true}, want: Date{}},
		{name: "literal zero", cell: Cell{Text: "0"}, want: Date{}},
		{name: "negative serial", cell: Cell{Text: "-5"}, want: Date{}},
		{name: "garbage", cell: Cell{Text: "ontem"}, want: Date{}},
		{name: "not a number", cell: Cell{Text: "NaN"}, want: Date{}},
		{name: "infinity", cell: Cell{Text: "Inf"}, want: Date{}},
		{name: "signed infinity", cell: Cell{Text: "+Inf"}, want: Date{}},
		{name: "negative infinity", cell: Cell{Text: "-Inf"}, want: Date{}},
		{name: "huge exponent", cell: Cell{Text: "1e300"}, want: Date{}},
		{name: "past last excel date", cell: Cell{Text: "2958466"}, want: Date{}},
		{name: "last excel date", cell: Cell{Text: "2958465"}, want: NewDate(9999, time.December, 31)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseDate(tc.cell))
		})
	}
}

func TestParseDate_SerialWithTimeOfDay(t *testing.T) {
	d := ParseDate(Cell{Text: "39448.5"})

	assert.True(t, d.Valid)
	assert.Equal(t, 12, d.Hour())
	assert.Equal(t, 2008, d.Year())
}

func TestDate_NewerThan(t *testing.T) {
	older := NewDate(2014, time.June, 1)
	newer := NewDate(2015, time.January, 1)

	assert.True(t, newer.NewerThan(older))
	assert.False(t, older.NewerThan(newer))
	assert.True(t, older.NewerThan(Date{}))
	assert.False(t, Date{}.NewerThan(older))
	assert.False(t, Date{}.NewerThan(Date{}))
}
