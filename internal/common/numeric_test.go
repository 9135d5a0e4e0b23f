package common

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToSafeNumber(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want float64
	}{
		{"float", 12.5, 12.5},
		{"negative float", -3.25, -3.25},
		{"int", 7, 7},
		{"int64", int64(-2), -2},
		{"json number", json.Number("42.1"), 42.1},
		{"bad json number", json.Number("abc"), 0},
		{"nil", nil, 0},
		{"string", "12", 0},
		{"placeholder", "N/A", 0},
		{"bool", true, 0},
		{"NaN", math.NaN(), 0},
		{"+Inf", math.Inf(1), 0},
		{"-Inf", math.Inf(-1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToSafeNumber(tt.in))
		})
	}
}

func TestOptionalNumber(t *testing.T) {
	assert.Nil(t, OptionalNumber(nil))

	v := OptionalNumber(-0.04)
	if assert.NotNil(t, v) {
		assert.Equal(t, -0.04, *v)
	}

	v = OptionalNumber("oops")
	if assert.NotNil(t, v) {
		assert.Equal(t, 0.0, *v)
	}
}

func TestPercentOf(t *testing.T) {
	for _, part := range []float64{0, 1, -5, 1e9} {
		assert.Equal(t, 0.0, PercentOf(part, 0), "PercentOf(%v, 0)", part)
	}
	assert.InDelta(t, 60.0, PercentOf(600, 1000), 1e-9)
	assert.InDelta(t, 25.0, PercentOf(1, 4), 1e-9)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "£1050.00", FormatMoney("£", 1050))
	assert.Equal(t, "£1234567.89", FormatMoney("£", 1234567.891))
	assert.Equal(t, "-£50.50", FormatMoney("£", -50.5))
	assert.Equal(t, "$0.00", FormatMoney("$", 0))
}

func TestFormatSignedMoney(t *testing.T) {
	assert.Equal(t, "+£50.00", FormatSignedMoney("£", 50))
	assert.Equal(t, "-£12.30", FormatSignedMoney("£", -12.3))
	assert.Equal(t, "+£0.00", FormatSignedMoney("£", 0))
}

func TestFormatMove(t *testing.T) {
	assert.Equal(t, "n/a", FormatMove(nil))

	zero := 0.0
	assert.Equal(t, "+0.00%", FormatMove(&zero))

	down := -4.0
	assert.Equal(t, "-4.00%", FormatMove(&down))
}

func TestFormatPct(t *testing.T) {
	assert.Equal(t, "60.0%", FormatPct(60))
	assert.Equal(t, "33.3%", FormatPct(100.0/3))
}
