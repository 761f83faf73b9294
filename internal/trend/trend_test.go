package trend

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinear_Forecast(t *testing.T) {
	series := []Point{{2012, 100}, {2013, 110}, {2014, 120}, {2015, 130}}

	got, err := Linear{}.Forecast(series, []int{2016, 2018})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 2016, got[0].Year)
	assert.InDelta(t, 140.0, got[0].Value, 1e-6)
	assert.InDelta(t, 160.0, got[1].Value, 1e-6)
}

func TestLinear_Fit(t *testing.T) {
	fit, err := Linear{}.Fit([]Point{{2020, 1}, {2021, 3}, {2022, 2}})
	require.NoError(t, err)

	assert.InDelta(t, 0.5, fit.Slope, 1e-9)
	assert.InDelta(t, 2.0, fit.At(2021), 1e-6)
	assert.InDelta(t, 0.25, fit.R2, 1e-9)
}

func TestLinear_FitFlatSeries(t *testing.T) {
	fit, err := Linear{}.Fit([]Point{{2018, 7}, {2019, 7}, {2020, 7}})
	require.NoError(t, err)

	assert.InDelta(t, 0.0, fit.Slope, 1e-9)
	assert.InDelta(t, 7.0, fit.At(2030), 1e-6)
	assert.Equal(t, 1.0, fit.R2)
}

func TestLinear_InsufficientData(t *testing.T) {
	_, err := Linear{}.Forecast([]Point{{2020, 1}}, []int{2021})
	assert.True(t, errors.Is(err, ErrInsufficientData))

	_, err = Linear{}.Forecast([]Point{{2020, 1}, {2020, 2}}, []int{2021})
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestNextYears(t *testing.T) {
	assert.Equal(t, []int{2023, 2024, 2025}, NextYears([]Point{{2022, 1}, {2012, 1}}, 3))
	assert.Nil(t, NextYears(nil, 3))
}

func TestSorted(t *testing.T) {
	in := []Point{{2014, 1}, {2012, 2}, {2013, 3}}
	out := Sorted(in)

	assert.Equal(t, []Point{{2012, 2}, {2013, 3}, {2014, 1}}, out)
	assert.Equal(t, 2014, in[0].Year)
}

var _ Estimator = Linear{}
