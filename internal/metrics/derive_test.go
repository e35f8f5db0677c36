package metrics

import (
	"testing"

	"github.com/Veraticus/mission-control/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentReached(t *testing.T) {
	assert.Equal(t, 62.5, PercentReached(12500, 20000))
	assert.Equal(t, 0.0, PercentReached(5, 0))
	assert.Equal(t, 0.0, PercentReached(0, 0))
	assert.Equal(t, 150.0, PercentReached(300, 200))
}

func TestDerive(t *testing.T) {
	ms := model.NewMetricSet()
	require.NoError(t, ms.Set(model.MetricISVScore, 12500))
	require.NoError(t, ms.Set(model.MetricISVGoal, 20000))
	require.NoError(t, ms.Set(model.MetricMayapurScore, 15000))

	assert.Equal(t, Derived{PercentReached: 62.5, Remaining: 7500, Lead: -2500}, Derive(ms))

	require.NoError(t, ms.Set(model.MetricISVScore, 25000))
	d := Derive(ms)
	assert.Equal(t, 0.0, d.Remaining)
	assert.Equal(t, 125.0, d.PercentReached)

	assert.Equal(t, Derived{}, Derive(model.NewMetricSet()))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "12,500", FormatPoints(12500))
	assert.Equal(t, "0", FormatPoints(0))
	assert.Equal(t, "1,234,567", FormatPoints(1234567))
	assert.Equal(t, "12.25", FormatPoints(12.25))

	assert.Equal(t, "62.50%", FormatPercent(62.5))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "33.33%", FormatPercent(PercentReached(1, 3)))
}
