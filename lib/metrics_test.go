package lib

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratorMetrics(t *testing.T) {
	g := testGenerator(t, mustKiCad(t, KiCad8))
	c := part(t, "R1", "role", "resistor", "package", "0603", "pin_count", "2")

	hits := testutil.ToFloat64(CacheHits.WithLabelValues("symbol"))
	computed := testutil.ToFloat64(GeometryTotal.WithLabelValues("symbol", "ok"))
	failed := testutil.ToFloat64(GeometryTotal.WithLabelValues("symbol", "error"))

	_, err := g.SymbolGeometry(c)
	require.NoError(t, err)
	_, err = g.SymbolGeometry(c)
	require.NoError(t, err)

	assert.Equal(t, computed+1, testutil.ToFloat64(GeometryTotal.WithLabelValues("symbol", "ok")))
	assert.Equal(t, hits+1, testutil.ToFloat64(CacheHits.WithLabelValues("symbol")))

	_, err = g.SymbolGeometry(part(t, "U1", "role", "ic"))
	require.Error(t, err)
	assert.Equal(t, failed+1, testutil.ToFloat64(GeometryTotal.WithLabelValues("symbol", "error")))
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "ok", status(nil))
	assert.Equal(t, "error", status(errors.New("boom")))
}
