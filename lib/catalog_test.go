package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogOf(t *testing.T, name string, components ...*Component) *Catalog {
	t.Helper()
	cat := NewCatalog(name)
	for _, c := range components {
		require.NoError(t, cat.Add(c))
	}
	return cat
}

func TestCatalogAdd(t *testing.T) {
	cat := NewCatalog("lib")
	r1 := part(t, "R1", "role", "resistor")
	require.NoError(t, cat.Add(r1))
	assert.Same(t, cat, r1.Owner())

	err := cat.Add(part(t, "R1", "role", "capacitor"))
	assert.ErrorIs(t, err, ErrDuplicateName)
	assert.Equal(t, 1, cat.Len())

	other := NewCatalog("other")
	assert.ErrorIs(t, other.Add(r1), ErrOwned)
	assert.Equal(t, 0, other.Len())

	got, ok := cat.Get("R1")
	require.True(t, ok)
	assert.Equal(t, RoleResistor, got.Role())
	_, ok = cat.Get("R2")
	assert.False(t, ok)
}

func TestCatalogOrder(t *testing.T) {
	cat := catalogOf(t, "lib", part(t, "C1"), part(t, "A1"), part(t, "B1"))

	names := func() []string {
		var out []string
		for _, c := range cat.Components() {
			out = append(out, c.Name())
		}
		return out
	}
	assert.Equal(t, []string{"C1", "A1", "B1"}, names())

	a1, _ := cat.Get("A1")
	cat.Remove("A1")
	cat.Remove("missing")
	assert.Equal(t, []string{"C1", "B1"}, names())
	assert.Nil(t, a1.Owner())

	b1, ok := cat.Get("B1")
	require.True(t, ok)
	assert.Equal(t, "B1", b1.Name())

	require.NoError(t, cat.Add(a1))
	assert.Equal(t, []string{"C1", "B1", "A1"}, names())
}

func TestCatalogMerge(t *testing.T) {
	cat := catalogOf(t, "lib", part(t, "R1"))
	other := catalogOf(t, "other", part(t, "R2"), part(t, "R3"))

	require.NoError(t, cat.Merge(other))
	assert.Equal(t, 3, cat.Len())
	assert.Equal(t, 0, other.Len())
	r2, _ := cat.Get("R2")
	assert.Same(t, cat, r2.Owner())

	clash := catalogOf(t, "clash", part(t, "R4"), part(t, "R1"))
	assert.ErrorIs(t, cat.Merge(clash), ErrDuplicateName)
	assert.Equal(t, 4, cat.Len(), "R4 moved before the clash")
	assert.Equal(t, 1, clash.Len())
}
