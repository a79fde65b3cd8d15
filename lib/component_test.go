package lib

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResistor(t *testing.T, name string) *Component {
	t.Helper()
	c, err := NewComponent(DefaultRegistry(), name)
	require.NoError(t, err)
	require.NoError(t, c.Set(KindRole, Text(RoleResistor)))
	require.NoError(t, c.Set(KindPackage, Text("0603")))
	require.NoError(t, c.Set(KindPinCount, Int(2)))
	require.NoError(t, c.SetString(KindResistance, "10k"))
	return c
}

func TestNewComponentName(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range []string{"", "R 1", "R(1)", `R"1`, "R:1", "R/1", `R\1`, "R'1", "R\t1"} {
		_, err := NewComponent(reg, name)
		assert.ErrorIs(t, err, ErrInvalidName, "%q", name)
	}

	c, err := NewComponent(reg, "R0603_1.33K")
	require.NoError(t, err)
	assert.Equal(t, "R0603_1.33K", c.Name())
}

func TestComponentAttributes(t *testing.T) {
	c := newResistor(t, "R1")

	t.Run("set replaces", func(t *testing.T) {
		require.NoError(t, c.Set(KindTolerance, Number(5)))
		require.NoError(t, c.Set(KindTolerance, Number(1)))
		v, ok := c.Get(KindTolerance)
		require.True(t, ok)
		assert.Equal(t, "1", v.String())
	})

	t.Run("rejected values leave the set alone", func(t *testing.T) {
		before := c.Hash()
		assert.ErrorIs(t, c.Set(KindTolerance, Number(500)), ErrInvalidValue)
		assert.ErrorIs(t, c.Set("color", Text("red")), ErrUnknownKind)
		assert.Equal(t, before, c.Hash())
	})

	t.Run("remove absent kind", func(t *testing.T) {
		before := c.Hash()
		c.Remove(KindVoltage)
		assert.Equal(t, before, c.Hash())
	})

	t.Run("registry order", func(t *testing.T) {
		attrs := c.Attributes()
		require.Len(t, attrs, 5)
		assert.Equal(t, KindRole, attrs[0].Kind)
		assert.Equal(t, KindPackage, attrs[1].Kind)
		assert.Equal(t, KindPinCount, attrs[2].Kind)
	})
}

func TestRequiredAttributesPresent(t *testing.T) {
	reg := DefaultRegistry()

	c, err := NewComponent(reg, "X1")
	require.NoError(t, err)
	assert.False(t, c.RequiredAttributesPresent(ForSymbol), "no role")
	assert.Equal(t, []Kind{KindRole}, c.Missing(ForSymbol))

	require.NoError(t, c.Set(KindRole, Text(RoleIC)))
	require.NoError(t, c.Set(KindPinCount, Int(8)))
	assert.False(t, c.RequiredAttributesPresent(ForSymbol))
	assert.Equal(t, []Kind{KindPackage}, c.Missing(ForFootprint))

	require.NoError(t, c.Set(KindPackage, Text("SOIC")))
	assert.True(t, c.RequiredAttributesPresent(ForSymbol))
	assert.True(t, c.RequiredAttributesPresent(ForFootprint))
	assert.False(t, c.RequiredAttributesPresent(ForDatabase))
	assert.Equal(t, []Kind{KindMPN}, c.Missing(ForDatabase))

	err = c.requireFor(ForDatabase)
	assert.True(t, IsMissingAttribute(err))
	var merr *MissingAttributeError
	require.True(t, errors.As(err, &merr))
	assert.Equal(t, "X1", merr.Symbol)

	t.Run("resistor value", func(t *testing.T) {
		r := part(t, "R1", "role", "resistor", "package", "0603", "pin_count", "2")
		assert.True(t, r.RequiredAttributesPresent(ForSymbol))
		assert.True(t, r.RequiredAttributesPresent(ForFootprint))
		assert.Equal(t, []Kind{KindResistance}, r.Missing(ForDatabase))
	})
}

func TestComponentState(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)
	g := NewGenerator(DefaultRegistry(), rules, mustKiCad(t, KiCad8))

	c, err := NewComponent(g.Registry, "R1")
	require.NoError(t, err)
	assert.Equal(t, Draft, c.State())

	c = newResistor(t, "R1")
	assert.Equal(t, Valid, c.State())

	_, err = g.SymbolGeometry(c)
	require.NoError(t, err)
	assert.Equal(t, Generated, c.State())

	_, err = g.EmitSymbol(c)
	require.NoError(t, err)
	assert.Equal(t, Emitted, c.State())

	require.NoError(t, c.Set(KindTolerance, Number(1)))
	assert.Equal(t, Valid, c.State(), "mutation drops the cache")

	c.Remove(KindPackage)
	assert.Equal(t, Draft, c.State())
}

func TestComponentHashAndClone(t *testing.T) {
	a := newResistor(t, "R1")
	b := newResistor(t, "R2")
	assert.Equal(t, a.Hash(), b.Hash(), "name is not part of the hash")

	require.NoError(t, b.Set(KindTolerance, Number(1)))
	assert.NotEqual(t, a.Hash(), b.Hash())

	clone, err := b.Clone("R3")
	require.NoError(t, err)
	assert.Equal(t, b.Hash(), clone.Hash())
	assert.Nil(t, clone.Owner())

	require.NoError(t, clone.Set(KindTolerance, Number(5)))
	v, _ := b.Get(KindTolerance)
	assert.Equal(t, "1", v.String(), "clone does not share attributes")

	_, err = b.Clone("bad name")
	assert.ErrorIs(t, err, ErrInvalidName)
}
