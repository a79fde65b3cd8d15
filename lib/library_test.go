package lib

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T, root string) *Store {
	t.Helper()
	s, err := OpenStore(root, DefaultRegistry())
	require.NoError(t, err)
	return s
}

func TestStorePutGet(t *testing.T) {
	root := t.TempDir()
	s := openStore(t, root)

	r1 := part(t, "R1", "role", "resistor", "package", "0603", "pin_count", "2", "resistance", "4k7")
	require.NoError(t, s.Put(r1))
	u1 := part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8", "mpn", "NE555DR")
	require.NoError(t, s.Put(u1))

	got, err := s.Get("R1")
	require.NoError(t, err)
	assert.Equal(t, r1.Hash(), got.Hash())
	assert.Nil(t, got.Owner())

	_, err = s.Get("R2")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := s.Find("NE555DR", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, names)

	// replacing keeps one entry
	require.NoError(t, r1.SetString(KindResistance, "10k"))
	require.NoError(t, s.Put(r1))
	all, err := s.Names()
	require.NoError(t, err)
	assert.Equal(t, []string{"R1", "U1"}, all)

	require.NoError(t, s.Close())

	s = openStore(t, root)
	defer s.Close()
	got, err = s.Get("R1")
	require.NoError(t, err)
	assert.Equal(t, "10000", got.text(KindResistance))

	names, err = s.Find("NE555DR", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"U1"}, names)
}

func TestStorePutAll(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer s.Close()

	resistors, err := ResistorSeries(DefaultRegistry(), "E12", "0603", []float64{1000}, "Vishay")
	require.NoError(t, err)
	require.NoError(t, s.PutAll(context.Background(), resistors))

	n, err := s.Reindex()
	require.NoError(t, err)
	assert.Zero(t, n, "PutAll leaves nothing unindexed")

	names, err := s.Names()
	require.NoError(t, err)
	assert.Len(t, names, 12)

	hits, err := s.Find("CRCW06031K50FKEA", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"R0603_1.50K"}, hits)

	hits, err = s.Find("Digikey", 100)
	require.NoError(t, err)
	assert.Len(t, hits, 12)

	hits, err = s.Find("Digikey", 0)
	require.NoError(t, err)
	assert.Len(t, hits, 10, "default limit")

	cat, err := s.Catalog("stored", "R0603_2.20K", "R0603_1.00K")
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	assert.Equal(t, "R0603_2.20K", cat.Components()[0].Name())

	cat, err = s.Catalog("stored")
	require.NoError(t, err)
	assert.Equal(t, 12, cat.Len())

	_, err = s.Catalog("stored", "R0603_2.21K")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreDelete(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer s.Close()

	require.NoError(t, s.Put(part(t, "U1", "role", "ic", "package", "SOIC", "pin_count", "8", "mpn", "NE555DR")))
	require.NoError(t, s.Delete("U1"))
	require.NoError(t, s.Delete("U1"))

	_, err := s.Get("U1")
	assert.ErrorIs(t, err, ErrNotFound)
	hits, err := s.Find("NE555DR", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestStorePutAllCancelled(t *testing.T) {
	s := openStore(t, t.TempDir())
	defer s.Close()

	resistors, err := ResistorSeries(DefaultRegistry(), "E6", "0603", nil, "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.PutAll(ctx, resistors), context.Canceled)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Exists(dir))
	assert.False(t, Exists(filepath.Join(dir, "missing")))
}
