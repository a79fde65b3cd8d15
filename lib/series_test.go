package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeriesValues(t *testing.T) {
	for series, n := range map[string]int{"E3": 3, "E6": 6, "E12": 12, "E24": 24, "E48": 48, "E96": 96, "E192": 192} {
		base, err := SeriesBase(series)
		require.NoError(t, err, series)
		assert.Len(t, base, n, series)
		assert.Equal(t, 1.0, base[0], series)
		for i := 1; i < len(base); i++ {
			assert.Less(t, base[i-1], base[i], "%s ascending at %d", series, i)
		}
	}

	values, err := SeriesValues("e12", []float64{1000})
	require.NoError(t, err)
	require.Len(t, values, 12)
	assert.Equal(t, 1000.0, values[0])
	assert.Equal(t, 8200.0, values[11])

	values, err = SeriesValues("E3", nil)
	require.NoError(t, err)
	assert.Len(t, values, 3*len(DefaultDecades))
	assert.Equal(t, 470000.0, values[len(values)-1])

	_, err = SeriesValues("E7", nil)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestFormatResistance(t *testing.T) {
	tests := map[float64]string{
		4.7:    "4.70",
		47.5:   "47.5",
		100:    "100",
		1330:   "1.33K",
		10000:  "10.0K",
		100000: "100K",
		1e6:    "1.00M",
	}
	for ohms, want := range tests {
		assert.Equal(t, want, FormatResistance(ohms), "%g", ohms)
	}
	assert.Equal(t, "R0603_1.33K", ResistorName("0603", 1330))
}

func TestPartNumbers(t *testing.T) {
	t.Run("vishay", func(t *testing.T) {
		assert.Equal(t, "CRCW06031K05FKEA", VishayMPN("0603", 1050))
		assert.Equal(t, "CRCW060310K0FKEA", VishayMPN("0603", 10000))
		assert.Equal(t, "CRCW0603100RFKEA", VishayMPN("0603", 100))
		assert.Equal(t, "CRCW06034R70FKEA", VishayMPN("0603", 4.7))
		assert.Equal(t, "CRCW06031M00FKEA", VishayMPN("0603", 1e6))
		assert.Equal(t, "541-1.05KHCT-ND", DigikeyVishayPN("0603", 1050))
		assert.Equal(t, "541-1.05KCT-ND", DigikeyVishayPN("0201", 1050))
	})

	t.Run("yageo", func(t *testing.T) {
		assert.Equal(t, "RC0603FR-071.33KL", YageoMPN("0603", 1330))
		assert.Equal(t, "603-RC0603FR-071.33K", MouserYageoPN("0603", 1330))
	})

	t.Run("koa", func(t *testing.T) {
		assert.Equal(t, "RK73H1JTTD1331F", KOAMPN("0603", 1330))
		assert.Equal(t, "RK73H2ATTD1002F", KOAMPN("0805", 10000))
		assert.Equal(t, "RK73H1ETTD1000F", KOAMPN("0402", 100))
		assert.Equal(t, "RK73H1JTTD47R5F", KOAMPN("0603", 47.5))
		assert.Equal(t, "RK73H1JTTD4R7F", KOAMPN("0603", 4.7))
		assert.Equal(t, "RK73H1JTTD1004F-ND", KOADigikeyPN("0603", 1e6))
	})

	t.Run("manufacturer lookup", func(t *testing.T) {
		p, err := ResistorPart("koa", "0603", 1330)
		require.NoError(t, err)
		assert.Equal(t, KOA, p.Manufacturer)
		assert.Equal(t, "Digikey", p.Supplier)
		assert.Equal(t, "https://www.digikey.com/products/en?keywords=RK73H1JTTD1331F-ND", p.SupplierURL)

		p, err = ResistorPart("YAGEO Corporation", "0603", 1330)
		require.NoError(t, err)
		assert.Equal(t, "Mouser", p.Supplier)
		assert.Equal(t, "https://www.mouser.com/c/?q=603-RC0603FR-071.33K", p.SupplierURL)

		_, err = ResistorPart("Bourns", "0603", 1330)
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestPower(t *testing.T) {
	assert.Equal(t, "1/16W", PowerLabel("0402"))
	assert.Equal(t, 0.0625, PowerFor("0402"))
	assert.Equal(t, 0.25, PowerFor("1206"))
	assert.Equal(t, 0.1, PowerFor("QFN"))
	assert.Equal(t, 1.0, ToleranceFor("E96"))
	assert.Equal(t, 5.0, ToleranceFor("e24"))
}

func TestResistorSeries(t *testing.T) {
	reg := DefaultRegistry()

	components, err := ResistorSeries(reg, "E24", "0603", []float64{1000}, "Vishay")
	require.NoError(t, err)
	require.Len(t, components, 24)

	first := components[0]
	assert.Equal(t, "R0603_1.00K", first.Name())
	assert.Equal(t, RoleResistor, first.Role())
	assert.Equal(t, 2, first.PinCount())
	assert.Equal(t, "1000", first.text(KindResistance))
	assert.Equal(t, "5", first.text(KindTolerance))
	assert.Equal(t, "0.1", first.text(KindPower))
	assert.Equal(t, "E24", first.text(KindESeries))
	assert.Equal(t, "CRCW06031K00FKEA", first.text(KindMPN))
	assert.Equal(t, "541-1.00KHCT-ND", first.text(KindSupplierPN))
	assert.True(t, first.RequiredAttributesPresent(ForDatabase))
	assert.Equal(t, "R0603_9.10K", components[23].Name())

	for _, c := range components {
		assert.Equal(t, Valid, c.State())
	}

	components, err = ResistorSeries(reg, "E192", "0402", []float64{100}, "")
	require.NoError(t, err)
	names := map[string]bool{}
	for _, c := range components {
		assert.False(t, names[c.Name()], c.Name())
		names[c.Name()] = true
		assert.False(t, c.Has(KindMPN))
	}

	_, err = ResistorSeries(reg, "E24", "0603", []float64{1000}, "Bourns")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = ResistorSeries(reg, "E24", "06 03", nil, "")
	assert.ErrorIs(t, err, ErrInvalidName)
}
