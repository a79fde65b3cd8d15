package lib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

/*
	Preferred number series (IEC 60063). E192 is not tabulated; it is
	computed from its definition like the finer series would be.
*/
var eSeries = map[string][]float64{
	"E3":  {1.0, 2.2, 4.7},
	"E6":  {1.0, 1.5, 2.2, 3.3, 4.7, 6.8},
	"E12": {1.0, 1.2, 1.5, 1.8, 2.2, 2.7, 3.3, 3.9, 4.7, 5.6, 6.8, 8.2},
	"E24": {
		1.0, 1.1, 1.2, 1.3, 1.5, 1.6, 1.8, 2.0, 2.2, 2.4, 2.7, 3.0,
		3.3, 3.6, 3.9, 4.3, 4.7, 5.1, 5.6, 6.2, 6.8, 7.5, 8.2, 9.1,
	},
	"E48": {
		1.00, 1.05, 1.10, 1.15, 1.21, 1.27, 1.33, 1.40, 1.47, 1.54,
		1.62, 1.69, 1.78, 1.87, 1.96, 2.05, 2.15, 2.26, 2.37, 2.49,
		2.61, 2.74, 2.87, 3.01, 3.16, 3.32, 3.48, 3.65, 3.83, 4.02,
		4.22, 4.42, 4.64, 4.87, 5.11, 5.36, 5.62, 5.90, 6.19, 6.49,
		6.81, 7.15, 7.50, 7.87, 8.25, 8.66, 9.09, 9.53,
	},
	"E96": {
		1.00, 1.02, 1.05, 1.07, 1.10, 1.13, 1.15, 1.18, 1.21, 1.24,
		1.27, 1.30, 1.33, 1.37, 1.40, 1.43, 1.47, 1.50, 1.54, 1.58,
		1.62, 1.65, 1.69, 1.74, 1.78, 1.82, 1.87, 1.91, 1.96, 2.00,
		2.05, 2.10, 2.15, 2.21, 2.26, 2.32, 2.37, 2.43, 2.49, 2.55,
		2.61, 2.67, 2.74, 2.80, 2.87, 2.94, 3.01, 3.09, 3.16, 3.24,
		3.32, 3.40, 3.48, 3.57, 3.65, 3.74, 3.83, 3.92, 4.02, 4.12,
		4.22, 4.32, 4.42, 4.53, 4.64, 4.75, 4.87, 4.99, 5.11, 5.23,
		5.36, 5.49, 5.62, 5.76, 5.90, 6.04, 6.19, 6.34, 6.49, 6.65,
		6.81, 6.98, 7.15, 7.32, 7.50, 7.68, 7.87, 8.06, 8.25, 8.45,
		8.66, 8.87, 9.09, 9.31, 9.53, 9.76,
	},
}

// Decades covered when a caller does not choose any: 1 ohm to 999K.
var DefaultDecades = []float64{1, 10, 100, 1e3, 1e4, 1e5}

// SeriesBase returns the base values of one decade of series.
func SeriesBase(series string) ([]float64, error) {
	series = strings.ToUpper(strings.TrimSpace(series))
	if base, ok := eSeries[series]; ok {
		return append([]float64(nil), base...), nil
	}

	if series == "E192" {
		base := make([]float64, 192)
		for i := range base {
			base[i] = math.Round(math.Pow(10, float64(i)/192)*100) / 100
		}
		return base, nil
	}
	return nil, invalidValue(KindESeries, series, "unknown series")
}

// SeriesValues expands series over decades, in ascending order.
func SeriesValues(series string, decades []float64) ([]float64, error) {
	base, err := SeriesBase(series)
	if err != nil {
		return nil, err
	}
	if len(decades) == 0 {
		decades = DefaultDecades
	}

	values := make([]float64, 0, len(base)*len(decades))
	for _, d := range decades {
		for _, b := range base {
			values = append(values, math.Round(b*d*1e4)/1e4)
		}
	}
	return values, nil
}

/*
	FormatResistance renders ohms the way part names and distributor
	numbers expect: three significant digits with a K or M suffix, e.g.
	4.70, 10.0, 1.33K, 100K, 1.00M.
*/
func FormatResistance(ohms float64) string {
	switch {
	case ohms < 10:
		return fmt.Sprintf("%.2f", ohms)
	case ohms < 100:
		return fmt.Sprintf("%.1f", ohms)
	case ohms < 1e3:
		return fmt.Sprintf("%.0f", ohms)
	case ohms < 1e4:
		return fmt.Sprintf("%.2fK", ohms/1e3)
	case ohms < 1e5:
		return fmt.Sprintf("%.1fK", ohms/1e3)
	case ohms < 1e6:
		return fmt.Sprintf("%.0fK", ohms/1e3)
	}
	return fmt.Sprintf("%.2fM", ohms/1e6)
}

// ToleranceFor returns the usual tolerance, in percent, of a series.
func ToleranceFor(series string) float64 {
	switch strings.ToUpper(series) {
	case "E192":
		return 0.5
	case "E96":
		return 1
	case "E48":
		return 2
	case "E24":
		return 5
	case "E12":
		return 10
	case "E6":
		return 20
	case "E3":
		return 50
	}
	return 1
}

var packagePower = map[string]string{
	"0201": "1/20W",
	"0402": "1/16W",
	"0603": "1/10W",
	"0805": "1/8W",
	"1206": "1/4W",
	"1210": "1/2W",
	"1218": "1W",
	"2010": "3/4W",
	"2512": "1W",
}

// PowerLabel is the rated power of a chip resistor as printed in catalogs.
func PowerLabel(pkg string) string {
	if p, ok := packagePower[pkg]; ok {
		return p
	}
	return "1/10W"
}

// PowerFor returns the rated power of a chip resistor in watts.
func PowerFor(pkg string) float64 {
	w, err := ParseEngineering(strings.TrimSuffix(PowerLabel(pkg), "W"))
	if err != nil {
		return 0.1
	}
	return w
}

// Manufacturers with a known part numbering scheme.
const (
	Vishay = "Vishay"
	Yageo  = "Yageo"
	KOA    = "KOA Speer"
)

// SupplierPart is one orderable part of a resistor value.
type SupplierPart struct {
	Manufacturer string
	MPN          string
	Supplier     string
	SupplierPN   string
	SupplierURL  string
}

/*
	ResistorPart returns the manufacturer and distributor numbers of a
	thick film chip resistor. The manufacturer is matched loosely, so
	"koa" and "KOA Speer" are the same.
*/
func ResistorPart(manufacturer, pkg string, ohms float64) (SupplierPart, error) {
	key := strings.ToLower(strings.TrimSpace(manufacturer))
	switch {
	case strings.HasPrefix(key, "vishay"):
		return SupplierPart{
			Manufacturer: Vishay,
			MPN:          VishayMPN(pkg, ohms),
			Supplier:     "Digikey",
			SupplierPN:   DigikeyVishayPN(pkg, ohms),
			SupplierURL:  DigikeyURL(DigikeyVishayPN(pkg, ohms)),
		}, nil
	case strings.HasPrefix(key, "yageo"):
		return SupplierPart{
			Manufacturer: Yageo,
			MPN:          YageoMPN(pkg, ohms),
			Supplier:     "Mouser",
			SupplierPN:   MouserYageoPN(pkg, ohms),
			SupplierURL:  MouserURL(MouserYageoPN(pkg, ohms)),
		}, nil
	case strings.HasPrefix(key, "koa"):
		return SupplierPart{
			Manufacturer: KOA,
			MPN:          KOAMPN(pkg, ohms),
			Supplier:     "Digikey",
			SupplierPN:   KOADigikeyPN(pkg, ohms),
			SupplierURL:  DigikeyURL(KOADigikeyPN(pkg, ohms)),
		}, nil
	}
	return SupplierPart{}, invalidValue(KindManufacturer, manufacturer, "no part numbering scheme")
}

// VishayMPN returns a CRCW thick film part number, e.g. CRCW06031K05FKEA.
func VishayMPN(pkg string, ohms float64) string {
	return "CRCW" + pkg + vishayCode(ohms) + "FKEA"
}

// vishayCode writes the value with the unit letter in place of the point.
func vishayCode(ohms float64) string {
	unit, v := "R", ohms
	switch {
	case ohms >= 1e6:
		unit, v = "M", ohms/1e6
	case ohms >= 1e3:
		unit, v = "K", ohms/1e3
	}

	switch {
	case v >= 100:
		return strconv.Itoa(int(math.Round(v))) + unit
	case v >= 10:
		return strconv.Itoa(int(math.Round(v))) + unit + "0"
	}
	whole := int(v)
	frac := int(math.Round((v - float64(whole)) * 100))
	if frac == 100 {
		whole, frac = whole+1, 0
	}
	return fmt.Sprintf("%d%s%02d", whole, unit, frac)
}

var digikeyVishaySuffix = map[string]string{
	"0402": "LCT",
	"0603": "HCT",
	"0805": "CCT",
	"1206": "FCT",
	"1210": "VCT",
	"1218": "KANCT",
	"2010": "KACCT",
	"2512": "KAFCT",
}

// DigikeyVishayPN returns the Digi-Key number of a Vishay CRCW part.
func DigikeyVishayPN(pkg string, ohms float64) string {
	suffix, ok := digikeyVishaySuffix[pkg]
	if !ok {
		suffix = "CT"
	}
	return "541-" + FormatResistance(ohms) + suffix + "-ND"
}

// YageoMPN returns an RC series part number, e.g. RC0603FR-071.33KL.
func YageoMPN(pkg string, ohms float64) string {
	return "RC" + pkg + "FR-07" + FormatResistance(ohms) + "L"
}

func MouserYageoPN(pkg string, ohms float64) string {
	return "603-RC" + pkg + "FR-07" + FormatResistance(ohms)
}

var koaSize = map[string]string{
	"0402": "1E",
	"0603": "1J",
	"0805": "2A",
	"1206": "2B",
	"1210": "2E",
	"2010": "3A",
	"2512": "3E",
}

// KOAMPN returns an RK73H part number, e.g. RK73H1JTTD1331F.
func KOAMPN(pkg string, ohms float64) string {
	size, ok := koaSize[pkg]
	if !ok {
		size = "1J"
	}
	return "RK73H" + size + "TTD" + koaCode(ohms) + "F"
}

func KOADigikeyPN(pkg string, ohms float64) string {
	return KOAMPN(pkg, ohms) + "-ND"
}

/*
	koaCode is the four character value code: three significant digits
	and a power of ten, or an R in place of the point below 10 ohms.
*/
func koaCode(ohms float64) string {
	if ohms < 10 {
		v := int(math.Round(ohms * 10))
		return fmt.Sprintf("%dR%d", v/10, v%10)
	}

	exp := 0
	digits := ohms
	for digits >= 1000 {
		digits /= 10
		exp++
	}
	if digits < 100 {
		digits *= 10
		exp--
	}
	if exp < 0 {
		// 10 to 99.9 ohms keeps the point: 47.5 is 47R5
		v := int(math.Round(ohms * 10))
		return fmt.Sprintf("%dR%d", v/10, v%10)
	}
	return fmt.Sprintf("%03d%d", int(math.Round(digits)), exp)
}

func DigikeyURL(pn string) string {
	return "https://www.digikey.com/products/en?keywords=" + pn
}

func MouserURL(pn string) string {
	return "https://www.mouser.com/c/?q=" + pn
}

// ResistorName is the symbol name of a chip resistor, e.g. R0603_1.33K.
func ResistorName(pkg string, ohms float64) string {
	return "R" + pkg + "_" + FormatResistance(ohms)
}

/*
	ResistorSeries builds one component per value of series over decades in
	package pkg. Each component carries the tolerance and power of its
	series and package. When manufacturer is set, its part and distributor
	numbers are filled in as well.
*/
func ResistorSeries(reg *Registry, series, pkg string, decades []float64, manufacturer string) ([]*Component, error) {
	values, err := SeriesValues(series, decades)
	if err != nil {
		return nil, err
	}
	series = strings.ToUpper(strings.TrimSpace(series))

	proto, err := NewComponent(reg, "R"+pkg)
	if err != nil {
		return nil, err
	}
	attrs := []struct {
		kind  Kind
		value Value
	}{
		{KindRole, Text(RoleResistor)},
		{KindPackage, Text(pkg)},
		{KindPinCount, Int(2)},
		{KindTolerance, Number(ToleranceFor(series))},
		{KindPower, Number(PowerFor(pkg))},
		{KindESeries, Text(series)},
	}
	for _, a := range attrs {
		if err := proto.Set(a.kind, a.value); err != nil {
			return nil, err
		}
	}

	out := make([]*Component, 0, len(values))
	seen := map[string]bool{}
	for _, ohms := range values {
		name := ResistorName(pkg, ohms)
		// E192 rounding can repeat a value within a decade
		if seen[name] {
			continue
		}
		seen[name] = true

		c, err := proto.Clone(name)
		if err != nil {
			return nil, err
		}
		if err := c.Set(KindResistance, Number(ohms)); err != nil {
			return nil, &EntityError{Symbol: name, Err: err}
		}

		if manufacturer != "" {
			part, err := ResistorPart(manufacturer, pkg, ohms)
			if err != nil {
				return nil, err
			}
			if err := setPart(c, part); err != nil {
				return nil, &EntityError{Symbol: name, Err: err}
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func setPart(c *Component, p SupplierPart) error {
	for kind, v := range map[Kind]string{
		KindManufacturer: p.Manufacturer,
		KindMPN:          p.MPN,
		KindSupplier:     p.Supplier,
		KindSupplierPN:   p.SupplierPN,
		KindSupplierURL:  p.SupplierURL,
	} {
		if err := c.Set(kind, Text(v)); err != nil {
			return err
		}
	}
	return nil
}
