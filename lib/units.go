package lib

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var siPrefixes = []struct {
	symbol string
	scale  float64
}{
	{"T", 1e12},
	{"G", 1e9},
	{"M", 1e6},
	{"k", 1e3},
	{"", 1},
	{"m", 1e-3},
	{"u", 1e-6},
	{"n", 1e-9},
	{"p", 1e-12},
}

/*
	ParseEngineering reads numbers written the way parts are labelled:
	"4.7k", "4k7", "100n", "2.2uF", "1M", "0R5", "10%", "1/10W". A trailing unit
	(ohm, F, H, V, A, W, %) is ignored.
*/
func ParseEngineering(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty number")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	for _, unit := range []string{"ohms", "ohm", "Ω", "F", "H", "V", "A", "W", "%"} {
		if strings.HasSuffix(s, unit) && len(s) > len(unit) {
			s = strings.TrimSuffix(s, unit)
			break
		}
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(den, 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("cannot parse %q as a fraction", raw)
		}
		return n / d, nil
	}

	// 4k7 / 0R5 style: the multiplier takes the place of the decimal point
	for _, p := range append(siPrefixes, struct {
		symbol string
		scale  float64
	}{"R", 1}) {
		if p.symbol == "" {
			continue
		}
		sym := p.symbol
		if sym == "k" {
			sym = "kK"
		}
		idx := strings.IndexAny(s, sym)
		if idx < 0 {
			continue
		}
		mantissa := s[:idx] + "." + s[idx+1:]
		if idx == len(s)-1 {
			mantissa = s[:idx]
		}
		if idx == 0 {
			mantissa = "0" + mantissa
		}
		v, err := strconv.ParseFloat(mantissa, 64)
		if err != nil {
			continue
		}
		return v * p.scale, nil
	}

	return 0, fmt.Errorf("cannot parse %q as a number", raw)
}

// FormatEngineering writes v with an SI prefix and at most three decimals.
func FormatEngineering(v float64) string {
	if v == 0 {
		return "0"
	}

	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	i := len(siPrefixes) - 1
	for j, p := range siPrefixes {
		if v/p.scale >= 1 {
			i = j
			break
		}
	}

	m := math.Round(v/siPrefixes[i].scale*1000) / 1000
	if m >= 1000 && i > 0 {
		i--
		m = math.Round(v/siPrefixes[i].scale*1000) / 1000
	}

	return sign + strconv.FormatFloat(m, 'f', -1, 64) + siPrefixes[i].symbol
}

// formatNumber writes coordinates and sizes. Four decimals is below the
// resolution of every target format.
func formatNumber(v float64) string {
	v = math.Round(v*10000) / 10000
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
