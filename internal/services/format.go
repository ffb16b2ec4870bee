package services

import (
	"fmt"

	"golang.org/x/text/language"
)

// ScaleLabels names the magnitude tiers used by Formatter.
type ScaleLabels struct {
	Thousand string
	Million  string
	Billion  string
}

var (
	EnglishLabels    = ScaleLabels{Thousand: "thousand", Million: "million", Billion: "billion"}
	PortugueseLabels = ScaleLabels{Thousand: "mil", Million: "milhões", Billion: "bilhões"}
)

// LabelsFor returns the scale labels of the closest supported locale.
func LabelsFor(tag language.Tag) ScaleLabels {
	if MatchLocale(tag) == language.Portuguese {
		return PortugueseLabels
	}
	return EnglishLabels
}

// Formatter renders magnitudes as "<prefix> <value> <label>" with two
// decimals. Scaling stops at millions, so values of a billion or more show
// as an oversized million figure unless Billions is set.
type Formatter struct {
	Labels   ScaleLabels
	Billions bool
}

var defaultFormatter = Formatter{Labels: EnglishLabels}

// FormatNumber formats value with the English three-tier scale.
func FormatNumber(value float64, prefix string) string {
	return defaultFormatter.Format(value, prefix)
}

// Format renders value. A Formatter without labels uses EnglishLabels.
func (f Formatter) Format(value float64, prefix string) string {
	if f.Labels == (ScaleLabels{}) {
		f.Labels = EnglishLabels
	}
	for _, label := range []string{"", f.Labels.Thousand} {
		if value < 1000 {
			return render(value, label, prefix)
		}
		value /= 1000
	}
	if f.Billions && value >= 1000 {
		return render(value/1000, f.Labels.Billion, prefix)
	}
	return render(value, f.Labels.Million, prefix)
}

func render(value float64, label, prefix string) string {
	s := fmt.Sprintf("%.2f %s", value, label)
	if prefix != "" {
		return prefix + " " + s
	}
	return s
}
