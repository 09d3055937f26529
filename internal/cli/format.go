package cli

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/etsvibes/ets-vibes/pkg/editor"
)

const modifiedLayout = "02/01 15:04"

// formatNumber groups digits with dots, e.g. 50.000.000.
func formatNumber(n int64) string {
	return message.NewPrinter(language.German).Sprintf("%d", n)
}

func formatMoney(n int64) string {
	return "€" + formatNumber(n)
}

// formatValue formats a raw SII value for display. Non-numeric values are
// returned as they are.
func formatValue(property, raw string) string {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return raw
	}

	if property == editor.PropertyMoney {
		return formatMoney(n)
	}

	return formatNumber(n)
}

// propertyLabel returns the display label of a property.
func propertyLabel(property string) string {
	switch property {
	case editor.PropertyMoney:
		return "Money"
	case editor.PropertyXP:
		return "XP"
	}

	return property
}
