package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseGPS splits the protocol's "lat,lng" GPS string into its two
// decimal components, defaulting both to zero when the value is
// missing or malformed.
func parseGPS(gps string) (lat, lng decimal.Decimal) {
	parts := strings.SplitN(gps, ",", 2)
	if len(parts) != 2 {
		return decimal.Zero, decimal.Zero
	}
	return mustDecimal(strings.TrimSpace(parts[0])), mustDecimal(strings.TrimSpace(parts[1]))
}
