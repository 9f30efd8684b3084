package transform

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Numeric columns. Percent columns hold values like "4.50%" that are stored as fractions.
var (
	percentColumns = map[string]bool{
		"5y_net_dividend_growth":         true,
		"dividend_indicated_gross_yield": true,
	}
	plainColumns = map[string]bool{
		"market_cap_in_m":          true,
		"shares_outstanding_in_m":  true,
		"average_volume_in_30_day": true,
	}
)

// IsNumeric reports whether column is coerced to float64.
func IsNumeric(column string) bool {
	return percentColumns[column] || plainColumns[column]
}

// CoerceError reports a numeric column whose value does not parse.
type CoerceError struct {
	Stock  string
	Column string
	Value  string
	Err    error
}

func (e *CoerceError) Error() string {
	return fmt.Sprintf("coerce %s.%s %q: %v", e.Stock, e.Column, e.Value, e.Err)
}

func (e *CoerceError) Unwrap() error {
	return e.Err
}

// Coerce parses the value of a numeric column. Thousands separators are removed;
// in percent columns a trailing "%" divides the number by 100 ("4.50%" -> 0.045).
func Coerce(column, value string) (float64, error) {
	s := strings.ReplaceAll(strings.TrimSpace(value), ",", "")

	shift := int32(0)
	if percentColumns[column] && strings.HasSuffix(s, "%") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		shift = -2
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Shift(shift).Float64()
	return f, nil
}
