// Package transform flattens raw statistics into a table.
//
// Column names are slugs of the statistic display names:
//
//	"Market Cap (M)"          -> market_cap_in_m
//	"5Y Net Dividend Growth"  -> 5y_net_dividend_growth
//	"P/E Ratio"               -> p_e_ratio
//
// Values stay strings with thousands separators and percent signs removed,
// except five numeric columns that are parsed to float64 (see Coerce).
package transform
