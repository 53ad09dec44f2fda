package stats

import "fmt"

const (
	thousand = 1_000
	million  = 1_000_000
	billion  = 1_000_000_000
)

// FormatNumber renders n in compact human form: values at or above one
// thousand, one million, or one billion are shown with one decimal and a
// K, M, or B suffix; smaller values are shown verbatim.
func FormatNumber(n int64) string {
	switch {
	case n >= billion:
		return fmt.Sprintf("%.1fB", float64(n)/billion)
	case n >= million:
		return fmt.Sprintf("%.1fM", float64(n)/million)
	case n >= thousand:
		return fmt.Sprintf("%.1fK", float64(n)/thousand)
	default:
		return fmt.Sprintf("%d", n)
	}
}
