package listing

import (
	"slices"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// Payment sort keys.
const (
	SortByDate   = "date"
	SortByAmount = "amount"
	SortByMonth  = "month"
)

// SortPayments orders payments newest first by the given key. Unknown keys
// sort by date.
func SortPayments(items []domain.Payment, by string) []domain.Payment {
	out := slices.Clone(items)
	var cmp func(a, b domain.Payment) int
	switch by {
	case SortByAmount:
		cmp = func(a, b domain.Payment) int { return b.Amount.Cmp(a.Amount) }
	case SortByMonth:
		cmp = func(a, b domain.Payment) int { return b.MonthNumber - a.MonthNumber }
	default:
		cmp = func(a, b domain.Payment) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// PaymentPrepare searches locally and then sorts by the filter's sort param.
func PaymentPrepare(f Filter, items []domain.Payment) []domain.Payment {
	return SortPayments(SearchRecords(items, f.Search), f.Param("sort"))
}
