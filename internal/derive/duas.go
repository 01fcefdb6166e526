package derive

import (
	"strings"

	"github.com/mdayat/nur-ramadan/internal/dtos"
)

type DuaFilter struct {
	Search   string
	Category dtos.DuaCategory
}

// FilterDuas keeps catalog order. Search is a case-sensitive literal
// substring match on either text; diacritics are significant.
func FilterDuas(duas []dtos.Dua, filter DuaFilter) []dtos.Dua {
	filtered := make([]dtos.Dua, 0, len(duas))
	for _, dua := range duas {
		matchSearch := filter.Search == "" ||
			strings.Contains(dua.TextAr, filter.Search) ||
			strings.Contains(dua.TextEn, filter.Search)
		matchCategory := filter.Category == "" || filter.Category == dtos.CategoryAll || dua.Category == filter.Category

		if matchSearch && matchCategory {
			filtered = append(filtered, dua)
		}
	}

	return filtered
}
