package derive

import "github.com/mdayat/nur-ramadan/internal/dtos"

// ClampPages bounds a page count to [0, MaxQuranPages].
func ClampPages(pages int) int {
	if pages < 0 {
		return 0
	}
	if pages > dtos.MaxQuranPages {
		return dtos.MaxQuranPages
	}
	return pages
}
