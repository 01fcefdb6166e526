package derive

import "testing"

func TestClampPages(t *testing.T) {
	table := map[int]int{610: 604, 604: 604, -5: 0, 0: 0, 37: 37}
	for input, expected := range table {
		if got := ClampPages(input); got != expected {
			t.Errorf("ClampPages(%d): expected %d, got %d", input, expected, got)
		}
	}
}
