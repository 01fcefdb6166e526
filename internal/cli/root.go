package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mdayat/nur-ramadan/internal/dtos"
	"github.com/mdayat/nur-ramadan/internal/services"
)

// Context is bound into every command's Run method.
type Context struct {
	Ctx     context.Context
	Session services.SessionServicer
	Out     io.Writer
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func printToday(out io.Writer, snapshot dtos.SnapshotResponse) {
	today := snapshot.Today
	fmt.Fprintf(out, "Date:    %s\n", today.Date)
	fmt.Fprintf(out, "Fasting: %s\n", check(today.Fasting.IsFasting))

	prayers := make([]string, 0, len(dtos.PrayerNames))
	for _, name := range dtos.PrayerNames {
		prayers = append(prayers, fmt.Sprintf("%s %s", check(today.Prayer.Flag(name)), name))
	}
	fmt.Fprintf(out, "Prayers: %s\n", strings.Join(prayers, "  "))
	fmt.Fprintf(out, "Quran:   %d/%d pages\n", today.Quran.PagesRead, dtos.MaxQuranPages)

	if snapshot.PrayerTimes != nil {
		fmt.Fprintf(out, "Suhoor:  %s\n", snapshot.PrayerTimes.SuhoorEnd)
		fmt.Fprintf(out, "Iftar:   %s (day %d)\n", snapshot.PrayerTimes.IftarTime, snapshot.RamadanDay)
	}

	if snapshot.Countdown != "" {
		fmt.Fprintf(out, "Iftar in %s\n", snapshot.Countdown)
	}

	if snapshot.Error != "" {
		fmt.Fprintf(out, "! %s\n", snapshot.Error)
	}
}
