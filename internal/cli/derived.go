package cli

import (
	"fmt"

	"github.com/mdayat/nur-ramadan/internal/derive"
	"github.com/mdayat/nur-ramadan/internal/dtos"
)

type ZakatCmd struct {
	Wealth string `arg:"" help:"Total zakatable wealth."`
}

func (c *ZakatCmd) Run(ctx *Context) error {
	zakat := ctx.Session.Zakat(derive.ParseWealth(c.Wealth))

	fmt.Fprintf(ctx.Out, "Nisab: %.0f\n", zakat.Nisab)
	if !zakat.Wajib {
		fmt.Fprintln(ctx.Out, "Below nisab, no zakat due")
		return nil
	}

	fmt.Fprintf(ctx.Out, "Zakat due: %d\n", zakat.AmountDue)
	return nil
}

type DuasCmd struct {
	Search   string `help:"Literal text to look for in either language."`
	Category string `enum:"all,iftar,suhoor,prayer,morning,evening" default:"all" help:"Category filter."`
}

func (c *DuasCmd) Run(ctx *Context) error {
	duas := ctx.Session.Duas(derive.DuaFilter{
		Search:   c.Search,
		Category: dtos.DuaCategory(c.Category),
	})

	if len(duas) == 0 {
		fmt.Fprintln(ctx.Out, "No duas found")
		return nil
	}

	for _, dua := range duas {
		fmt.Fprintf(ctx.Out, "#%s [%s] %s\n", dua.Id, dua.Category, dua.TextAr)
		if dua.TextEn != "" {
			fmt.Fprintf(ctx.Out, "    %s\n", dua.TextEn)
		}
		if dua.Source != "" {
			fmt.Fprintf(ctx.Out, "    (%s)\n", dua.Source)
		}
	}

	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *Context) error {
	stats := ctx.Session.Stats()
	if stats == nil {
		fmt.Fprintln(ctx.Out, "Stats unavailable")
		return nil
	}

	if stats.TotalPoints != nil {
		fmt.Fprintf(ctx.Out, "Points:  %d\n", *stats.TotalPoints)
	}
	fmt.Fprintf(ctx.Out, "Streak:  %d\n", stats.CurrentStreak)
	fmt.Fprintf(ctx.Out, "Fasted:  %d days\n", stats.FastingDays)
	fmt.Fprintf(ctx.Out, "Prayers: %d\n", stats.PrayersCompleted)
	return nil
}

type TimesCmd struct {
	Latitude  string `arg:"" help:"Latitude in decimal degrees."`
	Longitude string `arg:"" help:"Longitude in decimal degrees."`
}

// Run prints the inline message along with the error, the same text the
// REST surface leaves in the snapshot.
func (c *TimesCmd) Run(ctx *Context) error {
	err := ctx.Session.FetchPrayerTimes(ctx.Ctx, c.Latitude, c.Longitude)
	printToday(ctx.Out, ctx.Session.Snapshot())
	return err
}

type LangCmd struct {
	Language string `arg:"" enum:"ar,en" help:"Interface language (ar, en)."`
}

func (c *LangCmd) Run(ctx *Context) error {
	if err := ctx.Session.SetLanguage(ctx.Ctx, c.Language); err != nil {
		return err
	}

	_, err := fmt.Fprintf(ctx.Out, "Language set to %s\n", c.Language)
	return err
}
