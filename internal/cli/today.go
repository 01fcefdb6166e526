package cli

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	printToday(ctx.Out, ctx.Session.Snapshot())
	return nil
}

type FastCmd struct{}

func (c *FastCmd) Run(ctx *Context) error {
	if err := ctx.Session.ToggleFasting(ctx.Ctx); err != nil {
		return err
	}

	printToday(ctx.Out, ctx.Session.Snapshot())
	return nil
}

type PrayCmd struct {
	Name string `arg:"" enum:"fajr,dhuhr,asr,maghrib,isha" help:"Prayer to toggle (fajr, dhuhr, asr, maghrib, isha)."`
}

func (c *PrayCmd) Run(ctx *Context) error {
	if err := ctx.Session.TogglePrayer(ctx.Ctx, c.Name); err != nil {
		return err
	}

	printToday(ctx.Out, ctx.Session.Snapshot())
	return nil
}
