package cli

import "fmt"

type QuranSetCmd struct {
	Pages int `arg:"" help:"Pages read today, clamped to 0..604."`
}

func (c *QuranSetCmd) Run(ctx *Context) error {
	if err := ctx.Session.SetQuranPages(ctx.Ctx, c.Pages); err != nil {
		return err
	}

	return printPages(ctx)
}

type QuranAddCmd struct{}

func (c *QuranAddCmd) Run(ctx *Context) error {
	if err := ctx.Session.AddQuranPage(ctx.Ctx); err != nil {
		return err
	}

	return printPages(ctx)
}

type QuranResetCmd struct{}

func (c *QuranResetCmd) Run(ctx *Context) error {
	if err := ctx.Session.ResetQuranPages(ctx.Ctx); err != nil {
		return err
	}

	return printPages(ctx)
}

func printPages(ctx *Context) error {
	_, err := fmt.Fprintf(ctx.Out, "%d pages\n", ctx.Session.Today().Quran.PagesRead)
	return err
}
