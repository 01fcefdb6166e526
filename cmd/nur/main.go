package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/mdayat/nur-ramadan/configs"
	"github.com/mdayat/nur-ramadan/internal/app"
	"github.com/mdayat/nur-ramadan/internal/cli"
	"github.com/rs/zerolog"
)

var CLI struct {
	Version kong.VersionFlag
	EnvFile string `help:"Dotenv file to load." type:"path" default:".env"`
	Verbose bool   `help:"Log at debug level." short:"v"`

	Today cli.TodayCmd `cmd:"" help:"Show today's logs." default:"1"`
	Fast  cli.FastCmd  `cmd:"" help:"Toggle today's fast."`
	Pray  cli.PrayCmd  `cmd:"" help:"Toggle one of today's prayers."`
	Quran struct {
		Set   cli.QuranSetCmd   `cmd:"" help:"Set today's pages read."`
		Add   cli.QuranAddCmd   `cmd:"" help:"Read one more page."`
		Reset cli.QuranResetCmd `cmd:"" help:"Reset today's pages."`
	} `cmd:"" help:"Track Quran reading."`
	Zakat cli.ZakatCmd `cmd:"" help:"Calculate zakat on wealth."`
	Duas  cli.DuasCmd  `cmd:"" help:"Browse the dua library."`
	Stats cli.StatsCmd `cmd:"" help:"Show aggregate stats."`
	Times cli.TimesCmd `cmd:"" help:"Fetch today's prayer times and the iftar countdown."`
	Lang  cli.LangCmd  `cmd:"" help:"Set the interface language."`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("nur"),
		kong.Description("Daily Ramadan ritual tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	env, err := configs.LoadEnv(CLI.EnvFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger := configs.NewLogger(env)
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if CLI.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx := logger.WithContext(context.Background())
	nur, err := app.Open(ctx, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(&cli.Context{
		Ctx:     ctx,
		Session: nur.Session,
		Out:     os.Stdout,
	})
	nur.Close()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
