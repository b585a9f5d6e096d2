package main

import (
	"context"
	"fmt"
	"os"

	"github.com/GabRuby/calcTacos/internal/cli"
	"github.com/GabRuby/calcTacos/internal/infrastructure/config"
	"github.com/GabRuby/calcTacos/internal/infrastructure/logging"
)

func main() {
	flags, err := cli.ParseReportFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if err := run(flags); err != nil {
		fmt.Fprintf(os.Stderr, "daily-report: %v\n", err)
		os.Exit(1)
	}
}

func run(flags *cli.ReportFlags) error {
	cfg := config.LoadOrEnv_WithPath(flags.ConfigPath)

	loggingCfg := cfg.Observability.Logging
	loggingCfg.Level = "warn"
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(loggingCfg, "report")

	ctx := context.Background()
	app, err := cli.Bootstrap(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()

	if flags.JSON {
		data, _, err := app.Sales.Export(ctx, flags.Date)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}

	summary, err := app.Sales.Daily(ctx, flags.Date)
	if err != nil {
		return err
	}
	cli.PrintHeader(os.Stdout, cfg.Business.Name, summary.Date)
	cli.PrintDailySummary(os.Stdout, summary, app.Formatter)
	return nil
}
