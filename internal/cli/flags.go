package cli

import (
	"flag"
	"fmt"
	"time"

	"github.com/GabRuby/calcTacos/internal/domain/sales"
)

// CommonFlags are shared by every command.
type CommonFlags struct {
	ConfigPath string
	Verbose    bool
}

func (f *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Configuration file (falls back to environment variables)")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	CommonFlags
	Port int
}

// ParseServeFlags parses command line flags for the serve command.
// A zero port keeps the configured one.
func ParseServeFlags(args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("calctacos", flag.ContinueOnError)
	flags.register(fs)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// ReportFlags holds the CLI flags for the daily report command.
type ReportFlags struct {
	CommonFlags
	Date string
	JSON bool
}

// ParseReportFlags parses command line flags for the daily report.
func ParseReportFlags(args []string) (*ReportFlags, error) {
	flags := &ReportFlags{}
	fs := flag.NewFlagSet("daily-report", flag.ContinueOnError)
	flags.register(fs)
	fs.StringVar(&flags.Date, "date", "", "Business date YYYY-MM-DD (default: current business day)")
	fs.BoolVar(&flags.JSON, "json", false, "Print the export JSON instead of the text summary")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if flags.Date != "" {
		if _, err := time.Parse(sales.DateLayout, flags.Date); err != nil {
			return nil, fmt.Errorf("invalid -date %q: want YYYY-MM-DD", flags.Date)
		}
	}
	return flags, nil
}
