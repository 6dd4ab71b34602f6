package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/cmd/casecut/commands"
	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/logger"
)

var flags commands.GlobalFlags

var rootCmd = &cobra.Command{
	Use:   "casecut",
	Short: "CaseCut - kitchen cabinet CNC pipeline",
	Long: `CaseCut turns kitchen cabinet designs into manufacturing outputs: cut lists,
nested sheet layouts, machining jobs, G-code programs and cost estimates.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (CASECUT_* prefix, e.g. CASECUT_STOCK_KERF=4)
3. --config file, or ./casecut.toml, or ~/.casecut/casecut.toml
4. Default values

Available commands:
  cutlist   - Generate the cut list
  nest      - Nest the cut list onto stock sheets
  gcode     - Generate G-code programs
  cost      - Estimate material and hardware cost
  run       - Run the full pipeline and write all outputs
  inspect   - Summarise a G-code program
  templates - List and save cabinet templates
  tools     - Show the tool catalog

Examples:
  casecut cutlist --template base-600
  casecut run kitchen.toml -o out/kitchen
  casecut inspect out/kitchen/gcode/Base_600_Door.nc`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return commands.Setup(cmd, flags)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "Config file (default: ./casecut.toml or ~/.casecut/casecut.toml)")
	pf.BoolVar(&flags.LogJSON, "log-json", false, "Write logs as JSON")
	pf.StringVar(&flags.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.IntVar(&flags.Workers, "workers", 0, "Worker goroutines for cut lists and machining (0 = one per CPU)")

	rootCmd.AddCommand(commands.CutlistCmd)
	rootCmd.AddCommand(commands.NestCmd)
	rootCmd.AddCommand(commands.GcodeCmd)
	rootCmd.AddCommand(commands.CostCmd)
	rootCmd.AddCommand(commands.RunCmd)
	rootCmd.AddCommand(commands.InspectCmd)
	rootCmd.AddCommand(commands.TemplatesCmd)
	rootCmd.AddCommand(commands.ToolsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logger.Sync()

	if err != nil {
		pterm.Error.Println(err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, "hint:", hint)
		}
		if errors.IsValidationError(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
