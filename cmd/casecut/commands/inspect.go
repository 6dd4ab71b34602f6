package commands

import (
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/piwi3910/CaseCut/internal/errors"
	"github.com/piwi3910/CaseCut/internal/gcode"
)

// InspectCmd parses a G-code file and summarises its moves
var InspectCmd = &cobra.Command{
	Use:   "inspect <file.nc>",
	Short: "Summarise a G-code program",
	Long: `Parse a G-code file and report move counts, cut and rapid distances, the
tools used and the cutting extents. With --width and --height, cutting
moves outside the panel (grown by --margin) are listed.

Examples:
  casecut inspect out/gcode/Base_600_Side_Panel.nc
  casecut inspect side.nc --width 560 --height 720 --margin 3`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectWidth  float64
	inspectHeight float64
	inspectMargin float64
)

func init() {
	InspectCmd.Flags().Float64Var(&inspectWidth, "width", 0, "Panel width for the bounds check")
	InspectCmd.Flags().Float64Var(&inspectHeight, "height", 0, "Panel height for the bounds check")
	InspectCmd.Flags().Float64Var(&inspectMargin, "margin", 0, "Allowed distance outside the panel, usually the largest tool radius")
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", args[0])
	}

	moves := gcode.ParseGCode(string(data))
	s := gcode.Summarize(moves)

	tools := make([]string, len(s.Tools))
	for i, t := range s.Tools {
		tools[i] = "T" + strconv.Itoa(t)
	}

	pterm.DefaultSection.Println(args[0])
	table := pterm.TableData{
		{"Metric", "Value"},
		{"Moves", strconv.Itoa(s.Moves)},
		{"Rapid", strconv.Itoa(s.Counts[gcode.MoveRapid])},
		{"Feed", strconv.Itoa(s.Counts[gcode.MoveFeed])},
		{"Plunge", strconv.Itoa(s.Counts[gcode.MovePlunge])},
		{"Retract", strconv.Itoa(s.Counts[gcode.MoveRetract])},
		{"Cut length", mm(round1(s.CutLength)) + " mm"},
		{"Rapid length", mm(round1(s.RapidLength)) + " mm"},
		{"Max depth", mm(s.MaxDepth) + " mm"},
		{"Tools", strings.Join(tools, " ")},
		{"Cut extents", mm(round1(s.CutBounds.Width())) + " x " + mm(round1(s.CutBounds.Height())) + " mm"},
	}
	if err := renderTable(table); err != nil {
		return err
	}

	if inspectWidth > 0 && inspectHeight > 0 {
		violations := gcode.CheckBounds(moves, inspectWidth, inspectHeight, inspectMargin)
		if len(violations) == 0 {
			pterm.Success.Println("All cutting moves stay inside the panel")
			return nil
		}
		printWarnings(gcode.FormatBoundsWarnings(args[0], violations))
		return errors.Newf("%d cutting moves leave the panel", len(violations))
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
