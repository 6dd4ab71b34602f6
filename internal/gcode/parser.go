package gcode

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/piwi3910/CaseCut/internal/model"
)

// MoveType represents the type of CNC toolpath movement.
type MoveType int

const (
	MoveRapid   MoveType = iota // G0: rapid positioning (no cutting)
	MoveFeed                    // G1: linear feed (cutting move in XY plane)
	MovePlunge                  // G1 with Z decreasing: plunging into material
	MoveRetract                 // G0/G1 with Z increasing: retracting from material
)

func (m MoveType) String() string {
	switch m {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MovePlunge:
		return "plunge"
	case MoveRetract:
		return "retract"
	}
	return "unknown"
}

// Move is a single parsed G0/G1 movement.
type Move struct {
	Line     int // 1-based source line
	Type     MoveType
	Tool     int // Active T number, 0 before the first tool change
	From     model.Point3D
	To       model.Point3D
	FeedRate float64
}

// Length returns the straight-line distance travelled.
func (m Move) Length() float64 {
	return m.From.DistanceTo(m.To)
}

// Cutting reports whether the tool is below the surface at the end of the move.
func (m Move) Cutting() bool {
	return m.Type != MoveRapid && m.Type != MoveRetract && m.To.Z < 0
}

var wordRe = regexp.MustCompile(`([GMTXYZF])(-?\d+\.?\d*)`)

// ParseGCode parses program text into absolute moves. It tracks position,
// feed rate and the loaded tool. Relative blocks (G91, used only for homing)
// are skipped.
func ParseGCode(code string) []Move {
	var moves []Move

	var cur model.Point3D
	curFeed := 0.0
	curTool := 0

	for n, line := range strings.Split(code, "\n") {
		line = stripComment(strings.ToUpper(strings.TrimSpace(line)))
		if line == "" {
			continue
		}

		var gcodes []int
		next, feed := cur, curFeed
		nextTool := curTool
		toolChange := false
		for _, m := range wordRe.FindAllStringSubmatch(line, -1) {
			val, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			switch m[1] {
			case "G":
				gcodes = append(gcodes, int(val))
			case "M":
				if int(val) == 6 {
					toolChange = true
				}
			case "T":
				nextTool = int(val)
			case "X":
				next.X = val
			case "Y":
				next.Y = val
			case "Z":
				next.Z = val
			case "F":
				feed = val
			}
		}
		if toolChange || nextTool != curTool {
			curTool = nextTool
		}
		if containsInt(gcodes, 91) || containsInt(gcodes, 28) {
			continue
		}

		isRapid := containsInt(gcodes, 0)
		isFeed := containsInt(gcodes, 1)
		if !isRapid && !isFeed {
			continue
		}

		moves = append(moves, Move{
			Line:     n + 1,
			Type:     classifyMove(isRapid, cur, next),
			Tool:     curTool,
			From:     cur,
			To:       next,
			FeedRate: feed,
		})
		cur, curFeed = next, feed
	}

	return moves
}

// stripComment removes semicolon and parenthesised comments.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	for {
		start := strings.Index(line, "(")
		if start < 0 {
			break
		}
		end := strings.Index(line[start:], ")")
		if end < 0 {
			line = line[:start]
			break
		}
		line = line[:start] + line[start+end+1:]
	}
	return strings.TrimSpace(line)
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// classifyMove determines the MoveType based on movement characteristics.
func classifyMove(isRapid bool, from, to model.Point3D) MoveType {
	zDelta := to.Z - from.Z
	hasXY := from.X != to.X || from.Y != to.Y

	switch {
	case isRapid:
		if zDelta > 0 {
			return MoveRetract
		}
		return MoveRapid
	case zDelta < -0.001 && !hasXY:
		// Z going down without XY movement = plunge
		return MovePlunge
	case zDelta > 0.001 && !hasXY:
		return MoveRetract
	default:
		return MoveFeed
	}
}

// Summary aggregates a parsed program.
type Summary struct {
	Moves       int
	Counts      map[MoveType]int
	CutLength   float64 // mm travelled below the surface
	RapidLength float64
	MaxDepth    float64 // Deepest Z below zero, as a positive number
	Tools       []int   // Distinct T numbers in ascending order
	CutBounds   model.Box
}

// Summarize totals move counts, distances and cutting extents.
func Summarize(moves []Move) Summary {
	s := Summary{Moves: len(moves), Counts: make(map[MoveType]int)}
	seen := make(map[int]bool)
	var cutPts []model.Point3D

	for _, m := range moves {
		s.Counts[m.Type]++
		if m.Tool != 0 && !seen[m.Tool] {
			seen[m.Tool] = true
			s.Tools = append(s.Tools, m.Tool)
		}
		switch {
		case m.Type == MoveRapid || m.Type == MoveRetract:
			s.RapidLength += m.Length()
		case m.Cutting():
			s.CutLength += m.Length()
			cutPts = append(cutPts, m.From, m.To)
		}
		s.MaxDepth = max(s.MaxDepth, -m.To.Z)
	}
	sort.Ints(s.Tools)
	if len(cutPts) > 0 {
		s.CutBounds = model.BoundingBox(cutPts)
	}
	return s
}
