package gcode

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Word is one letter-address pair such as X12.5 or M6.
type Word struct {
	Letter  byte
	Value   float64
	Integer bool // Render without decimals (G, M, T, S codes)
}

// Instruction is one line of a program: a set of words, a comment, or both.
type Instruction struct {
	Words   []Word
	Comment string
}

// Block is the instructions for one CNC operation.
type Block struct {
	OperationID  string
	Name         string
	Tool         string
	ToolNumber   int
	Instructions []Instruction
}

// Program is the structured form of a G-code file. Render turns it into text.
type Program struct {
	JobID         string
	Name          string
	Header        []Instruction
	Operations    []Block
	Footer        []Instruction
	EstimatedTime time.Duration
	GeneratedAt   time.Time
	Precision     int // Decimal places for coordinates
}

// Instructions returns every instruction in program order.
func (p Program) Instructions() []Instruction {
	out := make([]Instruction, 0, len(p.Header)+len(p.Footer))
	out = append(out, p.Header...)
	for _, b := range p.Operations {
		out = append(out, b.Instructions...)
	}
	return append(out, p.Footer...)
}

// ToolChanges returns the T numbers in the order they are loaded.
func (p Program) ToolChanges() []int {
	var tools []int
	for _, ins := range p.Instructions() {
		if ins.has('M', 6) {
			for _, w := range ins.Words {
				if w.Letter == 'T' {
					tools = append(tools, int(w.Value))
				}
			}
		}
	}
	return tools
}

func (ins Instruction) has(letter byte, value float64) bool {
	for _, w := range ins.Words {
		if w.Letter == letter && w.Value == value {
			return true
		}
	}
	return false
}

func code(letter byte, n int) Word {
	return Word{Letter: letter, Value: float64(n), Integer: true}
}

func coord(letter byte, v float64) Word {
	return Word{Letter: letter, Value: v}
}

func words(ws ...Word) Instruction {
	return Instruction{Words: ws}
}

func comment(format string, args ...any) Instruction {
	return Instruction{Comment: fmt.Sprintf(format, args...)}
}

// Render formats the program as newline-terminated ASCII lines.
func Render(p Program) string {
	precision := p.Precision
	if precision <= 0 {
		precision = DefaultDecimalPlaces
	}
	var b strings.Builder
	for _, ins := range p.Instructions() {
		b.WriteString(renderInstruction(ins, precision))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderAll renders several programs back to back, ordered by job id.
func RenderAll(programs []Program) string {
	sorted := make([]Program, len(programs))
	copy(sorted, programs)
	SortByJobID(sorted)

	var b strings.Builder
	for _, p := range sorted {
		b.WriteString(Render(p))
	}
	return b.String()
}

// SortByJobID orders programs by job id in place.
func SortByJobID(programs []Program) {
	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].JobID < programs[j].JobID
	})
}

func renderInstruction(ins Instruction, precision int) string {
	parts := make([]string, 0, len(ins.Words)+1)
	for _, w := range ins.Words {
		parts = append(parts, renderWord(w, precision))
	}
	if ins.Comment != "" {
		// Parentheses cannot nest in a comment
		text := strings.NewReplacer("(", "[", ")", "]").Replace(ins.Comment)
		parts = append(parts, "("+text+")")
	}
	return strings.Join(parts, " ")
}

func renderWord(w Word, precision int) string {
	if w.Integer {
		return string(w.Letter) + strconv.Itoa(int(w.Value))
	}
	return string(w.Letter) + formatNumber(w.Value, precision)
}

// formatNumber prints v with fixed decimals and never emits a negative zero.
func formatNumber(v float64, precision int) string {
	s := strconv.FormatFloat(v, 'f', precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}
