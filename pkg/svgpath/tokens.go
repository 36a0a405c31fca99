package svgpath

import (
	"artprep/pkg/geometry"

	"golang.org/x/xerrors"
)

// Op is a command of the restricted path subset: straight segments only,
// the way design tools export rectangles and artboard frames.
type Op byte

const (
	OpMove  Op = 'M'
	OpLine  Op = 'L'
	OpHLine Op = 'H'
	OpVLine Op = 'V'
	OpClose Op = 'Z'
)

// Token is one restricted path command with 0 to 2 operands. Relative
// is only ever set for h, v and z.
type Token struct {
	Op       Op
	Relative bool
	Args     []float64
}

func operandCount(op Op) int {
	switch op {
	case OpMove, OpLine:
		return 2
	case OpHLine, OpVLine:
		return 1
	}
	return 0
}

// Tokenize splits path data into restricted commands. Only M, L, H, V, h,
// v, Z and z are accepted; any other command letter yields ErrUnsupported.
// Repeated operand groups after one letter become repeated commands, so
// "L 1 2 3 4" is two LineTo commands.
func Tokenize(d string) ([]Token, error) {
	var commands []Token
	var current *Token
	var op Op
	relative := false

	i := 0
	for i < len(d) {
		c := d[i]
		switch {
		case isSpace(c) || c == ',':
			i++
			continue
		case c == 'M' || c == 'L' || c == 'H' || c == 'V' || c == 'Z' ||
			c == 'h' || c == 'v' || c == 'z':
			op = Op(c &^ 0x20)
			relative = c >= 'a'
			commands = append(commands, Token{Op: op, Relative: relative})
			current = &commands[len(commands)-1]
			i++
			continue
		case ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z'):
			if c != 'e' && c != 'E' {
				return nil, xerrors.Errorf("%q at offset %d: %w", string(c), i, ErrUnsupported)
			}
		}

		// Anything else must be a number belonging to the current command.
		if current == nil {
			return nil, xerrors.Errorf("number before first command at offset %d", i)
		}
		sign := 1.0
		start := i
		if c == '+' || c == '-' {
			if c == '-' {
				sign = -1
			}
			i++
		}
		n, err := scanNumber(d, i)
		if err != nil {
			return nil, xerrors.Errorf("offset %d: %w", start, err)
		}
		i += n.length

		want := operandCount(op)
		if want == 0 {
			return nil, xerrors.Errorf("unexpected operand for %q at offset %d", string(op), start)
		}
		if len(current.Args) == want {
			// Implicit repetition of the previous command
			commands = append(commands, Token{Op: op, Relative: relative})
			current = &commands[len(commands)-1]
		}
		current.Args = append(current.Args, sign*n.value)
	}

	for _, cmd := range commands {
		if len(cmd.Args) != operandCount(cmd.Op) {
			return nil, xerrors.Errorf("command %q has %d operands, want %d",
				string(cmd.Op), len(cmd.Args), operandCount(cmd.Op))
		}
	}
	return commands, nil
}

// VisitedPoints walks the commands with a running cursor and returns
// every point a segment ends on. Close adds no point.
func VisitedPoints(commands []Token) []geometry.Point {
	var points []geometry.Point
	var cursor, start geometry.Point
	for _, cmd := range commands {
		switch cmd.Op {
		case OpMove:
			cursor = geometry.Point{X: cmd.Args[0], Y: cmd.Args[1]}
			start = cursor
		case OpLine:
			cursor = geometry.Point{X: cmd.Args[0], Y: cmd.Args[1]}
		case OpHLine:
			if cmd.Relative {
				cursor.X += cmd.Args[0]
			} else {
				cursor.X = cmd.Args[0]
			}
		case OpVLine:
			if cmd.Relative {
				cursor.Y += cmd.Args[0]
			} else {
				cursor.Y = cmd.Args[0]
			}
		case OpClose:
			cursor = start
			continue
		}
		points = append(points, cursor)
	}
	return points
}
