package svgpath

import (
	"strconv"

	"golang.org/x/xerrors"
)

// The parser follows the SVG 1.1 path grammar for the commands artwork
// exports actually use:
//
// svg-path:
//     wsp* moveto-drawto-command-groups? wsp*
// moveto-drawto-command-group:
//     moveto wsp* drawto-commands?
// drawto-command:
//     closepath | lineto | horizontal-lineto | vertical-lineto
//     | curveto | smooth-curveto | quadratic-bezier-curveto
// coordinate-pair:
//     coordinate comma-wsp? coordinate
// comma-wsp:
//     (wsp+ comma? wsp*) | (comma wsp*)
//
// Elliptical arcs and smooth quadratics are rejected; callers that only
// need to look at path data fall back to leaving it untouched.

var ErrUnsupported = xerrors.New("unsupported path command")

type state struct {
	data     string
	index    int
	subPaths []*SubPath
	group    *SubPath
	currentX float64
	currentY float64
	relative bool

	// second control point of the last cubic, for S/s reflection
	lastCtrlX, lastCtrlY float64
	lastWasCubic         bool
}

type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

type Command string

const (
	ClosePath = "Z"
	LineTo    = "L"
	CurveTo   = "C"
)

type DrawTo struct {
	Command Command
	X, Y    float64
	X1, Y1  float64
	X2, Y2  float64
}

func (s *state) parse() error {
	for {
		s.whitespace()

		c := s.peek()
		if c != 'M' && c != 'm' {
			break
		}

		err := s.parseMoveTo()
		if err != nil {
			return err
		}
		s.whitespace()
		err = s.parseDrawToCommands()
		if err != nil {
			return err
		}
	}

	s.whitespace()

	if s.index != len(s.data) {
		c := s.peek()
		switch c {
		case 'A', 'a', 'T', 't':
			return xerrors.Errorf("%q at offset %d: %w", string(c), s.index, ErrUnsupported)
		}
		return xerrors.Errorf("unparsed data: %q", s.data[s.index:])
	}

	return nil
}

// parseMoveTo parses one move to command
func (s *state) parseMoveTo() error {
	command := s.next()
	if command != 'M' && command != 'm' {
		return xerrors.Errorf("expected \"M\" or \"m\", got %q", string(command))
	}
	s.relative = command == 'm'
	s.whitespace()

	x, y, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if s.relative {
		x += s.currentX
		y += s.currentY
	}
	s.currentX, s.currentY = x, y
	s.lastWasCubic = false

	// The move to command always starts a new sub path group
	s.group = nil
	s.ensureSubPath()

	// The Move To can be followed directly by more coordinate pairs as implicit Line To sequences.
	for {
		savedIndex := s.index
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			// backtrack.
			s.index = savedIndex
			break
		}
		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.currentX = x
		s.currentY = y
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
	}

	return nil
}

// ensureSubPath starts a new sub path if there isn't already one.
func (s *state) ensureSubPath() {
	if s.group == nil {
		s.group = &SubPath{X: s.currentX, Y: s.currentY}
		s.subPaths = append(s.subPaths, s.group)
	}
}

// parseCoordinatePair parses "coordinate comma-wsp? coordinate"
func (s *state) parseCoordinatePair() (float64, float64, error) {
	x, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	s.commaWhitespace()
	y, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// parseNumber parses a number
func (s *state) parseNumber() (float64, error) {
	c := s.peek()
	if c == '+' || c == '-' {
		s.next()
		n, err := s.parseNonNegativeNumber()
		if c == '-' {
			n = -n
		}
		return n, err
	}
	return s.parseNonNegativeNumber()
}

func (s *state) parseNonNegativeNumber() (float64, error) {
	start := s.index
	n, err := scanNumber(s.data, s.index)
	if err != nil {
		return 0, err
	}
	s.index = start + n.length
	return n.value, nil
}

// parseDrawToCommands parses 0 or more Draw To commands.
func (s *state) parseDrawToCommands() error {
	first := true
	for {
		if !first {
			s.whitespace()
		}
		first = false

		var err error

		c := s.peek()
		switch c {
		case 'L', 'l':
			err = s.parseLineTo()
		case 'H', 'h':
			err = s.parseAxisLineTo('H', 'h')
		case 'V', 'v':
			err = s.parseAxisLineTo('V', 'v')
		case 'C', 'c', 'S', 's', 'Q', 'q':
			err = s.parseCurves()
		case 'Z', 'z':
			err = s.parseClosePath()
		default:
			return nil
		}

		if err != nil {
			return err
		}
	}
}

func (s *state) parseClosePath() error {
	c := s.next()
	if c != 'Z' && c != 'z' {
		return xerrors.Errorf("expecting \"Z\" or \"z\", got %q", string(c))
	}
	s.ensureSubPath()
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: ClosePath, X: s.group.X, Y: s.group.Y})
	s.currentX = s.group.X
	s.currentY = s.group.Y
	s.group = nil
	s.lastWasCubic = false
	return nil
}

func (s *state) parseLineTo() error {
	c := s.next()
	if c != 'L' && c != 'l' {
		return xerrors.Errorf("expecting \"L\" or \"l\", got %q", string(c))
	}
	s.relative = c == 'l'
	s.lastWasCubic = false

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		x, y, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			x += s.currentX
			y += s.currentY
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
		s.currentX = x
		s.currentY = y

		first = false
	}
}

// parseAxisLineTo handles both H/h and V/v; abs is the absolute command letter.
func (s *state) parseAxisLineTo(abs, rel byte) error {
	c := s.next()
	if c != abs && c != rel {
		return xerrors.Errorf("expecting %q or %q, got %q", string(abs), string(rel), string(c))
	}
	s.relative = c == rel
	s.lastWasCubic = false

	s.whitespace()

	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		v, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		x, y := s.currentX, s.currentY
		if abs == 'H' {
			if s.relative {
				v += s.currentX
			}
			x = v
		} else {
			if s.relative {
				v += s.currentY
			}
			y = v
		}
		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: LineTo, X: x, Y: y})
		s.currentX, s.currentY = x, y

		first = false
	}
}

// parseCurves handles C/c, S/s and Q/q. Quadratics are stored as the
// equivalent cubic so the rest of the package only deals with one curve type.
func (s *state) parseCurves() error {
	c := s.next()
	s.relative = c == 'c' || c == 's' || c == 'q'
	upper := c &^ 0x20

	s.whitespace()

	s.ensureSubPath()

	pairs := 3
	if upper != 'C' {
		pairs = 2
	}

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		var coords [3][2]float64
		for i := 0; i < pairs; i++ {
			if i > 0 {
				s.commaWhitespace()
			}
			x, y, err := s.parseCoordinatePair()
			if err != nil {
				if i == 0 && !first {
					s.index = oldIndex
					return nil
				}
				return err
			}
			if s.relative {
				x += s.currentX
				y += s.currentY
			}
			coords[i] = [2]float64{x, y}
		}

		drawTo := &DrawTo{Command: CurveTo}
		switch upper {
		case 'C':
			drawTo.X1, drawTo.Y1 = coords[0][0], coords[0][1]
			drawTo.X2, drawTo.Y2 = coords[1][0], coords[1][1]
			drawTo.X, drawTo.Y = coords[2][0], coords[2][1]
		case 'S':
			// First control point is the reflection of the previous second
			// control point, or the current point if there was no cubic.
			drawTo.X1, drawTo.Y1 = s.currentX, s.currentY
			if s.lastWasCubic {
				drawTo.X1 = 2*s.currentX - s.lastCtrlX
				drawTo.Y1 = 2*s.currentY - s.lastCtrlY
			}
			drawTo.X2, drawTo.Y2 = coords[0][0], coords[0][1]
			drawTo.X, drawTo.Y = coords[1][0], coords[1][1]
		case 'Q':
			qx, qy := coords[0][0], coords[0][1]
			x, y := coords[1][0], coords[1][1]
			drawTo.X1 = s.currentX + 2.0/3.0*(qx-s.currentX)
			drawTo.Y1 = s.currentY + 2.0/3.0*(qy-s.currentY)
			drawTo.X2 = x + 2.0/3.0*(qx-x)
			drawTo.Y2 = y + 2.0/3.0*(qy-y)
			drawTo.X, drawTo.Y = x, y
		}
		s.group.DrawTo = append(s.group.DrawTo, drawTo)
		s.currentX, s.currentY = drawTo.X, drawTo.Y
		s.lastCtrlX, s.lastCtrlY = drawTo.X2, drawTo.Y2
		s.lastWasCubic = upper != 'Q'

		first = false
	}
}

// whitespace consumes "wsp*", and returns the number of bytes consumed
func (s *state) whitespace() int {
	count := 0
	for isSpace(s.peek()) {
		s.next()
		count++
	}
	return count
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)",
// and returns true if something was consumed
func (s *state) commaWhitespace() bool {
	if s.peek() == ',' {
		s.next()
		s.whitespace()
		return true
	}

	consumed := s.whitespace()
	if consumed > 0 {
		if s.peek() == ',' {
			s.next()
		}
		s.whitespace()
		return true
	}

	return false
}

// peek returns the next byte without consuming it, or 0 if at the end of stream
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

// next consumes and returns the next byte, or 0 if at the end of stream
func (s *state) next() byte {
	if s.index < len(s.data) {
		i := s.index
		s.index++
		return s.data[i]
	}
	return 0
}

// Parse parses a path string
func Parse(path string) ([]*SubPath, error) {
	s := &state{
		data:  path,
		index: 0,
	}
	err := s.parse()
	return s.subPaths, err
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

type scanned struct {
	value  float64
	length int
}

// scanNumber reads an unsigned SVG number starting at data[i]:
// (digit-sequence | fractional-constant) exponent?
func scanNumber(data string, i int) (scanned, error) {
	start := i
	digits := func() int {
		n := 0
		for i < len(data) && '0' <= data[i] && data[i] <= '9' {
			i++
			n++
		}
		return n
	}

	intDigits := digits()
	fracDigits := 0
	if i < len(data) && data[i] == '.' {
		i++
		fracDigits = digits()
	}
	if intDigits == 0 && fracDigits == 0 {
		if i < len(data) {
			return scanned{}, xerrors.Errorf("expected a number, got %q", string(data[start]))
		}
		return scanned{}, xerrors.New("expected a number, got end of data")
	}

	// Optional exponent; only consumed if it is well formed, so "1e" leaves
	// the "e" for the caller.
	if i < len(data) && (data[i] == 'e' || data[i] == 'E') {
		save := i
		i++
		if i < len(data) && (data[i] == '+' || data[i] == '-') {
			i++
		}
		if digits() == 0 {
			i = save
		}
	}

	v, err := strconv.ParseFloat(data[start:i], 64)
	if err != nil {
		return scanned{}, xerrors.Errorf("number %q: %w", data[start:i], err)
	}
	return scanned{value: v, length: i - start}, nil
}
