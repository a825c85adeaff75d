// Package coord converts between zero-based (column, row) pairs and
// spreadsheet-style grid labels such as "A1", "Z9" or "AB12", and provides
// the straight-line geometry used by mission objectives.
package coord

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrInvalidCoordinate is returned when a label is not of the form [A-Z]+[0-9]+
// or names a row below 1.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coord is a grid position. Col is zero-based, Row is one-based.
type Coord struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// C is a convenience constructor for Coord.
func C(col, row int) Coord {
	return Coord{Col: col, Row: row}
}

// Valid reports whether c lies in the codec's domain.
func (c Coord) Valid() bool {
	return c.Col >= 0 && c.Row >= 1
}

// String returns the label for c, e.g. C(27, 4) -> "AB4".
func (c Coord) String() string {
	return Encode(c.Col, c.Row)
}

// MarshalText encodes the coordinate as its label.
func (c Coord) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrInvalidCoordinate, c.Col, c.Row)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (c *Coord) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Encode maps (column, row) to a label. Columns use bijective base-26
// letters: 0 -> A, 25 -> Z, 26 -> AA, 701 -> ZZ, 702 -> AAA.
// Out-of-domain input yields "".
func Encode(col, row int) string {
	if col < 0 || row < 1 {
		return ""
	}
	var letters []byte
	for n := col; n >= 0; n = n/26 - 1 {
		letters = append(letters, byte('A'+n%26))
	}
	for i, j := 0, len(letters)-1; i < j; i, j = i+1, j-1 {
		letters[i], letters[j] = letters[j], letters[i]
	}
	return string(letters) + strconv.Itoa(row)
}

// Decode is the inverse of Encode.
func Decode(label string) (col, row int, err error) {
	i := 0
	for i < len(label) && label[i] >= 'A' && label[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(label) {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, label)
	}
	for j := i; j < len(label); j++ {
		if label[j] < '0' || label[j] > '9' {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, label)
		}
	}

	n := 0
	for j := 0; j < i; j++ {
		n = n*26 + int(label[j]-'A') + 1
		if n > math.MaxInt32 {
			return 0, 0, fmt.Errorf("%w: %q column out of range", ErrInvalidCoordinate, label)
		}
	}
	row, err = strconv.Atoi(label[i:])
	if err != nil || row < 1 {
		return 0, 0, fmt.Errorf("%w: %q row out of range", ErrInvalidCoordinate, label)
	}
	return n - 1, row, nil
}

// Parse decodes a label into a Coord.
func Parse(label string) (Coord, error) {
	col, row, err := Decode(label)
	if err != nil {
		return Coord{}, err
	}
	return Coord{Col: col, Row: row}, nil
}

// MustParse is Parse for labels known to be valid. It panics otherwise.
func MustParse(label string) Coord {
	c, err := Parse(label)
	if err != nil {
		panic(err)
	}
	return c
}

// Distance returns the Euclidean distance between a and b in grid units.
func Distance(a, b Coord) float64 {
	return math.Hypot(float64(a.Col-b.Col), float64(a.Row-b.Row))
}

// Within reports whether b lies within radius of a (inclusive).
func Within(a, b Coord, radius float64) bool {
	return Distance(a, b) <= radius
}

// StepToward moves at most speed grid units from "from" toward "to" along
// the straight line between them, rounding to the nearest cell. When rounding
// would carry the step past speed, the longer axis is shortened until it
// fits. When the remaining distance is at most speed, it returns "to"
// exactly. A speed below one cell may leave the ship where it is.
func StepToward(from, to Coord, speed float64) Coord {
	dist := Distance(from, to)
	if dist <= speed {
		return to
	}
	if speed <= 0 {
		return from
	}
	dc, dr := to.Col-from.Col, to.Row-from.Row
	scale := speed / dist
	sc := int(math.Round(float64(dc) * scale))
	sr := int(math.Round(float64(dr) * scale))
	for math.Hypot(float64(sc), float64(sr)) > speed {
		if abs(sc) >= abs(sr) {
			sc -= sign(sc)
		} else {
			sr -= sign(sr)
		}
	}
	if sc == 0 && sr == 0 && speed >= 1 {
		// Rounding swallowed a sub-cell step; one cell along the major axis fits.
		if abs(dc) >= abs(dr) {
			sc = sign(dc)
		} else {
			sr = sign(dr)
		}
	}
	return Coord{Col: from.Col + sc, Row: from.Row + sr}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	default:
		return 0
	}
}
