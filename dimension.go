package birch

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unit tags how a Dimension resolves against its container.
type Unit uint8

const (
	UnitNumber  Unit = iota // literal value
	UnitPixel               // literal value written with a px suffix
	UnitPercent             // fraction of the container
)

// Dimension is a size or position that is either absolute or a percentage of
// a container. Parse it once with ParseDimension; Resolve is cheap.
type Dimension struct {
	Value float64
	Unit  Unit
}

// Px returns an absolute pixel dimension.
func Px(v float64) Dimension { return Dimension{Value: v, Unit: UnitPixel} }

// Percent returns a dimension resolving to p percent of the container.
func Percent(p float64) Dimension { return Dimension{Value: p, Unit: UnitPercent} }

// Num returns a plain numeric dimension.
func Num(v float64) Dimension { return Dimension{Value: v, Unit: UnitNumber} }

// ParseDimension parses "50%", "120px" or a bare number.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	unit := UnitNumber
	switch {
	case strings.HasSuffix(s, "%"):
		unit = UnitPercent
		s = strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "px"):
		unit = UnitPixel
		s = strings.TrimSuffix(s, "px")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Dimension{}, &ConfigError{Field: "dimension", Value: s, Err: err}
	}
	return Dimension{Value: v, Unit: unit}, nil
}

// Resolve returns the dimension in pixels for the given container size.
func (d Dimension) Resolve(container float64) float64 {
	if d.Unit == UnitPercent {
		return container * d.Value / 100
	}
	return d.Value
}

// IsPercent reports whether the dimension depends on its container.
func (d Dimension) IsPercent() bool {
	return d.Unit == UnitPercent
}

func (d Dimension) String() string {
	v := strconv.FormatFloat(d.Value, 'f', -1, 64)
	switch d.Unit {
	case UnitPercent:
		return v + "%"
	case UnitPixel:
		return v + "px"
	}
	return v
}

// MarshalJSON writes percent and pixel dimensions as strings and plain
// numbers as JSON numbers.
func (d Dimension) MarshalJSON() ([]byte, error) {
	if d.Unit == UnitNumber {
		return json.Marshal(d.Value)
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts a JSON number or a string understood by ParseDimension.
func (d *Dimension) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*d = Num(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("birch: dimension must be a number or string: %w", err)
	}
	parsed, err := ParseDimension(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
