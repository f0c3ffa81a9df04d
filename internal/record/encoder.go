package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rickgao/mocap-bridge/internal/model"
)

// DefaultPrecision is the number of significant digits per float field.
const DefaultPrecision = 6

// ShortestPrecision selects the shortest representation that round-trips.
const ShortestPrecision = -1

// FieldCount is the number of fields on one line.
const FieldCount = 9

// ErrMalformedLine is returned by ParseLine for lines that do not carry
// exactly FieldCount numeric fields.
var ErrMalformedLine = errors.New("malformed record line")

// Encoder formats samples as wire lines.
type Encoder struct {
	precision int
}

// NewEncoder creates an encoder using precision significant digits.
// Zero selects DefaultPrecision.
func NewEncoder(precision int) *Encoder {
	if precision == 0 {
		precision = DefaultPrecision
	}
	return &Encoder{precision: precision}
}

// Precision returns the configured number of significant digits.
func (e *Encoder) Precision() int {
	return e.precision
}

// Append appends the encoded line for s to buf and returns the extended buffer.
func (e *Encoder) Append(buf []byte, s model.RigidBodySample, timestamp float64) []byte {
	p := s.Pose
	fields := [...]float64{
		p.Position.X, p.Position.Y, p.Position.Z,
		p.Orientation.Real, p.Orientation.Imag, p.Orientation.Jmag, p.Orientation.Kmag,
		timestamp,
	}
	for _, f := range fields {
		buf = strconv.AppendFloat(buf, f, 'g', e.precision, 64)
		buf = append(buf, ' ')
	}
	buf = strconv.AppendInt(buf, int64(s.ID), 10)
	return append(buf, '\n')
}

// Encode returns the line for s, newline included.
func (e *Encoder) Encode(s model.RigidBodySample, timestamp float64) string {
	return string(e.Append(nil, s, timestamp))
}

// Line is one decoded record.
type Line struct {
	Pose      model.Pose
	Timestamp float64
	ID        int
}

// ParseLine decodes a single record. A trailing newline is optional.
func ParseLine(line string) (Line, error) {
	fields := strings.Fields(line)
	if len(fields) != FieldCount {
		return Line{}, fmt.Errorf("%w: %d fields, want %d", ErrMalformedLine, len(fields), FieldCount)
	}

	var v [FieldCount - 1]float64
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Line{}, fmt.Errorf("%w: field %d: %v", ErrMalformedLine, i+1, err)
		}
		v[i] = f
	}

	id, err := strconv.Atoi(fields[FieldCount-1])
	if err != nil {
		return Line{}, fmt.Errorf("%w: id: %v", ErrMalformedLine, err)
	}

	return Line{
		Pose:      model.NewPose(v[0], v[1], v[2], v[3], v[4], v[5], v[6]),
		Timestamp: v[7],
		ID:        id,
	}, nil
}
