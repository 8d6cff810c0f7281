package file

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/scgm/containergen/internal/domain"
)

// Header opens the insert statement. Value tuples follow, one per line.
const Header = "INSERT INTO containers (id, latitude, longitude, waste_level_value, waste_level_status, temperature, address, city_id, customer_id, created_at, updated_at) VALUES"

// Compile-time check: SQLWriter implements domain.RecordWriter.
var _ domain.RecordWriter = (*SQLWriter)(nil)

// SQLWriter streams containers as the VALUES clause of a single INSERT.
// It keeps one pending tuple so the terminator (',' or ';') can be chosen
// without knowing the record count up front.
type SQLWriter struct {
	buf     *bufio.Writer
	closer  io.Closer
	pending string
	err     error
}

// NewSQLWriter writes the header to w and returns a writer for the tuples.
// If w is an io.Closer it is closed by Close.
func NewSQLWriter(w io.Writer) (*SQLWriter, error) {
	s := &SQLWriter{buf: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		s.closer = c
	}
	if _, err := s.buf.WriteString(Header + "\n"); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return s, nil
}

func (s *SQLWriter) Write(_ context.Context, c domain.Container) error {
	if s.err != nil {
		return s.err
	}
	if err := s.flushPending(","); err != nil {
		return err
	}
	s.pending = FormatTuple(c)
	return nil
}

// Close terminates the last tuple with ';', flushes and closes the target.
// With no tuples written the output is the header line alone.
func (s *SQLWriter) Close() error {
	err := s.err
	if err == nil {
		err = s.flushPending(";")
	}
	if err == nil {
		if ferr := s.buf.Flush(); ferr != nil {
			err = fmt.Errorf("flushing sql: %w", ferr)
		}
	}
	if s.closer != nil {
		if cerr := s.closer.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing sql: %w", cerr)
		}
		s.closer = nil
	}
	return err
}

func (s *SQLWriter) flushPending(terminator string) error {
	if s.pending == "" {
		return nil
	}
	if _, err := s.buf.WriteString(s.pending + terminator + "\n"); err != nil {
		s.err = fmt.Errorf("writing tuple: %w", err)
		return s.err
	}
	s.pending = ""
	return nil
}

// FormatTuple renders one container as a parenthesized value tuple without
// its terminator. Strings are quoted verbatim with no escaping.
func FormatTuple(c domain.Container) string {
	ts := c.CreatedAt.Format(domain.TimestampLayout)
	updated := c.UpdatedAt.Format(domain.TimestampLayout)

	var b strings.Builder
	b.WriteString("('")
	b.WriteString(c.ID)
	b.WriteString("', ")
	b.WriteString(FormatFloat(c.Latitude))
	b.WriteString(", ")
	b.WriteString(FormatFloat(c.Longitude))
	b.WriteString(", ")
	b.WriteString(FormatFloat(c.WasteLevelValue))
	b.WriteString(", '")
	b.WriteString(string(c.WasteLevelStatus))
	b.WriteString("', ")
	b.WriteString(FormatFloat(c.Temperature))
	b.WriteString(", '")
	b.WriteString(c.Address)
	b.WriteString("', ")
	b.WriteString(strconv.FormatInt(c.CityID, 10))
	b.WriteString(", ")
	b.WriteString(strconv.FormatInt(c.CustomerID, 10))
	b.WriteString(", '")
	b.WriteString(ts)
	b.WriteString("', '")
	b.WriteString(updated)
	b.WriteString("')")
	return b.String()
}

// FormatFloat renders v as the shortest decimal that round-trips, always
// with a fractional part ("4.5", "0.0", "100.0"). Magnitudes below 1e-4 or
// at least 1e16 use exponent form ("5e-05").
func FormatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
