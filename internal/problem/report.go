package problem

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/gitrdm/boundprop/pkg/boundprop"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by ParseFormat.
var ErrUnknownFormat = errors.New("problem: unknown output format")

// Format is an output encoding of reports.
type Format string

const (
	FormatText Format = "text"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatYAML, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Report holds the facts derived from one problem. Rationals are kept in
// their string form so that every encoding shows the same exact values.
type Report struct {
	Name       string           `yaml:"name" json:"name"`
	Equalities []EqualityReport `yaml:"equalities,omitempty" json:"equalities,omitempty"`
	Bounds     []BoundReport    `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Classes    [][]string       `yaml:"classes,omitempty" json:"classes,omitempty"`
	Stats      StatsReport      `yaml:"stats" json:"stats"`
	Error      string           `yaml:"error,omitempty" json:"error,omitempty"`
}

// EqualityReport is a derived equality A = B and its witnesses.
type EqualityReport struct {
	A       string   `yaml:"a" json:"a"`
	B       string   `yaml:"b" json:"b"`
	Because []string `yaml:"because" json:"because"`
}

// BoundReport is an implied bound "Var Op Value" derived from row Row.
type BoundReport struct {
	Var   string `yaml:"var" json:"var"`
	Op    string `yaml:"op" json:"op"`
	Value string `yaml:"value" json:"value"`
	Row   int    `yaml:"row" json:"row"`
}

// StatsReport is the subset of boundprop.Stats worth showing per problem.
type StatsReport struct {
	OffsetRows      int `yaml:"offset_rows" json:"offset_rows"`
	Equalities      int `yaml:"equalities" json:"equalities"`
	TreesBuilt      int `yaml:"trees_built" json:"trees_built"`
	MaxTreeVertices int `yaml:"max_tree_vertices" json:"max_tree_vertices"`
	BoundsAdded     int `yaml:"bounds_added" json:"bounds_added"`
	BoundsImproved  int `yaml:"bounds_improved" json:"bounds_improved"`
}

func statsReport(s boundprop.Stats) StatsReport {
	return StatsReport{
		OffsetRows:      s.OffsetRows,
		Equalities:      s.Equalities(),
		TreesBuilt:      s.TreesBuilt,
		MaxTreeVertices: s.MaxTreeVertices,
		BoundsAdded:     s.BoundsAdded,
		BoundsImproved:  s.BoundsImproved,
	}
}

// Encode writes reports to w in format f.
func Encode(w io.Writer, f Format, reports []*Report) error {
	switch f {
	case FormatText:
		return encodeText(w, reports)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(reports); err != nil {
			return err
		}
		return enc.Close()
	case FormatCBOR:
		em, err := cbor.CoreDetEncOptions().EncMode()
		if err != nil {
			return err
		}
		return em.NewEncoder(w).Encode(reports)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

func encodeText(w io.Writer, reports []*Report) error {
	var sb strings.Builder
	for i, r := range reports {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "problem %s\n", r.Name)
		if r.Error != "" {
			fmt.Fprintf(&sb, "  error: %s\n", r.Error)
			continue
		}
		for _, e := range r.Equalities {
			fmt.Fprintf(&sb, "  eq    %s = %s  [%s]\n", e.A, e.B, strings.Join(e.Because, ", "))
		}
		for _, b := range r.Bounds {
			fmt.Fprintf(&sb, "  bound %s %s %s  (row %d)\n", b.Var, b.Op, b.Value, b.Row)
		}
		for _, c := range r.Classes {
			fmt.Fprintf(&sb, "  class {%s}\n", strings.Join(c, ", "))
		}
		s := r.Stats
		fmt.Fprintf(&sb, "  stats offset_rows=%d equalities=%d trees=%d max_vertices=%d bounds=%d improved=%d\n",
			s.OffsetRows, s.Equalities, s.TreesBuilt, s.MaxTreeVertices, s.BoundsAdded, s.BoundsImproved)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
