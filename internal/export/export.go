// Package export writes calculator output as JSON, YAML or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/fi-verse/internal/fqcd"
)

// Format selects an output encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
)

// ParseFormat accepts json, yaml/yml or csv, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "csv":
		return CSV, nil
	}
	return "", fmt.Errorf("unknown format %q (want json, yaml or csv)", s)
}

// Write encodes v in a structured format. CSV is only available for series,
// through WriteCurveCSV and WriteHubbleCSV.
func Write(w io.Writer, format Format, v any) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case CSV:
		switch series := v.(type) {
		case []fqcd.RotationPoint:
			return WriteCurveCSV(w, series)
		case []fqcd.Hubble:
			return WriteHubbleCSV(w, series)
		}
		return fmt.Errorf("csv output not supported for %T", v)
	}
	return fmt.Errorf("unknown format %q", format)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// WriteCurveCSV writes a rotation curve with a header row.
func WriteCurveCSV(w io.Writer, curve []fqcd.RotationPoint) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"radius_kpc", "v_newton", "v_fqft", "v_observed"})
	for _, p := range curve {
		cw.Write([]string{ftoa(p.RadiusKpc), ftoa(p.VNewton), ftoa(p.VFqft), ftoa(p.VObserved)})
	}
	cw.Flush()
	return cw.Error()
}

// WriteHubbleCSV writes a Hubble series with a header row.
func WriteHubbleCSV(w io.Writer, series []fqcd.Hubble) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"z", "h_lcdm", "h_fqcd"})
	for _, h := range series {
		cw.Write([]string{ftoa(h.Z), ftoa(h.HLcdm), ftoa(h.HFqcd)})
	}
	cw.Flush()
	return cw.Error()
}
