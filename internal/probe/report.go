package probe

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/desertwitch/osbridge/internal/filesystem"
	"github.com/desertwitch/osbridge/internal/pathing"
	"gopkg.in/yaml.v3"
)

// Report is the outcome of a probe run.
type Report struct {
	Platform     string            `yaml:"platform"`
	GOOS         string            `yaml:"goos"`
	GOARCH       string            `yaml:"goarch"`
	DefaultPerm  string            `yaml:"default_perm"`
	Markers      pathing.MarkerSet `yaml:"markers"`
	Capabilities capabilityReport  `yaml:"capabilities"`
	TempDir      string            `yaml:"temp_dir"`
	StartedAt    time.Time         `yaml:"started_at"`
	FinishedAt   time.Time         `yaml:"finished_at"`
	Passed       int               `yaml:"passed"`
	Failed       int               `yaml:"failed"`
	Skipped      int               `yaml:"skipped"`
	Results      []Result          `yaml:"results"`
}

func newReport(h *filesystem.Handler) *Report {
	caps := h.Capabilities()

	return &Report{
		Platform:    h.Platform(),
		GOOS:        runtime.GOOS,
		GOARCH:      runtime.GOARCH,
		DefaultPerm: fmt.Sprintf("%#o", h.DefaultPerm()),
		Markers:     pathing.Markers(),
		Capabilities: capabilityReport{
			SupportsFD:             caps.SupportsFD.List(),
			SupportsDirFD:          caps.SupportsDirFD.List(),
			SupportsFollowSymlinks: caps.SupportsFollowSymlinks.List(),
		},
		StartedAt: time.Now(),
	}
}

func (r *Report) add(result Result) {
	switch result.Status {
	case StatusPassed:
		r.Passed++
	case StatusFailed:
		r.Failed++
	case StatusSkipped:
		r.Skipped++
	}

	r.Results = append(r.Results, result)
}

func (r *Report) finish() {
	r.FinishedAt = time.Now()
}

// Duration returns how long the run took.
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}

	return r.FinishedAt.Sub(r.StartedAt)
}

// Success reports whether no check failed.
func (r *Report) Success() bool {
	return r.Failed == 0
}

// WriteYAML encodes the report as YAML into w.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2) //nolint:mnd

	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("(probe-report) failed to encode: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("(probe-report) failed to flush: %w", err)
	}

	return nil
}

// ReadReport decodes a report previously written by [Report.WriteYAML].
func ReadReport(r io.Reader) (*Report, error) {
	var report Report

	if err := yaml.NewDecoder(r).Decode(&report); err != nil {
		return nil, fmt.Errorf("(probe-report) failed to decode: %w", err)
	}

	return &report, nil
}
