// Package report decodes sandbox behavior reports into per-process syscall
// sequences.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNoBehavior is returned for reports without a behavior section.
	ErrNoBehavior = errors.New("no behavior analysis in the report")

	// ErrMalformedReport is returned when the report is not valid JSON.
	ErrMalformedReport = errors.New("malformed sandbox report")
)

// Report is the subset of a Cuckoo analysis report used for scoring.
type Report struct {
	Behavior *Behavior `json:"behavior"`
	Target   Target    `json:"target"`
}

// Target describes the analysed sample.
type Target struct {
	Category string     `json:"category"`
	File     TargetFile `json:"file"`
}

// TargetFile identifies the submitted file.
type TargetFile struct {
	Name   string `json:"name"`
	SHA256 string `json:"sha256"`
}

// Behavior holds the traced processes.
type Behavior struct {
	Processes []Process `json:"processes"`
}

// Process is one traced process and its calls, in order.
type Process struct {
	Name  string `json:"process_name"`
	Calls []Call `json:"calls"`
	PID   int    `json:"pid"`
}

// Call is a single traced call.
type Call struct {
	API string `json:"api"`
}

// APIs returns the call names in order.
func (p Process) APIs() []string {
	apis := make([]string, len(p.Calls))
	for i, c := range p.Calls {
		apis[i] = c.API
	}
	return apis
}

// Parse decodes a report from r.
func Parse(r io.Reader) (*Report, error) {
	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}
	if rep.Behavior == nil {
		return nil, ErrNoBehavior
	}
	return &rep, nil
}

// SampleID returns the sample's sha256, or fallback when the report has none.
func (r *Report) SampleID(fallback string) string {
	if r.Target.File.SHA256 != "" {
		return r.Target.File.SHA256
	}
	return fallback
}
