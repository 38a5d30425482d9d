// Package types contains the wire representations shared by the report
// encoders, the HTTP API and the CLI.
package types

import "time"

// Labels names the two parties in rendered output.
type Labels struct {
	A string `json:"a" yaml:"a"`
	B string `json:"b" yaml:"b"`
}

// DefaultLabels returns the labels used by the original charts.
func DefaultLabels() Labels {
	return Labels{A: "Team 0", B: "Team 1"}
}

// GanttTask is one bar of a possession timeline chart. Finish is exclusive.
type GanttTask struct {
	Task     string `json:"task" yaml:"task"`
	Start    int    `json:"start" yaml:"start"`
	Finish   int    `json:"finish" yaml:"finish"`
	Resource string `json:"resource" yaml:"resource"`
}

// Share is one slice of the possession proportion chart.
type Share struct {
	Label   string  `json:"label" yaml:"label"`
	Seconds int     `json:"seconds" yaml:"seconds"`
	Share   float64 `json:"share" yaml:"share"`
}

// Interval is an inclusive range of held seconds.
type Interval struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// PartySummary is the possession outcome of one party.
type PartySummary struct {
	Label        string     `json:"label" yaml:"label"`
	Intervals    []Interval `json:"intervals" yaml:"intervals"`
	TotalSeconds int        `json:"total_seconds" yaml:"total_seconds"`
	Share        float64    `json:"share" yaml:"share"`
}

// SecondCount holds the raw containment counts of one second.
type SecondCount struct {
	Second int `json:"second" yaml:"second"`
	A      int `json:"a" yaml:"a"`
	B      int `json:"b" yaml:"b"`
}

// ReportView is the serialized form of an analysis report.
type ReportView struct {
	ID         string         `json:"id,omitempty" yaml:"id,omitempty"`
	Resolution int            `json:"resolution" yaml:"resolution"`
	Frames     int            `json:"frames" yaml:"frames"`
	Seconds    int            `json:"seconds" yaml:"seconds"`
	Timeline   []string       `json:"timeline" yaml:"timeline"`
	Counts     []SecondCount  `json:"counts" yaml:"counts"`
	Parties    []PartySummary `json:"parties" yaml:"parties"`
	Created    time.Time      `json:"created,omitempty" yaml:"created,omitempty"`
}

// JobView reports the state of a submitted analysis.
type JobView struct {
	ID     string `json:"id" yaml:"id"`
	Status string `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}
