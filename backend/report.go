// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"time"

	"github.com/google/uuid"
)

// Tile mirrors a tile record of the page-side board array.
type Tile struct {
	ID      int    `json:"id" yaml:"id"`
	Color   string `json:"color" yaml:"color"`
	Type    string `json:"type" yaml:"type"`
	State   string `json:"state" yaml:"state"`
	Voltage int    `json:"voltage,omitempty" yaml:"voltage,omitempty"`
}

// Coord is a board position. It encodes as {r, c}, the shape showVFX expects
// for a lightning target.
type Coord struct {
	Row int `json:"r" yaml:"row"`
	Col int `json:"c" yaml:"col"`
}

// VFX describes a single showVFX call.
type VFX struct {
	Row         int    `json:"row" yaml:"row"`
	Col         int    `json:"col" yaml:"col"`
	Effect      string `json:"effect" yaml:"effect"`
	Orientation string `json:"orientation,omitempty" yaml:"orientation,omitempty"`
	Target      *Coord `json:"target,omitempty" yaml:"target,omitempty"`
}

// ConsoleEntry is one line forwarded from the browser.
type ConsoleEntry struct {
	Type      string `json:"type"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

// StepResult records the outcome of one page-side step.
type StepResult struct {
	Name       string `json:"name"`
	Script     string `json:"script,omitempty"`
	DelayMS    int64  `json:"delayMs"`
	DurationMS int64  `json:"durationMs"`
	Error      string `json:"error,omitempty"`
}

// Report is the stored result of a single check run.
type Report struct {
	ID            string         `json:"id"`
	SchemaVersion int            `json:"schemaVersion"`
	Kind          string         `json:"kind"`
	URL           string         `json:"url"`
	Selector      string         `json:"selector,omitempty"`
	Status        string         `json:"status"`
	StartedAt     int64          `json:"startedAt"` // Unix millis
	DurationMS    int64          `json:"durationMs"`
	BoardLoaded   bool           `json:"boardLoaded"`
	WaitError     string         `json:"waitError,omitempty"`
	Console       []ConsoleEntry `json:"console,omitempty"`
	PageErrors    []string       `json:"pageErrors,omitempty"`
	Steps         []StepResult   `json:"steps,omitempty"`
	Screenshot    string         `json:"screenshot,omitempty"`
	GoldenDiff    string         `json:"goldenDiff,omitempty"`
	Latency       *Histogram     `json:"latency,omitempty"`
}

// NewReport returns a report with a fresh ID and start time.
func NewReport(kind, url string) *Report {
	return &Report{
		ID:            uuid.NewString(),
		SchemaVersion: CurrentSchemaVersion,
		Kind:          kind,
		URL:           url,
		Status:        StatusPassed,
		StartedAt:     time.Now().UnixMilli(),
	}
}

// Fail marks the report as failed.
func (r *Report) Fail() {
	r.Status = StatusFailed
}

// Finish stamps the total duration.
func (r *Report) Finish() {
	r.DurationMS = time.Now().UnixMilli() - r.StartedAt
}

func (r *Report) normalize() {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.SchemaVersion == 0 {
		r.SchemaVersion = CurrentSchemaVersion
	}
	if r.Status == "" {
		r.Status = StatusPassed
	}
	if r.StartedAt == 0 {
		r.StartedAt = time.Now().UnixMilli()
	}
}

// ReportMetadata is the sidecar used for listing without decoding whole reports.
type ReportMetadata struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	URL        string `json:"url"`
	Status     string `json:"status"`
	StartedAt  int64  `json:"startedAt"`
	DurationMS int64  `json:"durationMs"`
}

func (r *Report) metadata() ReportMetadata {
	return ReportMetadata{
		ID:         r.ID,
		Kind:       r.Kind,
		URL:        r.URL,
		Status:     r.Status,
		StartedAt:  r.StartedAt,
		DurationMS: r.DurationMS,
	}
}
