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
	"fmt"
	"iter"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/c2FmZQ/storage"
	"github.com/my-matchgame/gamecheck/backend/search"
)

const reportsDir = "runs"

// ReportStore persists run reports to disk.
type ReportStore struct {
	DataDir string
	storage *storage.Storage
	mu      sync.Map // Stores *sync.RWMutex for each report id
}

// NewReportStore creates a new ReportStore.
func NewReportStore(dataDir string, s *storage.Storage) *ReportStore {
	return &ReportStore{
		DataDir: dataDir,
		storage: s,
	}
}

func (rs *ReportStore) lock(id string) *sync.RWMutex {
	m, _ := rs.mu.LoadOrStore(id, &sync.RWMutex{})
	return m.(*sync.RWMutex)
}

func reportFilenames(id string) (string, string) {
	encoded := url.PathEscape(id)
	return filepath.Join(reportsDir, encoded+".json"), filepath.Join(reportsDir, encoded+".meta.json")
}

// SaveReport writes the report and its metadata sidecar. A missing ID is
// assigned before writing.
func (rs *ReportStore) SaveReport(r *Report) error {
	r.normalize()
	if err := ValidateReport(r); err != nil {
		return err
	}
	mutex := rs.lock(r.ID)
	mutex.Lock()
	defer mutex.Unlock()

	filename, metaFilename := reportFilenames(r.ID)
	if err := rs.storage.SaveDataFile(filename, r); err != nil {
		return fmt.Errorf("storage.SaveDataFile: %w", err)
	}
	meta := r.metadata()
	if err := rs.storage.SaveDataFile(metaFilename, &meta); err != nil {
		log.Printf("Warning: Failed to save metadata sidecar for report %s: %v", r.ID, err)
	}
	return nil
}

// LoadReport reads a report by ID. It returns os.ErrNotExist when absent.
func (rs *ReportStore) LoadReport(id string) (*Report, error) {
	if !isValidUUID(id) {
		return nil, os.ErrNotExist
	}
	mutex := rs.lock(id)
	mutex.RLock()
	defer mutex.RUnlock()

	filename, _ := reportFilenames(id)
	var r Report
	if err := rs.storage.ReadDataFile(filename, &r); err != nil {
		if os.IsNotExist(err) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("ReadDataFile: %w", err)
	}
	r.normalize()
	return &r, nil
}

// DeleteReport removes a report and its sidecar. Deleting a missing report is
// not an error.
func (rs *ReportStore) DeleteReport(id string) error {
	if !isValidUUID(id) {
		return nil
	}
	mutex := rs.lock(id)
	mutex.Lock()
	defer mutex.Unlock()

	filename, metaFilename := reportFilenames(id)
	for _, f := range []string{filename, metaFilename} {
		if err := os.Remove(filepath.Join(rs.DataDir, f)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", f, err)
		}
	}
	rs.mu.Delete(id)
	return nil
}

// AllMetadata iterates over the metadata of every stored report, in no
// particular order. Reports without a readable sidecar are loaded in full.
func (rs *ReportStore) AllMetadata() iter.Seq2[ReportMetadata, error] {
	return func(yield func(ReportMetadata, error) bool) {
		files, err := os.ReadDir(filepath.Join(rs.DataDir, reportsDir))
		if err != nil {
			if !os.IsNotExist(err) {
				yield(ReportMetadata{}, err)
			}
			return
		}

		hasMeta := make(map[string]bool)
		hasReport := make(map[string]bool)
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			name := file.Name()
			if encoded, ok := strings.CutSuffix(name, ".meta.json"); ok {
				if id, err := url.PathUnescape(encoded); err == nil {
					hasMeta[id] = true
				}
			} else if encoded, ok := strings.CutSuffix(name, ".json"); ok {
				if id, err := url.PathUnescape(encoded); err == nil {
					hasReport[id] = true
				}
			}
		}

		for id := range hasReport {
			if hasMeta[id] {
				_, metaFilename := reportFilenames(id)
				var meta ReportMetadata
				err := rs.storage.ReadDataFile(metaFilename, &meta)
				if err == nil {
					if !yield(meta, nil) {
						return
					}
					continue
				}
				log.Printf("Warning: failed to load metadata for report %s: %v. Falling back to main file.", id, err)
			}
			r, err := rs.LoadReport(id)
			if err != nil {
				log.Printf("Warning: failed to load report %s: %v", id, err)
				continue
			}
			if !yield(r.metadata(), nil) {
				return
			}
		}
	}
}

// ListReports returns matching report metadata, newest first. cursor is the
// ID of the last entry of the previous page; the returned cursor is empty on
// the last page.
func (rs *ReportStore) ListReports(q search.Query, limit int, cursor string) ([]ReportMetadata, string, error) {
	var all []ReportMetadata
	for meta, err := range rs.AllMetadata() {
		if err != nil {
			return nil, "", err
		}
		if MatchReport(q, meta) {
			all = append(all, meta)
		}
	}
	slices.SortFunc(all, func(a, b ReportMetadata) int {
		if a.StartedAt != b.StartedAt {
			if a.StartedAt > b.StartedAt {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})

	start := 0
	if cursor != "" {
		idx := slices.IndexFunc(all, func(m ReportMetadata) bool { return m.ID == cursor })
		if idx < 0 {
			return nil, "", fmt.Errorf("unknown cursor %q", cursor)
		}
		start = idx + 1
	}
	page := all[start:]
	next := ""
	if limit > 0 && len(page) > limit {
		page = page[:limit]
		next = page[len(page)-1].ID
	}
	return page, next, nil
}

// LatencyStats merges the step latency histograms of every stored report.
func (rs *ReportStore) LatencyStats() (LatencyStats, error) {
	var h Histogram
	n := 0
	for meta, err := range rs.AllMetadata() {
		if err != nil {
			return LatencyStats{}, err
		}
		r, err := rs.LoadReport(meta.ID)
		if err != nil {
			log.Printf("Warning: failed to load report %s: %v", meta.ID, err)
			continue
		}
		h.Merge(r.Latency)
		n++
	}
	return newLatencyStats(n, &h), nil
}

// MatchReport applies a parsed query to report metadata. Supported keys are
// kind, status, url and date (UTC, formatted 2006-01-02T15:04). Free text
// matches the URL or ID as a case-insensitive substring.
func MatchReport(q search.Query, m ReportMetadata) bool {
	date := time.UnixMilli(m.StartedAt).UTC().Format("2006-01-02T15:04")
	for _, f := range q.Filters {
		var actual string
		switch f.Key {
		case "kind":
			actual = m.Kind
		case "status":
			actual = m.Status
		case "url":
			actual = m.URL
		case "date":
			actual = date
		default:
			return false
		}
		if !f.Match(actual) {
			return false
		}
	}
	for _, term := range q.FreeText {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(m.URL), term) && !strings.Contains(m.ID, term) {
			return false
		}
	}
	return true
}
