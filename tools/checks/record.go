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

package checks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/my-matchgame/gamecheck/backend"
)

// Record saves the report into the report store under dataDir.
func Record(dataDir string, r *backend.Report) error {
	store, err := backend.OpenStorage(dataDir)
	if err != nil {
		return err
	}
	if err := backend.NewReportStore(dataDir, store).SaveReport(r); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// Publish posts the report to a running dev server, which stores it and
// pushes it to live feed listeners.
func Publish(ctx context.Context, serverURL string, r *backend.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return err
	}
	endpoint := strings.TrimSuffix(serverURL, "/") + "/api/runs"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("publish report: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return fmt.Errorf("publish report: decode response: %w", err)
	}
	if r.ID == "" {
		r.ID = created.ID
	}
	return nil
}
