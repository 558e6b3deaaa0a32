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

package e2e

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/tools/checks"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

// VerifyBoard captures the rendered board layout and compares it to a golden
// file. If UPDATE_GOLDENS is true, it writes the file instead.
func VerifyBoard(t *testing.T, ctx context.Context, goldenFilename string) {
	t.Helper()
	var lines []string
	if err := chromedp.Run(ctx, e2ehelpers.BoardSnapshot(e2ehelpers.DefaultBoardContainer, &lines)); err != nil {
		t.Fatalf("Failed to capture board layout: %v", err)
	}
	if len(lines) == 0 {
		t.Fatal("Board is empty")
	}

	goldenPath := filepath.Join("goldens", goldenFilename)
	update := os.Getenv("UPDATE_GOLDENS") == "true"
	diff, err := checks.CompareGolden(goldenPath, strings.Join(lines, "\n"), update)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			t.Errorf("Golden file missing: %s. Run with UPDATE_GOLDENS=true to create it.\nActual Content:\n%s", goldenPath, strings.Join(lines, "\n"))
			return
		}
		t.Fatalf("Golden compare %s: %v", goldenPath, err)
	}
	if update {
		t.Logf("Updated golden file: %s", goldenPath)
		return
	}
	if diff != "" {
		t.Errorf("Board mismatch for %s:\n%s", goldenFilename, diff)
	}
}
