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
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/checks"
)

func TestVisualCheckDefaultScenario(t *testing.T) {
	ctx := newBrowserContext(t, 60*time.Second)
	failOnJSErrors(t, ctx)
	srv := startTestServer(t)

	sc := checks.DefaultScenario()
	sc.URL = srv.PageURL("index.html")
	sc.Screenshot = filepath.Join(t.TempDir(), "verification_visuals.png")

	var out lockedBuffer
	report, err := checks.VisualCheck(ctx, checks.VisualOptions{Scenario: sc, Out: &out})
	if err != nil {
		t.Fatalf("VisualCheck: %v\n%s", err, out.String())
	}
	t.Logf("Output:\n%s", out.String())

	if report.Status != backend.StatusPassed || !report.BoardLoaded {
		t.Errorf("report = %+v", report)
	}
	if len(report.Steps) != 3 {
		t.Fatalf("steps = %+v", report.Steps)
	}
	for i, want := range []struct {
		name  string
		delay int64
	}{{"yellow-voltage-3", 500}, {"purple-void-vortex", 500}, {"blue-hydro-beam", 200}} {
		if got := report.Steps[i]; got.Name != want.name || got.DelayMS != want.delay || got.Error != "" {
			t.Errorf("step %d = %+v", i, got)
		}
	}
	if report.Latency == nil || report.Latency.Count != 3 {
		t.Errorf("latency = %+v", report.Latency)
	}

	// The page state the screenshot captured.
	var tile backend.Tile
	var vortex, beam int
	var firstEffect string
	runStep(t, ctx, "Inspect board",
		WaitAnyVisible("#vfx-layer .vfx", &firstEffect, 2*time.Second),
		ReadTile(0, 0, &tile),
		CountElements("#vfx-layer .vfx-void-vortex", &vortex),
		CountElements("#vfx-layer .vfx-hydro-beam.vfx-row", &beam),
	)
	if tile.Color != backend.ColorYellow || tile.Voltage != 3 || tile.ID != 999 {
		t.Errorf("board[0][0] = %+v", tile)
	}
	if !strings.HasPrefix(firstEffect, "div.vfx.vfx-") {
		t.Errorf("first visible effect = %q", firstEffect)
	}
	if vortex != 1 || beam != 1 {
		t.Errorf("active effects: vortex=%d beam=%d", vortex, beam)
	}
	VerifyBoard(t, ctx, "visual_board.txt")

	f, err := os.Open(sc.Screenshot)
	if err != nil {
		t.Fatalf("screenshot not written: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("screenshot is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		t.Errorf("empty screenshot: %v", b)
	}
}

func TestVisualCheckGolden(t *testing.T) {
	ctx := newBrowserContext(t, 60*time.Second)
	srv := startTestServer(t)

	sc := checks.DefaultScenario()
	sc.URL = srv.PageURL("index.html")
	sc.Screenshot = filepath.Join(t.TempDir(), "shot.png")

	t.Run("Match", func(t *testing.T) {
		report, err := checks.VisualCheck(ctx, checks.VisualOptions{
			Scenario:   sc,
			GoldenPath: filepath.Join("goldens", "visual_board.txt"),
		})
		if err != nil {
			t.Fatalf("VisualCheck: %v", err)
		}
		if report.GoldenDiff != "" || report.Status != backend.StatusPassed {
			t.Errorf("unexpected golden diff:\n%s", report.GoldenDiff)
		}
	})

	t.Run("Mismatch", func(t *testing.T) {
		golden, err := os.ReadFile(filepath.Join("goldens", "visual_board.txt"))
		if err != nil {
			t.Fatal(err)
		}
		altered := filepath.Join(t.TempDir(), "altered.txt")
		if err := os.WriteFile(altered, []byte(strings.Replace(string(golden), "voltage-3", "voltage-2", 1)), 0644); err != nil {
			t.Fatal(err)
		}
		report, err := checks.VisualCheck(ctx, checks.VisualOptions{Scenario: sc, GoldenPath: altered})
		if err != nil {
			t.Fatalf("VisualCheck: %v", err)
		}
		if report.Status != backend.StatusFailed || !strings.Contains(report.GoldenDiff, "+0,0 cell color-yellow state-normal type-normal voltage-3") {
			t.Errorf("status=%s diff:\n%s", report.Status, report.GoldenDiff)
		}
		if report.Screenshot == "" {
			t.Error("screenshot skipped on golden mismatch")
		}
	})
}

func TestVisualCheckCustomScenario(t *testing.T) {
	ctx := newBrowserContext(t, 60*time.Second)
	failOnJSErrors(t, ctx)
	srv := startTestServer(t)

	sc := checks.Scenario{
		URL:        srv.PageURL("index.html"),
		Screenshot: filepath.Join(t.TempDir(), "lightning.png"),
		Steps: []checks.Step{
			{Name: "mark-page", Evaluate: `document.body.dataset.still = "1"`},
			{Name: "frost", VFX: &backend.VFX{Row: 8, Col: 8, Effect: backend.EffectFrostNova}, Delay: 50 * time.Millisecond},
			{Name: "zap", VFX: &backend.VFX{Row: 0, Col: 0, Effect: backend.EffectLightning, Target: &backend.Coord{Row: 3, Col: 5}}},
		},
	}
	if _, err := checks.VisualCheck(ctx, checks.VisualOptions{Scenario: sc}); err != nil {
		t.Fatalf("VisualCheck: %v", err)
	}

	var target string
	runStep(t, ctx, "Inspect lightning",
		chromedp.Evaluate(`(() => { const el = document.querySelector('.vfx-lightning'); return el.dataset.targetRow + ',' + el.dataset.targetCol; })()`, &target),
	)
	if target != "3,5" {
		t.Errorf("lightning target = %q, want 3,5", target)
	}
	runStep(t, ctx, "Effects expire",
		WaitUntilDisplayNone(".vfx-frost-nova", 10*time.Second),
		WaitUntilDisplayNone(".vfx-lightning", 10*time.Second),
	)
}

func TestVisualCheckWaitFailure(t *testing.T) {
	ctx := newBrowserContext(t, 30*time.Second)
	srv := startTestServer(t)

	sc := checks.DefaultScenario()
	sc.URL = srv.PageURL("broken.html")
	sc.Timeout = time.Second
	sc.Screenshot = filepath.Join(t.TempDir(), "never.png")

	report, err := checks.VisualCheck(ctx, checks.VisualOptions{Scenario: sc})
	if err == nil {
		t.Fatal("VisualCheck succeeded without a board")
	}
	if report == nil || report.Status != backend.StatusFailed || len(report.Steps) != 0 {
		t.Errorf("report = %+v", report)
	}
	if _, err := os.Stat(sc.Screenshot); !os.IsNotExist(err) {
		t.Errorf("screenshot written after wait failure: %v", err)
	}
}
