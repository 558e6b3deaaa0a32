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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/my-matchgame/gamecheck/backend"
)

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()
	if err := sc.Validate(); err != nil {
		t.Fatalf("DefaultScenario().Validate() = %v", err)
	}
	if sc.URL != "http://localhost:8080/index.html" {
		t.Errorf("URL = %q", sc.URL)
	}
	if sc.Selector != ".cell" {
		t.Errorf("Selector = %q", sc.Selector)
	}
	if sc.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", sc.Timeout)
	}
	if sc.Screenshot != "verification_visuals.png" {
		t.Errorf("Screenshot = %q", sc.Screenshot)
	}

	want := []struct {
		script string
		delay  time.Duration
	}{
		{"(() => {\n\tconst tile = {\"id\":999,\"color\":\"yellow\",\"type\":\"normal\",\"state\":\"normal\",\"voltage\":3};\n\tboard[0][0] = tile;\n\trenderBoard();\n})()", 500 * time.Millisecond},
		{`showVFX(2, 2, "void-vortex")`, 500 * time.Millisecond},
		{`showVFX(4, 4, "hydro-beam", "row")`, 200 * time.Millisecond},
	}
	if len(sc.Steps) != len(want) {
		t.Fatalf("len(Steps) = %d, want %d", len(sc.Steps), len(want))
	}
	for i, w := range want {
		got, err := sc.Steps[i].Script()
		if err != nil {
			t.Fatalf("step %d Script() error: %v", i, err)
		}
		if got != w.script {
			t.Errorf("step %d script = %q, want %q", i, got, w.script)
		}
		if sc.Steps[i].Delay != w.delay {
			t.Errorf("step %d delay = %v, want %v", i, sc.Steps[i].Delay, w.delay)
		}
	}
}

func TestStepScript(t *testing.T) {
	tests := []struct {
		name    string
		step    Step
		want    string
		wantErr bool
	}{
		{
			name: "render only",
			step: Step{Render: true},
			want: "renderBoard()",
		},
		{
			name: "evaluate",
			step: Step{Evaluate: "window.score = 0"},
			want: "window.score = 0",
		},
		{
			name: "lightning",
			step: Step{VFX: &backend.VFX{Row: 1, Col: 2, Effect: backend.EffectLightning, Target: &backend.Coord{Row: 3, Col: 5}}},
			want: `showVFX(1, 2, "lightning", {"r":3,"c":5})`,
		},
		{
			name:    "empty",
			step:    Step{},
			wantErr: true,
		},
		{
			name:    "two actions",
			step:    Step{Evaluate: "x()", VFX: &backend.VFX{Effect: backend.EffectShockwave}},
			wantErr: true,
		},
		{
			name:    "render with vfx",
			step:    Step{Render: true, VFX: &backend.VFX{Effect: backend.EffectShockwave}},
			wantErr: true,
		},
		{
			name:    "unknown effect",
			step:    Step{VFX: &backend.VFX{Effect: "confetti"}},
			wantErr: true,
		},
		{
			name: "voltage on red tile",
			step: Step{Inject: &Injection{Tile: backend.Tile{
				Color: backend.ColorRed, Type: backend.TileTypeNormal, State: backend.TileStateNormal, Voltage: 2,
			}}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.step.Script()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Script() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Script() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	content := `
url: http://127.0.0.1:9000/index.html
screenshot: out/frost.png
steps:
  - inject:
      row: 8
      col: 8
      tile: {id: 1, color: blue, type: gold, state: frozen}
    render: true
    delay: 250ms
  - name: frost
    vfx: {row: 8, col: 8, effect: frost-nova}
    delay: 1s
  - vfx: {row: 0, col: 4, effect: lightning, target: {row: 5, col: 4}}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.URL != "http://127.0.0.1:9000/index.html" {
		t.Errorf("URL = %q", sc.URL)
	}
	if sc.Selector != backend.DefaultBoardSelector {
		t.Errorf("Selector = %q, want default", sc.Selector)
	}
	if sc.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want default", sc.Timeout)
	}
	if sc.Screenshot != "out/frost.png" {
		t.Errorf("Screenshot = %q", sc.Screenshot)
	}
	if len(sc.Steps) != 3 {
		t.Fatalf("len(Steps) = %d", len(sc.Steps))
	}
	if sc.Steps[0].Name != "step-1" || sc.Steps[1].Name != "frost" || sc.Steps[2].Name != "step-3" {
		t.Errorf("step names = %q, %q, %q", sc.Steps[0].Name, sc.Steps[1].Name, sc.Steps[2].Name)
	}
	if sc.Steps[0].Delay != 250*time.Millisecond || sc.Steps[1].Delay != time.Second || sc.Steps[2].Delay != 0 {
		t.Errorf("delays = %v, %v, %v", sc.Steps[0].Delay, sc.Steps[1].Delay, sc.Steps[2].Delay)
	}
	tile := sc.Steps[0].Inject.Tile
	if tile.Color != "blue" || tile.Type != "gold" || tile.State != "frozen" || sc.Steps[0].Inject.Row != 8 {
		t.Errorf("injected tile = %+v at row %d", tile, sc.Steps[0].Inject.Row)
	}
	script, err := sc.Steps[2].Script()
	if err != nil {
		t.Fatal(err)
	}
	if want := `showVFX(0, 4, "lightning", {"r":5,"c":4})`; script != want {
		t.Errorf("lightning script = %q, want %q", script, want)
	}
}

func TestLoadScenarioErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		errText string
	}{
		{"no steps", "url: http://localhost/\n", "at least one step"},
		{"bad coordinate", "steps:\n  - vfx: {row: 9, col: 0, effect: shockwave}\n", "outside"},
		{"negative delay", "steps:\n  - render: true\n    delay: -1s\n", "negative delay"},
		{"bad yaml", "steps: [\n", "parse scenario"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := LoadScenario(path)
			if err == nil {
				t.Fatalf("case %d: expected error", i)
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error = %q, want it to contain %q", err, tt.errText)
			}
		})
	}

	if _, err := LoadScenario(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}
