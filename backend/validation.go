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
	"regexp"
	"slices"
)

// uuidRegex is a regex for standard UUIDs (8-4-4-4-12 hex digits)
var uuidRegex = regexp.MustCompile(`^[a-fA-F0-9]{8}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{4}-[a-fA-F0-9]{12}$`)

// isValidUUID checks if the string is a valid UUID.
func isValidUUID(id string) bool {
	return uuidRegex.MatchString(id)
}

var (
	validColors = []string{ColorRed, ColorBlue, ColorGreen, ColorPurple, ColorWhite, ColorOrange, ColorYellow}
	validTypes  = []string{TileTypeNormal, TileTypeGold, TileTypeFusionCore}
	validStates = []string{TileStateNormal, TileStateFrozen, TileStateBrightBlue, TileStateBrightPurple, TileStateSuspended}
	validVFX    = []string{
		EffectFrostNova, EffectAcidSplash, EffectBiohazard, EffectShockwave, EffectWindSlash,
		EffectHydroBeam, EffectVoidVortex, EffectHolyBeam, EffectLightning,
	}
)

// ValidateCoord checks that (row, col) lies on the board.
func ValidateCoord(row, col int) error {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return fmt.Errorf("position (%d, %d) is outside the %dx%d board", row, col, GridSize, GridSize)
	}
	return nil
}

// ValidateTile checks a tile against the values the game understands.
func ValidateTile(t Tile) error {
	if !slices.Contains(validColors, t.Color) {
		return fmt.Errorf("invalid tile color %q", t.Color)
	}
	if !slices.Contains(validTypes, t.Type) {
		return fmt.Errorf("invalid tile type %q", t.Type)
	}
	if !slices.Contains(validStates, t.State) {
		return fmt.Errorf("invalid tile state %q", t.State)
	}
	if t.Voltage != 0 {
		if t.Color != ColorYellow {
			return fmt.Errorf("voltage is only valid on yellow tiles, got %s", t.Color)
		}
		if t.Voltage < 1 || t.Voltage > 3 {
			return fmt.Errorf("voltage must be between 1 and 3, got %d", t.Voltage)
		}
	}
	return nil
}

// ValidateVFX checks a showVFX call before it is sent to the page.
func ValidateVFX(v VFX) error {
	if !slices.Contains(validVFX, v.Effect) {
		return fmt.Errorf("unknown effect %q", v.Effect)
	}
	if err := ValidateCoord(v.Row, v.Col); err != nil {
		return err
	}
	switch v.Orientation {
	case "", OrientationRow, OrientationCol:
	default:
		return fmt.Errorf("invalid orientation %q", v.Orientation)
	}
	if v.Effect == EffectLightning {
		if v.Target == nil {
			return fmt.Errorf("lightning requires a target")
		}
		if v.Orientation != "" {
			return fmt.Errorf("lightning takes a target, not an orientation")
		}
		if err := ValidateCoord(v.Target.Row, v.Target.Col); err != nil {
			return fmt.Errorf("lightning target: %w", err)
		}
	} else if v.Target != nil {
		return fmt.Errorf("effect %q does not take a target", v.Effect)
	}
	return nil
}

// ValidateReport validates a report received over the API.
func ValidateReport(r *Report) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	if r.ID != "" && !isValidUUID(r.ID) {
		return fmt.Errorf("invalid report id %q", r.ID)
	}
	switch r.Kind {
	case KindLoad, KindVisual:
	default:
		return fmt.Errorf("invalid report kind %q", r.Kind)
	}
	switch r.Status {
	case "", StatusPassed, StatusFailed:
	default:
		return fmt.Errorf("invalid report status %q", r.Status)
	}
	if r.URL == "" {
		return fmt.Errorf("report url is required")
	}
	if r.DurationMS < 0 {
		return fmt.Errorf("negative duration")
	}
	for i, s := range r.Steps {
		if s.Name == "" {
			return fmt.Errorf("step %d has no name", i)
		}
	}
	return nil
}
