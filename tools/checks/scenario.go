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

// Package checks implements the two browser checks run against the game: a
// page-load check that surfaces console output and page errors, and a visual
// check that drives page-side functions before taking a screenshot.
package checks

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
	"gopkg.in/yaml.v3"
)

// Scenario is the sequence of page-side steps run by the visual check.
type Scenario struct {
	URL        string        `yaml:"url"`
	Selector   string        `yaml:"selector"`
	Timeout    time.Duration `yaml:"timeout"`
	Screenshot string        `yaml:"screenshot"`
	Container  string        `yaml:"container"`
	Steps      []Step        `yaml:"steps"`
}

// Injection places a tile on the page's board.
type Injection struct {
	Row  int          `yaml:"row"`
	Col  int          `yaml:"col"`
	Tile backend.Tile `yaml:"tile"`
}

// Step is one page-side action followed by a fixed wait. At most one of
// Inject, VFX and Evaluate is set; Render alone redraws the board.
type Step struct {
	Name     string        `yaml:"name"`
	Inject   *Injection    `yaml:"inject,omitempty"`
	VFX      *backend.VFX  `yaml:"vfx,omitempty"`
	Evaluate string        `yaml:"evaluate,omitempty"`
	Render   bool          `yaml:"render,omitempty"`
	Delay    time.Duration `yaml:"delay"`
}

// DefaultScenario injects a level 3 yellow tile, then plays the purple void
// vortex and the blue row hydro beam, and screenshots the result.
func DefaultScenario() Scenario {
	return Scenario{
		URL:        backend.DefaultURL,
		Selector:   backend.DefaultBoardSelector,
		Timeout:    backend.DefaultWaitTimeoutMS * time.Millisecond,
		Screenshot: backend.DefaultScreenshotPath,
		Container:  e2ehelpers.DefaultBoardContainer,
		Steps: []Step{
			{
				Name: "yellow-voltage-3",
				Inject: &Injection{
					Row: 0, Col: 0,
					Tile: backend.Tile{
						ID:      999,
						Color:   backend.ColorYellow,
						Type:    backend.TileTypeNormal,
						State:   backend.TileStateNormal,
						Voltage: 3,
					},
				},
				Render: true,
				Delay:  500 * time.Millisecond,
			},
			{
				Name:  "purple-void-vortex",
				VFX:   &backend.VFX{Row: 2, Col: 2, Effect: backend.EffectVoidVortex},
				Delay: 500 * time.Millisecond,
			},
			{
				Name:  "blue-hydro-beam",
				VFX:   &backend.VFX{Row: 4, Col: 4, Effect: backend.EffectHydroBeam, Orientation: backend.OrientationRow},
				Delay: 200 * time.Millisecond,
			},
		},
	}
}

// LoadScenario reads a YAML scenario. Fields left empty take the values of
// DefaultScenario, except Steps.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

func (s *Scenario) applyDefaults() {
	def := DefaultScenario()
	if s.URL == "" {
		s.URL = def.URL
	}
	if s.Selector == "" {
		s.Selector = def.Selector
	}
	if s.Timeout == 0 {
		s.Timeout = def.Timeout
	}
	if s.Screenshot == "" {
		s.Screenshot = def.Screenshot
	}
	if s.Container == "" {
		s.Container = def.Container
	}
	for i := range s.Steps {
		if s.Steps[i].Name == "" {
			s.Steps[i].Name = fmt.Sprintf("step-%d", i+1)
		}
	}
}

// Validate checks the scenario and every step script.
func (s Scenario) Validate() error {
	var errs []error
	if s.URL == "" {
		errs = append(errs, errors.New("url is required"))
	}
	if s.Selector == "" {
		errs = append(errs, errors.New("selector is required"))
	}
	if s.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", s.Timeout))
	}
	if s.Screenshot == "" {
		errs = append(errs, errors.New("screenshot path is required"))
	}
	if len(s.Steps) == 0 {
		errs = append(errs, errors.New("at least one step is required"))
	}
	for i, step := range s.Steps {
		if _, err := step.Script(); err != nil {
			errs = append(errs, fmt.Errorf("step %d (%s): %w", i+1, step.Name, err))
		}
		if step.Delay < 0 {
			errs = append(errs, fmt.Errorf("step %d (%s): negative delay", i+1, step.Name))
		}
	}
	return errors.Join(errs...)
}

// Script returns the page-side code for the step.
func (s Step) Script() (string, error) {
	set := 0
	if s.Inject != nil {
		set++
	}
	if s.VFX != nil {
		set++
	}
	if s.Evaluate != "" {
		set++
	}
	switch {
	case set > 1:
		return "", errors.New("only one of inject, vfx and evaluate may be set")
	case s.Inject != nil:
		return e2ehelpers.InjectTileScript(s.Inject.Row, s.Inject.Col, s.Inject.Tile, s.Render)
	case s.Render && set == 0:
		return e2ehelpers.RenderBoardScript(), nil
	case s.Render:
		return "", errors.New("render only applies to inject steps")
	case s.VFX != nil:
		return e2ehelpers.ShowVFXScript(*s.VFX)
	case s.Evaluate != "":
		return s.Evaluate, nil
	}
	return "", errors.New("step has nothing to do")
}
