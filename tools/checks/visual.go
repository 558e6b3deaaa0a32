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
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

// VisualOptions configures VisualCheck.
type VisualOptions struct {
	Scenario Scenario
	// GoldenPath, when set, compares the rendered board layout with a golden
	// file before the screenshot is taken.
	GoldenPath   string
	UpdateGolden bool
	// Out receives console forwarding and progress lines. May be nil.
	Out io.Writer
}

// VisualCheck waits for the board, runs each scenario step followed by its
// delay, and saves a screenshot. Unlike LoadCheck, a board that never appears
// is an error, as is any failing step. The partial report is returned with
// the error.
func VisualCheck(ctx context.Context, opts VisualOptions) (*backend.Report, error) {
	sc := opts.Scenario
	sc.applyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	report := backend.NewReport(backend.KindVisual, sc.URL)
	report.Selector = sc.Selector
	report.Latency = &backend.Histogram{}
	defer report.Finish()

	rec := e2ehelpers.NewConsoleRecorder(out)
	rec.Listen(ctx)
	defer func() {
		report.Console = rec.Entries()
		report.PageErrors = rec.PageErrors()
	}()

	if err := chromedp.Run(ctx, chromedp.Navigate(sc.URL)); err != nil {
		report.Fail()
		return report, fmt.Errorf("navigate to %s: %w", sc.URL, err)
	}
	if err := chromedp.Run(ctx, e2ehelpers.WaitForSelector(sc.Selector, sc.Timeout)); err != nil {
		report.WaitError = err.Error()
		report.Fail()
		return report, err
	}
	report.BoardLoaded = true

	for _, step := range sc.Steps {
		result, err := runStep(ctx, step)
		report.Steps = append(report.Steps, result)
		report.Latency.Add(time.Duration(result.DurationMS) * time.Millisecond)
		if err != nil {
			report.Fail()
			return report, fmt.Errorf("step %s: %w", step.Name, err)
		}
		rec.Printf("Step %s done in %dms\n", step.Name, result.DurationMS)
	}

	if opts.GoldenPath != "" {
		var lines []string
		if err := chromedp.Run(ctx, e2ehelpers.BoardSnapshot(sc.Container, &lines)); err != nil {
			report.Fail()
			return report, fmt.Errorf("board snapshot: %w", err)
		}
		diff, err := CompareGolden(opts.GoldenPath, strings.Join(lines, "\n"), opts.UpdateGolden)
		if err != nil {
			report.Fail()
			return report, err
		}
		if opts.UpdateGolden {
			log.Printf("Updated golden file: %s", opts.GoldenPath)
		}
		if diff != "" {
			rec.Printf("Board layout mismatch:\n%s", diff)
			report.GoldenDiff = diff
			report.Fail()
		}
	}

	if err := e2ehelpers.CaptureScreenshot(ctx, sc.Screenshot); err != nil {
		report.Fail()
		return report, err
	}
	report.Screenshot = sc.Screenshot
	return report, nil
}

// runStep evaluates the step's script, then sleeps its delay so animations
// can develop. Only the evaluation is timed.
func runStep(ctx context.Context, step Step) (backend.StepResult, error) {
	result := backend.StepResult{
		Name:    step.Name,
		DelayMS: step.Delay.Milliseconds(),
	}
	script, err := step.Script()
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	result.Script = script

	start := time.Now()
	err = chromedp.Run(ctx, e2ehelpers.Evaluate(script))
	result.DurationMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	if step.Delay > 0 {
		if err := chromedp.Run(ctx, chromedp.Sleep(step.Delay)); err != nil {
			result.Error = err.Error()
			return result, err
		}
	}
	return result, nil
}
