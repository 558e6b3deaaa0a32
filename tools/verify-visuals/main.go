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

// verify-visuals drives the game's rendering and effects functions and saves
// a screenshot of the result.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/checks"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

var (
	pageURL      = flag.String("url", "", "Page to load (overrides the scenario)")
	scenarioFile = flag.String("scenario", "", "YAML scenario; the built-in tile and effects sequence when empty")
	output       = flag.String("output", "", "Screenshot path (overrides the scenario)")
	goldenPath   = flag.String("golden", "", "Compare the rendered board layout with this golden file")
	updateGolden = flag.Bool("update-golden", false, "Rewrite the golden file instead of comparing")
	chromeURL    = flag.String("chrome-url", "", "Remote debugging URL of a running Chrome; a headless Chrome is launched when empty")
	chromePath   = flag.String("chrome-path", "", "Chrome binary for local launches (default: CHROME_PATH or PATH lookup)")
	headful      = flag.Bool("headful", false, "Show the browser window")
	width        = flag.Int("width", 1280, "Viewport width")
	height       = flag.Int("height", 720, "Viewport height")
	recordDir    = flag.String("record-dir", "", "Save the run report into this data directory")
	publishURL   = flag.String("publish", "", "Post the run report to the dev server at this URL")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	scenario := checks.DefaultScenario()
	if *scenarioFile != "" {
		s, err := checks.LoadScenario(*scenarioFile)
		if err != nil {
			log.Fatalf("Failed to load scenario: %v", err)
		}
		scenario = s
	}
	if *pageURL != "" {
		scenario.URL = *pageURL
	}
	if *output != "" {
		scenario.Screenshot = *output
	}

	ctx, cancel, err := e2ehelpers.NewBrowser(context.Background(), e2ehelpers.BrowserOptions{
		RemoteURL: *chromeURL,
		ExecPath:  *chromePath,
		Headful:   *headful,
		Width:     *width,
		Height:    *height,
	})
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}

	report, runErr := checks.VisualCheck(ctx, checks.VisualOptions{
		Scenario:     scenario,
		GoldenPath:   *goldenPath,
		UpdateGolden: *updateGolden,
		Out:          os.Stdout,
	})
	cancel()

	if report != nil {
		if *recordDir != "" {
			if err := checks.Record(*recordDir, report); err != nil {
				log.Printf("Failed to record report: %v", err)
			} else {
				log.Printf("Recorded report %s", report.ID)
			}
		}
		if *publishURL != "" {
			if err := checks.Publish(context.Background(), *publishURL, report); err != nil {
				log.Printf("Failed to publish report: %v", err)
			}
		}
	}
	if runErr != nil {
		log.Fatalf("Visual check failed: %v", runErr)
	}
	if report.Status == backend.StatusFailed {
		os.Exit(1)
	}
}
