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

// verify-errors loads the game in a headless browser, echoes console output
// and page errors, and reports whether the board appeared.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/checks"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

var (
	pageURL     = flag.String("url", backend.DefaultURL, "Page to load")
	selector    = flag.String("selector", backend.DefaultBoardSelector, "Element that signals the board is loaded")
	timeout     = flag.Duration("timeout", backend.DefaultWaitTimeoutMS*time.Millisecond, "How long to wait for the board")
	chromeURL   = flag.String("chrome-url", "", "Remote debugging URL of a running Chrome; a headless Chrome is launched when empty")
	chromePath  = flag.String("chrome-path", "", "Chrome binary for local launches (default: CHROME_PATH or PATH lookup)")
	recordDir   = flag.String("record-dir", "", "Save the run report into this data directory")
	publishURL  = flag.String("publish", "", "Post the run report to the dev server at this URL")
	failOnError = flag.Bool("fail-on-error", false, "Exit non-zero when the board does not load or the page throws")
)

func main() {
	flag.Parse()
	log.SetFlags(0)

	ctx, cancel, err := e2ehelpers.NewBrowser(context.Background(), e2ehelpers.BrowserOptions{
		RemoteURL: *chromeURL,
		ExecPath:  *chromePath,
	})
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}

	report, err := checks.LoadCheck(ctx, checks.LoadOptions{
		URL:      *pageURL,
		Selector: *selector,
		Timeout:  *timeout,
		Out:      os.Stdout,
	})
	cancel()
	if err != nil {
		log.Fatalf("Load check failed: %v", err)
	}

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

	if *failOnError && report.Status == backend.StatusFailed {
		os.Exit(1)
	}
}
