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
	"time"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

// LoadOptions configures LoadCheck.
type LoadOptions struct {
	URL      string
	Selector string
	Timeout  time.Duration
	// Out receives CONSOLE/PAGE ERROR lines and the outcome. May be nil.
	Out io.Writer
}

func (o *LoadOptions) applyDefaults() {
	if o.URL == "" {
		o.URL = backend.DefaultURL
	}
	if o.Selector == "" {
		o.Selector = backend.DefaultBoardSelector
	}
	if o.Timeout <= 0 {
		o.Timeout = backend.DefaultWaitTimeoutMS * time.Millisecond
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
}

// LoadCheck opens the page in the browser behind ctx and waits for the board.
// Console messages and page errors are forwarded to opts.Out as they arrive.
//
// A board that never appears is reported ("Wait failed: ...") and marks the
// report failed, but is not returned as an error. Navigation failures are
// returned. Page errors also mark the report failed.
func LoadCheck(ctx context.Context, opts LoadOptions) (*backend.Report, error) {
	opts.applyDefaults()
	report := backend.NewReport(backend.KindLoad, opts.URL)
	report.Selector = opts.Selector
	defer report.Finish()

	rec := e2ehelpers.NewConsoleRecorder(opts.Out)
	rec.Listen(ctx)
	defer func() {
		report.Console = rec.Entries()
		report.PageErrors = rec.PageErrors()
		if len(report.PageErrors) > 0 {
			report.Fail()
		}
	}()

	if err := chromedp.Run(ctx, chromedp.Navigate(opts.URL)); err != nil {
		report.Fail()
		return report, fmt.Errorf("navigate to %s: %w", opts.URL, err)
	}

	if err := chromedp.Run(ctx, e2ehelpers.WaitForSelector(opts.Selector, opts.Timeout)); err != nil {
		rec.Printf("Wait failed: %v\n", err)
		report.WaitError = err.Error()
		report.Fail()
		return report, nil
	}
	rec.Printf("Board loaded\n")
	report.BoardLoaded = true
	return report, nil
}
