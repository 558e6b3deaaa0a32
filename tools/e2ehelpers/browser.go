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

package e2ehelpers

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/chromedp/chromedp"
)

// BrowserOptions selects how Chrome is obtained.
type BrowserOptions struct {
	// RemoteURL is the remote debugging URL of an already running Chrome
	// (e.g. http://localhost:9222). When empty, a local headless Chrome is
	// launched.
	RemoteURL string
	// ExecPath overrides the Chrome binary for local launches. CHROME_PATH is
	// used when both are empty.
	ExecPath string
	// Headful shows the browser window for local launches.
	Headful bool
	Width   int
	Height  int
	// Logf receives chromedp's own log output. Defaults to log.Printf.
	Logf func(string, ...any)
}

// NewBrowser returns a chromedp context with a started browser and a single
// page. The returned cancel func closes the page and releases the browser.
func NewBrowser(ctx context.Context, opts BrowserOptions) (context.Context, context.CancelFunc, error) {
	logf := opts.Logf
	if logf == nil {
		logf = log.Printf
	}
	width, height := opts.Width, opts.Height
	if width <= 0 || height <= 0 {
		width, height = 1280, 720
	}

	var allocCtx context.Context
	var cancelAlloc context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancelAlloc = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.WindowSize(width, height),
			chromedp.NoSandbox,
			chromedp.DisableGPU,
		)
		if opts.Headful {
			execOpts = append(execOpts, chromedp.Flag("headless", false))
		}
		if path := findChrome(opts.ExecPath); path != "" {
			execOpts = append(execOpts, chromedp.ExecPath(path))
		}
		allocCtx, cancelAlloc = chromedp.NewExecAllocator(ctx, execOpts...)
	}

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logf),
		chromedp.WithErrorf(logf),
	)
	cancel := func() {
		cancelBrowser()
		cancelAlloc()
	}

	// An empty Run starts the browser so launch failures surface here.
	if err := chromedp.Run(browserCtx, chromedp.EmulateViewport(int64(width), int64(height))); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to start browser: %w", err)
	}
	return browserCtx, cancel, nil
}

// findChrome returns an explicit Chrome path, or "" to let chromedp search.
func findChrome(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv("CHROME_PATH"); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env
		}
		log.Printf("CHROME_PATH %s not found, falling back to default lookup", env)
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
