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
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/checks"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

func TestLoadCheckBoardLoaded(t *testing.T) {
	ctx := newBrowserContext(t, 30*time.Second)
	srv := startTestServer(t)

	var out lockedBuffer
	report, err := checks.LoadCheck(ctx, checks.LoadOptions{
		URL: srv.PageURL("index.html"),
		Out: &out,
	})
	if err != nil {
		t.Fatalf("LoadCheck: %v", err)
	}
	t.Logf("Output:\n%s", out.String())

	if !strings.Contains(out.String(), "CONSOLE: Board initialized 9\n") {
		t.Errorf("console message not forwarded:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Board loaded\n") {
		t.Errorf("Board loaded not printed:\n%s", out.String())
	}
	if report.Status != backend.StatusPassed || !report.BoardLoaded || report.WaitError != "" {
		t.Errorf("report = %+v", report)
	}
	if len(report.Console) != 1 || report.Console[0].Type != backend.ConsoleTypeLog {
		t.Errorf("console entries = %+v", report.Console)
	}
	if len(report.PageErrors) != 0 {
		t.Errorf("page errors = %v", report.PageErrors)
	}
}

func TestLoadCheckWaitFailed(t *testing.T) {
	ctx := newBrowserContext(t, 30*time.Second)
	srv := startTestServer(t)

	var out lockedBuffer
	report, err := checks.LoadCheck(ctx, checks.LoadOptions{
		URL:     srv.PageURL("broken.html"),
		Timeout: 1500 * time.Millisecond,
		Out:     &out,
	})
	if err != nil {
		t.Fatalf("LoadCheck returned an error for a missing board: %v", err)
	}
	t.Logf("Output:\n%s", out.String())

	for _, want := range []string{
		"CONSOLE: level format is deprecated\n",
		"PAGE ERROR: ",
		"level data missing",
		"Wait failed: ",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
	if strings.Contains(out.String(), "Board loaded") {
		t.Error("Board loaded printed for a page without cells")
	}
	if report.Status != backend.StatusFailed || report.BoardLoaded {
		t.Errorf("report = %+v", report)
	}
	if !strings.Contains(report.WaitError, e2ehelpers.ErrWaitTimeout.Error()) {
		t.Errorf("WaitError = %q", report.WaitError)
	}
	if len(report.PageErrors) != 1 || !strings.Contains(report.PageErrors[0], "level data missing") {
		t.Errorf("PageErrors = %v", report.PageErrors)
	}
}

func TestLoadCheckPublish(t *testing.T) {
	ctx := newBrowserContext(t, 30*time.Second)
	srv := startTestServer(t)

	report, err := checks.LoadCheck(ctx, checks.LoadOptions{URL: srv.PageURL("index.html")})
	if err != nil {
		t.Fatalf("LoadCheck: %v", err)
	}
	// The browser may reach the server under another name; publish locally.
	local := strings.Replace(srv.URL, "http://"+*serverHost, "http://localhost", 1)
	if err := checks.Publish(t.Context(), local, report); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	stored, err := srv.Reports.LoadReport(report.ID)
	if err != nil {
		t.Fatalf("LoadReport: %v", err)
	}
	if stored.Kind != backend.KindLoad || !stored.BoardLoaded || len(stored.Console) != 1 {
		t.Errorf("stored report = %+v", stored)
	}
}

func TestWaitForSelectorTimeout(t *testing.T) {
	ctx := newBrowserContext(t, 30*time.Second)
	srv := startTestServer(t)

	runStep(t, ctx, "Open board", chromedp.Navigate(srv.PageURL("index.html")))
	err := chromedp.Run(ctx, WaitForSelector(".does-not-exist", 500*time.Millisecond))
	if !errors.Is(err, e2ehelpers.ErrWaitTimeout) {
		t.Errorf("WaitForSelector error = %v, want ErrWaitTimeout", err)
	}
}
