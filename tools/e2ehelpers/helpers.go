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
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// ErrWaitTimeout is wrapped by WaitForSelector when the element never appears.
var ErrWaitTimeout = errors.New("timeout exceeded")

// CaptureScreenshot captures the viewport and saves it as a PNG.
func CaptureScreenshot(ctx context.Context, filename string) error {
	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return fmt.Errorf("failed to capture screenshot: %w", err)
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory for screenshot: %w", err)
		}
	}
	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return fmt.Errorf("failed to write screenshot to file: %w", err)
	}
	log.Printf("Saved screenshot to %s", filename)
	return nil
}

// WaitForSelector waits up to timeout for sel to become visible.
func WaitForSelector(sel string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		err := chromedp.WaitVisible(sel, chromedp.ByQuery).Do(tctx)
		if err == nil {
			return nil
		}
		if ctx.Err() == nil && errors.Is(tctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("waiting for %q: %w (%dms)", sel, ErrWaitTimeout, timeout.Milliseconds())
		}
		return fmt.Errorf("waiting for %q: %w", sel, err)
	})
}

// Evaluate runs a page-side script, discarding its result.
func Evaluate(script string) chromedp.Action {
	return chromedp.Evaluate(script, nil)
}

// DisableCSSAnimations zeroes transition and animation durations so
// screenshots are deterministic.
func DisableCSSAnimations() chromedp.ActionFunc {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		return chromedp.Evaluate(`
			const style = document.createElement('style');
			style.innerHTML = '*{-webkit-transition-duration:0s!important;transition-duration:0s!important;-webkit-animation-duration:0s!important;animation-duration:0s!important;}';
			document.head.appendChild(style);
		`, nil).Do(ctx)
	})
}

// WaitAnyVisible waits until any element matching sel is rendered and stores
// a short description of it in match.
func WaitAnyVisible(sel string, match *string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		quoted, err := json.Marshal(sel)
		if err != nil {
			return err
		}
		return chromedp.Poll(fmt.Sprintf(`(function(selectors) {
			const elements = document.querySelectorAll(selectors);
			for (const el of elements) {
				const style = window.getComputedStyle(el);
				if (el.offsetHeight !== 0 && style.display !== 'none' && style.visibility !== 'hidden' && style.opacity !== '0') {
					return el.tagName.toLowerCase() + (el.id ? '#' + el.id : '') + (el.className ? '.' + String(el.className).trim().split(/\s+/).join('.') : '');
				}
			}
			return false;
		})(%s)`, quoted), match,
			chromedp.WithPollingInterval(200*time.Millisecond),
			chromedp.WithPollingTimeout(timeout),
		).Do(ctx)
	})
}

// WaitUntilDisplayNone waits until the element is hidden (display: none) or
// removed, e.g. a transient VFX overlay.
func WaitUntilDisplayNone(sel string, timeout time.Duration) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		quoted, err := json.Marshal(sel)
		if err != nil {
			return err
		}
		err = chromedp.Poll(fmt.Sprintf(`(() => {
			const el = document.querySelector(%s);
			return !el || window.getComputedStyle(el).display === 'none';
		})()`, quoted), nil,
			chromedp.WithPollingInterval(100*time.Millisecond),
			chromedp.WithPollingTimeout(timeout),
		).Do(ctx)
		if err != nil {
			return fmt.Errorf("waiting for %s to have display: none: %w", sel, err)
		}
		return nil
	})
}
