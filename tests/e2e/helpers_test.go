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
	"context"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

var CaptureScreenshot = e2ehelpers.CaptureScreenshot
var WaitForSelector = e2ehelpers.WaitForSelector
var DisableCSSAnimations = e2ehelpers.DisableCSSAnimations
var WaitAnyVisible = e2ehelpers.WaitAnyVisible
var WaitUntilDisplayNone = e2ehelpers.WaitUntilDisplayNone
var ReadTile = e2ehelpers.ReadTile
var CountElements = e2ehelpers.CountElements

// ShowVFX runs showVFX on the page.
func ShowVFX(v backend.VFX) chromedp.Action {
	script, err := e2ehelpers.ShowVFXScript(v)
	if err != nil {
		return failedAction(err)
	}
	return e2ehelpers.Evaluate(script)
}

// InjectTile places t at (row, col) and redraws the board.
func InjectTile(row, col int, t backend.Tile) chromedp.Action {
	script, err := e2ehelpers.InjectTileScript(row, col, t, true)
	if err != nil {
		return failedAction(err)
	}
	return e2ehelpers.Evaluate(script)
}

func failedAction(err error) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error { return err })
}
