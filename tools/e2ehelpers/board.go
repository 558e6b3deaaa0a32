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
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
)

// The page exposes its state as top-level script bindings: a `board` array
// of rows of tiles, `renderBoard()` and `showVFX(r, c, type, orientation)`.
// Scripts below refer to them by name; all values are JSON encoded.

// DefaultBoardContainer is the element renderBoard fills with cells.
const DefaultBoardContainer = "#grid-container"

// InjectTileScript returns a script that places t at (row, col) and, when
// render is set, redraws the board.
func InjectTileScript(row, col int, t backend.Tile, render bool) (string, error) {
	if err := backend.ValidateCoord(row, col); err != nil {
		return "", err
	}
	if err := backend.ValidateTile(t); err != nil {
		return "", err
	}
	tile, err := json.Marshal(t)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString("(() => {\n")
	fmt.Fprintf(&b, "\tconst tile = %s;\n", tile)
	fmt.Fprintf(&b, "\tboard[%d][%d] = tile;\n", row, col)
	if render {
		b.WriteString("\trenderBoard();\n")
	}
	b.WriteString("})()")
	return b.String(), nil
}

// RenderBoardScript redraws the board from the page's state.
func RenderBoardScript() string {
	return "renderBoard()"
}

// ShowVFXScript returns the showVFX call for v.
func ShowVFXScript(v backend.VFX) (string, error) {
	if err := backend.ValidateVFX(v); err != nil {
		return "", err
	}
	effect, err := json.Marshal(v.Effect)
	if err != nil {
		return "", err
	}
	args := []string{fmt.Sprint(v.Row), fmt.Sprint(v.Col), string(effect)}
	switch {
	case v.Target != nil:
		target, err := json.Marshal(v.Target)
		if err != nil {
			return "", err
		}
		args = append(args, string(target))
	case v.Orientation != "":
		orientation, err := json.Marshal(v.Orientation)
		if err != nil {
			return "", err
		}
		args = append(args, string(orientation))
	}
	return fmt.Sprintf("showVFX(%s)", strings.Join(args, ", ")), nil
}

// boardSnapshotScript lists each rendered cell as "row,col class class...",
// classes sorted, so layouts can be diffed line by line.
func boardSnapshotScript(container string) (string, error) {
	quoted, err := json.Marshal(container + " > .cell, " + container + " > .cell-placeholder")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`Array.from(document.querySelectorAll(%s)).map(el => {
		const pos = (el.dataset.row ?? '-') + ',' + (el.dataset.col ?? '-');
		return pos + ' ' + Array.from(el.classList).sort().join(' ');
	})`, quoted), nil
}

// BoardSnapshot stores one line per rendered cell of container in lines.
func BoardSnapshot(container string, lines *[]string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		script, err := boardSnapshotScript(container)
		if err != nil {
			return err
		}
		return chromedp.Evaluate(script, lines).Do(ctx)
	})
}

// ReadTile copies board[row][col] from the page into t.
func ReadTile(row, col int, t *backend.Tile) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if err := backend.ValidateCoord(row, col); err != nil {
			return err
		}
		return chromedp.Evaluate(fmt.Sprintf(`JSON.parse(JSON.stringify(board[%d][%d]))`, row, col), t).Do(ctx)
	})
}

// CountElements stores the number of elements matching sel in n.
func CountElements(sel string, n *int) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		quoted, err := json.Marshal(sel)
		if err != nil {
			return err
		}
		return chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll(%s).length`, quoted), n).Do(ctx)
	})
}
