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

// screenshots serves a game directory and captures one image per tile
// variant and visual effect, for documentation and manual review.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
	"github.com/my-matchgame/gamecheck/tools/e2ehelpers"
)

var (
	chromeURL  = flag.String("chrome-url", "", "The url of the remote debugging port; a headless Chrome is launched when empty")
	gameRoot   = flag.String("root", ".", "Directory containing the game's index.html")
	serverHost = flag.String("server-host", "localhost", "Host name under which the browser reaches this server")
	outputDir  = flag.String("output-dir", "screenshots", "Directory to save screenshots")
	settle     = flag.Duration("settle", 400*time.Millisecond, "Wait after each effect before capturing")
)

func main() {
	flag.Parse()

	baseURL, shutdown := startServer()
	defer shutdown()
	log.Printf("Server started at %s", baseURL)

	ctx, cancel, err := e2ehelpers.NewBrowser(context.Background(), e2ehelpers.BrowserOptions{
		RemoteURL: *chromeURL,
		Width:     800,
		Height:    800,
	})
	if err != nil {
		log.Fatalf("Failed to start browser: %v", err)
	}
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 180*time.Second) // very generous timeout
	defer cancel()

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("Failed to create output dir: %v", err)
	}

	log.Println("Starting screenshot generation...")
	pageURL := baseURL + "/index.html"
	if err := captureTiles(ctx, pageURL); err != nil {
		log.Fatalf("Failed to capture tiles: %v", err)
	}
	if err := captureEffects(ctx, pageURL); err != nil {
		log.Fatalf("Failed to capture effects: %v", err)
	}
	log.Println("Screenshots generated successfully.")
}

func debugFailure(ctx context.Context, name string) {
	log.Printf("DEBUG: capturing failure info for %s", name)
	var htmlContent string
	if err := chromedp.Run(ctx, chromedp.OuterHTML("html", &htmlContent)); err != nil {
		log.Printf("DEBUG: Failed to capture HTML: %v", err)
	} else {
		log.Printf("DEBUG: HTML Dump for %s:\n%s", name, htmlContent)
	}

	var buf []byte
	if err := chromedp.Run(ctx, chromedp.CaptureScreenshot(&buf)); err == nil {
		os.WriteFile(filepath.Join(*outputDir, fmt.Sprintf("debug-%s.png", name)), buf, 0644)
		log.Printf("DEBUG: Saved screenshot to debug-%s.png", name)
	} else {
		log.Printf("DEBUG: Failed to capture screenshot: %v", err)
	}
}

// runAction executes a chromedp action with a timeout and debug capture on failure.
func runAction(ctx context.Context, name string, action chromedp.Action, timeout time.Duration) error {
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- chromedp.Run(stepCtx, action)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			log.Printf("Action '%s' failed: %v", name, err)
			debugFailure(ctx, name+"-failed")
			return err
		}
		return nil
	case <-stepCtx.Done():
		log.Printf("Action '%s' timed out", name)
		debugFailure(ctx, name+"-timeout")
		return stepCtx.Err()
	}
}

// freshBoard reloads the page so every capture starts from the initial board.
func freshBoard(pageURL string) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate(pageURL),
		e2ehelpers.WaitForSelector(backend.DefaultBoardSelector, backend.DefaultWaitTimeoutMS*time.Millisecond),
	}
}

type tileShot struct {
	name string
	tile backend.Tile
}

func tileShots() []tileShot {
	var shots []tileShot
	for _, color := range []string{
		backend.ColorRed, backend.ColorBlue, backend.ColorGreen, backend.ColorPurple,
		backend.ColorWhite, backend.ColorOrange,
	} {
		shots = append(shots, tileShot{"tile-" + color, backend.Tile{Color: color, Type: backend.TileTypeNormal, State: backend.TileStateNormal}})
	}
	for v := 1; v <= 3; v++ {
		shots = append(shots, tileShot{fmt.Sprintf("tile-yellow-voltage-%d", v), backend.Tile{Color: backend.ColorYellow, Type: backend.TileTypeNormal, State: backend.TileStateNormal, Voltage: v}})
	}
	for _, typ := range []string{backend.TileTypeGold, backend.TileTypeFusionCore} {
		shots = append(shots, tileShot{"tile-type-" + typ, backend.Tile{Color: backend.ColorRed, Type: typ, State: backend.TileStateNormal}})
	}
	for _, state := range []string{backend.TileStateFrozen, backend.TileStateBrightBlue, backend.TileStateBrightPurple, backend.TileStateSuspended} {
		shots = append(shots, tileShot{"tile-state-" + state, backend.Tile{Color: backend.ColorBlue, Type: backend.TileTypeNormal, State: state}})
	}
	return shots
}

func captureTiles(ctx context.Context, pageURL string) error {
	for i, shot := range tileShots() {
		shot.tile.ID = 9000 + i
		script, err := e2ehelpers.InjectTileScript(4, 4, shot.tile, true)
		if err != nil {
			return fmt.Errorf("%s: %w", shot.name, err)
		}
		if err := runAction(ctx, shot.name, chromedp.Tasks{
			freshBoard(pageURL),
			e2ehelpers.DisableCSSAnimations(),
			e2ehelpers.Evaluate(script),
		}, 20*time.Second); err != nil {
			return err
		}
		if err := captureScreenshot(ctx, shot.name+".png"); err != nil {
			return err
		}
	}
	return nil
}

// effectShots lists every effect once, with both orientations for the beams
// and slashes.
func effectShots() []backend.VFX {
	center := backend.GridSize / 2
	var shots []backend.VFX
	for _, effect := range []string{
		backend.EffectFrostNova, backend.EffectAcidSplash, backend.EffectBiohazard,
		backend.EffectShockwave, backend.EffectVoidVortex,
	} {
		shots = append(shots, backend.VFX{Row: center, Col: center, Effect: effect})
	}
	for _, effect := range []string{backend.EffectHydroBeam, backend.EffectHolyBeam, backend.EffectWindSlash} {
		for _, o := range []string{backend.OrientationRow, backend.OrientationCol} {
			shots = append(shots, backend.VFX{Row: center, Col: center, Effect: effect, Orientation: o})
		}
	}
	shots = append(shots, backend.VFX{Row: 0, Col: 0, Effect: backend.EffectLightning, Target: &backend.Coord{Row: center, Col: center}})
	return shots
}

func captureEffects(ctx context.Context, pageURL string) error {
	for _, v := range effectShots() {
		name := "vfx-" + v.Effect
		if v.Orientation != "" {
			name += "-" + v.Orientation
		}
		script, err := e2ehelpers.ShowVFXScript(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if err := runAction(ctx, name, chromedp.Tasks{
			freshBoard(pageURL),
			e2ehelpers.Evaluate(script),
			chromedp.Sleep(*settle),
		}, 20*time.Second); err != nil {
			return err
		}
		if err := captureScreenshot(ctx, name+".png"); err != nil {
			return err
		}
	}
	return nil
}

func captureScreenshot(ctx context.Context, filename string) error {
	return e2ehelpers.CaptureScreenshot(ctx, filepath.Join(*outputDir, filename))
}

func startServer() (string, func()) {
	l, err := net.Listen("tcp", "0.0.0.0:0")
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(l.Addr().String())

	server, err := backend.StartServer(backend.Options{
		Addr:     l.Addr().String(),
		Root:     *gameRoot,
		Listener: l,
		Debug:    true,
	})
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	return fmt.Sprintf("http://%s:%s", *serverHost, port), func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}
}
