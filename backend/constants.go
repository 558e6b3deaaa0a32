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

package backend

const (
	CurrentSchemaVersion = 1
	CurrentAppVersion    = "0.1.0"
)

// Defaults point the checks at the game served by the local dev server.
const (
	DefaultURL            = "http://localhost:8080/index.html"
	DefaultBoardSelector  = ".cell"
	DefaultWaitTimeoutMS  = 5000
	DefaultScreenshotPath = "verification_visuals.png"
)

// GridSize is the number of rows and columns on the game board.
const GridSize = 9

// Report kinds
const (
	KindLoad   = "load"
	KindVisual = "visual"
)

// Report statuses
const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Tile colors
const (
	ColorRed    = "red"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorPurple = "purple"
	ColorWhite  = "white"
	ColorOrange = "orange"
	ColorYellow = "yellow"
)

// Tile types
const (
	TileTypeNormal     = "normal"
	TileTypeGold       = "gold"
	TileTypeFusionCore = "fusion-core"
)

// Tile states
const (
	TileStateNormal       = "normal"
	TileStateFrozen       = "frozen"
	TileStateBrightBlue   = "bright-blue"
	TileStateBrightPurple = "bright-purple"
	TileStateSuspended    = "suspended"
)

// VFX effect names understood by the page's showVFX function.
const (
	EffectFrostNova  = "frost-nova"
	EffectAcidSplash = "acid-splash"
	EffectBiohazard  = "biohazard"
	EffectShockwave  = "shockwave"
	EffectWindSlash  = "wind-slash"
	EffectHydroBeam  = "hydro-beam"
	EffectVoidVortex = "void-vortex"
	EffectHolyBeam   = "holy-beam"
	EffectLightning  = "lightning"
)

// VFX orientations
const (
	OrientationRow = "row"
	OrientationCol = "col"
)

// Console entry types
const (
	ConsoleTypeLog       = "log"
	ConsoleTypePageError = "pageerror"
)

// Live feed message types
const (
	MsgTypeReport = "REPORT"
	MsgTypePing   = "PING"
	MsgTypePong   = "PONG"
	MsgTypeError  = "ERROR"
)
