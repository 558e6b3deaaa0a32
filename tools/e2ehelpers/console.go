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
	"io"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/my-matchgame/gamecheck/backend"
)

// ConsoleRecorder forwards browser console messages and uncaught page errors
// to a writer and keeps them for the run report.
type ConsoleRecorder struct {
	out io.Writer

	mu         sync.Mutex
	entries    []backend.ConsoleEntry
	pageErrors []string
}

// NewConsoleRecorder returns a recorder writing to out. out may be nil.
func NewConsoleRecorder(out io.Writer) *ConsoleRecorder {
	return &ConsoleRecorder{out: out}
}

// Listen attaches the recorder to the page behind ctx. Call it before
// navigating so early messages are not missed.
func (c *ConsoleRecorder) Listen(ctx context.Context) {
	chromedp.ListenTarget(ctx, func(ev any) {
		switch ev := ev.(type) {
		case *runtime.EventConsoleAPICalled:
			c.AddConsole(string(ev.Type), formatArgs(ev.Args))
		case *runtime.EventExceptionThrown:
			c.AddPageError(exceptionText(ev.ExceptionDetails))
		}
	})
}

// AddConsole records and prints one console message.
func (c *ConsoleRecorder) AddConsole(typ, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, backend.ConsoleEntry{
		Type:      typ,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
	if c.out != nil {
		fmt.Fprintf(c.out, "CONSOLE: %s\n", text)
	}
}

// AddPageError records and prints one uncaught page error.
func (c *ConsoleRecorder) AddPageError(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, backend.ConsoleEntry{
		Type:      backend.ConsoleTypePageError,
		Text:      text,
		Timestamp: time.Now().UnixMilli(),
	})
	c.pageErrors = append(c.pageErrors, text)
	if c.out != nil {
		fmt.Fprintf(c.out, "PAGE ERROR: %s\n", text)
	}
}

// Printf writes a line of the caller's own output, serialized with the
// forwarded browser messages.
func (c *ConsoleRecorder) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != nil {
		fmt.Fprintf(c.out, format, args...)
	}
}

// Entries returns a copy of everything recorded so far.
func (c *ConsoleRecorder) Entries() []backend.ConsoleEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]backend.ConsoleEntry(nil), c.entries...)
}

// PageErrors returns a copy of the uncaught errors recorded so far.
func (c *ConsoleRecorder) PageErrors() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.pageErrors...)
}

// formatArgs renders console arguments the way the devtools console shows
// them: strings unquoted, other values by their JSON or description.
func formatArgs(args []*runtime.RemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == nil {
			continue
		}
		parts = append(parts, formatArg(arg))
	}
	return strings.Join(parts, " ")
}

func formatArg(arg *runtime.RemoteObject) string {
	if len(arg.Value) > 0 {
		if arg.Type == runtime.TypeString {
			var s string
			if err := json.Unmarshal([]byte(arg.Value), &s); err == nil {
				return s
			}
		}
		return string(arg.Value)
	}
	if arg.UnserializableValue != "" {
		return string(arg.UnserializableValue)
	}
	if arg.Description != "" {
		return arg.Description
	}
	return string(arg.Type)
}

// exceptionText prefers the first line of the thrown value's description
// ("Error: boom") over the generic "Uncaught".
func exceptionText(d *runtime.ExceptionDetails) string {
	if d == nil {
		return "unknown error"
	}
	if d.Exception != nil && d.Exception.Description != "" {
		first, _, _ := strings.Cut(d.Exception.Description, "\n")
		return first
	}
	if d.Exception != nil && len(d.Exception.Value) > 0 {
		return formatArg(d.Exception)
	}
	return d.Text
}
