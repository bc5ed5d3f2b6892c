// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package progress prints the human-readable lines of a sync run, such as
//
//	Getting project acme/7...found project "Roadmap"
//	Adding web/9...done
//
// A step is opened with Begin and closed on the same line with End or Fail.
// Results are colored when the destination is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Printer writes progress lines to an io.Writer.
type Printer struct {
	mu   sync.Mutex
	w    io.Writer
	open bool

	ok   *color.Color
	bad  *color.Color
	warn *color.Color
}

// New returns a Printer for w, colored when w is a terminal and NO_COLOR
// is not set.
func New(w io.Writer) *Printer {
	return newPrinter(w, isTerminal(w) && !color.NoColor)
}

// NewPlain returns a Printer that never emits color codes.
func NewPlain(w io.Writer) *Printer {
	return newPrinter(w, false)
}

func newPrinter(w io.Writer, colored bool) *Printer {
	p := &Printer{
		w:    w,
		ok:   color.New(color.FgGreen),
		bad:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{p.ok, p.bad, p.warn} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Begin starts a step. The line is left open for End or Fail.
func (p *Printer) Begin(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeOpen()
	fmt.Fprintf(p.w, format+"...", args...)
	p.open = true
}

// End completes the open step with a result.
func (p *Printer) End(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, p.ok.Sprintf(format, args...))
	p.open = false
}

// Skip completes the open step with a result that did not change anything.
func (p *Printer) Skip(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w, p.warn.Sprintf(format, args...))
	p.open = false
}

// Fail completes the open step, if any, as failed. The error itself is
// left to the caller to report.
func (p *Printer) Fail() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.open {
		fmt.Fprintln(p.w, p.bad.Sprint("failed"))
		p.open = false
	}
}

// Info prints a full line.
func (p *Printer) Info(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closeOpen()
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) closeOpen() {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
}
