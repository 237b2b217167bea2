// seehuhn.de/go/sfntedit - edit names and layout features of font files
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Sfntedit changes the names and layout features of OpenType and TrueType
// font files.
//
// Usage:
//
//	sfntedit rename --from 0xProto --to "Zx Proto" fonts/
//	sfntedit fixed --font-name "ZX Proto Regular" --family "ZX Proto" --full-name "ZX Proto Regular" in.otf out.otf
//	sfntedit remove-feature --tag calt --suffix=-NL fonts/
//	sfntedit suffix --suffix=-NL font.ttf
//	sfntedit info font.otf
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"golang.org/x/term"

	"seehuhn.de/go/sfntedit/batch"
	"seehuhn.de/go/sfntedit/internal/logging"
)

// Globals holds the options shared by all commands.
type Globals struct {
	Workers   int  `help:"Number of files to process in parallel (default: number of CPUs)." env:"SFNTEDIT_WORKERS"`
	Overwrite bool `help:"Replace existing output files." env:"SFNTEDIT_OVERWRITE"`
	Verify    bool `help:"Parse every output font before it is written."`
	Verbose   bool `short:"v" help:"Print details about every change."`

	ctx context.Context `kong:"-"`
}

var cli struct {
	Globals

	Rename        renameCmd        `cmd:"" help:"Replace a substring in the font names."`
	Fixed         fixedCmd         `cmd:"" help:"Set the font names to fixed values."`
	RemoveFeature removeFeatureCmd `cmd:"" help:"Remove a layout feature and mark the font names with a suffix."`
	Suffix        suffixCmd        `cmd:"" help:"Append a suffix to the font names."`
	Info          infoCmd          `cmd:"" help:"Show the names and layout features of font files."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("sfntedit"),
		kong.Description("Edit names and layout features of OpenType and TrueType fonts."),
		kong.UsageOnError(),
	)

	level := slog.LevelWarn
	if cli.Verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logging.SetLogger(slog.New(h))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	cli.Globals.ctx = ctx

	err := kctx.Run(&cli.Globals)
	kctx.FatalIfErrorf(err)
}

// run processes the jobs and prints a summary.  The returned error joins
// the errors of all failed jobs.
func (g *Globals) run(jobs []batch.Job) error {
	if len(jobs) == 0 {
		return errNoFonts
	}

	opts := batch.Options{
		Workers:   g.Workers,
		Overwrite: g.Overwrite,
		Verify:    g.Verify,
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		done := 0
		opts.Progress = func(res *batch.Result) {
			done++
			status := "ok"
			if res.Err != nil {
				status = "FAILED"
			}
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", done, len(jobs), res.Input, status)
		}
	}

	rep := batch.Run(g.ctx, jobs, opts)

	for _, res := range rep.Results {
		if res.Err != nil {
			continue
		}
		fmt.Printf("%s -> %s\n", res.Input, res.Output)
		if res.Family != "" {
			fmt.Printf("  family: %s\n", res.Family)
		}
		if g.Verbose {
			for _, note := range res.Notes {
				fmt.Printf("  %s\n", note)
			}
		}
	}
	counts := rep.Succeeded()
	fmt.Printf("%s (.otf: %d, .ttf: %d)\n", rep, counts[".otf"], counts[".ttf"])

	return rep.Err()
}

var errNoFonts = errors.New("no font files found")
