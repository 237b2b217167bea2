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

package main

import (
	"fmt"
	"strings"

	"seehuhn.de/go/sfntedit/batch"
	"seehuhn.de/go/sfntedit/rename"
)

type renameCmd struct {
	From      string   `required:"" help:"Substring to replace."`
	To        string   `required:"" help:"Replacement, may contain spaces."`
	FileName  string   `help:"Replacement for PostScript names and file names (default: --to without spaces)."`
	Output    string   `short:"o" type:"path" help:"Output directory (default: a directory named after --file-name inside each input directory)."`
	Recursive bool     `short:"r" help:"Descend into subdirectories."`
	Paths     []string `arg:"" type:"path" help:"Font files, or directories containing files named <from>-*.otf or <from>-*.ttf."`
}

func (c *renameCmd) Run(g *Globals) error {
	fileName := c.FileName
	if fileName == "" {
		fileName = strings.ReplaceAll(c.To, " ", "")
	}
	steps := []batch.Step{
		batch.RenameSubstring{Old: c.From, Internal: c.To, File: fileName},
	}
	jobs, err := renameJobs(c.Paths, c.From, fileName, c.Output, c.Recursive, steps)
	if err != nil {
		return err
	}
	return g.run(jobs)
}

type fixedCmd struct {
	FontName string `required:"" help:"New font name; the PostScript name is derived from this."`
	Family   string `required:"" help:"New family name."`
	FullName string `required:"" help:"New full name."`
	Vendor   string `default:"NONE" help:"Vendor tag used in the unique font identifier."`
	Input    string `arg:"" type:"existingfile" help:"Input font file."`
	Output   string `arg:"" type:"path" help:"Output font file."`
}

func (c *fixedCmd) Run(g *Globals) error {
	step := batch.RenameFixed{Names: rename.FixedNames{
		FontName:   c.FontName,
		FamilyName: c.Family,
		FullName:   c.FullName,
		Vendor:     c.Vendor,
	}}
	return g.run([]batch.Job{{Input: c.Input, Output: c.Output, Steps: []batch.Step{step}}})
}

type removeFeatureCmd struct {
	Tag    string   `default:"calt" help:"Feature tag to remove."`
	Table  string   `default:"GSUB" enum:"GSUB,GPOS" help:"Layout table (GSUB or GPOS)."`
	Suffix string   `default:"-NL" help:"Suffix appended to the font names and file names; empty to keep the names."`
	Output string   `short:"o" type:"path" help:"Output file or directory (default: input with suffix)."`
	Flat   bool     `help:"Do not descend into subdirectories."`
	Paths  []string `arg:"" type:"path" help:"Font files or directories."`
}

func (c *removeFeatureCmd) Run(g *Globals) error {
	steps := []batch.Step{batch.RemoveFeature{Table: c.Table, Tag: c.Tag}}
	if strings.TrimLeft(c.Suffix, "-") != "" {
		steps = append(steps, batch.AppendSuffix{Suffix: c.Suffix})
	}
	jobs, err := suffixJobs(c.Paths, c.Output, c.Suffix, !c.Flat, steps)
	if err != nil {
		return err
	}
	return g.run(jobs)
}

type suffixCmd struct {
	Suffix string   `required:"" help:"Suffix to append, for example --suffix=-NL."`
	Output string   `short:"o" type:"path" help:"Output file or directory (default: input with suffix)."`
	Flat   bool     `help:"Do not descend into subdirectories."`
	Paths  []string `arg:"" type:"path" help:"Font files or directories."`
}

func (c *suffixCmd) Run(g *Globals) error {
	if strings.TrimLeft(c.Suffix, "-") == "" {
		return fmt.Errorf("invalid suffix %q", c.Suffix)
	}
	steps := []batch.Step{batch.AppendSuffix{Suffix: c.Suffix}}
	jobs, err := suffixJobs(c.Paths, c.Output, c.Suffix, !c.Flat, steps)
	if err != nil {
		return err
	}
	return g.run(jobs)
}
