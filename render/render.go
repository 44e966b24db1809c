// Copyright 2026
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package render produces the static HTML report and the project README
// from a metrics bundle.
package render

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/penny-vault/idxstats/data"
	"github.com/penny-vault/idxstats/metrics"
	"github.com/penny-vault/idxstats/narrative"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*
var templateFS embed.FS

const (
	siteTemplate   = "templates/site.html.tmpl"
	readmeTemplate = "templates/README.md.tmpl"

	// DefaultRepository is used for badge URLs when no repository is configured
	DefaultRepository = "OWNER/REPO"

	timestampLayout = "2006-01-02 15:04 UTC"
)

type Config struct {
	// Repository is the GitHub owner/name used for status badges
	Repository string
	Comparison narrative.Comparison

	// SiteTemplate and ReadmeTemplate replace the embedded templates when set
	SiteTemplate   string
	ReadmeTemplate string

	// Now defaults to time.Now
	Now func() time.Time
}

type Renderer struct {
	cfg    Config
	site   *htmltemplate.Template
	readme *texttemplate.Template
}

type Badge struct {
	Image string
	Link  string
}

type Badges struct {
	CI    Badge
	Pages Badge
}

type IndexRef struct {
	Name  string
	Label string
}

// Context is the data handed to both templates
type Context struct {
	UpdatedAt string

	PBR *metrics.PBR
	ROE *metrics.ROE
	DY  *metrics.Yield
	HHI *metrics.Concentration

	Indices   []string
	Primary   IndexRef
	Benchmark IndexRef

	Insights []string
	Logic    narrative.Logic

	Notes     string
	NotesHTML htmltemplate.HTML

	Badges Badges
}

// New parses the site and README templates
func New(cfg Config) (*Renderer, error) {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Comparison.Primary == "" || cfg.Comparison.Benchmark == "" {
		def := narrative.DefaultComparison()
		if cfg.Comparison.Primary == "" {
			cfg.Comparison.Primary, cfg.Comparison.PrimaryLabel = def.Primary, def.PrimaryLabel
		}
		if cfg.Comparison.Benchmark == "" {
			cfg.Comparison.Benchmark, cfg.Comparison.BenchmarkLabel = def.Benchmark, def.BenchmarkLabel
		}
	}

	siteText, err := templateSource(cfg.SiteTemplate, siteTemplate)
	if err != nil {
		return nil, err
	}
	readmeText, err := templateSource(cfg.ReadmeTemplate, readmeTemplate)
	if err != nil {
		return nil, err
	}

	site, err := htmltemplate.New("site").Funcs(htmltemplate.FuncMap(funcMap())).Parse(siteText)
	if err != nil {
		return nil, fmt.Errorf("parse site template: %w", err)
	}
	readme, err := texttemplate.New("readme").Funcs(texttemplate.FuncMap(funcMap())).Parse(readmeText)
	if err != nil {
		return nil, fmt.Errorf("parse readme template: %w", err)
	}

	return &Renderer{cfg: cfg, site: site, readme: readme}, nil
}

func templateSource(override, embedded string) (string, error) {
	if override == "" {
		raw, err := templateFS.ReadFile(embedded)
		return string(raw), err
	}

	raw, err := os.ReadFile(override)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", data.ErrInputNotFound, override)
		}
		return "", err
	}
	return string(raw), nil
}

// BadgesFor builds the CI and Pages badge URLs for repository
func BadgesFor(repository string) Badges {
	repository = strings.TrimSpace(repository)
	if repository == "" {
		repository = DefaultRepository
	}

	ci := fmt.Sprintf("https://github.com/%s/actions/workflows/ci.yml", repository)
	pages := fmt.Sprintf("https://github.com/%s/actions/workflows/pages.yml", repository)
	return Badges{
		CI:    Badge{Image: ci + "/badge.svg", Link: ci},
		Pages: Badge{Image: pages + "/badge.svg", Link: pages},
	}
}

// NewContext assembles the template context for bundle and notes
func (r *Renderer) NewContext(ctx context.Context, src *metrics.Bundle, notes string) *Context {
	bundle := metrics.NewBundle()
	if src != nil {
		local := *src
		bundle = &local
	}
	empty := metrics.NewBundle()
	if bundle.PBR == nil {
		bundle.PBR = empty.PBR
	}
	if bundle.ROE == nil {
		bundle.ROE = empty.ROE
	}
	if bundle.Yield == nil {
		bundle.Yield = empty.Yield
	}
	if bundle.Concentration == nil {
		bundle.Concentration = empty.Concentration
	}

	cmp := r.cfg.Comparison
	return &Context{
		UpdatedAt: r.cfg.Now().UTC().Format(timestampLayout),
		PBR:       bundle.PBR,
		ROE:       bundle.ROE,
		DY:        bundle.Yield,
		HHI:       bundle.Concentration,
		Indices:   bundle.Indices(),
		Primary:   IndexRef{Name: cmp.Primary, Label: labelOr(cmp.PrimaryLabel, cmp.Primary)},
		Benchmark: IndexRef{Name: cmp.Benchmark, Label: labelOr(cmp.BenchmarkLabel, cmp.Benchmark)},
		Insights:  narrative.Insights(bundle, cmp),
		Logic:     narrative.Summarize(bundle, cmp),
		Notes:     notes,
		NotesHTML: NotesHTML(ctx, notes),
		Badges:    BadgesFor(r.cfg.Repository),
	}
}

func labelOr(label, name string) string {
	if label == "" {
		return name
	}
	return label
}

// Site renders the HTML report
func (r *Renderer) Site(ctx context.Context, bundle *metrics.Bundle, notes string, w io.Writer) error {
	if err := r.site.Execute(w, r.NewContext(ctx, bundle, notes)); err != nil {
		return fmt.Errorf("render site: %w", err)
	}
	return nil
}

// Readme renders the README. Surrounding whitespace is trimmed and the
// output ends in a single newline.
func (r *Renderer) Readme(ctx context.Context, bundle *metrics.Bundle, notes string, w io.Writer) error {
	var buf bytes.Buffer
	if err := r.readme.Execute(&buf, r.NewContext(ctx, bundle, notes)); err != nil {
		return fmt.Errorf("render readme: %w", err)
	}
	_, err := io.WriteString(w, strings.TrimSpace(buf.String())+"\n")
	return err
}

// NotesHTML converts markdown notes to HTML. Raw HTML in the notes is not
// passed through.
func NotesHTML(ctx context.Context, notes string) htmltemplate.HTML {
	if strings.TrimSpace(notes) == "" {
		return ""
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)

	var buf bytes.Buffer
	if err := md.Convert([]byte(notes), &buf); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("could not convert notes to HTML")
		return htmltemplate.HTML("<pre>" + htmltemplate.HTMLEscapeString(notes) + "</pre>")
	}

	return htmltemplate.HTML(buf.String())
}

// ReadNotes returns the contents of fn, or an empty string when fn is unset
// or does not exist
func ReadNotes(ctx context.Context, fn string) string {
	if fn == "" {
		return ""
	}
	raw, err := os.ReadFile(fn)
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("FileName", fn).Msg("notes file skipped")
		return ""
	}
	return string(raw)
}

// WriteFile creates fn (and its parent directory) and renders into it
func WriteFile(fn string, fill func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := fill(&buf); err != nil {
		return err
	}
	return os.WriteFile(fn, buf.Bytes(), 0o644)
}
