// Package pipeline drives one badge image end to end: profile resolution,
// region extraction, title resolution, derivation, geocoding, the sheet
// write, image relocation and the per-image audit entry.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"goldgym/pkg/badge"
	"goldgym/pkg/gym"
	"goldgym/pkg/prompt"
	"goldgym/pkg/sheet"
)

// titleRetryOffset reaches a second title line hidden under the status bar.
const titleRetryOffset = 40

// Processor holds the pipeline's collaborators. All calls are strictly
// serial; interactive fallbacks block on the Prompter.
type Processor struct {
	Store     sheet.Store
	Extract   *badge.Extractor
	Geocode   gym.Geocoder
	Prompt    prompt.Prompter
	Threshold float64 // fuzzy title-match threshold
	BadgeDir  string  // long-term storage for processed images
	Updates   bool    // resolve against processed rows, keep their uid
	Audit     *log.Logger
}

// Run processes the queue in order. Hard failures abort only the current
// image; the batch continues. The sheet is location-sorted at the end.
func (p *Processor) Run(ctx context.Context, queue []string) error {
	nextUID := 0
	if !p.Updates {
		var err error
		nextUID, err = p.Store.NextUID()
		if err != nil {
			return err
		}
	}

	for _, path := range queue {
		uid, err := p.ProcessImage(ctx, path, nextUID)
		if err != nil {
			log.Printf("WARN skipping %s: %v", path, err)
			continue
		}
		if !p.Updates && uid == nextUID {
			nextUID++
		}
	}
	return p.Store.SortByLocation()
}

// ProcessImage runs the full pipeline for one file and returns the uid the
// record was written under. Nothing is written until every upstream step
// has succeeded.
func (p *Processor) ProcessImage(ctx context.Context, path string, newUID int) (int, error) {
	img, h, w, err := badge.Open(path)
	if err != nil {
		return 0, err
	}
	profile, err := badge.ResolveProfile(h, w)
	if err != nil {
		return 0, err
	}

	rows, err := p.Store.Rows()
	if err != nil {
		return 0, err
	}
	processed, unprocessed := sheet.Partition(rows)
	target := unprocessed
	if p.Updates {
		target = processed
	}

	match, tags, err := p.resolveTitle(img, profile, target)
	if err != nil {
		return 0, err
	}
	row, ok := rowAt(target, match.Index)
	if !ok {
		return 0, fmt.Errorf("resolved row %d missing from partition", match.Index)
	}

	uid := newUID
	if p.Updates {
		uid, err = strconv.Atoi(row.UID)
		if err != nil {
			return 0, fmt.Errorf("row %d has malformed uid %q", row.Index, row.UID)
		}
	}

	activityText, err := p.Extract.Activity(img, profile)
	if err != nil {
		return 0, err
	}
	act, statTags, err := badge.ParseActivityWithRetry(activityText, path, p.Prompt)
	tags = append(tags, statTags...)
	if err != nil {
		return 0, err
	}

	g := gym.New(uid, match.Title, act)
	g.Model = profile.Model
	g.SetDefended()
	g.SetStyle()

	if p.Updates {
		// location fields were settled when the gym was first catalogued
		g.Latlon = row.Latlon
		g.City = row.City
		g.County = row.County
		g.State = row.State
	} else {
		if err := g.SetAddress(ctx, p.Geocode, row.Latlon); err != nil {
			return 0, err
		}
		if err := g.SetCity(p.Prompt); err != nil {
			return 0, err
		}
		if err := g.SetCounty(p.Prompt); err != nil {
			return 0, err
		}
		if err := g.SetState(p.Prompt); err != nil {
			return 0, err
		}
	}
	tags = append(tags, g.Errors...)

	if err := p.Store.WriteRow(g.Row(match.Index)); err != nil {
		return 0, err
	}
	if err := p.relocate(path, uid); err != nil {
		return 0, err
	}
	p.logEntry(uid, tags)
	return uid, nil
}

// resolveTitle is the three-stage title search: plain crop, offset crop with
// the status-bar strip softened, then manual entry. Tags from a failed pass
// are discarded once a later automatic pass resolves; only manual entry
// leaves a TITLE tag on the record, the same way STATS marks a manually
// entered stats line.
func (p *Processor) resolveTitle(img image.Image, profile badge.Profile, target []sheet.Row) (sheet.Match, []string, error) {
	res := &sheet.Resolver{Threshold: p.Threshold, Prompt: p.Prompt}

	title, err := p.Extract.Title(img, profile, 0, false)
	if err != nil {
		return sheet.Match{}, nil, err
	}
	m, ok, err := res.Find(title, target)
	if err != nil {
		return sheet.Match{}, nil, err
	}
	if ok {
		return m, res.Tags, nil
	}

	title, err = p.Extract.Title(img, profile, titleRetryOffset, true)
	if err != nil {
		return sheet.Match{}, nil, err
	}
	m, ok, err = res.Find(title, target)
	if err != nil {
		return sheet.Match{}, nil, err
	}
	if ok {
		return m, res.Tags, nil
	}
	tags := res.Tags

	m, err = res.FindFromInput(target)
	if err != nil {
		return sheet.Match{}, nil, err
	}
	return m, tags, nil
}

// relocate renames a processed image into long-term storage under its id.
func (p *Processor) relocate(path string, uid int) error {
	if p.BadgeDir == "" {
		return nil
	}
	dst := filepath.Join(p.BadgeDir, fmt.Sprintf("IMG_%04d.PNG", uid))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("relocate badge: %w", err)
	}
	return nil
}

// logEntry writes the audit line for one image: its id and every soft-error
// tag accumulated across extraction, resolution and derivation.
func (p *Processor) logEntry(uid int, tags []string) {
	msg := fmt.Sprintf("ID: %04d   ", uid)
	if len(tags) == 0 {
		msg += "no errors"
	} else {
		msg += "Errors: " + strings.Join(tags, ", ")
	}
	if p.Audit != nil {
		p.Audit.Print(msg)
		return
	}
	log.Print(msg)
}

func rowAt(rows []sheet.Row, index int) (sheet.Row, bool) {
	for _, r := range rows {
		if r.Index == index {
			return r, true
		}
	}
	return sheet.Row{}, false
}
