package sheet

import (
	"fmt"
	"strings"

	"goldgym/pkg/prompt"
)

// ErrTagTitle marks a record whose title could not be resolved automatically.
const ErrTagTitle = "TITLE"

// Match is a successful resolution: the canonical title from the store and
// the row index holding it.
type Match struct {
	Title string
	Index int
}

// Resolver locates an OCR-derived title inside one partition of the sheet.
// Ambiguity is always pushed to the Prompter, never ranked automatically.
//
// Tags holds the soft-error tags of the most recent Find call, mirroring the
// per-record error list the pipeline merges into its audit log. The resolver
// is not safe for concurrent use; the pipeline is strictly serial.
type Resolver struct {
	// Threshold is the minimum similarity ratio for a fuzzy candidate.
	// Known to be too permissive for very short titles.
	Threshold float64
	Prompt    prompt.Prompter
	Tags      []string
}

// Find resolves title against rows. The boolean is false when nothing
// matched; that outcome is expected (tagged TITLE), not an error. A hard
// error only comes from an invalid duplicate selection.
func (r *Resolver) Find(title string, rows []Row) (Match, bool, error) {
	r.Tags = nil

	matches := exactMatches(title, rows)
	if len(matches) == 0 {
		matches = r.similarMatches(title, rows)
	}

	switch {
	case len(matches) == 1:
		return Match{Title: matches[0].Title, Index: matches[0].Index}, true, nil
	case len(matches) > 1:
		m, err := r.chooseAmong(matches)
		if err != nil {
			return Match{}, false, err
		}
		return m, true, nil
	}

	r.Tags = append(r.Tags, ErrTagTitle)
	return Match{}, false, nil
}

// FindFromInput asks for the correct title and retries resolution once.
func (r *Resolver) FindFromInput(rows []Row) (Match, error) {
	title := strings.ToLower(strings.TrimSpace(r.Prompt.Text("correct TITLE for badge")))
	m, ok, err := r.Find(title, rows)
	if err != nil {
		return Match{}, err
	}
	if !ok {
		return Match{}, ErrTitleNotFound
	}
	return m, nil
}

func exactMatches(title string, rows []Row) []Row {
	var out []Row
	for _, row := range rows {
		if row.Title == title {
			out = append(out, row)
		}
	}
	return out
}

// similarMatches collects rows whose title clears the threshold and is
// accepted by the operator. An exact-ratio 1.0 still goes through
// confirmation: short titles make the ratio unreliable either way.
func (r *Resolver) similarMatches(title string, rows []Row) []Row {
	var out []Row
	for _, row := range rows {
		if Similarity(row.Title, title) < r.Threshold {
			continue
		}
		if r.Prompt.ConfirmMatch(row.Title) {
			out = append(out, row)
		}
	}
	return out
}

// chooseAmong presents duplicate candidates and requires an explicit row
// index among them.
func (r *Resolver) chooseAmong(matches []Row) (Match, error) {
	var b strings.Builder
	b.WriteString("Duplicates found.\n")
	fmt.Fprintf(&b, "%6s  %-30s %-22s %-16s %s\n", "index", "title", "latlon", "city", "state")
	for _, m := range matches {
		fmt.Fprintf(&b, "%6d  %-30s %-22s %-16s %s\n", m.Index, m.Title, m.Latlon, m.City, m.State)
	}
	idx, err := r.Prompt.ChooseRow(b.String())
	if err != nil {
		return Match{}, fmt.Errorf("duplicate selection: %w", err)
	}
	for _, m := range matches {
		if m.Index == idx {
			return Match{Title: m.Title, Index: m.Index}, nil
		}
	}
	return Match{}, ErrBadSelection
}
