// Package gym owns the catalogue record: raw badge fields, the derived
// time-defended / style / address fields, and the per-record soft-error tags.
package gym

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"goldgym/pkg/badge"
	"goldgym/pkg/prompt"
	"goldgym/pkg/sheet"
)

const (
	hoursInDay = 24
	minsInDay  = 1440

	// longTermDefending splits the two style bins, in days.
	longTermDefending = 100
)

const (
	StyleGold     = "gold"
	StyleLongTerm = "100+ days"
)

var (
	// ErrNoAddress means a decomposition step ran before SetAddress.
	ErrNoAddress = errors.New("address was not set")
	// ErrBadCoordinates means the coordinate cell is not "lat,long".
	ErrBadCoordinates = errors.New("coordinates must be a lat,long pair")
)

// GoldGym accumulates the fields of one badge before it is flushed to the
// sheet. Derivation methods are independently callable and idempotent; each
// assumes its inputs were set first.
type GoldGym struct {
	UID       int
	Title     string
	Model     string
	Style     string
	Victories int
	Days      int
	Hours     int
	Minutes   int
	Defended  float64
	Treats    int
	Latlon    string
	City      string
	County    string
	State     string

	// Errors collects soft-error tags (CITY, COUNTY, STATE, ...) for the
	// audit log. Tagged fallbacks never fail the record.
	Errors []string

	address map[string]string // transient geocoder result, never persisted
}

// New builds a record with its identity, resolved title and parsed stats.
func New(uid int, title string, act badge.Activity) *GoldGym {
	return &GoldGym{
		UID:       uid,
		Title:     strings.ToLower(strings.Join(strings.Fields(title), " ")),
		Victories: act.Victories,
		Days:      act.Days,
		Hours:     act.Hours,
		Minutes:   act.Minutes,
		Treats:    act.Treats,
	}
}

// SetDefended computes total defending time in days, to 4 decimal places.
func (g *GoldGym) SetDefended() {
	total := float64(g.Days) + float64(g.Hours)/hoursInDay + float64(g.Minutes)/minsInDay
	g.Defended = math.Round(total*10000) / 10000
}

// SetStyle classifies the record by days defended.
func (g *GoldGym) SetStyle() {
	if g.Days >= longTermDefending {
		g.Style = StyleLongTerm
	} else {
		g.Style = StyleGold
	}
}

// SetAddress reverse-geocodes the known coordinates and keeps the component
// map for the decomposition steps. Malformed coordinates are a hard error;
// there is no fallback for them.
func (g *GoldGym) SetAddress(ctx context.Context, geo Geocoder, latlon string) error {
	lat, lon, err := ParseLatlon(latlon)
	if err != nil {
		return err
	}
	g.Latlon = latlon
	addr, err := geo.Reverse(ctx, lat, lon)
	if err != nil {
		return fmt.Errorf("reverse geocode %s: %w", latlon, err)
	}
	g.address = addr
	return nil
}

// cityKeys is the fixed preference order for the city component; the first
// present key wins.
var cityKeys = []string{"city", "town", "village", "township"}

// SetCity picks the city component, falling back to manual entry.
func (g *GoldGym) SetCity(p prompt.Prompter) error {
	if g.address == nil {
		return ErrNoAddress
	}
	for _, k := range cityKeys {
		if v, ok := g.address[k]; ok && v != "" {
			g.City = strings.ToLower(v)
			return nil
		}
	}
	g.Errors = append(g.Errors, "CITY")
	g.City = strings.ToLower(strings.TrimSpace(p.Text("CITY for `" + g.Latlon + "`")))
	return nil
}

// SetCounty picks the county component with the trailing " county" token
// stripped. Only a trailing token: "county road estates" keeps its word.
func (g *GoldGym) SetCounty(p prompt.Prompter) error {
	if g.address == nil {
		return ErrNoAddress
	}
	county, ok := g.address["county"]
	if !ok || county == "" {
		g.Errors = append(g.Errors, "COUNTY")
		county = strings.TrimSpace(p.Text("COUNTY for `" + g.Latlon + "`"))
	}
	county = strings.ToLower(county)
	g.County = strings.TrimSuffix(county, " county")
	return nil
}

// SetState picks the state component verbatim. Manual entry here is rare.
func (g *GoldGym) SetState(p prompt.Prompter) error {
	if g.address == nil {
		return ErrNoAddress
	}
	state, ok := g.address["state"]
	if !ok || state == "" {
		g.Errors = append(g.Errors, "STATE")
		state = strings.TrimSpace(p.Text("STATE for `" + g.Latlon + "`"))
	}
	g.State = strings.ToLower(state)
	return nil
}

// Row serializes the record at the given row index in canonical column
// order. The transient address map is deliberately absent.
func (g *GoldGym) Row(index int) sheet.Row {
	return sheet.Row{
		Index:     index,
		UID:       strconv.Itoa(g.UID),
		Title:     g.Title,
		Model:     g.Model,
		Style:     g.Style,
		Victories: g.Victories,
		Days:      g.Days,
		Hours:     g.Hours,
		Minutes:   g.Minutes,
		Defended:  g.Defended,
		Treats:    g.Treats,
		Latlon:    g.Latlon,
		City:      g.City,
		County:    g.County,
		State:     g.State,
	}
}

// ParseLatlon splits a "lat,long" cell into numeric coordinates. Wrong arity
// or non-numeric parts surface as ErrBadCoordinates.
func ParseLatlon(latlon string) (float64, float64, error) {
	parts := strings.Split(latlon, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoordinates, latlon)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoordinates, latlon)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadCoordinates, latlon)
	}
	return lat, lon, nil
}
