package gym

import (
	"context"
	"errors"
	"testing"

	"goldgym/pkg/badge"
	"goldgym/pkg/prompt"
)

type mapGeocoder map[string]string

func (m mapGeocoder) Reverse(context.Context, float64, float64) (map[string]string, error) {
	return m, nil
}

func newTestGym() *GoldGym {
	return New(42, "fish sculpture", badge.Activity{Victories: 18, Days: 25, Hours: 18, Minutes: 1, Treats: 9})
}

func TestSetDefended(t *testing.T) {
	g := newTestGym()
	g.SetDefended()
	if g.Defended != 25.7507 {
		t.Fatalf("defended = %v want 25.7507", g.Defended)
	}
}

func TestSetDefendedDaysOnly(t *testing.T) {
	g := New(1, "x", badge.Activity{Days: 7})
	g.SetDefended()
	if g.Defended != 7 {
		t.Fatalf("defended = %v want 7", g.Defended)
	}
}

func TestSetDefendedMonotonic(t *testing.T) {
	base := New(1, "x", badge.Activity{Days: 3, Hours: 4, Minutes: 5})
	base.SetDefended()
	bumps := []badge.Activity{
		{Days: 4, Hours: 4, Minutes: 5},
		{Days: 3, Hours: 5, Minutes: 5},
		{Days: 3, Hours: 4, Minutes: 6},
	}
	for _, a := range bumps {
		g := New(1, "x", a)
		g.SetDefended()
		if g.Defended <= base.Defended {
			t.Fatalf("%+v: defended %v not above %v", a, g.Defended, base.Defended)
		}
	}
}

func TestSetStyleBoundary(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{0, StyleGold},
		{99, StyleGold},
		{100, StyleLongTerm},
		{365, StyleLongTerm},
	}
	for _, c := range cases {
		g := New(1, "x", badge.Activity{Days: c.days})
		g.SetStyle()
		if g.Style != c.want {
			t.Fatalf("days=%d style=%q want %q", c.days, g.Style, c.want)
		}
		g.SetStyle() // idempotent
		if g.Style != c.want {
			t.Fatalf("days=%d second call changed style to %q", c.days, g.Style)
		}
	}
}

func TestSetAddressAndDecompose(t *testing.T) {
	g := newTestGym()
	geo := mapGeocoder{"city": "Brooklyn", "county": "Kings County", "state": "New York"}
	if err := g.SetAddress(context.Background(), geo, "40.7,-73.9"); err != nil {
		t.Fatal(err)
	}
	p := &prompt.Scripted{}
	if err := g.SetCity(p); err != nil {
		t.Fatal(err)
	}
	if err := g.SetCounty(p); err != nil {
		t.Fatal(err)
	}
	if err := g.SetState(p); err != nil {
		t.Fatal(err)
	}
	if g.City != "brooklyn" || g.County != "kings" || g.State != "new york" {
		t.Fatalf("got %q %q %q", g.City, g.County, g.State)
	}
	if len(g.Errors) != 0 {
		t.Fatalf("errors = %v", g.Errors)
	}
}

func TestSetCityPreferenceOrder(t *testing.T) {
	g := newTestGym()
	geo := mapGeocoder{"town": "Hempstead", "village": "Garden City", "state": "New York"}
	if err := g.SetAddress(context.Background(), geo, "40.7,-73.6"); err != nil {
		t.Fatal(err)
	}
	if err := g.SetCity(&prompt.Scripted{}); err != nil {
		t.Fatal(err)
	}
	// town precedes village in the fixed preference order
	if g.City != "hempstead" {
		t.Fatalf("city = %q want hempstead", g.City)
	}
}

func TestSetCountySuffixOnlyTrailing(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Kings County", "kings"},
		{"KINGS COUNTY", "kings"},
		{"kings", "kings"},
		{"county line district", "county line district"},
	}
	for _, c := range cases {
		g := newTestGym()
		geo := mapGeocoder{"city": "x", "county": c.in, "state": "y"}
		if err := g.SetAddress(context.Background(), geo, "40.7,-73.9"); err != nil {
			t.Fatal(err)
		}
		if err := g.SetCounty(&prompt.Scripted{}); err != nil {
			t.Fatal(err)
		}
		if g.County != c.want {
			t.Fatalf("%q: county = %q want %q", c.in, g.County, c.want)
		}
	}
}

func TestMissingComponentsFallBackToPrompt(t *testing.T) {
	g := newTestGym()
	geo := mapGeocoder{} // geocoder returned nothing useful
	if err := g.SetAddress(context.Background(), geo, "40.7,-73.9"); err != nil {
		t.Fatal(err)
	}
	p := &prompt.Scripted{Texts: []string{"Brooklyn", "Kings County", "New York"}}
	if err := g.SetCity(p); err != nil {
		t.Fatal(err)
	}
	if err := g.SetCounty(p); err != nil {
		t.Fatal(err)
	}
	if err := g.SetState(p); err != nil {
		t.Fatal(err)
	}
	if g.City != "brooklyn" || g.County != "kings" || g.State != "new york" {
		t.Fatalf("got %q %q %q", g.City, g.County, g.State)
	}
	want := []string{"CITY", "COUNTY", "STATE"}
	if len(g.Errors) != len(want) {
		t.Fatalf("errors = %v want %v", g.Errors, want)
	}
	for i, tag := range want {
		if g.Errors[i] != tag {
			t.Fatalf("errors = %v want %v", g.Errors, want)
		}
	}
}

func TestDecomposeWithoutAddress(t *testing.T) {
	g := newTestGym()
	p := &prompt.Scripted{}
	if err := g.SetCity(p); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("SetCity err = %v", err)
	}
	if err := g.SetCounty(p); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("SetCounty err = %v", err)
	}
	if err := g.SetState(p); !errors.Is(err, ErrNoAddress) {
		t.Fatalf("SetState err = %v", err)
	}
}

func TestSetAddressBadCoordinates(t *testing.T) {
	g := newTestGym()
	geo := mapGeocoder{}
	for _, latlon := range []string{"", "40.7", "40.7,-73.9,12", "north,south"} {
		err := g.SetAddress(context.Background(), geo, latlon)
		if !errors.Is(err, ErrBadCoordinates) {
			t.Fatalf("%q: err = %v, want ErrBadCoordinates", latlon, err)
		}
	}
}

func TestParseLatlon(t *testing.T) {
	lat, lon, err := ParseLatlon(" 40.7128 , -74.0060 ")
	if err != nil {
		t.Fatal(err)
	}
	if lat != 40.7128 || lon != -74.0060 {
		t.Fatalf("got %v,%v", lat, lon)
	}
}

func TestRowSerialization(t *testing.T) {
	g := newTestGym()
	g.Model = "iphone se"
	g.SetDefended()
	g.SetStyle()
	g.Latlon = "40.7,-73.9"
	g.City = "brooklyn"
	g.County = "kings"
	g.State = "new york"

	row := g.Row(12)
	if row.Index != 12 || row.UID != "42" {
		t.Fatalf("identity cells wrong: %+v", row)
	}
	if row.Defended != 25.7507 || row.Style != StyleGold {
		t.Fatalf("derived cells wrong: %+v", row)
	}
	if row.County != "kings" {
		t.Fatalf("county = %q", row.County)
	}
}

func TestNewNormalizesTitle(t *testing.T) {
	g := New(1, "  Fish   Sculpture ", badge.Activity{})
	if g.Title != "fish sculpture" {
		t.Fatalf("title = %q", g.Title)
	}
}
