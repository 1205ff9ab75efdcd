package gym

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Geocoder is the external reverse-geocoding capability: coordinates in,
// address components keyed by name out.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (map[string]string, error)
}

// Nominatim queries the public OSM reverse endpoint. The service's usage
// policy requires an identifying contact in the User-Agent.
type Nominatim struct {
	Email   string
	BaseURL string
	Client  *http.Client
}

// NewNominatim builds a client with the given contact and request timeout.
func NewNominatim(email string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		Email:   email,
		BaseURL: "https://nominatim.openstreetmap.org",
		Client:  &http.Client{Timeout: timeout},
	}
}

func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (map[string]string, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.BaseURL+"/reverse?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", n.Email)

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nominatim status %d", resp.StatusCode)
	}

	var body struct {
		Address map[string]string `json:"address"`
		Error   string            `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("nominatim decode: %w", err)
	}
	if body.Error != "" {
		return nil, fmt.Errorf("nominatim: %s", body.Error)
	}
	return body.Address, nil
}
