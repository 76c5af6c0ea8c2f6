package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gdugdh24/fabdive-backend/internal/domain"
	"github.com/gdugdh24/fabdive-backend/internal/pkg/logger"
	"github.com/hashicorp/go-retryablehttp"
)

// Place is a geocoding result with the city and country derived from the
// display name.
type Place struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	DisplayName string  `json:"display_name"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

type NominatimClient struct {
	http      *retryablehttp.Client
	baseURL   string
	userAgent string
}

func NewNominatimClient(baseURL, userAgent string, log *logger.Logger) *NominatimClient {
	c := retryablehttp.NewClient()
	c.RetryMax = 2
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.HTTPClient.Timeout = 10 * time.Second
	c.Logger = log.With("client", "nominatim")
	return &NominatimClient{
		http:      c,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// Search resolves a free-form address to its best match.
func (c *NominatimClient) Search(ctx context.Context, address string) (*Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("q", address)
	q.Set("limit", "1")

	var results []nominatimResult
	if err := c.get(ctx, "/search", q, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, domain.ErrGeocodeNotFound
	}
	return toPlace(results[0])
}

// Reverse resolves coordinates to the nearest address.
func (c *NominatimClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))

	var result nominatimResult
	if err := c.get(ctx, "/reverse", q, &result); err != nil {
		return nil, err
	}
	if result.Error != "" || result.DisplayName == "" {
		return nil, domain.ErrGeocodeNotFound
	}
	return toPlace(result)
}

func (c *NominatimClient) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocode request: unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode geocode response: %w", err)
	}
	return nil
}

func toPlace(r nominatimResult) (*Place, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude %q: %w", r.Lon, err)
	}
	city, country := ParseDisplayName(r.DisplayName)
	return &Place{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: r.DisplayName,
		City:        city,
		Country:     country,
	}, nil
}

var (
	hasDigit      = regexp.MustCompile(`\d`)
	leadingPostal = regexp.MustCompile(`^\d+\s*`)
)

// ParseDisplayName extracts city and country from a Nominatim display name
// such as "12 Rue de la Paix, 75002 Paris, Île-de-France, France". The last
// part is the country. The city is the first inner part carrying a postal
// code (with the code stripped), else the second part.
func ParseDisplayName(displayName string) (city, country string) {
	if strings.TrimSpace(displayName) == "" {
		return "", ""
	}
	parts := strings.Split(displayName, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	country = parts[len(parts)-1]
	switch {
	case len(parts) >= 3:
		for _, part := range parts[1 : len(parts)-1] {
			if hasDigit.MatchString(part) {
				city = strings.TrimSpace(leadingPostal.ReplaceAllString(part, ""))
				break
			}
		}
		if city == "" {
			city = parts[1]
		}
	case len(parts) == 2:
		city = parts[0]
	}
	if city == "" {
		city = parts[0]
	}
	return city, country
}
