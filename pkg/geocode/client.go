// Package geocode looks up Indian postal pincodes against the public
// postalpincode.in API. Lookups are best-effort; callers fall back to their
// own serviceability table when the API is unreachable.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/vastralabs/vastra-backend/pkg/config"
)

// PincodeInfo is the normalized lookup result.
type PincodeInfo struct {
	Pincode  string `json:"pincode"`
	City     string `json:"city"`
	District string `json:"district"`
	State    string `json:"state"`
}

type apiResponse struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// Client calls the postal pincode directory.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.GeocodeConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("geocode base url is required")
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ErrNotFound is returned when the directory has no record for the pincode.
var ErrNotFound = errors.New("pincode not found")

// Lookup resolves a pincode to its district/state.
func (c *Client) Lookup(ctx context.Context, pincode string) (*PincodeInfo, error) {
	if len(pincode) != 6 {
		return nil, fmt.Errorf("invalid pincode %q", pincode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/pincode/%s", c.baseURL, pincode), nil)
	if err != nil {
		return nil, fmt.Errorf("building pincode request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling pincode directory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pincode directory returned status %d", resp.StatusCode)
	}

	var payload []apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding pincode response: %w", err)
	}
	if len(payload) == 0 || payload[0].Status != "Success" || len(payload[0].PostOffice) == 0 {
		return nil, ErrNotFound
	}

	office := payload[0].PostOffice[0]
	return &PincodeInfo{
		Pincode:  pincode,
		City:     office.Name,
		District: office.District,
		State:    office.State,
	}, nil
}
