package model

import (
	"fmt"
	"net/url"
)

// Device represents an edge gateway addressable over HTTP. A device hosts one
// or more sensors and receives commands on its notify endpoint.
type Device struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Validate checks that the device carries an identifier and a parseable base URL.
func (d Device) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("device id is required")
	}
	if d.URL == "" {
		return fmt.Errorf("device %s: url is required", d.ID)
	}
	u, err := url.Parse(d.URL)
	if err != nil {
		return fmt.Errorf("device %s: invalid url: %w", d.ID, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("device %s: url %q must be absolute", d.ID, d.URL)
	}
	return nil
}
