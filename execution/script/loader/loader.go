// Package loader supplies script text to an ExecutableUnit. Payoff scripts
// are always held in memory; the loader records where they came from as a
// source URL, which also serves as the unit's version ID.
package loader

import (
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-payoffscript/internal/helpers"
)

type Loader interface {
	GetReader() (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

const hashPrefixLength = 8

// sourceURL builds scheme://host/<hash prefix> for in-memory content.
func sourceURL(scheme, host string, content []byte) (*url.URL, error) {
	u, err := url.Parse(
		fmt.Sprintf("%s://%s/%s", scheme, host, helpers.SHA256Bytes(content)[:hashPrefixLength]),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create source URL: %w", err)
	}
	return u, nil
}
