package loader

import (
	"fmt"
	"io"
	"net/url"
	"strings"
)

type FromString struct {
	content   string
	sourceURL *url.URL
}

// NewFromString creates a Loader for script text. Surrounding whitespace is trimmed.
func NewFromString(content string) (*FromString, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is empty", ErrScriptNotAvailable)
	}

	u, err := sourceURL("string", "inline", []byte(content))
	if err != nil {
		return nil, err
	}
	return &FromString{content: content, sourceURL: u}, nil
}

func (l *FromString) String() string {
	return fmt.Sprintf("loader.FromString{Chars: %d}", len(l.content))
}

func (l *FromString) GetReader() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(l.content)), nil
}

// GetSourceURL returns the source URL of the script.
func (l *FromString) GetSourceURL() *url.URL {
	return l.sourceURL
}
