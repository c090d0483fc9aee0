package loader

import "errors"

// ErrScriptNotAvailable is returned when there is no script content to load.
var ErrScriptNotAvailable = errors.New("script not available")
