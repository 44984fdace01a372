package viewer

import "errors"

// ErrQueueClosed is returned by Post after the UI loop has shut down
var ErrQueueClosed = errors.New("viewer: task queue closed")
