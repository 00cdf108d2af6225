package mesh

import "errors"

// ErrUnsupportedOperation marks an edit the kernel deliberately refuses to
// perform rather than leaving the topology half-updated.
var ErrUnsupportedOperation = errors.New("unsupported operation")
