package bind

import (
	"errors"
	"fmt"

	"github.com/bindkit-dev/bindkit/pkg/keyed"
)

// ErrNilRegion is returned by Bind when no region is supplied.
var ErrNilRegion = errors.New("bind: nil region")

// ErrNilRenderer is returned by Bind when no item renderer is supplied.
var ErrNilRenderer = errors.New("bind: nil item renderer")

// ReconciliationError reports a patch that referenced a key with no
// registered fragment. It indicates an internal consistency failure
// between the differ and the mount point's registry: the mount point's
// state is no longer trustworthy, so it disposes itself and surfaces the
// error through its handle.
type ReconciliationError struct {
	// Op is the patch operation that failed.
	Op keyed.Op

	// Key is the unresolvable key (patch target or anchor).
	Key string

	// Err is the underlying region error, if any.
	Err error
}

// Error implements the error interface.
func (e *ReconciliationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("B102: %s patch references unknown key %q: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("B102: %s patch references unknown key %q", e.Op, e.Key)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ReconciliationError) Unwrap() error {
	return e.Err
}

// RenderError reports a failed item renderer invocation. The insert that
// triggered it registered no fragment, so the key is retried naturally by
// the next snapshot; the rest of the failed snapshot's script is skipped
// and reconciled then as well.
type RenderError struct {
	Key string
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("B103: item renderer failed for key %q: %v", e.Key, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RenderError) Unwrap() error {
	return e.Err
}
