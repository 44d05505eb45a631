// Package errorspkg provides the errors shared by every layer of the ledger.
package errorspkg

import "errors"

// ErrInternal replaces infrastructure failures once they are logged.
var ErrInternal = errors.New("internal")
