package correction

import "errors"

// ErrNoHandler names the case where a finding's category has no registered
// correction handler. The loop neither returns nor records this value: it
// appends "no handler for <category>" to the iteration's Applied list and
// leaves the output unchanged per §4.4.
var ErrNoHandler = errors.New("no handler registered for category")
