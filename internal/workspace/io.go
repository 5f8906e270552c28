package workspace

import (
	"fmt"
	"strings"
)

// LoadError reports a persisted collection that could not be hydrated.
// Either Err (undecodable) or Errs (decoded but invalid) is set.
type LoadError struct {
	Key  string
	Err  error
	Errs []ValidationError
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %v", e.Key, e.Err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "load %s: %d validation error(s)", e.Key, len(e.Errs))
	for _, ve := range e.Errs {
		fmt.Fprintf(&b, "\n- %s", ve.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

// DecodeWorkspaces strictly decodes the persisted workspaces value. Unknown
// fields and trailing data are rejected; structural checks are left to
// Validate.
func DecodeWorkspaces(raw []byte) ([]Workspace, error) {
	var ws []Workspace
	if err := decodeStrict(raw, &ws); err != nil {
		return nil, fmt.Errorf("parse workspaces: %w", err)
	}
	return ws, nil
}
