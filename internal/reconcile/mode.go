// Package reconcile computes the minimal set of row changes that turns the
// persisted children of an entry into a client-submitted desired state.
//
// Everything here is pure: a Plan is a value and applying it is the caller's job.
package reconcile

import (
	"fmt"
	"strings"
)

// Mode selects how rows missing from the desired state are treated.
type Mode string

const (
	// ModeReplaceAll deletes current rows the desired state omits.
	ModeReplaceAll Mode = "replace_all"
	// ModePatch never deletes by omission.
	ModePatch Mode = "patch"
)

func (m Mode) String() string { return string(m) }

func (m Mode) IsValid() bool {
	return m == ModeReplaceAll || m == ModePatch
}

// ParseMode accepts the mode names case-insensitively, with "-" or "_".
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !m.IsValid() {
		return "", fmt.Errorf("unknown reconcile mode %q", s)
	}
	return m, nil
}
