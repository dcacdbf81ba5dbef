package gpsdo

import (
	"fmt"
	"sort"
	"strings"
)

// ConfigError reports one or more settings that violate their static range or
// parity rules. Fields maps the setting name (e.g. "n2_ls") to a verbose
// error message. The full map is always populated, never just the first
// failure, so a user can fix all problems in one pass.
type ConfigError struct {
	Fields map[string]string
}

func (e *ConfigError) Error() string {
	return "invalid configuration:\n" + formatFieldErrors(e.Fields)
}

// PlanError reports frequency-plan entries that are undefined or outside
// their permitted ranges. Fields maps the plan entry or setting name to a
// verbose error message.
type PlanError struct {
	Fields map[string]string
}

func (e *PlanError) Error() string {
	return "invalid frequency plan:\n" + formatFieldErrors(e.Fields)
}

// formatFieldErrors renders a field error map one line per field, sorted by
// field name for deterministic output.
func formatFieldErrors(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%-7s %s\n", name+":", fields[name])
	}
	return b.String()
}
