// Package cstconfig loads the resource limits described in spec §5: caps
// on recursion depth and input size that a host embedding the parser can
// tune. Configuration is YAML, following the pack's own config-file
// convention (aretext's and endb's own YAML config files) via
// gopkg.in/yaml.v3.
package cstconfig

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Limits bounds how much work a single parse may do before it is
// abandoned with a fault rather than left to exhaust process memory or
// the goroutine stack.
type Limits struct {
	// MaxInputBytes caps the length of the source string a parse will
	// accept. Zero means unlimited.
	MaxInputBytes int `yaml:"max_input_bytes"`

	// MaxRecursionDepth caps how many nested rule invocations (every
	// live peg.WithRule call, transparent rules included) a parse may
	// reach before it is aborted. Zero means unlimited.
	MaxRecursionDepth int `yaml:"max_recursion_depth"`
}

// DefaultLimits returns the limits spec §5 describes as the parser's
// out-of-the-box behavior: generous enough for any realistic query, not
// so generous that a malicious or accidental megabyte-deep parenthesis
// nest can take the process down.
func DefaultLimits() Limits {
	return Limits{
		MaxInputBytes:     8 << 20, // 8 MiB
		MaxRecursionDepth: 4096,
	}
}

// Load reads Limits from a YAML file at path. Fields the file omits keep
// their DefaultLimits value, since Load unmarshals on top of defaults
// rather than a zero value.
func Load(path string) (Limits, error) {
	limits := DefaultLimits()
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, errors.Wrapf(err, "cstconfig: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &limits); err != nil {
		return Limits{}, errors.Wrapf(err, "cstconfig: parsing %s", path)
	}
	return limits, nil
}
