package axis

import (
	"fmt"
	"strings"
)

// maxNameLength bounds axis names; wire tokens are short by convention.
const maxNameLength = 32

// validTypes is the pre-computed type set for O(1) lookups.
var validTypes map[Type]struct{}

func init() {
	validTypes = make(map[Type]struct{}, len(AllTypes()))
	for _, t := range AllTypes() {
		validTypes[t] = struct{}{}
	}
}

// ValidateConfig checks an axis configuration before it is applied.
// Limits are checked after defaulting (see Registry.Configure).
func ValidateConfig(c *Config) error {
	if c == nil {
		return ErrInvalidConfig
	}

	if err := ValidateName(c.Name); err != nil {
		return err
	}

	if err := ValidateType(c.Type); err != nil {
		return err
	}

	if c.Alias != "" {
		if err := ValidateName(c.Alias); err != nil {
			return fmt.Errorf("%w: alias: %w", ErrInvalidConfig, err)
		}
		if c.Alias == c.Name {
			return fmt.Errorf("%w: alias %q equals axis name", ErrAliasConflict, c.Alias)
		}
	}

	// Limits are irrelevant for boolean axes.
	if c.Type != TypeBoolean {
		if err := ValidateLimits(c.Min, c.Max); err != nil {
			return err
		}
		if c.Min > c.Max {
			return fmt.Errorf("%w: min %v exceeds max %v", ErrInvalidLimits, c.Min, c.Max)
		}
	}

	return nil
}

// ValidateName checks an axis name or alias.
// Names are wire token prefixes, so whitespace is forbidden.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, maxNameLength)
	}
	if strings.ContainsAny(name, " \t\r\n") {
		return fmt.Errorf("%w: name %q contains whitespace", ErrInvalidName, name)
	}
	return nil
}

// ValidateType checks that a type is one of the known axis types.
func ValidateType(t Type) error {
	if _, ok := validTypes[t]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidType, t)
	}
	return nil
}

// ValidateLimits checks limit bounds: both within [0,1] and not equal.
func ValidateLimits(lo, hi float64) error {
	if lo < 0 || lo > 1 || hi < 0 || hi > 1 {
		return fmt.Errorf("%w: bounds %v..%v outside [0,1]", ErrInvalidLimits, lo, hi)
	}
	if lo == hi {
		return fmt.Errorf("%w: bounds are equal (%v)", ErrInvalidLimits, lo)
	}
	return nil
}
