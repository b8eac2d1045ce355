package config

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CheckRequires reports whether the running binary version satisfies the
// constraint declared by a config file's requires key. Development builds
// and empty constraints always pass.
func CheckRequires(constraint, running string) error {
	if constraint == "" {
		return nil
	}

	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", constraint, err)
	}

	v, err := semver.NewVersion(running)
	if err != nil {
		// Unversioned builds cannot be checked.
		return nil
	}

	if !c.Check(v) {
		return fmt.Errorf("config requires filterattrs %s, running %s", constraint, running)
	}

	return nil
}
