package layout

import (
	"errors"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// CurrentVersion is the layout format version written by this build.
const CurrentVersion = "1.0.0"

// SupportedVersions is the semver range of layout formats this build reads.
const SupportedVersions = "^1.0.0"

// ErrUnsupportedVersion is returned when a layout's format version falls
// outside SupportedVersions.
var ErrUnsupportedVersion = errors.New("unsupported layout version")

var supported = semver.MustParse(CurrentVersion)

// CheckVersion verifies that v parses as semver and satisfies SupportedVersions.
func CheckVersion(v string) error {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	c, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return fmt.Errorf("parsing supported range: %w", err)
	}
	if !c.Check(ver) {
		return fmt.Errorf("%w: %s (this build reads %s)", ErrUnsupportedVersion, ver, SupportedVersions)
	}
	return nil
}

// IsNewer reports whether v is a newer format than this build writes. Layouts
// from future minor versions still load, but callers may want to warn.
func IsNewer(v string) bool {
	ver, err := semver.NewVersion(v)
	if err != nil {
		return false
	}
	return ver.GreaterThan(supported)
}
