package release

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// ErrInvalidVersion is returned for versions that are neither PEP 440 nor
// semver.
var ErrInvalidVersion = errors.New("invalid version")

// pep440 is the public+local version grammar from PEP 440 appendix B.
var pep440 = regexp.MustCompile(`(?i)^` +
	`(?:[0-9]+!)?` + // epoch
	`[0-9]+(?:\.[0-9]+)*` + // release
	`(?:[-_.]?(?:alpha|a|beta|b|preview|pre|c|rc)[-_.]?[0-9]*)?` +
	`(?:-[0-9]+|[-_.]?(?:post|rev|r)[-_.]?[0-9]*)?` +
	`(?:[-_.]?dev[-_.]?[0-9]*)?` +
	`(?:\+[a-z0-9]+(?:[-_.][a-z0-9]+)*)?$`)

// NormalizeVersion strips a leading "v" and checks that the remainder is a
// PEP 440 or semantic version. The returned string keeps the caller's
// spelling otherwise.
func NormalizeVersion(version string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if pep440.MatchString(v) {
		return v, nil
	}
	if _, err := semver.NewVersion(v); err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidVersion, version, err)
	}
	return v, nil
}

// IsBump reports whether next is greater than current under semver ordering.
// Input semver cannot parse, such as "1.2.3rc1", counts as a bump so callers
// only warn on clear regressions.
func IsBump(current, next string) bool {
	c, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return true
	}
	n, err := semver.NewVersion(strings.TrimPrefix(next, "v"))
	if err != nil {
		return true
	}
	return n.GreaterThan(c)
}

// TagName returns the tag and commit message used for version.
func TagName(version string) string {
	return "v" + version
}

// BranchName returns the pull request branch used for version.
func BranchName(version string) string {
	return "version--" + version
}
