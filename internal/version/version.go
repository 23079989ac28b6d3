// Package version parses and orders Unity editor version strings such as
// "2022.3.10f1" or "6000.0.23f1".
package version

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// UnityRegex validates Unity version strings: year.minor.patch, a release
// stage letter and a build number, optionally followed by a China-release
// suffix ("c1") which is ignored for ordering.
var UnityRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)([abfp])(\d+)(c\d+)?$`)

// Release stages in ascending order.
const (
	StageAlpha = 'a'
	StageBeta  = 'b'
	StageFinal = 'f'
	StagePatch = 'p'
)

var stageRank = map[byte]int{
	StageAlpha: 0,
	StageBeta:  1,
	StageFinal: 2,
	StagePatch: 3,
}

// Unity represents a parsed editor version.
type Unity struct {
	Major  int // year, or 6000 for Unity 6
	Minor  int
	Patch  int
	Stage  byte
	Build  int
	Suffix string
}

// Validate checks if a string is a Unity version.
func Validate(v string) error {
	if !UnityRegex.MatchString(strings.TrimSpace(v)) {
		return fmt.Errorf("invalid Unity version: %q", v)
	}
	return nil
}

// Parse parses a Unity version string.
func Parse(v string) (*Unity, error) {
	match := UnityRegex.FindStringSubmatch(strings.TrimSpace(v))
	if match == nil {
		return nil, fmt.Errorf("invalid Unity version: %q", v)
	}

	// Errors ignored: regex guarantees these capture groups contain only digits
	major, _ := strconv.Atoi(match[1])
	minor, _ := strconv.Atoi(match[2])
	patch, _ := strconv.Atoi(match[3])
	build, _ := strconv.Atoi(match[5])

	return &Unity{
		Major:  major,
		Minor:  minor,
		Patch:  patch,
		Stage:  match[4][0],
		Build:  build,
		Suffix: match[6],
	}, nil
}

// String returns the version in Unity's spelling.
func (u *Unity) String() string {
	return fmt.Sprintf("%d.%d.%d%c%d%s", u.Major, u.Minor, u.Patch, u.Stage, u.Build, u.Suffix)
}

// Compare orders two parsed versions.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func (u *Unity) Compare(other *Unity) int {
	if c := cmp.Compare(u.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(u.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(u.Patch, other.Patch); c != 0 {
		return c
	}
	if c := cmp.Compare(stageRank[u.Stage], stageRank[other.Stage]); c != 0 {
		return c
	}
	return cmp.Compare(u.Build, other.Build)
}

// Compare compares two version strings.
// Returns -1 if a < b, 0 if a == b, 1 if a > b.
func Compare(a, b string) (int, error) {
	va, err := Parse(a)
	if err != nil {
		return 0, err
	}
	vb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}
