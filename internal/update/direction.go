package update

import (
	"github.com/Masterminds/semver/v3"
)

// Direction describes how a remote version relates to the local one.
type Direction string

const (
	// DirectionSame means the strings are equal; no sync is needed.
	DirectionSame Direction = "same"
	// DirectionUpgrade means both parse as semantic versions and remote is newer.
	DirectionUpgrade Direction = "upgrade"
	// DirectionDowngrade means both parse as semantic versions and remote is older.
	DirectionDowngrade Direction = "downgrade"
	// DirectionChange covers any other difference, including an Unknown local version.
	DirectionChange Direction = "change"
)

// Compare labels the relation between local and remote. Only string equality
// decides whether a sync happens; the label is informational.
func Compare(local string, remote string) Direction {
	if local == remote {
		return DirectionSame
	}
	lv, err := semver.NewVersion(local)
	if err != nil {
		return DirectionChange
	}
	rv, err := semver.NewVersion(remote)
	if err != nil {
		return DirectionChange
	}
	switch lv.Compare(rv) {
	case -1:
		return DirectionUpgrade
	case 1:
		return DirectionDowngrade
	default:
		// "1.0" and "1.0.0" differ as strings but not as versions.
		return DirectionChange
	}
}
