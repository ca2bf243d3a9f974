package update

import (
	"github.com/spf13/afero"
)

// Unknown is the local version reported when the record is missing or unreadable.
// It never equals a well-formed remote version.
const Unknown = "unknown"

// ReadLocalVersion returns the version stored in the JSON record at path.
// A missing file, malformed JSON, or a missing version field yields Unknown.
func ReadLocalVersion(fs afero.Fs, path string) string {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Unknown
	}
	version, ok, err := parseVersionRecord(data)
	if err != nil || !ok {
		return Unknown
	}
	return version
}
