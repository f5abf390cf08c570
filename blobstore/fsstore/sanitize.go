package fsstore

import "strings"

// placeholder replaces path separators and reserved characters when deriving
// a filesystem-safe name from a logical path.
const placeholder = '_'

// reserved characters that cannot appear in a file name on at least one
// supported platform.
const reserved = `/\:*?"<>|`

// sanitizeName maps a logical path to a single filesystem-safe file name.
//
// The mapping is not reversible (an original placeholder character is
// indistinguishable from a replaced separator), so the original logical path
// is stored inside the record envelope instead of being reconstructed from
// the file name.
func sanitizeName(path string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(reserved, r) {
			return placeholder
		}
		return r
	}, path)
}
