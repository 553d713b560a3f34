package utils

import "strings"

// ParseOrigins splits a comma-separated origin list. Trailing slashes are
// dropped; "*" is reported through wildcard instead of being listed.
func ParseOrigins(list string) (origins []string, wildcard bool) {
	for _, o := range strings.Split(list, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		switch o {
		case "":
		case "*":
			wildcard = true
		default:
			origins = append(origins, o)
		}
	}
	return origins, wildcard
}
