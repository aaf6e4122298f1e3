package query

import "strings"

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings. Blank entries are dropped.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
