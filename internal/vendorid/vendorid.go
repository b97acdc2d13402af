// Package vendorid implements the vendor-identifier fallback rule shared by
// the collection registry and the driver registry: when a per-vendor file
// or driver is missing, a single trailing "_segment" may be stripped and
// retried once (cisco_ios_xe -> cisco_ios).
package vendorid

import "strings"

// Fallback returns the vendor id with its last "_"-delimited segment
// stripped, and true if a segment existed to strip. Calling Fallback on its
// own result is the caller's mistake, not this function's job: the "at most
// once per lookup" rule is enforced by callers doing a single Resolve pass,
// not by this helper refusing a second call.
func Fallback(vendor string) (string, bool) {
	idx := strings.LastIndexByte(vendor, '_')
	if idx <= 0 {
		return "", false
	}
	return vendor[:idx], true
}

// Resolve calls lookup(vendor) and, if that fails, calls lookup once more
// on the fallback vendor id (if one exists). It returns the id that
// satisfied the lookup and whatever lookup itself returned.
func Resolve[T any](vendor string, lookup func(string) (T, bool)) (id string, value T, ok bool) {
	if value, ok = lookup(vendor); ok {
		return vendor, value, true
	}

	if fallback, exists := Fallback(vendor); exists {
		if value, ok = lookup(fallback); ok {
			return fallback, value, true
		}
	}

	var zero T
	return "", zero, false
}
