// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"path"
	"strconv"
	"strings"
)

// Member naming: cache/epub/1342/pg1342.rdf.
const (
	recordPrefix = "pg"
	recordSuffix = ".rdf"
	innerSuffix  = ".tar"
)

// IsRecordName reports whether a member name carries the record extension.
func IsRecordName(name string) bool {
	return strings.HasSuffix(name, recordSuffix)
}

// RecordID derives the numeric identifier from a member name. The base name
// must be exactly pg<digits>.rdf and the number must be positive.
func RecordID(name string) (int64, bool) {
	base := path.Base(name)
	if !strings.HasPrefix(base, recordPrefix) || !strings.HasSuffix(base, recordSuffix) {
		return 0, false
	}
	digits := strings.TrimSuffix(strings.TrimPrefix(base, recordPrefix), recordSuffix)
	if digits == "" {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
