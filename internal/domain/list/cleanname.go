package list

import (
	"strconv"
	"strings"
)

// CleanName derives the canonical slug for a display name: quote characters
// are stripped and every run of non-alphanumeric characters collapses to a
// single underscore. The result is stable for a given input.
func CleanName(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))

	pendingSep := false
	for _, r := range raw {
		switch {
		case r == '\'' || r == '"' || r == '`':
			// dropped entirely, no separator
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		default:
			pendingSep = true
		}
	}

	return b.String()
}

// Exists reports whether any known list already carries cleanName.
func Exists(lists []List, cleanName string) bool {
	for _, l := range lists {
		if l.CleanName == cleanName {
			return true
		}
	}
	return false
}

// NextCleanName appends an incrementing integer suffix to base until the
// candidate no longer collides. Candidates are probed sequentially so
// suffixes stay monotonically increasing.
func NextCleanName(lists []List, base string) string {
	variation := 1
	candidate := base + strconv.Itoa(variation)
	for Exists(lists, candidate) {
		variation++
		candidate = base + strconv.Itoa(variation)
	}
	return candidate
}

// FindByUserIDAndID resolves a cached list by id. A record owned by userID
// wins; otherwise any record with the id matches, since shared lists carry
// the owner's user_id. The false return means "not yet materialized
// locally" and is never an error.
func FindByUserIDAndID(lists []List, userID, id string) (List, bool) {
	var fallback *List
	for i := range lists {
		if lists[i].ID != id {
			continue
		}
		if lists[i].UserID == userID {
			return lists[i], true
		}
		if fallback == nil {
			fallback = &lists[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return List{}, false
}

// FindByUserIDAndCleanName is the clean_name flavor of FindByUserIDAndID.
// It is the routing step for realtime item events.
func FindByUserIDAndCleanName(lists []List, userID, cleanName string) (List, bool) {
	var fallback *List
	for i := range lists {
		if lists[i].CleanName != cleanName {
			continue
		}
		if lists[i].UserID == userID {
			return lists[i], true
		}
		if fallback == nil {
			fallback = &lists[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return List{}, false
}
