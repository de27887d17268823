package scheduler

// HasConflict reports whether candidate overlaps any interval in existing that shares
// its slot. The interval whose ID equals excludeID is skipped so an entry being edited
// in place never conflicts with itself. Callers validate candidate.Start < candidate.End
// beforehand.
func HasConflict(candidate TimeInterval, existing []TimeInterval, excludeID string) bool {
	_, found := FindConflict(candidate, existing, excludeID)
	return found
}

// FindConflict returns the first interval in existing that collides with candidate.
func FindConflict(candidate TimeInterval, existing []TimeInterval, excludeID string) (TimeInterval, bool) {
	for _, entry := range existing {
		if excludeID != "" && entry.ID == excludeID {
			continue
		}
		if !candidate.SameSlot(entry) {
			continue
		}
		if candidate.Overlaps(entry) {
			return entry, true
		}
	}
	return TimeInterval{}, false
}
