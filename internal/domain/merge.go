package domain

import "sort"

// Merge concatenates the batches and sorts the result most-recent-first.
// The sort is stable, so records with equal timestamps keep their input
// order; there is no secondary tie-break field. Merging an already-sorted
// batch with nothing else yields the same batch.
func Merge(batches ...[]Event) []Event {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := make([]Event, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}

// DedupeByID drops events whose ID was already seen, keeping the first
// occurrence. Events with an empty ID are always kept; only the volcanic
// fan-out synthesizes IDs, and its composite key is what dedup runs on.
func DedupeByID(events []Event) []Event {
	seen := make(map[string]struct{}, len(events))
	kept := make([]Event, 0, len(events))
	for _, ev := range events {
		if ev.ID != "" {
			if _, dup := seen[ev.ID]; dup {
				continue
			}
			seen[ev.ID] = struct{}{}
		}
		kept = append(kept, ev)
	}
	return kept
}
