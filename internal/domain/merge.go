package domain

// MergeResult reports the outcome of a merge-import.
type MergeResult struct {
	Merged   []BookmarkRecord
	Imported int
}

// MergeImport appends to existing every incoming record whose dedup key
// is not already present. Zero survivors is a valid outcome ("all
// duplicates"), not an error; Merged is then existing unchanged.
func MergeImport(existing, incoming []BookmarkRecord) MergeResult {
	seen := make(map[string]bool, len(existing))
	for _, r := range existing {
		seen[r.DedupKey()] = true
	}

	merged := append([]BookmarkRecord(nil), existing...)
	imported := 0
	for _, r := range incoming {
		key := r.DedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, r)
		imported++
	}
	return MergeResult{Merged: merged, Imported: imported}
}

// Reconcile resolves a store change made by another writer: the local
// snapshot is replaced outright by the external one. Consistency is
// last-write-wins at whole-collection granularity; there is no
// field-level merge.
func Reconcile(_, external []BookmarkRecord) []BookmarkRecord {
	return external
}
