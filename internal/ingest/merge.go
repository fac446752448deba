// Package ingest turns parsed statement files into appended store rows.
// Parsing, categorization and identifier derivation happen per record;
// deduplication against the store happens once per batch.
package ingest

import "fjacquet/statement-ledger/internal/models"

// Merge returns the records of batch whose id is not in existing, in batch
// order. A record repeated inside the batch is kept once. A nil existing
// set is treated as empty.
func Merge[T models.Identified](batch []T, existing map[string]struct{}) []T {
	out := make([]T, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for _, rec := range batch {
		id := rec.GetID()
		if _, ok := existing[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// IDs collects the ids of records into a set.
func IDs[T models.Identified](records []T) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, rec := range records {
		ids[rec.GetID()] = struct{}{}
	}
	return ids
}
