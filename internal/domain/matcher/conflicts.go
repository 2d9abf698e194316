package matcher

import (
	"sort"

	"github.com/eshaffer321/attachment-matcher/internal/domain/records"
)

// ReferenceConflict lists records that share one normalized reference.
// The finders still return the first of them in input order; conflicts are
// reported so a caller can flag the data.
type ReferenceConflict struct {
	Reference string
	IDs       []int64 // Input order
}

// AttachmentReferenceConflicts finds attachments sharing a normalized reference
func AttachmentReferenceConflicts(attachments []records.Attachment) []ReferenceConflict {
	refs := make([]*string, len(attachments))
	ids := make([]int64, len(attachments))
	for i, att := range attachments {
		refs[i] = att.Reference
		ids[i] = att.ID
	}
	return referenceConflicts(refs, ids)
}

// TransactionReferenceConflicts finds transactions sharing a normalized reference
func TransactionReferenceConflicts(transactions []records.Transaction) []ReferenceConflict {
	refs := make([]*string, len(transactions))
	ids := make([]int64, len(transactions))
	for i, tx := range transactions {
		refs[i] = tx.Reference
		ids[i] = tx.ID
	}
	return referenceConflicts(refs, ids)
}

func referenceConflicts(refs []*string, ids []int64) []ReferenceConflict {
	grouped := make(map[string][]int64)
	for i, ref := range refs {
		if normalized, ok := NormalizeReference(ref); ok {
			grouped[normalized] = append(grouped[normalized], ids[i])
		}
	}

	var conflicts []ReferenceConflict
	for ref, group := range grouped {
		if len(group) > 1 {
			conflicts = append(conflicts, ReferenceConflict{Reference: ref, IDs: group})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Reference < conflicts[j].Reference
	})
	return conflicts
}
