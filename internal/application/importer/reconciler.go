package importer

import (
	"github.com/commercehub/catalog-sync/internal/domain/catalog"
)

// Classification is the outcome of reconciling an import snapshot against
// the items already in storage.
type Classification struct {
	// New items are present in the import but absent from storage by
	// identity.
	New []catalog.Item
	// Changed items exist in storage but differ from their imported
	// counterpart by content. The imported draft is the value to apply.
	Changed []catalog.Item
	// Unchanged items match by content and are dropped from further
	// processing.
	Unchanged []catalog.Item

	// EdgesToCreate and EdgesToRemove form the batch-wide association delta,
	// collected from the scratch records of New and Changed items.
	EdgesToCreate []catalog.AssociationEdge
	EdgesToRemove []catalog.AssociationEdge
}

// Apply returns the items to persist, New first then Changed.
func (c Classification) Apply() []catalog.Item {
	out := make([]catalog.Item, 0, len(c.New)+len(c.Changed))
	out = append(out, c.New...)
	out = append(out, c.Changed...)
	return out
}

// Classify splits the import drafts into New, Changed and Unchanged against
// the existing items, derives the association delta, and strips the scratch
// record from every draft. Drafts handed on from here carry no transient
// working state: it must never reach storage.
func Classify(imports, existing []catalog.Item, identity, content catalog.Comparer) Classification {
	existingByHash := make(map[uint64][]catalog.Item, len(existing))
	for _, e := range existing {
		h := identity.Hash(e)
		existingByHash[h] = append(existingByHash[h], e)
	}

	var result Classification
	for _, imp := range imports {
		match := findMatch(imp, existingByHash, identity)
		switch {
		case match == nil:
			result.New = append(result.New, imp)
		case !content.Equals(imp, match):
			result.Changed = append(result.Changed, imp)
		default:
			result.Unchanged = append(result.Unchanged, imp)
		}
	}

	for _, item := range result.New {
		if s := item.ScratchRecord(); s != nil {
			result.EdgesToCreate = append(result.EdgesToCreate, s.EdgesToCreate...)
			result.EdgesToRemove = append(result.EdgesToRemove, s.EdgesToRemove...)
		}
	}
	for _, item := range result.Changed {
		if s := item.ScratchRecord(); s != nil {
			result.EdgesToCreate = append(result.EdgesToCreate, s.EdgesToCreate...)
			result.EdgesToRemove = append(result.EdgesToRemove, s.EdgesToRemove...)
		}
	}

	for _, item := range imports {
		item.StripScratch()
	}

	return result
}

func findMatch(imp catalog.Item, existingByHash map[uint64][]catalog.Item, identity catalog.Comparer) catalog.Item {
	for _, candidate := range existingByHash[identity.Hash(imp)] {
		if identity.Equals(imp, candidate) {
			return candidate
		}
	}
	return nil
}
