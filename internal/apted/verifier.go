package apted

import "structscan/internal/astsvc"

// VerificationDetail is the APTED verifier's result (spec §4.E "Contract").
type VerificationDetail struct {
	Similarity float64
	EditCost   int
	NodeCountA int
	NodeCountB int
	Truncated  bool
}

// Verify computes refined similarity between two entities' cached AST
// subtrees (already narrowed to each entity's byte range via
// astsvc.Context.FindEntityNode). Returns nil when either tree is
// unavailable — the pair is then kept based on LSH similarity alone (spec
// §4.E "When the cached AST cannot be obtained, returns None").
func Verify(treeA, treeB *astsvc.Node, maxNodes int) *VerificationDetail {
	if treeA == nil || treeB == nil {
		return nil
	}

	simpleA := BuildSimpleTree(treeA)
	simpleB := BuildSimpleTree(treeB)

	truncated := false
	if maxNodes > 0 {
		var tA, tB bool
		simpleA, tA = Truncate(simpleA, maxNodes)
		simpleB, tB = Truncate(simpleB, maxNodes)
		truncated = tA || tB
	}

	nA, nB := NodeCount(simpleA), NodeCount(simpleB)
	cost := EditDistance(simpleA, simpleB)

	denom := nA + nB
	sim := 1.0
	if denom > 0 {
		sim = 1.0 - float64(cost)/float64(denom)
	}
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}

	return &VerificationDetail{
		Similarity: sim,
		EditCost:   cost,
		NodeCountA: nA,
		NodeCountB: nB,
		Truncated:  truncated,
	}
}

// Budget tracks the per-source-entity verification budget (spec §4.E
// "Budget": "at most apted_max_pairs_per_entity pairs are verified per
// source entity; beyond this, remaining candidates are accepted at their
// LSH-estimated similarity without refinement").
type Budget struct {
	maxPerEntity int
	used         map[string]int
}

// NewBudget creates a verification budget tracker.
func NewBudget(maxPerEntity int) *Budget {
	return &Budget{maxPerEntity: maxPerEntity, used: make(map[string]int)}
}

// Allow reports whether sourceEntity may still spend an APTED verification,
// consuming one unit of budget if so.
func (b *Budget) Allow(sourceEntity string) bool {
	if b.maxPerEntity <= 0 {
		return true
	}
	if b.used[sourceEntity] >= b.maxPerEntity {
		return false
	}
	b.used[sourceEntity]++
	return true
}
