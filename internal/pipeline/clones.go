package pipeline

import (
	"sort"

	"structscan/internal/apted"
	"structscan/internal/clique"
	"structscan/internal/denoise"
	"structscan/internal/depgraph"
	"structscan/internal/entity"
	"structscan/internal/minhash"
)

// stageClones builds the lexical-affinity clique index, the MinHash/LSH
// candidate index, then verifies and denoise-ranks every candidate pair
// (spec §4.C/§4.D/§4.F, §4.K stage 4). The ranked survivors are stored as
// ClonePairs; the raw MinHash index is kept on the Bundle so stage 10's
// LSHExtractor can compute duplication_burden/clone_group_size without
// rebuilding it.
func stageClones(opts Options, b *Bundle) error {
	entities := b.Index.All()
	lshCfg := opts.Config.LSH

	var minhashInputs []minhash.Input
	var cliqueInputs []clique.Input
	perEntityShingles := make(map[entity.ID][]string)
	fileOf := make(map[entity.ID]string)
	pools := entity.NewVectorPools()

	for _, e := range entities {
		if !isCloneEligible(e) {
			continue
		}
		tokens := minhash.Tokenize(minhash.Normalize(e.Source))
		if len(tokens) < lshCfg.MinFunctionTokens {
			continue
		}
		minhashInputs = append(minhashInputs, minhash.Input{ID: e.ID, File: e.File, Source: e.Source})
		cliqueInputs = append(cliqueInputs, clique.Input{ID: e.ID, Source: e.Source})
		perEntityShingles[e.ID] = minhash.Shingle(tokens, lshCfg.ShingleSizeEffective(opts.Config.Denoise.Enabled), pools)
		fileOf[e.ID] = e.File
	}
	if len(minhashInputs) == 0 {
		return nil
	}

	cliqueIdx := clique.Build(clique.DefaultConfig(), cliqueInputs)
	mhIdx := minhash.BuildWithDenoise(lshCfg, pools, minhashInputs, opts.Config.Denoise.Enabled)
	b.MinHashIndex = mhIdx

	motifs, err := denoise.LoadStopMotifCache(opts.Config.Denoise.StopMotifsPath)
	if err != nil {
		motifs = denoise.NewStopMotifCache()
	}
	denoise.MineStopMotifs(motifs, perEntityShingles, fileOf, "")
	rarity := denoise.BuildRarityModel(perEntityShingles)

	// denoise.Controller is seeded once for its static floors; this run
	// never calls Observe/Recalibrate since an offline analysis has no
	// precision/recall oracle to feed it.
	controller := denoise.NewController(opts.Config.Denoise.AutoCalibration, denoise.Floors{
		Similarity: opts.Config.Denoise.Similarity,
		Confidence: opts.Config.Denoise.ThresholdS,
	})
	floors := controller.Floors()

	// liveReachBoost needs the call graph; build it here if the impact
	// stage hasn't run yet (clones precedes impact in the stage order), so
	// the boost reflects real fan-in even though stageImpact computes the
	// graph's chokepoint ranking separately.
	if b.DepGraph == nil {
		b.DepGraph = depgraph.Build(b.Index)
	}

	budget := apted.NewBudget(lshCfg.APTEDMaxPairsPerEntity)
	seen := make(map[[2]entity.ID]bool)
	var candidates []denoise.Candidate

	for _, in := range minhashInputs {
		peers := cliqueIdx.PeerSet(in.ID)
		for _, cand := range mhIdx.FindSimilar(in.ID, lshCfg.MaxCandidates, peers) {
			if cand.Similarity < floors.Similarity {
				continue
			}
			pair := orderedPair(in.ID, cand.ID)
			if seen[pair] {
				continue
			}
			seen[pair] = true

			dc := buildClonePayoffCandidate(opts, b, rarity, motifs, budget, perEntityShingles, pair[0], pair[1], cand.Similarity)
			candidates = append(candidates, dc)
		}
	}

	ranked := denoise.Rank(candidates, opts.Config.Denoise.Ranking)
	b.ClonePairs = make([]ClonePair, 0, len(ranked))
	for _, c := range ranked {
		b.ClonePairs = append(b.ClonePairs, ClonePair{
			EntityA:    c.EntityA,
			EntityB:    c.EntityB,
			Similarity: c.QualityScore,
			Payoff:     denoise.Payoff(c),
		})
	}
	return nil
}

func isCloneEligible(e *entity.Entity) bool {
	switch e.Kind {
	case entity.KindFunction, entity.KindMethod:
		return true
	default:
		return false
	}
}

func orderedPair(a, b entity.ID) [2]entity.ID {
	if a <= b {
		return [2]entity.ID{a, b}
	}
	return [2]entity.ID{b, a}
}

// buildClonePayoffCandidate assembles one denoise.Candidate from every
// available signal: AST edit-distance verification (budget-gated), a
// def-use proxy PDG similarity, and the blended similarity, with rarity
// gain drawn from the corpus-wide TF-IDF model and any stop-motif
// dampening applied.
func buildClonePayoffCandidate(
	opts Options,
	b *Bundle,
	rarity *denoise.RarityModel,
	motifs *denoise.StopMotifCache,
	budget *apted.Budget,
	perEntityShingles map[entity.ID][]string,
	a, bID entity.ID,
	lshSimilarity float64,
) denoise.Candidate {
	ea, eb := b.Index.Get(a), b.Index.Get(bID)

	astSim := lshSimilarity
	if opts.Config.LSH.VerifyWithAPTED && ea != nil && eb != nil && budget.Allow(string(a)) {
		ctxA, ctxB := b.ASTContexts[ea.File], b.ASTContexts[eb.File]
		if ctxA != nil && ctxB != nil {
			treeA := ctxA.FindEntityNode(ea)
			treeB := ctxB.FindEntityNode(eb)
			if detail := apted.Verify(treeA, treeB, opts.Config.LSH.APTEDMaxNodes); detail != nil {
				astSim = detail.Similarity
			}
		}
	}

	pdgSim := 0.0
	if ea != nil && eb != nil {
		pdgSim = denoise.PDGSimilarity(denoise.ExtractDefUseEdges(ea.Source), denoise.ExtractDefUseEdges(eb.Source))
	}
	blended := denoise.BlendSimilarity(opts.Config.Denoise.Weights, astSim, pdgSim, 0, false)

	savedTokens := 0
	if ea != nil {
		savedTokens = len(minhash.Tokenize(minhash.Normalize(ea.Source)))
	}
	shared := sharedShingles(perEntityShingles, a, bID)
	gain := 1.0
	if rarity != nil {
		gain = rarity.RarityGain(shared, motifs, "")
	}

	return denoise.Candidate{
		EntityA:        a,
		EntityB:        bID,
		SavedTokens:    savedTokens,
		RarityGain:     gain,
		LiveReachBoost: liveReachBoost(b, a, bID),
		QualityScore:   blended,
		Confidence:     lshSimilarity,
	}
}

// sharedShingles intersects the two entities' already-computed shingle
// sets (built once in stageClones) rather than recomputing them.
func sharedShingles(perEntityShingles map[entity.ID][]string, a, bID entity.ID) []string {
	sa := toSet(perEntityShingles[a])
	var shared []string
	for _, s := range perEntityShingles[bID] {
		if sa[s] {
			shared = append(shared, s)
		}
	}
	sort.Strings(shared)
	return shared
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, i := range items {
		out[i] = true
	}
	return out
}

// liveReachBoost weights a clone pair by how reachable each side is in the
// call graph (spec §4.F item 2 "live-reach boost") — a clone in dead code
// is worth less to fix than one on a path the graph actually exercises.
func liveReachBoost(b *Bundle, a, bID entity.ID) float64 {
	if b.DepGraph == nil {
		return 1.0
	}
	na, okA := b.DepGraph.Node(a)
	nb, okB := b.DepGraph.Node(bID)
	if !okA || !okB {
		return 1.0
	}
	boost := 1.0 + 0.05*float64(na.FanIn+nb.FanIn)
	if boost > 2.0 {
		boost = 2.0
	}
	return boost
}
