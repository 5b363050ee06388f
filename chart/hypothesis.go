package chart

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/hpsg"
	"github.com/npillmayer/hpsg/grammar"
)

// Selective (n-best) unpacking: instead of regenerating the whole forest,
// derivations are enumerated lazily in descending model-score order, one
// hypothesis at a time ("cube pruning"). Hypotheses are scored per
// grandparent path, the bounded-length list of ancestor edges, so the
// model can condition on more context than the strictly local tree.

// itemPath is a bounded-length list of ancestor items, most recent last.
type itemPath []Item

// TrimPath truncates a grandparent path to the given level by dropping the
// leftmost (oldest) entries.
func TrimPath(path []Item, gplevel int) []Item {
	for len(path) > gplevel {
		path = path[1:]
	}
	return path
}

func (p itemPath) extend(it Item, gplevel int) itemPath {
	np := make(itemPath, len(p), len(p)+1)
	copy(np, p)
	np = append(np, it)
	return itemPath(TrimPath(np, gplevel))
}

// key maps the path to a map key. Paths are short (gplevel ≤ 3 in
// practice), so hashing the id vector is cheap.
func (p itemPath) key() string {
	ids := make([]int, len(p))
	for i, it := range p {
		ids[i] = it.ID()
	}
	h, err := structhash.Hash(struct{ IDs []int }{ids}, 1)
	if err != nil { // no reason for this to happen, but API demands it
		panic(err)
	}
	return h
}

// indexKey maps an index vector to a 64-bit key for the seen-set of a
// decomposition.
func indexKey(indices []int) uint64 {
	var buf [8]byte
	h := xxhash.New()
	for _, ix := range indices {
		binary.LittleEndian.PutUint64(buf[:], uint64(ix))
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Decomposition is, for one chart edge, a choice of one packed alternative
// per daughter slot.
type Decomposition struct {
	rhs  []Item
	seen *hashset.Set // index vectors already explored
}

func newDecomposition(rhs []Item) *Decomposition {
	return &Decomposition{rhs: rhs, seen: hashset.New()}
}

// markSeen returns false if the index vector was already recorded.
func (d *Decomposition) markSeen(indices []int) bool {
	k := indexKey(indices)
	if d.seen.Contains(k) {
		return false
	}
	d.seen.Add(k)
	return true
}

// Hypothesis is a (decomposition, per-daughter choice-index vector) pair,
// ordered by model score and lazily enumerated during selective unpacking.
type Hypothesis struct {
	edge          Item
	decomposition *Decomposition
	dtrs          []*Hypothesis
	indices       []int
	scores        map[string]float64 // per grandparent-path key
	instEdge      Item               // cached instantiated edge
	instFailed    bool
}

// Edge returns the chart edge this hypothesis belongs to.
func (h *Hypothesis) Edge() Item { return h.edge }

// SubHypotheses returns the chosen hypothesis for each daughter.
func (h *Hypothesis) SubHypotheses() []*Hypothesis { return h.dtrs }

// RHS returns the decomposition's choice of daughter edges, nil for leaf
// hypotheses.
func (h *Hypothesis) RHS() []Item {
	if h.decomposition == nil {
		return nil
	}
	return h.decomposition.rhs
}

// Indices returns the choice-index vector.
func (h *Hypothesis) Indices() []int { return h.indices }

// ScoreFor returns the cached score of this hypothesis under the given
// (already trimmed) grandparent path.
func (h *Hypothesis) ScoreFor(path []Item) (float64, bool) {
	s, ok := h.scores[itemPath(path).key()]
	return s, ok
}

func (h *Hypothesis) setScore(key string, s float64) {
	if h.scores == nil {
		h.scores = make(map[string]float64)
	}
	h.scores[key] = s
}

func (h *Hypothesis) scoreAt(key string) float64 {
	return h.scores[key]
}

// advanceIndices computes the neighbours of an index vector in the index
// lattice, e.g. <0 2 1> → {<1 2 1> <0 3 1> <0 2 2>}.
func advanceIndices(indices []int) [][]int {
	results := make([][]int, 0, len(indices))
	for i := range indices {
		next := make([]int, len(indices))
		copy(next, indices)
		next[i]++
		results = append(results, next)
	}
	return results
}

// hypoAgenda is a per-path agenda of hypotheses, sorted descendingly by
// the score under that path. Insertion keeps equal-scored hypotheses in
// FIFO order.
type hypoAgenda struct {
	path  itemPath
	key   string
	hypos []*Hypothesis
}

func (ag *hypoAgenda) insert(h *Hypothesis) {
	s := h.scoreAt(ag.key)
	for i, other := range ag.hypos {
		if s > other.scoreAt(ag.key) {
			ag.hypos = append(ag.hypos, nil)
			copy(ag.hypos[i+1:], ag.hypos[i:])
			ag.hypos[i] = h
			return
		}
	}
	ag.hypos = append(ag.hypos, h)
}

func (ag *hypoAgenda) pop() *Hypothesis {
	h := ag.hypos[0]
	ag.hypos = ag.hypos[1:]
	return h
}

func (ag *hypoAgenda) empty() bool { return len(ag.hypos) == 0 }

// --- hypothesize_edge ------------------------------------------------------

// Input items take no part in hypothesis enumeration.
func (in *InputItem) hypothesizeEdge(env *unpackEnv, path itemPath, i int) *Hypothesis {
	return nil
}

// Lexical items have exactly one hypothesis.
func (l *LexItem) hypothesizeEdge(env *unpackEnv, path itemPath, i int) *Hypothesis {
	if i != 0 {
		return nil
	}
	if l.lexHypo == nil {
		l.lexHypo = &Hypothesis{edge: l}
		env.stats.Hypotheses++
	}
	path = TrimPath(path, env.gplevel)
	l.lexHypo.setScore(itemPath(path).key(),
		env.model.ScoreHypothesis(l.lexHypo, path, env.gplevel))
	return l.lexHypo
}

// hypothesizeEdge returns the i-th best hypothesis of this edge under the
// given grandparent path, enumerating further hypotheses on demand.
func (p *PhrasalItem) hypothesizeEdge(env *unpackEnv, path itemPath, i int) *Hypothesis {
	if env.res.Exhausted() {
		env.stats.Exhausted = true
		return nil
	}
	path = itemPath(TrimPath(path, env.gplevel))
	key := path.key()
	if p.hypoAgendas == nil {
		p.hypoAgendas = make(map[string]*hypoAgenda)
		p.hypoPaths = make(map[string][]*Hypothesis)
		p.hypoPathMax = make(map[string]int)
	}
	ag, ok := p.hypoAgendas[key]
	if !ok {
		// A new path: initialize its agenda by rescoring all existing
		// hypotheses under it.
		ag = &hypoAgenda{path: path, key: key}
		for _, h := range p.hypotheses {
			h.setScore(key, env.model.ScoreHypothesis(h, path, env.gplevel))
			ag.insert(h)
		}
		p.hypoAgendas[key] = ag
		p.hypoPathMax[key] = math.MaxInt
	}
	if cached := p.hypoPaths[key]; i < len(cached) {
		return cached[i]
	}
	if i >= p.hypoPathMax[key] {
		return nil
	}
	newpath := path.extend(p, env.gplevel)

	// The very first call seeds one hypothesis per decomposition with the
	// index vector (0,0,…).
	if i == 0 && !p.decomposed {
		p.decomposed = true
		for _, decomposition := range p.decomposeEdge() {
			dtrs := make([]*Hypothesis, 0, len(decomposition.rhs))
			indices := make([]int, 0, len(decomposition.rhs))
			for _, edge := range decomposition.rhs {
				dtr := edge.hypothesizeEdge(env, newpath, 0)
				if dtr == nil {
					dtrs = nil
					break
				}
				dtrs = append(dtrs, dtr)
				indices = append(indices, 0)
			}
			if len(dtrs) != 0 {
				p.newHypothesis(env, decomposition, dtrs, indices)
				decomposition.markSeen(indices)
			}
		}
	}

	for !ag.empty() && i >= len(p.hypoPaths[key]) {
		hypo := ag.pop()
		queue := advanceIndices(hypo.indices)
		for len(queue) > 0 {
			indices := queue[0]
			queue = queue[1:]
			// skip seen configurations
			if !hypo.decomposition.markSeen(indices) {
				continue
			}
			dtrs := make([]*Hypothesis, 0, len(indices))
			var failedIdx []int
			for idx, edge := range hypo.decomposition.rhs {
				dtr := edge.hypothesizeEdge(env, newpath, indices[idx])
				if dtr == nil {
					dtrs = nil
					break
				}
				if dtr.instFailed { // record the failed positions
					failedIdx = append(failedIdx, idx)
				}
				dtrs = append(dtrs, dtr)
			}
			switch {
			case len(dtrs) == 0:
				// at least one daughter hypothesis does not exist
				continue
			case len(failedIdx) > 0:
				// A daughter failed to instantiate: skip creating the
				// hypothesis, but still explore past the failure.
				next := make([]int, len(indices))
				copy(next, indices)
				for _, fi := range failedIdx {
					next[fi]++
				}
				queue = append(queue, next)
			default:
				p.newHypothesis(env, hypo.decomposition, dtrs, indices)
			}
		}
		p.hypoPaths[key] = append(p.hypoPaths[key], hypo)
	}
	if i < len(p.hypoPaths[key]) {
		if ag.empty() {
			p.hypoPathMax[key] = len(p.hypoPaths[key])
		}
		return p.hypoPaths[key][i]
	}
	p.hypoPathMax[key] = len(p.hypoPaths[key])
	return nil
}

// decomposeEdge enumerates the decompositions of this edge: for every
// daughter position the choices are the daughter itself and all its
// non-frozen packed alternatives; the Cartesian product of the choices
// gives the decompositions.
func (p *PhrasalItem) decomposeEdge() []*Decomposition {
	if len(p.daughters) == 0 {
		return nil
	}
	choices := make([][]Item, len(p.daughters))
	dnum := 1
	for i, d := range p.daughters {
		choices[i] = append(choices[i], d)
		for _, packed := range d.Packed() {
			if !packed.Frozen() {
				choices[i] = append(choices[i], packed)
			}
		}
		dnum *= len(choices[i])
	}
	decompositions := make([]*Decomposition, 0, dnum)
	for i := 0; i < dnum; i++ {
		rhs := make([]Item, len(choices))
		j := i
		for k := range choices {
			rhs[k] = choices[k][j%len(choices[k])]
			j /= len(choices[k])
		}
		decompositions = append(decompositions, newDecomposition(rhs))
	}
	return decompositions
}

// newHypothesis creates a hypothesis and inserts it, scored, into every
// known path agenda of this edge.
func (p *PhrasalItem) newHypothesis(env *unpackEnv, d *Decomposition,
	dtrs []*Hypothesis, indices []int) {
	//
	hypo := &Hypothesis{edge: p, decomposition: d, dtrs: dtrs, indices: indices}
	env.stats.Hypotheses++
	p.hypotheses = append(p.hypotheses, hypo)
	for _, ag := range p.hypoAgendas {
		hypo.setScore(ag.key, env.model.ScoreHypothesis(hypo, ag.path, env.gplevel))
		ag.insert(hypo)
	}
}

// --- instantiate_hypothesis ------------------------------------------------

func (in *InputItem) instantiateHypothesis(env *unpackEnv, path itemPath, hypo *Hypothesis) Item {
	if s, ok := hypo.ScoreFor(path); ok {
		in.SetScore(s)
	}
	return in
}

func (l *LexItem) instantiateHypothesis(env *unpackEnv, path itemPath, hypo *Hypothesis) Item {
	if s, ok := hypo.ScoreFor(path); ok {
		l.SetScore(s)
	}
	return l
}

// instantiateHypothesis recursively instantiates the sub-hypotheses and
// replays the rule's unifications over the resulting daughters.
func (p *PhrasalItem) instantiateHypothesis(env *unpackEnv, path itemPath, hypo *Hypothesis) Item {
	if env.res.Exhausted() {
		env.stats.Exhausted = true
		return nil
	}
	if hypo.instEdge != nil {
		return hypo.instEdge
	}
	// Failed hypotheses stay cached; exploration continues past them via
	// the index-advance fallback in hypothesizeEdge.
	if hypo.instFailed {
		return nil
	}
	path = itemPath(TrimPath(path, env.gplevel))
	newpath := path.extend(p, env.gplevel)

	daughters := make([]Item, 0, len(hypo.dtrs))
	for _, sub := range hypo.dtrs {
		dtr := sub.edge.instantiateHypothesis(env, newpath, sub)
		if dtr == nil {
			return nil
		}
		daughters = append(daughters, dtr)
	}

	// Replay the unification.
	u := env.u
	scope := u.Mark()
	f := p.rule.Instantiate(u)
	tofill := p.rule.ToFill
	for k, argpos := range tofill {
		if f == nil {
			break
		}
		arg := u.NthArg(f, argpos)
		if k < len(tofill)-1 {
			f = u.UnifyNP(f, arg, daughters[argpos-1].FullFS())
		} else {
			f = u.UnifyRestrict(f, arg, daughters[argpos-1].FullFS(), env.g.DeletedDaughters())
		}
	}
	if f == nil {
		scope.Release()
		hypo.instFailed = true
		env.stats.Failures++
		return nil
	}
	scope.Promote()
	result := p.owner.NewUnpackedPhrasal(p, daughters, f)
	env.res.PEdges++
	if s, ok := hypo.ScoreFor(path); ok {
		result.SetScore(s)
	}
	hypo.instEdge = result
	return result
}

// --- selectively_unpack ----------------------------------------------------

// rootHypo is an entry of the result agenda: the i-th best hypothesis of a
// root edge.
type rootHypo struct {
	edge  Item
	hypo  *Hypothesis
	index int
	seq   int
}

// SelectivelyUnpack extracts up to nsolutions best readings from the
// forest given by roots, under the scoring model. The result agenda holds
// the current best hypothesis per root edge; whenever one is consumed its
// successor (index+1) is requested lazily.
func SelectivelyUnpack(roots []Item, nsolutions int, end int, g grammar.Grammar,
	model ScoringModel, gplevel int, res *hpsg.Resources) ([]Item, UnpackStats) {
	//
	var results []Item
	env := &unpackEnv{g: g, u: g.Unifier(), model: model, res: res,
		gplevel: gplevel, stats: &UnpackStats{}}
	if env.model == nil {
		env.model = NullModel{}
	}
	if nsolutions <= 0 {
		return results, *env.stats
	}
	path := itemPath(TrimPath(nil, gplevel)) // root context
	key := path.key()
	seq := 0
	agenda := &rootAgenda{key: key}
	push := func(edge Item, hypo *Hypothesis, index int) {
		agenda.insert(&rootHypo{edge: edge, hypo: hypo, index: index, seq: seq})
		seq++
	}
	for _, root := range roots {
		if root.Blocked() {
			continue
		}
		if hypo := root.hypothesizeEdge(env, path, 0); hypo != nil {
			push(root, hypo, 0)
		}
		for _, edge := range root.Packed() {
			if edge.Frozen() { // ignore frozen edges
				continue
			}
			if hypo := edge.hypothesizeEdge(env, path, 0); hypo != nil {
				push(edge, hypo, 0)
			}
		}
	}
	for !agenda.empty() && nsolutions > 0 {
		top := agenda.pop()
		result := top.edge.instantiateHypothesis(env, path, top.hypo)
		if res.Exhausted() {
			env.stats.Exhausted = true
			return results, *env.stats
		}
		if result != nil {
			if root, ok := result.RootCheck(g, end); ok {
				result.SetResultRoot(root)
				results = append(results, result)
				nsolutions--
				if nsolutions == 0 {
					break
				}
			}
		}
		if next := top.edge.hypothesizeEdge(env, path, top.index+1); next != nil {
			push(top.edge, next, top.index+1)
		}
	}
	return results, *env.stats
}

// rootAgenda keeps root hypotheses sorted descendingly by score under the
// root path; FIFO among equal scores.
type rootAgenda struct {
	key     string
	entries []*rootHypo
}

func (ra *rootAgenda) insert(rh *rootHypo) {
	s := rh.hypo.scoreAt(ra.key)
	for i, other := range ra.entries {
		if s > other.hypo.scoreAt(ra.key) {
			ra.entries = append(ra.entries, nil)
			copy(ra.entries[i+1:], ra.entries[i:])
			ra.entries[i] = rh
			return
		}
	}
	ra.entries = append(ra.entries, rh)
}

func (ra *rootAgenda) pop() *rootHypo {
	rh := ra.entries[0]
	ra.entries = ra.entries[1:]
	return rh
}

func (ra *rootAgenda) empty() bool { return len(ra.entries) == 0 }

// NullModel is a scoring model assigning zero to everything. With it,
// selective unpacking enumerates the same multiset of readings as
// exhaustive unpacking (in unspecified order).
type NullModel struct{}

func (NullModel) ScoreLeaf(it Item) float64 { return 0 }
func (NullModel) ScoreLocalTree(r *grammar.Rule, daughters []Item) float64 {
	return 0
}
func (NullModel) ScoreHypothesis(h *Hypothesis, path []Item, gplevel int) float64 {
	return 0
}
