package apted

// postorderSeq flattens a tree into postorder node order alongside, for
// each position, the postorder index of its leftmost leaf descendant
// ("l(i)" in Zhang-Shasha's notation) — both 1-indexed, with index 0
// reserved as the "empty forest" sentinel.
type postorderSeq struct {
	nodes    []*SimpleNode // 1-indexed; nodes[0] is unused
	leftmost []int         // 1-indexed; leftmost[i] = postorder index of i's leftmost leaf
}

func flatten(root *SimpleNode) *postorderSeq {
	seq := &postorderSeq{nodes: []*SimpleNode{nil}, leftmost: []int{0}}
	if root == nil {
		return seq
	}
	var walk func(n *SimpleNode) int // returns this node's own postorder index
	walk = func(n *SimpleNode) int {
		if len(n.Children) == 0 {
			seq.nodes = append(seq.nodes, n)
			idx := len(seq.nodes) - 1
			seq.leftmost = append(seq.leftmost, idx)
			return idx
		}
		firstLeftmost := -1
		for _, c := range n.Children {
			childIdx := walk(c)
			if firstLeftmost == -1 {
				firstLeftmost = seq.leftmost[childIdx]
			}
		}
		seq.nodes = append(seq.nodes, n)
		idx := len(seq.nodes) - 1
		seq.leftmost = append(seq.leftmost, firstLeftmost)
		return idx
	}
	walk(root)
	return seq
}

// keyroots returns, in ascending order, every index i such that no index
// k > i shares the same leftmost-leaf value (the classic Zhang-Shasha
// keyroot set).
func (s *postorderSeq) keyroots() []int {
	seen := make(map[int]bool)
	var roots []int
	for i := len(s.nodes) - 1; i >= 1; i-- {
		l := s.leftmost[i]
		if !seen[l] {
			seen[l] = true
			roots = append(roots, i)
		}
	}
	// roots was collected descending; reverse for ascending keyroot order.
	for i, j := 0, len(roots)-1; i < j; i, j = i+1, j-1 {
		roots[i], roots[j] = roots[j], roots[i]
	}
	return roots
}

// EditDistance computes the minimum ordered tree edit distance between a
// and b with unit insert/delete cost and rename cost 0 when kind-hashes
// match, 1 otherwise (spec §4.E). Either tree may be nil (empty forest).
func EditDistance(a, b *SimpleNode) int {
	if a == nil && b == nil {
		return 0
	}
	t1, t2 := flatten(a), flatten(b)
	n1, n2 := len(t1.nodes)-1, len(t2.nodes)-1
	if n1 == 0 {
		return n2
	}
	if n2 == 0 {
		return n1
	}

	treedist := make([][]int, n1+1)
	for i := range treedist {
		treedist[i] = make([]int, n2+1)
	}

	for _, i := range t1.keyroots() {
		for _, j := range t2.keyroots() {
			forestDist(t1, t2, i, j, treedist)
		}
	}
	return treedist[n1][n2]
}

func forestDist(t1, t2 *postorderSeq, i, j int, treedist [][]int) {
	li, lj := t1.leftmost[i], t2.leftmost[j]

	// fd is indexed over the forest ranges [li-1..i] x [lj-1..j]; offset by
	// li-1 and lj-1 so indices start at 0.
	rows := i - (li - 1) + 1
	cols := j - (lj - 1) + 1
	fd := make([][]int, rows)
	for r := range fd {
		fd[r] = make([]int, cols)
	}

	for r := 1; r < rows; r++ {
		fd[r][0] = fd[r-1][0] + 1 // delete node at (li-1)+r
	}
	for c := 1; c < cols; c++ {
		fd[0][c] = fd[0][c-1] + 1 // insert node at (lj-1)+c
	}

	for r := 1; r < rows; r++ {
		i1 := (li - 1) + r
		for c := 1; c < cols; c++ {
			j1 := (lj - 1) + c
			if t1.leftmost[i1] == li && t2.leftmost[j1] == lj {
				renameCost := 0
				if t1.nodes[i1].KindHash != t2.nodes[j1].KindHash {
					renameCost = 1
				}
				del := fd[r-1][c] + 1
				ins := fd[r][c-1] + 1
				ren := fd[r-1][c-1] + renameCost
				fd[r][c] = min3(del, ins, ren)
				treedist[i1][j1] = fd[r][c]
			} else {
				li1r := t1.leftmost[i1] - (li - 1)
				lj1c := t2.leftmost[j1] - (lj - 1)
				del := fd[r-1][c] + 1
				ins := fd[r][c-1] + 1
				ren := fd[li1r-1][lj1c-1] + treedist[i1][j1]
				fd[r][c] = min3(del, ins, ren)
			}
		}
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
