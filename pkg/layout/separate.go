package layout

import "sort"

// separateISetLevels relocates information-set groups so that no two
// multi-member groups share an integer level. The group with the
// lowest (player, iset) key keeps its natural level; later groups move
// to the nearest free level strictly between their parents and
// children. When no free level exists inside that window, the
// descendant subtrees are pushed down to make room. Levels holding
// terminal nodes are never reused for a relocated group.
func (l *Layout) separateISetLevels() {
	if len(l.groups) == 0 {
		return
	}

	lookup := make(map[nodeKey]*node)
	for _, n := range l.idOrder {
		lookup[l.ids[n]] = n
	}

	terminalLevels := make(map[int]bool)
	for _, n := range l.idOrder {
		if n.rec != nil && n.rec.Kind == "t" {
			terminalLevels[l.ids[n].level] = true
		}
	}

	multi := make(map[groupKey][]nodeKey)
	for gk, entries := range l.groups {
		if len(entries) >= 2 {
			multi[gk] = entries
		}
	}

	occupied := make(map[int]bool)
	for lv := range terminalLevels {
		occupied[lv] = true
	}
	for _, entries := range multi {
		for _, e := range entries {
			occupied[e.level] = true
		}
	}

	levelGroups := make(map[int]map[groupKey]bool)
	for gk, entries := range multi {
		for _, e := range entries {
			if levelGroups[e.level] == nil {
				levelGroups[e.level] = make(map[groupKey]bool)
			}
			levelGroups[e.level][gk] = true
		}
	}

	levels := make([]int, 0, len(levelGroups))
	for lv := range levelGroups {
		levels = append(levels, lv)
	}
	sort.Ints(levels)

	for _, il := range levels {
		gks := make([]groupKey, 0, len(levelGroups[il]))
		for gk := range levelGroups[il] {
			gks = append(gks, gk)
		}
		sort.Slice(gks, func(i, j int) bool {
			if gks[i].player != gks[j].player {
				return gks[i].player < gks[j].player
			}
			return gks[i].iset < gks[j].iset
		})
		if len(gks) <= 1 {
			continue
		}
		for _, gk := range gks[1:] {
			atLevel := false
			for _, e := range l.groups[gk] {
				if e.level == il && lookup[e] != nil {
					atLevel = true
				}
			}
			if !atLevel {
				continue
			}

			var groupNodes []*node
			for _, e := range l.groups[gk] {
				if n := lookup[e]; n != nil {
					groupNodes = append(groupNodes, n)
				}
			}

			parentMax := -100000
			childMin := 100000
			for _, n := range groupNodes {
				if n.parent != nil && n.parent.level > parentMax {
					parentMax = n.parent.level
				}
				for _, c := range n.children {
					if c.level < childMin {
						childMin = c.level
					}
				}
			}
			minAllowed := parentMax + 1
			maxAllowed := childMin - 1

			candidate, found := 0, false
			if minAllowed <= il && il <= maxAllowed && !occupied[il] {
				candidate, found = il, true
			}
			if !found {
				for offset := 1; offset <= 200 && !found; offset++ {
					for _, cand := range [2]int{il + offset, il - offset} {
						if cand < minAllowed || cand > maxAllowed || occupied[cand] {
							continue
						}
						candidate, found = cand, true
						break
					}
				}
			}
			if !found {
				for cand := minAllowed; cand <= maxAllowed; cand++ {
					if !occupied[cand] {
						candidate, found = cand, true
						break
					}
				}
			}
			if !found {
				cand := minAllowed
				if il+1 > cand {
					cand = il + 1
				}
				for occupied[cand] {
					cand++
				}
				if cand > maxAllowed {
					// push the subtrees below the group down so the
					// freed level is not shared with terminals
					shift := cand - maxAllowed
					seen := make(map[*node]bool)
					var descendants []*node
					var collect func(n *node)
					collect = func(n *node) {
						if seen[n] {
							return
						}
						seen[n] = true
						descendants = append(descendants, n)
						for _, c := range n.children {
							collect(c)
						}
					}
					for _, n := range groupNodes {
						for _, c := range n.children {
							collect(c)
						}
					}
					for _, d := range descendants {
						oldLevel := d.level
						d.level += shift
						key, ok := l.ids[d]
						if !ok {
							continue
						}
						key.level = d.level
						l.ids[d] = key
						for g, entries := range l.groups {
							for i, e := range entries {
								if e.level == oldLevel && e.id == key.id {
									l.groups[g][i] = nodeKey{level: d.level, id: e.id}
								}
							}
						}
						delete(lookup, nodeKey{level: oldLevel, id: key.id})
						lookup[key] = d
					}
					for _, d := range descendants {
						occupied[d.level] = true
					}
				}
				candidate = cand
			}

			for _, n := range groupNodes {
				key := l.ids[n]
				delete(lookup, key)
				n.level = candidate
				key.level = candidate
				l.ids[n] = key
				lookup[key] = n
			}
			occupied[candidate] = true
			entries := l.groups[gk]
			for i, e := range entries {
				entries[i] = nodeKey{level: candidate, id: e.id}
			}
		}
	}
}

// enforceSpacingAfterSeparation restores the two-level edge spacing
// that relocation may have broken, then rebuilds the group table from
// the final node levels.
func (l *Layout) enforceSpacingAfterSeparation() {
	changed := true
	for changed {
		changed = false
		for _, n := range l.idOrder {
			if n.parent == nil {
				continue
			}
			if n.level < n.parent.level+2 {
				n.level = n.parent.level + 2
				key := l.ids[n]
				key.level = n.level
				l.ids[n] = key
				changed = true
			}
		}
	}

	l.groups = make(map[groupKey][]nodeKey)
	l.groupOrder = nil
	for _, n := range l.idOrder {
		if n.rec == nil || n.rec.ISet < 0 || n.rec.Player < 0 {
			continue
		}
		gk := groupKey{player: n.rec.Player, iset: n.rec.ISet}
		if _, ok := l.groups[gk]; !ok {
			l.groupOrder = append(l.groupOrder, gk)
		}
		l.groups[gk] = append(l.groups[gk], l.ids[n])
	}
	for gk, entries := range l.groups {
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].level != entries[j].level {
				return entries[i].level < entries[j].level
			}
			return entries[i].id < entries[j].id
		})
		l.groups[gk] = entries
	}
}
