package board

import "sort"

// HasMove reports whether any two 4-adjacent present cells share a color,
// i.e. whether some selection would match.
func HasMove(s Snapshot) bool {
	for r := range s {
		for c := range s[r] {
			cell := s[r][c]
			if !cell.Present {
				continue
			}
			if c+1 < len(s[r]) && s[r][c+1] == cell {
				return true
			}
			if r+1 < len(s) && s[r+1][c] == cell {
				return true
			}
		}
	}
	return false
}

// Groups returns every matchable group of the snapshot, largest first.
// Hosts use it for hints.
func Groups(s Snapshot) []*Mask {
	seen := make([][]bool, len(s))
	for r := range s {
		seen[r] = make([]bool, len(s[r]))
	}

	var groups []*Mask
	for r := range s {
		for c := range s[r] {
			if seen[r][c] || !s[r][c].Present {
				continue
			}
			m := Match(s, I(r, c))
			if m == nil {
				seen[r][c] = true
				continue
			}
			for _, idx := range m.Cells() {
				seen[idx.Row][idx.Col] = true
			}
			groups = append(groups, m)
		}
	}

	// Stable: equal-sized groups stay in row-major order of discovery
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Len() > groups[j].Len()
	})
	return groups
}
