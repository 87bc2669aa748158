package glass

// Surfaces measures each node in world space, in order.
func Surfaces(matches []Match) []*Surface {
	out := make([]*Surface, len(matches))
	for i, m := range matches {
		out[i] = NewSurface(m.Node)
	}
	return out
}

// Candidates converts surfaces into classifier input.
func Candidates(pool []*Surface) []Candidate {
	out := make([]Candidate, len(pool))
	for i, s := range pool {
		out[i] = Candidate{
			Index:    i,
			Position: s.Position,
			ProxyKey: s.ProxyKey,
		}
	}
	return out
}

// Commit renames every assigned node to its role and returns the surface
// for each role. A surface holding two roles takes the name of the first in
// slot order.
func Commit(pool []*Surface, a Assignment) map[Key]*Surface {
	out := make(map[Key]*Surface, len(a))
	renamed := make(map[*Surface]bool, len(a))
	for _, k := range Keys {
		idx, ok := a[k]
		if !ok || idx < 0 || idx >= len(pool) {
			continue
		}
		s := pool[idx]
		out[k] = s
		if !renamed[s] {
			s.Node.Name = string(k)
			renamed[s] = true
		}
	}
	return out
}
