package bury

import "bytes"

// AreCompatible implements the CompatibilityChecker (spec.md §4.9): two
// or more passwords are compatible for simultaneous use against the same
// carrier iff none of their offset pixels falls inside any other
// password's stride-pixel walk, up to the largest offset among them.
//
// Two identical passwords are always reported incompatible: they derive
// the same PDP, so burying with both would walk the same pixels twice.
func AreCompatible(passwords ...[]byte) (bool, error) {
	if len(passwords) < 2 {
		return false, errNotEnoughPasswords
	}

	for i := 0; i < len(passwords); i++ {
		for j := i + 1; j < len(passwords); j++ {
			if bytes.Equal(passwords[i], passwords[j]) {
				return false, nil
			}
		}
	}

	pdps := make([]PDP, len(passwords))
	for i, pw := range passwords {
		pdp, err := DeriveKey(pw)
		if err != nil {
			return false, err
		}
		pdps[i] = pdp
	}

	maxOffset := 0
	for _, p := range pdps {
		if int(p.Offset) > maxOffset {
			maxOffset = int(p.Offset)
		}
	}

	walks := make([]map[int]struct{}, len(pdps))
	for i, p := range pdps {
		walks[i] = walkPixelsUpTo(p, maxOffset)
	}

	for i := range pdps {
		for j := range pdps {
			if i == j {
				continue
			}
			if _, collide := walks[j][int(pdps[i].Offset)]; collide {
				return false, nil
			}
		}
	}

	return true, nil
}

// walkPixelsUpTo generates p's stride-pixel walk starting from its
// offset, stopping once the cumulative index exceeds limit.
func walkPixelsUpTo(p PDP, limit int) map[int]struct{} {
	visited := make(map[int]struct{})
	sg := NewStrideGenerator(p.StrideSeed, p.MaxStride)
	cursor := int(p.Offset)
	for cursor <= limit {
		cursor += sg.Next()
		visited[cursor] = struct{}{}
	}
	return visited
}
