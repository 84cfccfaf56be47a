package domain

import "sort"

// BuildIndex computes the sorted ordinal permutation for an indexable column:
// the returned P satisfies column[P[i]] <= column[P[i+1]], ties broken by
// ascending original position.
func BuildIndex(col Column, t PhysicalType) ([]uint32, error) {
	if !t.IsIndexable() {
		return nil, ValidationError("type %q is not indexable", t)
	}
	perm := make([]uint32, len(col))
	for i := range perm {
		perm[i] = uint32(i)
	}

	var sortErr error
	sort.SliceStable(perm, func(i, j int) bool {
		if sortErr != nil {
			return false
		}
		c, err := CompareValues(col[perm[i]], col[perm[j]])
		if err != nil {
			sortErr = err
			return false
		}
		return c < 0
	})
	if sortErr != nil {
		return nil, Wrap(sortErr, KindEncode, "cannot order column of type %q", t)
	}
	return perm, nil
}

// IsPermutation reports whether perm is a bijection over [0, n).
func IsPermutation(perm []uint32, n int) bool {
	if len(perm) != n {
		return false
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if int(p) >= n || seen[p] {
			return false
		}
		seen[p] = true
	}
	return true
}
