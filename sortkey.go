package canopy

import "fmt"

// SortKey orders drawables within a controller. Keys compare
// lexicographically over their three weights; lower keys paint first.
type SortKey struct {
	Weight [3]int64
}

// NewSortKey builds a key from up to three weights. Unset weights are zero.
func NewSortKey(w ...int64) SortKey {
	if len(w) > 3 {
		panic(fmt.Sprintf("canopy: sort key takes at most 3 weights, got %d", len(w)))
	}
	var k SortKey
	copy(k.Weight[:], w)
	return k
}

// Compare returns -1, 0 or +1 as k sorts before, equal to or after o.
func (k SortKey) Compare(o SortKey) int {
	for i := range k.Weight {
		switch {
		case k.Weight[i] < o.Weight[i]:
			return -1
		case k.Weight[i] > o.Weight[i]:
			return 1
		}
	}
	return 0
}

// Less reports whether k sorts strictly before o.
func (k SortKey) Less(o SortKey) bool { return k.Compare(o) < 0 }

func (k SortKey) String() string {
	return fmt.Sprintf("(%d, %d, %d)", k.Weight[0], k.Weight[1], k.Weight[2])
}
