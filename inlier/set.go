// Package inlier provides compressed sets of dataset indices.
//
// A Set records which points of a caller-supplied dataset support a model.
// Indices always refer to the caller's ordering; the data itself is never copied.
package inlier

import (
	"fmt"
	"math"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// MaxIndex is the largest index a Set can hold.
const MaxIndex = math.MaxUint32

// Set is a set of dataset indices backed by a roaring bitmap.
//
// The zero value is not usable; use New or Of.
type Set struct {
	bm *roaring.Bitmap
}

// New returns an empty set.
func New() *Set {
	return &Set{bm: roaring.New()}
}

// Of returns a set containing the given indices.
func Of(indices ...int) *Set {
	s := New()
	for _, i := range indices {
		s.Add(i)
	}
	return s
}

// FromBitmap wraps an existing bitmap. The bitmap is not copied.
func FromBitmap(bm *roaring.Bitmap) *Set {
	if bm == nil {
		bm = roaring.New()
	}
	return &Set{bm: bm}
}

// Add inserts index i.
func (s *Set) Add(i int) {
	s.bm.Add(uint32(i))
}

// AddMany inserts a batch of indices.
func (s *Set) AddMany(indices []uint32) {
	s.bm.AddMany(indices)
}

// Contains reports whether index i is in the set.
func (s *Set) Contains(i int) bool {
	if i < 0 || uint64(i) > MaxIndex {
		return false
	}
	return s.bm.Contains(uint32(i))
}

// Len returns the number of indices in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return int(s.bm.GetCardinality())
}

// IsEmpty reports whether the set has no indices.
func (s *Set) IsEmpty() bool {
	return s == nil || s.bm.IsEmpty()
}

// Indices returns the indices in ascending order.
func (s *Set) Indices() []int {
	if s == nil {
		return nil
	}
	raw := s.bm.ToArray()
	out := make([]int, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	return out
}

// Or adds every index of o to s.
func (s *Set) Or(o *Set) {
	if o == nil {
		return
	}
	s.bm.Or(o.bm)
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	return &Set{bm: s.bm.Clone()}
}

// IsSuperset reports whether s contains every index of o.
func (s *Set) IsSuperset(o *Set) bool {
	if o.IsEmpty() {
		return true
	}
	if s.IsEmpty() {
		return false
	}
	return roaring.AndNot(o.bm, s.bm).IsEmpty()
}

// Equal reports whether s and o hold the same indices.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	return s.IsSuperset(o)
}

// Complement returns, in ascending order, the indices in [0, n) that are not in s.
func (s *Set) Complement(n int) []int {
	all := roaring.New()
	if n > 0 {
		all.AddRange(0, uint64(n))
	}
	if s != nil {
		all.AndNot(s.bm)
	}
	return FromBitmap(all).Indices()
}

// Bitmap exposes the underlying bitmap. Mutating it mutates the set.
func (s *Set) Bitmap() *roaring.Bitmap {
	return s.bm
}

// String formats the set as "{0, 1, 2}".
func (s *Set) String() string {
	idx := s.Indices()
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = fmt.Sprint(v)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Union returns a new set holding every index of the given sets.
func Union(sets ...*Set) *Set {
	bms := make([]*roaring.Bitmap, 0, len(sets))
	for _, s := range sets {
		if s != nil {
			bms = append(bms, s.bm)
		}
	}
	if len(bms) == 0 {
		return New()
	}
	return &Set{bm: roaring.FastOr(bms...)}
}
