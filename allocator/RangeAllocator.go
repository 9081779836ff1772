// Package allocator manages a fixed, contiguous range of identifiers that can
// be rented, hold a payload, be freed and be withdrawn from service.
//
// A RangeAllocator is not safe for concurrent use. Callers sharing one
// instance must serialize access themselves.
package allocator

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/google/btree"
)

// MaxSlots is the largest range a single allocator accepts. Every slot is
// backed by memory from construction on.
const MaxSlots = 1 << 20

// Slot facts are kept as parallel bit sets plus a payload arena, all
// addressed by offset = id - min.
type RangeAllocator[P any] struct {
	min    int
	max    int
	cursor int // advisory, in [min, max+1]

	allocated       *bitset.BitSet
	outOfCommission *bitset.BitSet
	occupied        *bitset.BitSet
	payloads        []P

	available *btree.BTreeG[int]
}

// Slot is a read-only snapshot of one identifier. It never carries the
// payload.
type Slot struct {
	ID              int  `json:"id"`
	Allocated       bool `json:"allocated"`
	OutOfCommission bool `json:"out_of_commission"`
	Occupied        bool `json:"occupied"`
}

type Stats struct {
	Total           int `json:"total"`
	Rented          int `json:"rented"`
	OutOfCommission int `json:"out_of_commission"`
	Occupied        int `json:"occupied"`
	Available       int `json:"available"`
}

func New[P any](min, max int) (*RangeAllocator[P], error) {

	if min <= 0 || max <= 0 {
		return nil, fmt.Errorf("%w: bounds must be positive, got [%d, %d]", ErrorInvalidRange, min, max)
	}
	if max <= min {
		return nil, fmt.Errorf("%w: max must be greater than min, got [%d, %d]", ErrorInvalidRange, min, max)
	}
	if max-min >= MaxSlots {
		return nil, fmt.Errorf("%w: at most %d slots, got [%d, %d]", ErrorInvalidRange, MaxSlots, min, max)
	}

	size := uint(max - min + 1)
	a := &RangeAllocator[P]{
		min:             min,
		max:             max,
		cursor:          min,
		allocated:       bitset.New(size),
		outOfCommission: bitset.New(size),
		occupied:        bitset.New(size),
		payloads:        make([]P, size),
		available:       btree.NewOrderedG[int](32),
	}
	for id := min; id <= max; id++ {
		a.available.ReplaceOrInsert(id)
	}

	return a, nil
}

func (a *RangeAllocator[P]) Min() int {
	return a.min
}

func (a *RangeAllocator[P]) Max() int {
	return a.max
}

func (a *RangeAllocator[P]) Len() int {
	return len(a.payloads)
}

// Available returns how many slots Rent could still hand out.
func (a *RangeAllocator[P]) Available() int {
	return a.available.Len()
}

// Rent takes the first available slot at or after the cursor, wrapping to
// min when the tail of the range has nothing left.
func (a *RangeAllocator[P]) Rent() (int, error) {

	id, found := a.firstAvailableFrom(a.cursor)
	if !found {
		id, found = a.available.Min()
	}
	if !found {
		return 0, fmt.Errorf("%w in [%d, %d]", ErrorNoAvailableSlot, a.min, a.max)
	}

	a.available.Delete(id)
	a.allocated.Set(a.offset(id))

	next, found := a.firstAvailableFrom(id + 1)
	if !found {
		next = a.max + 1
	}
	a.cursor = next

	return id, nil
}

func (a *RangeAllocator[P]) Free(id int) error {

	i, err := a.allocatedOffset(id)
	if err != nil {
		return err
	}

	var empty P
	a.allocated.Clear(i)
	a.occupied.Clear(i)
	a.payloads[i] = empty

	if !a.outOfCommission.Test(i) {
		a.available.ReplaceOrInsert(id)
	}

	if id < a.cursor {
		a.cursor = id
	}

	return nil
}

// Deposit stores payload in a rented slot, replacing whatever was there.
func (a *RangeAllocator[P]) Deposit(id int, payload P) error {

	i, err := a.allocatedOffset(id)
	if err != nil {
		return err
	}

	a.payloads[i] = payload
	a.occupied.Set(i)

	return nil
}

// Get returns the payload of a rented slot, or the zero value of P if nothing
// was deposited.
func (a *RangeAllocator[P]) Get(id int) (P, error) {

	i, err := a.allocatedOffset(id)
	if err != nil {
		var empty P
		return empty, err
	}

	return a.payloads[i], nil
}

func (a *RangeAllocator[P]) MarkOutOfCommission(id int) error {

	i, err := a.validOffset(id)
	if err != nil {
		return err
	}

	a.outOfCommission.Set(i)
	a.available.Delete(id)

	return nil
}

func (a *RangeAllocator[P]) MarkOperational(id int) error {

	i, err := a.validOffset(id)
	if err != nil {
		return err
	}

	a.outOfCommission.Clear(i)
	if !a.allocated.Test(i) {
		a.available.ReplaceOrInsert(id)
	}

	return nil
}

func (a *RangeAllocator[P]) Inspect(id int) (Slot, error) {

	i, err := a.validOffset(id)
	if err != nil {
		return Slot{}, err
	}

	return a.snapshot(i), nil
}

// Traverse visits every slot in ascending id order until f returns false.
func (a *RangeAllocator[P]) Traverse(f func(s Slot) bool) {
	for i := range a.payloads {
		if !f(a.snapshot(uint(i))) {
			return
		}
	}
}

func (a *RangeAllocator[P]) Stats() Stats {
	return Stats{
		Total:           len(a.payloads),
		Rented:          int(a.allocated.Count()),
		OutOfCommission: int(a.outOfCommission.Count()),
		Occupied:        int(a.occupied.Count()),
		Available:       a.available.Len(),
	}
}

func (a *RangeAllocator[P]) firstAvailableFrom(from int) (id int, found bool) {
	a.available.AscendGreaterOrEqual(from, func(item int) bool {
		id = item
		found = true
		return false
	})
	return
}

func (a *RangeAllocator[P]) offset(id int) uint {
	return uint(id - a.min)
}

func (a *RangeAllocator[P]) validOffset(id int) (uint, error) {
	if id < a.min || id > a.max {
		return 0, fmt.Errorf("%w: %d is outside [%d, %d]", ErrorInvalidID, id, a.min, a.max)
	}
	return a.offset(id), nil
}

func (a *RangeAllocator[P]) allocatedOffset(id int) (uint, error) {
	i, err := a.validOffset(id)
	if err != nil {
		return 0, err
	}
	if !a.allocated.Test(i) {
		return 0, fmt.Errorf("%w: slot %d", ErrorNotAllocated, id)
	}
	return i, nil
}

func (a *RangeAllocator[P]) snapshot(i uint) Slot {
	return Slot{
		ID:              a.min + int(i),
		Allocated:       a.allocated.Test(i),
		OutOfCommission: a.outOfCommission.Test(i),
		Occupied:        a.occupied.Test(i),
	}
}
