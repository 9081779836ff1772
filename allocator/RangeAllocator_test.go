package allocator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func mustNew[P any](t *testing.T, min, max int) *RangeAllocator[P] {
	t.Helper()
	a, err := New[P](min, max)
	if err != nil {
		t.Fatalf("new allocator [%d, %d]: %v", min, max, err)
	}
	return a
}

func mustRent[P any](t *testing.T, a *RangeAllocator[P], expected int) {
	t.Helper()
	id, err := a.Rent()
	if err != nil {
		t.Fatalf("rent: unexpected error %v", err)
	}
	if id != expected {
		t.Fatalf("rent: expected id=%d, got %d", expected, id)
	}
}

func TestNew_InvalidRange(t *testing.T) {

	cases := []struct {
		min, max int
	}{
		{5, 5},
		{6, 5},
		{0, 5},
		{-3, 5},
		{-5, -1},
		{1, math.MaxInt},
		{1, MaxSlots + 1},
		{10, 10 + MaxSlots},
	}

	for _, c := range cases {
		_, err := New[string](c.min, c.max)
		if !errors.Is(err, ErrorInvalidRange) {
			t.Fatalf("[%d, %d]: expected ErrorInvalidRange, got %v", c.min, c.max, err)
		}
	}
}

func TestNew_LargestRange(t *testing.T) {

	a := mustNew[string](t, 1, MaxSlots)

	if a.Len() != MaxSlots || a.Available() != MaxSlots {
		t.Fatalf("expected %d slots, got len=%d available=%d", MaxSlots, a.Len(), a.Available())
	}
	mustRent(t, a, 1)
}

func TestNew_ValidRange(t *testing.T) {

	a := mustNew[string](t, 5, 6)

	if a.Min() != 5 || a.Max() != 6 || a.Len() != 2 {
		t.Fatalf("unexpected bounds min=%d max=%d len=%d", a.Min(), a.Max(), a.Len())
	}
	if a.Available() != 2 {
		t.Fatalf("expected 2 available, got %d", a.Available())
	}

	a.Traverse(func(s Slot) bool {
		if s.Allocated || s.OutOfCommission || s.Occupied {
			t.Fatalf("expected fresh slot, got %+v", s)
		}
		return true
	})
}

func TestRent_Exhaustion(t *testing.T) {

	a := mustNew[string](t, 1, 3)

	mustRent(t, a, 1)
	mustRent(t, a, 2)
	mustRent(t, a, 3)

	_, err := a.Rent()
	if !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}
}

func TestRent_SkipsOutOfCommission(t *testing.T) {

	a := mustNew[string](t, 1, 3)

	mustRent(t, a, 1)
	if err := a.MarkOutOfCommission(2); err != nil {
		t.Fatalf("mark out of commission: %v", err)
	}
	mustRent(t, a, 3)

	_, err := a.Rent()
	if !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}
}

func TestRent_CursorRewindsOnFree(t *testing.T) {

	a := mustNew[string](t, 1, 2)

	mustRent(t, a, 1)
	if err := a.Free(1); err != nil {
		t.Fatalf("free: %v", err)
	}
	mustRent(t, a, 1)
}

func TestRent_WrapsAround(t *testing.T) {

	a := mustNew[string](t, 10, 14)

	a.MarkOutOfCommission(10)
	for id := 11; id <= 14; id++ {
		mustRent(t, a, id)
	}

	// cursor is past max, 10 is only reachable by wrapping to min
	a.MarkOperational(10)
	mustRent(t, a, 10)

	a.Free(12)
	a.Free(14)
	mustRent(t, a, 12)
	mustRent(t, a, 14)
}

func TestRent_SearchesFromCursorBeforeWrapping(t *testing.T) {

	a := mustNew[string](t, 1, 5)

	mustRent(t, a, 1)
	mustRent(t, a, 2)
	mustRent(t, a, 3)

	// 1 is out of commission while rented, so freeing it rewinds the cursor
	// but does not make it rentable
	a.MarkOutOfCommission(1)
	a.Free(1)
	mustRent(t, a, 4)

	// returning 1 to service does not move the cursor: search continues at 5
	a.MarkOperational(1)
	mustRent(t, a, 5)
	mustRent(t, a, 1)
}

func TestFree_Errors(t *testing.T) {

	a := mustNew[string](t, 1, 3)

	if err := a.Free(0); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
	if err := a.Free(4); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
	if err := a.Free(2); !errors.Is(err, ErrorNotAllocated) {
		t.Fatalf("expected ErrorNotAllocated, got %v", err)
	}
}

func TestDepositGet_RoundTrip(t *testing.T) {

	a := mustNew[string](t, 1, 3)
	mustRent(t, a, 1)

	v, err := a.Get(1)
	if err != nil || v != "" {
		t.Fatalf("expected empty payload, got v=%q err=%v", v, err)
	}

	if err := a.Deposit(1, "umbrella"); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if err := a.Deposit(1, "coat"); err != nil {
		t.Fatalf("deposit: %v", err)
	}

	v, err = a.Get(1)
	if err != nil || v != "coat" {
		t.Fatalf("expected last deposit 'coat', got v=%q err=%v", v, err)
	}

	s, _ := a.Inspect(1)
	if !s.Allocated || !s.Occupied {
		t.Fatalf("expected allocated and occupied slot, got %+v", s)
	}

	a.Free(1)

	if _, err := a.Get(1); !errors.Is(err, ErrorNotAllocated) {
		t.Fatalf("expected ErrorNotAllocated after free, got %v", err)
	}

	s, _ = a.Inspect(1)
	if s.Allocated || s.Occupied {
		t.Fatalf("expected empty slot after free, got %+v", s)
	}

	// a new renter must not see the previous contents
	mustRent(t, a, 1)
	v, _ = a.Get(1)
	if v != "" {
		t.Fatalf("expected cleared payload, got %q", v)
	}
}

func TestDeposit_Errors(t *testing.T) {

	a := mustNew[string](t, 1, 3)

	if err := a.Deposit(7, "x"); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
	if err := a.Deposit(1, "x"); !errors.Is(err, ErrorNotAllocated) {
		t.Fatalf("expected ErrorNotAllocated, got %v", err)
	}
	if _, err := a.Get(-1); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
}

func TestCommission_Idempotent(t *testing.T) {

	a := mustNew[string](t, 1, 3)

	a.MarkOutOfCommission(2)
	once := a.Stats()
	a.MarkOutOfCommission(2)
	twice := a.Stats()

	if once != twice {
		t.Fatalf("expected same stats, got %+v and %+v", once, twice)
	}
	if twice.OutOfCommission != 1 || twice.Available != 2 {
		t.Fatalf("unexpected stats %+v", twice)
	}

	a.MarkOperational(2)
	a.MarkOperational(2)
	if s := a.Stats(); s.OutOfCommission != 0 || s.Available != 3 {
		t.Fatalf("unexpected stats %+v", s)
	}

	if err := a.MarkOutOfCommission(4); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
	if err := a.MarkOperational(0); !errors.Is(err, ErrorInvalidID) {
		t.Fatalf("expected ErrorInvalidID, got %v", err)
	}
}

func TestCommission_DoesNotEvict(t *testing.T) {

	a := mustNew[string](t, 1, 2)
	mustRent(t, a, 1)
	a.Deposit(1, "bike helmet")

	if err := a.MarkOutOfCommission(1); err != nil {
		t.Fatalf("mark out of commission: %v", err)
	}

	v, err := a.Get(1)
	if err != nil || v != "bike helmet" {
		t.Fatalf("expected occupant untouched, got v=%q err=%v", v, err)
	}

	// freed while out of commission: never handed out again until operational
	a.Free(1)
	mustRent(t, a, 2)
	if _, err := a.Rent(); !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}

	a.MarkOperational(1)
	mustRent(t, a, 1)
}

func TestExhaustion_FreeAllowsExactlyOneMore(t *testing.T) {

	const n = 50
	a := mustNew[int](t, 1, n)

	for i := 0; i < n; i++ {
		if _, err := a.Rent(); err != nil {
			t.Fatalf("rent %d: %v", i, err)
		}
	}
	if _, err := a.Rent(); !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}

	a.Free(17)
	mustRent(t, a, 17)

	if _, err := a.Rent(); !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}
}

func TestFailedCalls_DoNotMutate(t *testing.T) {

	a := mustNew[string](t, 1, 3)
	mustRent(t, a, 1)
	a.Deposit(1, "keys")
	a.MarkOutOfCommission(3)

	before := a.Stats()
	cursor := a.cursor

	a.Free(2)
	a.Free(9)
	a.Deposit(2, "x")
	a.Get(2)
	a.MarkOutOfCommission(0)
	a.MarkOperational(4)

	if a.Stats() != before {
		t.Fatalf("expected stats %+v, got %+v", before, a.Stats())
	}
	if a.cursor != cursor {
		t.Fatalf("expected cursor %d, got %d", cursor, a.cursor)
	}

	mustRent(t, a, 2)
	before = a.Stats()
	cursor = a.cursor
	if _, err := a.Rent(); !errors.Is(err, ErrorNoAvailableSlot) {
		t.Fatalf("expected ErrorNoAvailableSlot, got %v", err)
	}
	if a.Stats() != before || a.cursor != cursor {
		t.Fatalf("failed rent mutated state")
	}
}

// naive is a linear-scan model of the cursor search used to cross-check
// RangeAllocator on random workloads.
type naive struct {
	min, max  int
	cursor    int
	allocated map[int]bool
	disabled  map[int]bool
}

func (n *naive) free(id int) bool {
	return !n.allocated[id] && !n.disabled[id]
}

func (n *naive) rent() (int, bool) {
	for _, r := range [][2]int{{n.cursor, n.max}, {n.min, n.cursor - 1}} {
		for id := r[0]; id <= r[1]; id++ {
			if !n.free(id) {
				continue
			}
			n.allocated[id] = true
			n.cursor = n.max + 1
			for next := id + 1; next <= n.max; next++ {
				if n.free(next) {
					n.cursor = next
					break
				}
			}
			return id, true
		}
	}
	return 0, false
}

func TestRandomWorkload_MatchesLinearScan(t *testing.T) {

	const min, max = 100, 163

	a := mustNew[int](t, min, max)
	model := &naive{
		min:       min,
		max:       max,
		cursor:    min,
		allocated: map[int]bool{},
		disabled:  map[int]bool{},
	}

	r := rand.New(rand.NewSource(1))
	for i := 0; i < 20_000; i++ {
		id := min - 2 + r.Intn(max-min+5)
		switch op := r.Intn(100); {
		case op < 45:
			got, err := a.Rent()
			expected, ok := model.rent()
			if !ok {
				if !errors.Is(err, ErrorNoAvailableSlot) {
					t.Fatalf("step %d: expected exhaustion, got id=%d err=%v", i, got, err)
				}
				continue
			}
			if err != nil || got != expected {
				t.Fatalf("step %d: expected id=%d, got id=%d err=%v", i, expected, got, err)
			}
			if got < min || got > max {
				t.Fatalf("step %d: id %d out of range", i, got)
			}
			if model.disabled[got] {
				t.Fatalf("step %d: rented out of commission slot %d", i, got)
			}
			a.Deposit(got, got*10)
		case op < 80:
			err := a.Free(id)
			if model.allocated[id] {
				if err != nil {
					t.Fatalf("step %d: free %d: %v", i, id, err)
				}
				delete(model.allocated, id)
				if id < model.cursor {
					model.cursor = id
				}
			} else if err == nil {
				t.Fatalf("step %d: free %d should have failed", i, id)
			}
		case op < 90:
			if a.MarkOutOfCommission(id) == nil {
				model.disabled[id] = true
			}
		default:
			if a.MarkOperational(id) == nil {
				delete(model.disabled, id)
			}
		}

		if a.cursor != model.cursor {
			t.Fatalf("step %d: expected cursor %d, got %d", i, model.cursor, a.cursor)
		}
	}

	// every rented slot still holds its own payload
	for id := range model.allocated {
		v, err := a.Get(id)
		if err != nil || v != id*10 {
			t.Fatalf("slot %d: expected payload %d, got %d err=%v", id, id*10, v, err)
		}
	}
}

func BenchmarkRangeAllocator_RentFree(b *testing.B) {

	const n = 100_000

	a, _ := New[int](1, n)
	for i := 0; i < n/2; i++ {
		a.Rent()
	}

	r := rand.New(rand.NewSource(1))
	picks := make([]int, b.N)
	for i := range picks {
		picks[i] = 1 + r.Intn(n)
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if a.Free(picks[i]) != nil {
			a.Rent()
		}
	}
}
