package allocator

// Allocator is the capability a facility needs from a locker range.
type Allocator[P any] interface {
	Rent() (int, error)
	Free(id int) error
	Deposit(id int, payload P) error
	Get(id int) (P, error)
	MarkOutOfCommission(id int) error
	MarkOperational(id int) error
}

var _ Allocator[any] = (*RangeAllocator[any])(nil)
