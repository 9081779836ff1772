package allocator

import "errors"

var (
	ErrorInvalidRange    = errors.New("invalid range")
	ErrorInvalidID       = errors.New("invalid id")
	ErrorNotAllocated    = errors.New("not allocated")
	ErrorNoAvailableSlot = errors.New("no available slot")
)
