package rendercontrol

import (
	"github.com/pkg/errors"
)

// ScratchpadSize is the number of scratch variables the engine provides.
const ScratchpadSize = 100

// ErrScratchpadFull is returned when an expression graph needs more scratch
// variables than the engine provides.
var ErrScratchpadFull = errors.New("scratchpad memory is full")

// Scratchpad hands out scratch variable ids.
type Scratchpad struct {
	used [ScratchpadSize]bool
}

// Clear frees all variables.
func (s *Scratchpad) Clear() {
	s.used = [ScratchpadSize]bool{}
}

// Alloc returns the lowest free variable id.
func (s *Scratchpad) Alloc() (uint32, error) {
	for i, used := range s.used {
		if !used {
			s.used[i] = true
			return uint32(i), nil
		}
	}

	return 0, errors.Wrapf(ErrScratchpadFull, "all %d variables in use", ScratchpadSize)
}

// Free releases id. Out of range ids are ignored.
func (s *Scratchpad) Free(id uint32) {
	if id < ScratchpadSize {
		s.used[id] = false
	}
}

// InUse returns the number of allocated variables.
func (s *Scratchpad) InUse() (n int) {
	for _, used := range s.used {
		if used {
			n++
		}
	}

	return n
}
