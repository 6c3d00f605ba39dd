package desim

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator produces opaque string identifiers for events and objects.
// Unlike a sequence number, an ID plays no role in event ordering — it only
// needs to be unique, not comparable.
//
// A Simulator owns its own IDGenerator rather than sharing a process-wide
// singleton, so that multiple Simulator instances coexisting in one process
// (spec.md §9) never contend on, or leak determinism through, shared state.
type IDGenerator interface {
	Generate() string
}

// NewSequentialIDGenerator returns an IDGenerator that produces
// deterministic, monotonically increasing decimal IDs. This is the default
// used by NewSimulator, since it keeps a run reproducible (I6) end to end.
func NewSequentialIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewXIDGenerator returns an IDGenerator backed by github.com/rs/xid. IDs
// are globally unique but not deterministic across runs; use this only when
// a model's own logic does not depend on event IDs being reproducible.
func NewXIDGenerator() IDGenerator {
	return &xidGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type xidGenerator struct{}

func (xidGenerator) Generate() string {
	return xid.New().String()
}
