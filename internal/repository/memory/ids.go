package memory

type kind int

const (
	kindUser kind = iota
	kindEmployee
	kindDocument
	kindPopulation
	kindInvestment
)

// idAllocator hands out ids either from one counter shared by every kind
// or from one counter per kind. Only per-kind uniqueness is part of the Store contract.
type idAllocator struct {
	perKind bool
	shared  int64
	byKind  map[kind]int64
}

func newIDAllocator(perKind bool) *idAllocator {
	return &idAllocator{perKind: perKind, byKind: make(map[kind]int64)}
}

func (a *idAllocator) next(k kind) int64 {
	if !a.perKind {
		a.shared++
		return a.shared
	}
	a.byKind[k]++
	return a.byKind[k]
}
