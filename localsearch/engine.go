// Package localsearch - rough best-improvement engine.
//
// Design:
//   - Seeding walks the solution's SVC and prices every active generator
//     involving a cached vertex, inserting the improving ones into the
//     shared heap. A per-vertex timestamp dedups pairs whose other
//     endpoint was already priced in the same phase.
//   - The scan walks the heap in storage order. Executing a move marks
//     the touched vertices in the affected set together with their
//     update bits, and the refresh phase reprices exactly those
//     generators before the scan restarts from the heap head.
//
// Contracts:
//   - Symmetric operators price the even generator of each pair only;
//     asymmetric operators price both orientations independently.
//   - A repriced generator whose delta no longer clears the tolerance
//     is removed from the heap, never left stale.
package localsearch

import (
	"github.com/katalvlaran/cvrp/containers"
	"github.com/katalvlaran/cvrp/instance"
	"github.com/katalvlaran/cvrp/movegen"
	"github.com/katalvlaran/cvrp/solution"
)

// infeasibleDelta marks structurally impossible moves. It never clears
// any tolerance, so such generators stay out of the heap.
const infeasibleDelta = 1e30

// hooks is the operator-specific part of the engine.
type hooks interface {
	symmetric() bool
	pre(s *solution.Solution)
	post(s *solution.Solution)
	delta(s *solution.Solution, i, j int) float64
	feasible(s *solution.Solution, mg *movegen.MoveGenerator) bool
	execute(s *solution.Solution, mg *movegen.MoveGenerator, affected *containers.SparseIntSet)
}

// Operator is a single local search neighborhood bound to an instance
// and its move-generator registry.
type Operator struct {
	kind      Kind
	inst      *instance.Instance
	gens      *movegen.Generators
	tolerance float64
	partial   bool
	ops       hooks
	affected  *containers.SparseIntSet
}

// New builds the operator of the given kind over the registry.
func New(kind Kind, inst *instance.Instance, gens *movegen.Generators, opts Options) (*Operator, error) {
	if err := validateOptionsStandalone(opts); err != nil {
		return nil, err
	}

	base := opBase{inst: inst, gens: gens}
	ops, err := buildHooks(kind, base, opts)
	if err != nil {
		return nil, err
	}

	return &Operator{
		kind:      kind,
		inst:      inst,
		gens:      gens,
		tolerance: opts.Tolerance,
		partial:   opts.AllowPartial,
		ops:       ops,
		affected:  containers.NewSparseIntSet(inst.VerticesNum()),
	}, nil
}

// Kind returns the operator kind.
func (op *Operator) Kind() Kind { return op.kind }

// Name returns the stable operator name.
func (op *Operator) Name() string { return op.kind.String() }

// Apply runs the descent until no generator in the heap yields a
// feasible improving move. Reports whether the solution changed.
func (op *Operator) Apply(s *solution.Solution) bool {
	heap := op.gens.Heap()
	heap.Reset()

	op.ops.pre(s)
	if op.ops.symmetric() {
		op.seedSymmetric(s)
	} else {
		op.seedAsymmetric(s)
	}

	var (
		improved bool
		index    int
		mg       *movegen.MoveGenerator
	)
	for index < heap.Size() {
		mg = heap.Spy(index)
		index++

		if op.partial && !op.served(s, mg) {
			continue
		}
		if !op.ops.feasible(s, mg) {
			continue
		}

		op.ops.execute(s, mg, op.affected)
		improved = true
		index = 0

		if op.ops.symmetric() {
			op.refreshSymmetric(s)
		} else {
			op.refreshAsymmetric(s)
		}
		op.affected.Clear()
	}

	op.ops.post(s)

	return improved
}

func (op *Operator) served(s *solution.Solution, mg *movegen.MoveGenerator) bool {
	return s.IsVertexInSolution(mg.FirstVertex()) && s.IsVertexInSolution(mg.SecondVertex())
}

// seedSymmetric prices the even generator of every pair involving an
// SVC vertex. The depot is processed last so customer neighborhoods are
// complete before its large fan-out is priced.
func (op *Operator) seedSymmetric(s *solution.Solution) {
	op.gens.IncrementTimestamp()

	var (
		now          = op.gens.Timestamp()
		stamps       = op.gens.VertexTimestamps()
		depot        = op.inst.Depot()
		processDepot bool
		vertex       int
	)
	for vertex = s.SVCBegin(); vertex != s.SVCEnd(); vertex = s.SVCNext(vertex) {
		if vertex == depot {
			processDepot = true

			continue
		}
		op.seedSymmetricVertex(s, vertex, now)
		stamps[vertex] = now
	}
	if processDepot {
		op.seedSymmetricVertex(s, depot, now)
		stamps[depot] = now
	}
}

func (op *Operator) seedSymmetricVertex(s *solution.Solution, vertex int, now uint64) {
	stamps := op.gens.VertexTimestamps()

	var (
		mg    *movegen.MoveGenerator
		other int
	)
	for _, idx := range op.gens.IndicesInvolving1st(vertex) {
		mg = op.gens.Get(movegen.Base(idx))
		other = mg.SecondVertex()
		if other == vertex {
			other = mg.FirstVertex()
		}
		if stamps[other] == now {
			continue
		}
		op.seed(s, mg)
	}
}

// seedAsymmetric prices both orientations of every pair involving an
// SVC vertex.
func (op *Operator) seedAsymmetric(s *solution.Solution) {
	op.gens.IncrementTimestamp()

	var (
		now          = op.gens.Timestamp()
		stamps       = op.gens.VertexTimestamps()
		depot        = op.inst.Depot()
		processDepot bool
		vertex       int
	)
	for vertex = s.SVCBegin(); vertex != s.SVCEnd(); vertex = s.SVCNext(vertex) {
		if vertex == depot {
			processDepot = true

			continue
		}
		op.seedAsymmetricVertex(s, vertex, now)
		stamps[vertex] = now
	}
	if processDepot {
		op.seedAsymmetricVertex(s, depot, now)
		stamps[depot] = now
	}
}

func (op *Operator) seedAsymmetricVertex(s *solution.Solution, vertex int, now uint64) {
	stamps := op.gens.VertexTimestamps()

	for _, idx := range op.gens.IndicesInvolving1st(vertex) {
		if stamps[op.gens.Get(idx).SecondVertex()] == now {
			continue
		}
		op.seed(s, op.gens.Get(idx))
		op.seed(s, op.gens.Get(movegen.Twin(idx)))
	}
}

func (op *Operator) seed(s *solution.Solution, mg *movegen.MoveGenerator) {
	if op.partial && !op.served(s, mg) {
		return
	}

	delta := op.ops.delta(s, mg.FirstVertex(), mg.SecondVertex())
	mg.SetDelta(delta)
	if delta < -op.tolerance {
		op.gens.Heap().Insert(mg)
	}
}

// refreshSymmetric reprices the pairs involving an affected vertex.
func (op *Operator) refreshSymmetric(s *solution.Solution) {
	op.gens.IncrementTimestamp()

	var (
		now          = op.gens.Timestamp()
		stamps       = op.gens.VertexTimestamps()
		bits         = op.gens.UpdateBits()
		depot        = op.inst.Depot()
		processDepot bool
	)
	for _, vertex := range op.affected.Elements() {
		if vertex == depot {
			processDepot = true

			continue
		}
		op.refreshSymmetricVertex(s, vertex, now)
	}
	if processDepot {
		op.refreshSymmetricVertex(s, depot, now)
		stamps[depot] = now
	}

	for _, vertex := range op.affected.Elements() {
		bits.Set(vertex, movegen.UpdateBitsFirst, false)
		bits.Set(vertex, movegen.UpdateBitsSecond, false)
	}
}

func (op *Operator) refreshSymmetricVertex(s *solution.Solution, vertex int, now uint64) {
	stamps := op.gens.VertexTimestamps()

	var (
		mg    *movegen.MoveGenerator
		other int
	)
	for _, idx := range op.gens.IndicesInvolving1st(vertex) {
		mg = op.gens.Get(movegen.Base(idx))
		other = mg.SecondVertex()
		if other == vertex {
			other = mg.FirstVertex()
		}
		if stamps[other] == now {
			continue
		}
		op.reprice(s, mg)
	}
}

// refreshAsymmetric reprices the orientations selected by the update
// bits of each affected vertex, skipping directions a previously
// processed endpoint already covered.
func (op *Operator) refreshAsymmetric(s *solution.Solution) {
	op.gens.IncrementTimestamp()

	var (
		now    = op.gens.Timestamp()
		stamps = op.gens.VertexTimestamps()
		bits   = op.gens.UpdateBits()
	)
	for _, vertex := range op.affected.Elements() {
		first := bits.At(vertex, movegen.UpdateBitsFirst)
		second := bits.At(vertex, movegen.UpdateBitsSecond)

		switch {
		case first && second:
			for _, idx := range op.gens.IndicesInvolving1st(vertex) {
				mg := op.gens.Get(idx)
				twin := op.gens.Get(movegen.Twin(idx))
				j := mg.SecondVertex()
				if stamps[j] == now {
					if !bits.At(j, movegen.UpdateBitsSecond) {
						op.reprice(s, mg)
					}
					if !bits.At(j, movegen.UpdateBitsFirst) {
						op.reprice(s, twin)
					}

					continue
				}
				op.reprice(s, mg)
				op.reprice(s, twin)
			}
		case first:
			for _, idx := range op.gens.IndicesInvolving1st(vertex) {
				mg := op.gens.Get(idx)
				j := mg.SecondVertex()
				if stamps[j] == now && bits.At(j, movegen.UpdateBitsSecond) {
					continue
				}
				op.reprice(s, mg)
			}
		case second:
			for _, idx := range op.gens.IndicesInvolving1st(vertex) {
				j := op.gens.Get(idx).SecondVertex()
				if stamps[j] == now && bits.At(j, movegen.UpdateBitsFirst) {
					continue
				}
				op.reprice(s, op.gens.Get(movegen.Twin(idx)))
			}
		}

		stamps[vertex] = now
	}

	for _, vertex := range op.affected.Elements() {
		bits.Set(vertex, movegen.UpdateBitsFirst, false)
		bits.Set(vertex, movegen.UpdateBitsSecond, false)
	}
}

// reprice recomputes the delta of mg and reconciles its heap residency.
func (op *Operator) reprice(s *solution.Solution, mg *movegen.MoveGenerator) {
	if op.partial && !op.served(s, mg) {
		if mg.HeapIndex() != movegen.Unheaped {
			op.gens.Heap().Remove(mg.HeapIndex())
		}

		return
	}

	delta := op.ops.delta(s, mg.FirstVertex(), mg.SecondVertex())
	heap := op.gens.Heap()

	if delta >= -op.tolerance {
		if mg.HeapIndex() != movegen.Unheaped {
			heap.Remove(mg.HeapIndex())
		}
		mg.SetDelta(delta)

		return
	}

	if mg.HeapIndex() == movegen.Unheaped {
		mg.SetDelta(delta)
		heap.Insert(mg)

		return
	}
	heap.ChangeValue(mg.HeapIndex(), delta)
}

// opBase carries what every operator needs to price and mark moves.
type opBase struct {
	inst *instance.Instance
	gens *movegen.Generators
}

// mark records the vertices whose incident arcs changed, sets both
// update bits on each, and widens the set by reach hops along the
// current routes so every generator whose pricing window overlaps the
// change is repriced.
func (b *opBase) mark(s *solution.Solution, affected *containers.SparseIntSet, reach int, vertices ...int) {
	bits := b.gens.UpdateBits()
	depot := b.inst.Depot()

	add := func(v int) {
		affected.Insert(v)
		bits.Set(v, movegen.UpdateBitsFirst, true)
		bits.Set(v, movegen.UpdateBitsSecond, true)
	}

	var (
		v, u, k int
	)
	for _, v = range vertices {
		add(v)
		if v == depot || !s.IsVertexInSolution(v) {
			continue
		}

		u = v
		for k = 0; k < reach; k++ {
			u = s.PrevVertex(u)
			add(u)
			if u == depot {
				break
			}
		}
		u = v
		for k = 0; k < reach; k++ {
			u = s.NextVertex(u)
			add(u)
			if u == depot {
				break
			}
		}
	}
}

func buildHooks(kind Kind, base opBase, opts Options) (hooks, error) {
	switch kind {
	case Relocate1:
		return newRelocate(base, 1, false), nil
	case Relocate2:
		return newRelocate(base, 2, false), nil
	case Relocate3:
		return newRelocate(base, 3, false), nil
	case RevRelocate2:
		return newRelocate(base, 2, true), nil
	case RevRelocate3:
		return newRelocate(base, 3, true), nil
	case Swap11:
		return newSwap(base, 1, 1, false, false), nil
	case Swap21:
		return newSwap(base, 2, 1, false, false), nil
	case Swap22:
		return newSwap(base, 2, 2, false, false), nil
	case Swap31:
		return newSwap(base, 3, 1, false, false), nil
	case Swap32:
		return newSwap(base, 3, 2, false, false), nil
	case Swap33:
		return newSwap(base, 3, 3, false, false), nil
	case RevSwap21:
		return newSwap(base, 2, 1, true, false), nil
	case RevSwap22First:
		return newSwap(base, 2, 2, true, false), nil
	case RevSwap22Both:
		return newSwap(base, 2, 2, true, true), nil
	case RevSwap31:
		return newSwap(base, 3, 1, true, false), nil
	case RevSwap32First:
		return newSwap(base, 3, 2, true, false), nil
	case RevSwap32Both:
		return newSwap(base, 3, 2, true, true), nil
	case RevSwap33First:
		return newSwap(base, 3, 3, true, false), nil
	case RevSwap33Both:
		return newSwap(base, 3, 3, true, true), nil
	case TwoOpt:
		return newTwoOpt(base), nil
	case SplitExchange:
		return newSplitExchange(base), nil
	case TailsExchange:
		return newTailsExchange(base), nil
	case EjectionChain:
		if opts.AllowPartial {
			return nil, ErrPartialUnsupported
		}

		return newEjectionChain(base, opts.Tolerance), nil
	default:
		return nil, ErrUnknownKind
	}
}
