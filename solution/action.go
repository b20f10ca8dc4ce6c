// Package solution - do/undo journal of structural operations.
//
// Design:
//   - Every recording operation appends the action itself to do-list 1
//     and its inverse to undo-list 1, in call order.
//   - Replaying do-list 1 onto a twin solution reproduces the operations;
//     replaying undo-list 1 in reverse rolls the twin back. Do-list 2 is
//     a staging area that accumulates accepted do-list 1 batches until
//     they are flushed onto the incumbent best solution.
//   - Replayed actions never journal themselves.
//
// Contracts:
//   - Lists must be cleared by the caller between iterations; the journal
//     never clears itself.
//   - Replaying a list onto a solution that is not in the state the list
//     was recorded against is undefined.
package solution

type actionKind uint8

const (
	actionInsertVertex actionKind = iota
	actionRemoveVertex
	actionCreateRoute
	actionRemoveRoute
	actionReverseRoutePath
	actionCreateOneCustomerRoute
	actionRemoveOneCustomerRoute
)

type action struct {
	kind  actionKind
	route int
	i, j  int
}

// ApplyDoList1 replays the recorded do-list 1 onto dst in order.
func (s *Solution) ApplyDoList1(dst *Solution) {
	var i int
	for i = 0; i < len(s.doList1); i++ {
		applyAction(dst, s.doList1[i])
	}
}

// ApplyDoList2 replays the staged do-list 2 onto dst in order.
func (s *Solution) ApplyDoList2(dst *Solution) {
	var i int
	for i = 0; i < len(s.doList2); i++ {
		applyAction(dst, s.doList2[i])
	}
}

// ApplyUndoList1 replays the undo-list 1 onto dst in reverse order,
// rolling back everything recorded since the list was last cleared.
func (s *Solution) ApplyUndoList1(dst *Solution) {
	var i int
	for i = len(s.undoList1) - 1; i >= 0; i-- {
		applyAction(dst, s.undoList1[i])
	}
}

// AppendDoList1ToDoList2 stages the current do-list 1 behind do-list 2.
func (s *Solution) AppendDoList1ToDoList2() {
	s.doList2 = append(s.doList2, s.doList1...)
}

// ClearDoList1 empties do-list 1 keeping its storage.
func (s *Solution) ClearDoList1() { s.doList1 = s.doList1[:0] }

// ClearDoList2 empties do-list 2 keeping its storage.
func (s *Solution) ClearDoList2() { s.doList2 = s.doList2[:0] }

// ClearUndoList1 empties undo-list 1 keeping its storage.
func (s *Solution) ClearUndoList1() { s.undoList1 = s.undoList1[:0] }

func applyAction(dst *Solution, act action) {
	switch act.kind {
	case actionInsertVertex:
		if dst.IsRouteInSolution(act.route) {
			dst.insertVertexBefore(act.route, act.j, act.i, false)
		} else {
			// The route was released in the meantime; the vertex comes
			// back as a fresh one-customer route.
			dst.buildOneCustomerRoute(act.i, false)
		}
	case actionRemoveVertex:
		dst.removeVertex(act.route, act.i, false)
	case actionCreateRoute:
		// Pool bookkeeping only; the matching insert rebuilds the route.
	case actionRemoveRoute:
		dst.removeRoute(act.route, false)
	case actionReverseRoutePath:
		dst.reverseRoutePath(act.route, act.i, act.j, false)
	case actionCreateOneCustomerRoute:
		dst.buildOneCustomerRoute(act.i, false)
	case actionRemoveOneCustomerRoute:
		dst.removeVertex(act.route, act.i, false)
		dst.removeRoute(act.route, false)
	}
}
