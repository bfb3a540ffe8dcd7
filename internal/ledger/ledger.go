package ledger

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
)

// Epsilon is the tolerance for every comparison of a balance against zero.
// Amounts are floats; never compare them with == directly.
const Epsilon = 1e-9

var (
	ErrUnknownMember    = errors.New("thành viên không tồn tại")
	ErrUnsettledBalance = errors.New("thành viên còn dư nợ, không thể xóa")
	ErrNoOtherMember    = errors.New("không còn thành viên nào khác để cân nợ")
)

// Graph selects which debt graph an accessor reads.
type Graph string

const (
	Original  Graph = "original"
	Optimized Graph = "optimized"
)

// Ledger tracks pairwise debts between the members of one group.
// original holds the raw accumulated edges exactly as recorded;
// optimized holds the last computed settlement plan. An edge
// original[a][b] = x means a owes b the amount x (x may be negative
// when payments overshoot the recorded debt).
type Ledger struct {
	mu        sync.RWMutex
	groupID   string
	members   map[string]struct{}
	original  map[string]map[string]float64
	optimized map[string]map[string]float64
}

func New(groupID string) *Ledger {
	return &Ledger{
		groupID:   groupID,
		members:   make(map[string]struct{}),
		original:  make(map[string]map[string]float64),
		optimized: make(map[string]map[string]float64),
	}
}

func (l *Ledger) GroupID() string {
	return l.groupID
}

// AddMember registers a member. Adding an existing member is a no-op.
func (l *Ledger) AddMember(member string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.members[member] = struct{}{}
}

// Members returns the registered member IDs in unspecified order.
func (l *Ledger) Members() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.members))
	for m := range l.members {
		out = append(out, m)
	}
	return out
}

// Update records that from owes to an additional amount. Unknown members
// are registered on the fly. A negative amount records a repayment; the
// reverse edge is left alone, netting only happens during settlement.
func (l *Ledger) Update(from, to string, amount float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.members[from] = struct{}{}
	l.members[to] = struct{}{}
	l.addEdge(l.original, from, to, amount)
}

func (l *Ledger) addEdge(graph map[string]map[string]float64, from, to string, amount float64) {
	edges, ok := graph[from]
	if !ok {
		edges = make(map[string]float64)
		graph[from] = edges
	}
	edges[to] += amount
}

// netBalance is money owed to the member minus money the member owes,
// summed over the whole graph. Callers must hold at least a read lock.
func (l *Ledger) netBalance(member string, graph map[string]map[string]float64) float64 {
	net := 0.0
	for _, edges := range graph {
		net += edges[member]
	}
	for _, amount := range graph[member] {
		net -= amount
	}
	return net
}

// RemoveMember deletes a member whose net balance is zero within tolerance.
// On failure nothing is modified.
func (l *Ledger) RemoveMember(member string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.removeMember(member)
}

func (l *Ledger) removeMember(member string) error {
	if _, ok := l.members[member]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, member)
	}
	net := l.netBalance(member, l.original)
	if net > Epsilon || net < -Epsilon {
		return fmt.Errorf("%w: %s (dư %.2f)", ErrUnsettledBalance, member, net)
	}
	delete(l.members, member)
	for _, graph := range []map[string]map[string]float64{l.original, l.optimized} {
		delete(graph, member)
		for other, edges := range graph {
			delete(edges, member)
			if len(edges) == 0 {
				delete(graph, other)
			}
		}
	}
	return nil
}

// ForceRemoveMember is an administrative escape hatch: when settleFirst is
// set and the member's balance is nonzero, a single corrective edge against
// an arbitrary other member is recorded to zero it out, the settlement plan
// is recomputed, and the member is removed. The corrective edge is not a
// real transaction.
func (l *Ledger) ForceRemoveMember(member string, settleFirst bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.members[member]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownMember, member)
	}
	if settleFirst {
		net := l.netBalance(member, l.original)
		if net > Epsilon || net < -Epsilon {
			other := ""
			for m := range l.members {
				if m != member {
					other = m
					break
				}
			}
			if other == "" {
				return ErrNoOtherMember
			}
			if net > Epsilon {
				// Member is owed money: cancel it out as a debt to other.
				l.addEdge(l.original, member, other, net)
			} else {
				l.addEdge(l.original, other, member, -net)
			}
		}
		l.settle()
	}
	return l.removeMember(member)
}

// Settle recomputes the optimized graph from the original graph and returns
// a copy of it. The plan pairs the largest remaining debtor with the largest
// remaining creditor until one side runs out, which reconciles all net
// balances in at most (#debtors + #creditors - 1) transactions.
func (l *Ledger) Settle() map[string]map[string]float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settle()
	return copyGraph(l.optimized, l.members)
}

func (l *Ledger) settle() {
	l.optimized = make(map[string]map[string]float64)
	if len(l.members) == 0 {
		return
	}

	debtors := &balanceHeap{}
	creditors := &balanceHeap{}
	for member := range l.members {
		net := l.netBalance(member, l.original)
		switch {
		case net < -Epsilon:
			heap.Push(debtors, balance{member: member, amount: -net})
		case net > Epsilon:
			heap.Push(creditors, balance{member: member, amount: net})
		}
	}

	for debtors.Len() > 0 && creditors.Len() > 0 {
		debtor := heap.Pop(debtors).(balance)
		creditor := heap.Pop(creditors).(balance)

		settlement := debtor.amount
		if creditor.amount < settlement {
			settlement = creditor.amount
		}
		l.addEdge(l.optimized, debtor.member, creditor.member, settlement)

		debtor.amount -= settlement
		creditor.amount -= settlement
		if debtor.amount > Epsilon {
			heap.Push(debtors, debtor)
		}
		if creditor.amount > Epsilon {
			heap.Push(creditors, creditor)
		}
	}
}

// MemberDebts returns a copy of the member's outgoing edges in the
// requested graph.
func (l *Ledger) MemberDebts(member string, graph Graph) map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make(map[string]float64)
	for other, amount := range l.selectGraph(graph)[member] {
		out[other] = amount
	}
	return out
}

// TotalDebts returns a copy of the requested graph with one entry per
// registered member.
func (l *Ledger) TotalDebts(graph Graph) map[string]map[string]float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return copyGraph(l.selectGraph(graph), l.members)
}

// NetBalance reports the member's net position over the original graph.
func (l *Ledger) NetBalance(member string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.netBalance(member, l.original)
}

func (l *Ledger) selectGraph(graph Graph) map[string]map[string]float64 {
	if graph == Optimized {
		return l.optimized
	}
	return l.original
}

func copyGraph(graph map[string]map[string]float64, members map[string]struct{}) map[string]map[string]float64 {
	out := make(map[string]map[string]float64, len(members))
	for member := range members {
		edges := make(map[string]float64, len(graph[member]))
		for other, amount := range graph[member] {
			edges[other] = amount
		}
		out[member] = edges
	}
	return out
}

type balance struct {
	member string
	amount float64
}

// balanceHeap is a max-heap by amount. Ties are broken by heap order.
type balanceHeap []balance

func (h balanceHeap) Len() int           { return len(h) }
func (h balanceHeap) Less(i, j int) bool { return h[i].amount > h[j].amount }
func (h balanceHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *balanceHeap) Push(x interface{}) { *h = append(*h, x.(balance)) }

func (h *balanceHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
