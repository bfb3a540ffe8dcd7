package ledger

import (
	"errors"
	"math"
	"testing"
)

func TestUpdateAndNetBalance(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)
	l.Update("B", "A", 30)

	if got := l.NetBalance("A"); math.Abs(got-(-70)) > Epsilon {
		t.Errorf("NetBalance(A) = %v, want -70", got)
	}
	if got := l.NetBalance("B"); math.Abs(got-70) > Epsilon {
		t.Errorf("NetBalance(B) = %v, want 70", got)
	}
}

func TestConservationOfMoney(t *testing.T) {
	l := New("g1")
	updates := []struct {
		from, to string
		amount   float64
	}{
		{"A", "B", 100},
		{"B", "C", 55.5},
		{"C", "A", 20},
		{"A", "C", -10},
		{"B", "A", 30},
		{"D", "B", 12.25},
	}
	for _, u := range updates {
		l.Update(u.from, u.to, u.amount)
	}

	var sum float64
	for _, m := range l.Members() {
		sum += l.NetBalance(m)
	}
	if math.Abs(sum) > Epsilon {
		t.Errorf("sum of net balances = %v, want 0", sum)
	}
}

func TestSettleSimplePair(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)
	l.Update("B", "A", 30)

	plan := l.Settle()

	count := 0
	for _, edges := range plan {
		count += len(edges)
	}
	if count != 1 {
		t.Fatalf("settlement has %d entries, want 1", count)
	}
	if got := plan["A"]["B"]; math.Abs(got-70) > Epsilon {
		t.Errorf("plan[A][B] = %v, want 70", got)
	}
}

func TestSettlePreservesNetBalances(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)
	l.Update("B", "C", 80)
	l.Update("C", "D", 60)
	l.Update("D", "A", 40)
	l.Update("A", "C", 25)

	// Net balances before settlement.
	want := make(map[string]float64)
	for _, m := range l.Members() {
		want[m] = l.NetBalance(m)
	}

	plan := l.Settle()

	// Derive net balances from the plan alone.
	got := make(map[string]float64)
	for from, edges := range plan {
		for to, amount := range edges {
			got[from] -= amount
			got[to] += amount
		}
	}
	for m, w := range want {
		if math.Abs(got[m]-w) > 1e-6 {
			t.Errorf("net balance of %s after settlement = %v, want %v", m, got[m], w)
		}
	}
}

func TestSettleTransactionBound(t *testing.T) {
	l := New("g1")
	l.Update("A", "E", 10)
	l.Update("B", "E", 20)
	l.Update("C", "F", 30)
	l.Update("D", "F", 40)

	debtors, creditors := 0, 0
	for _, m := range l.Members() {
		net := l.NetBalance(m)
		if net < -Epsilon {
			debtors++
		} else if net > Epsilon {
			creditors++
		}
	}

	plan := l.Settle()
	count := 0
	for _, edges := range plan {
		count += len(edges)
	}
	if max := debtors + creditors - 1; count > max {
		t.Errorf("settlement has %d entries, want at most %d", count, max)
	}
}

func TestRemoveMemberWithBalanceFails(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)

	err := l.RemoveMember("A")
	if !errors.Is(err, ErrUnsettledBalance) {
		t.Fatalf("RemoveMember(A) = %v, want ErrUnsettledBalance", err)
	}

	// Nothing may have been touched by the failed removal.
	if len(l.Members()) != 2 {
		t.Errorf("members = %v, want A and B", l.Members())
	}
	if got := l.MemberDebts("A", Original); math.Abs(got["B"]-100) > Epsilon {
		t.Errorf("original[A][B] = %v, want 100", got["B"])
	}
}

func TestRemoveMemberUnknown(t *testing.T) {
	l := New("g1")
	if err := l.RemoveMember("X"); !errors.Is(err, ErrUnknownMember) {
		t.Errorf("RemoveMember(X) = %v, want ErrUnknownMember", err)
	}
}

func TestRemoveMemberSettled(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)
	l.Update("B", "A", 100)
	l.Settle()

	if err := l.RemoveMember("A"); err != nil {
		t.Fatalf("RemoveMember(A) = %v, want nil", err)
	}
	if _, ok := l.MemberDebts("B", Original)["A"]; ok {
		t.Error("edge B->A survived removal of A")
	}
	if len(l.Members()) != 1 {
		t.Errorf("members = %v, want only B", l.Members())
	}
}

func TestForceRemoveMember(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)
	l.Update("C", "B", 50)

	if err := l.ForceRemoveMember("B", true); err != nil {
		t.Fatalf("ForceRemoveMember(B) = %v, want nil", err)
	}
	for _, m := range l.Members() {
		if m == "B" {
			t.Error("B still registered after force removal")
		}
	}
	// The fabricated edge must zero the group as a whole too.
	var sum float64
	for _, m := range l.Members() {
		sum += l.NetBalance(m)
	}
	if math.Abs(sum) > Epsilon {
		t.Errorf("sum of net balances = %v, want 0", sum)
	}
}

func TestForceRemoveMemberZeroBalance(t *testing.T) {
	l := New("g1")
	l.AddMember("A")
	if err := l.ForceRemoveMember("A", true); err != nil {
		t.Fatalf("ForceRemoveMember(A) = %v, want nil", err)
	}
}

func TestMemberDebtsReturnsCopy(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 100)

	debts := l.MemberDebts("A", Original)
	debts["B"] = 0

	if got := l.MemberDebts("A", Original)["B"]; math.Abs(got-100) > Epsilon {
		t.Errorf("original[A][B] = %v after mutating a snapshot, want 100", got)
	}
}

func TestTotalDebtsCoversAllMembers(t *testing.T) {
	l := New("g1")
	l.Update("A", "B", 10)
	l.AddMember("C")

	total := l.TotalDebts(Original)
	for _, m := range []string{"A", "B", "C"} {
		if _, ok := total[m]; !ok {
			t.Errorf("TotalDebts missing entry for %s", m)
		}
	}
}

func TestRegistryReturnsSameInstance(t *testing.T) {
	r := NewRegistry()
	a := r.Get("g1")
	b := r.Get("g1")
	if a != b {
		t.Error("registry created two ledgers for the same group")
	}
	if r.Get("g2") == a {
		t.Error("registry shared a ledger across groups")
	}
}
