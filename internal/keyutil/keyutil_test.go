package keyutil

import (
	"testing"
)

func TestIdentityKeepsComparableValues(t *testing.T) {
	type pair struct{ A, B int }
	for _, v := range []any{nil, true, 0, "", 1.5, pair{1, 2}} {
		if got := Identity(v); got != v {
			t.Fatalf("Identity(%#v) = %#v, want the value itself", v, got)
		}
	}
}

func TestIdentityFuncsByReference(t *testing.T) {
	mk := func() func() int {
		n := 0
		return func() int { n++; return n }
	}
	f1, f2 := mk(), mk()

	if Identity(f1) != Identity(f1) {
		t.Fatalf("same func should give the same identity")
	}
	if Identity(f1) == Identity(f2) {
		t.Fatalf("distinct closures should give distinct identities")
	}
}

func TestIdentitySlicesAndMaps(t *testing.T) {
	s := []int{1, 2, 3}
	if Identity(s) != Identity(s) {
		t.Fatalf("same slice should give the same identity")
	}
	if Identity(s) == Identity(s[:2]) {
		t.Fatalf("reslice with a different length should differ")
	}
	m1, m2 := map[string]int{}, map[string]int{}
	if Identity(m1) == Identity(m2) {
		t.Fatalf("distinct maps should differ")
	}
}

func TestStringDistinguishesTypes(t *testing.T) {
	type named int
	seen := map[string]any{}
	for _, k := range []any{nil, "1", 1, int64(1), uint64(1), named(1), true, 1.0, struct{ X int }{1}} {
		s := String(k)
		if prev, dup := seen[s]; dup {
			t.Fatalf("String collision %q for %#v and %#v", s, prev, k)
		}
		seen[s] = k
	}
}

type accountID struct{ n int }

type scoped struct {
	tenant string
	id     accountID
	tags   [2]string
	extra  any
}

func TestStringUnexportedFields(t *testing.T) {
	if String(accountID{1}) == String(accountID{2}) {
		t.Fatalf("keys differing only in an unexported field render alike")
	}
	if String(accountID{1}) != String(accountID{1}) {
		t.Fatalf("String not stable for equal keys")
	}

	base := scoped{tenant: "a", id: accountID{1}, tags: [2]string{"x", "y"}, extra: 1}
	variants := []scoped{
		{tenant: "b", id: accountID{1}, tags: [2]string{"x", "y"}, extra: 1},
		{tenant: "a", id: accountID{2}, tags: [2]string{"x", "y"}, extra: 1},
		{tenant: "a", id: accountID{1}, tags: [2]string{"x", "z"}, extra: 1},
		{tenant: "a", id: accountID{1}, tags: [2]string{"x", "y"}, extra: int64(1)},
		{tenant: "a", id: accountID{1}, tags: [2]string{"x", "y"}},
	}
	for _, v := range variants {
		if String(base) == String(v) {
			t.Fatalf("%+v and %+v render alike", base, v)
		}
	}
	if String(base) != String(scoped{tenant: "a", id: accountID{1}, tags: [2]string{"x", "y"}, extra: 1}) {
		t.Fatalf("equal composite keys render differently")
	}
}

func TestStringPointersByAddress(t *testing.T) {
	a, b := new(int), new(int)
	if String(a) == String(b) {
		t.Fatalf("equal pointees at distinct addresses share %q", String(a))
	}
	if String(a) != String(a) {
		t.Fatalf("String not stable for the same pointer")
	}
	if String((*int)(nil)) == "n:" {
		t.Fatalf("typed nil pointer renders as untyped nil")
	}

	type holder struct{ p *int }
	if String(holder{a}) == String(holder{b}) {
		t.Fatalf("pointer fields compared by content")
	}
}

func TestIdentityCompositeWithFuncs(t *testing.T) {
	type handler struct {
		name string
		fn   func() int
	}
	mk := func() func() int {
		n := 0
		return func() int { n++; return n }
	}
	f1, f2 := mk(), mk()

	if Identity(handler{"h", f1}) != Identity(handler{"h", f1}) {
		t.Fatalf("same composite should give the same identity")
	}
	if Identity(handler{"h", f1}) == Identity(handler{"h", f2}) {
		t.Fatalf("distinct closures inside a composite should differ")
	}
}

func TestJoinHasNoSeparatorCollisions(t *testing.T) {
	cases := [][]any{
		{"a|s:b"},
		{"a", "b"},
		{"a", "b", nil},
		{accountID{1}, 2},
		{accountID{2}, 2},
		{},
	}
	seen := map[string]int{}
	for i, c := range cases {
		s := Join(c)
		if j, dup := seen[s]; dup {
			t.Fatalf("Join(%v) == Join(%v) == %q", cases[j], c, s)
		}
		seen[s] = i
	}
}
