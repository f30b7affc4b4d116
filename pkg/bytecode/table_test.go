package bytecode

import "testing"

func TestTableSetGetDelete(t *testing.T) {
	table := NewTable()
	key := &String{Chars: "a", hash: fnv1a32("a")}

	if isNew := table.Set(key, NumberVal(1)); !isNew {
		t.Error("expected the first Set of a key to report isNewKey=true")
	}
	v, ok := table.Get(key)
	if !ok || v.Number != 1 {
		t.Fatalf("Get = %v, %v, want 1, true", v, ok)
	}

	if isNew := table.Set(key, NumberVal(2)); isNew {
		t.Error("expected overwriting an existing key to report isNewKey=false")
	}
	v, _ = table.Get(key)
	if v.Number != 2 {
		t.Errorf("Get after overwrite = %v, want 2", v.Number)
	}

	if !table.Delete(key) {
		t.Error("expected Delete to report success for a present key")
	}
	if _, ok := table.Get(key); ok {
		t.Error("expected Get to miss after Delete")
	}
}

func TestTableGrowsPastLoadFactor(t *testing.T) {
	table := NewTable()
	for i := 0; i < 100; i++ {
		key := &String{Chars: string(rune('a' + i%26)) + string(rune(i)), hash: uint32(i) * 2654435761}
		table.Set(key, BoolVal(true))
	}
	if table.Count() != 100 {
		t.Errorf("Count() = %d, want 100", table.Count())
	}
	if float64(table.Count()) > float64(table.capacity)*maxLoad {
		t.Errorf("table exceeded its load factor: count=%d capacity=%d", table.Count(), table.capacity)
	}
}

func TestTableDeleteKeepsProbeChainWalkable(t *testing.T) {
	table := NewTable()
	keys := make([]*String, 0, 10)
	for i := 0; i < 10; i++ {
		k := &String{Chars: string(rune('a' + i)), hash: fnv1a32(string(rune('a' + i)))}
		keys = append(keys, k)
		table.Set(k, NumberVal(float64(i)))
	}
	for i := 0; i < 5; i++ {
		table.Delete(keys[i])
	}
	for i := 5; i < 10; i++ {
		v, ok := table.Get(keys[i])
		if !ok || v.Number != float64(i) {
			t.Errorf("Get(%q) = %v, %v, want %d, true", keys[i].Chars, v, ok, i)
		}
	}
}
