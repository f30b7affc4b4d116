package bytecode

// FNV-1a-32 parameters, per §4.8.
const (
	fnvOffset uint32 = 0x811c9dc5
	fnvPrime  uint32 = 0x01000193
)

func fnv1a32(s string) uint32 {
	h := fnvOffset
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime
	}
	return h
}

// Interner is the VM's string intern set: every *String the compiler
// or VM ever produces from raw bytes passes through here first, so
// equal content always yields the same pointer and string equality
// reduces to pointer comparison.
type Interner struct {
	table *Table
}

func NewInterner() *Interner {
	return &Interner{table: NewTable()}
}

// Intern returns the canonical *String for s, allocating and
// registering a new one only on the first sighting of this content.
func (in *Interner) Intern(s string) *String {
	hash := fnv1a32(s)
	if found := in.find(s, hash); found != nil {
		return found
	}
	str := &String{Chars: s, hash: hash}
	in.table.Set(str, BoolVal(true))
	return str
}

// find mirrors table_findstring: it probes by hash and then confirms
// equal length and content, since two different strings can collide.
func (in *Interner) find(s string, hash uint32) *String {
	if in.table.count == 0 {
		return nil
	}
	index := int(hash) % in.table.capacity
	for {
		e := &in.table.entries[index]
		if e.key == nil {
			if !e.used {
				return nil
			}
		} else if e.key.hash == hash && len(e.key.Chars) == len(s) && e.key.Chars == s {
			return e.key
		}
		index = (index + 1) % in.table.capacity
	}
}
