package ast

type bitset []uint64

func (b bitset) has(i uint32) bool {
	w := i / 64
	return int(w) < len(b) && b[w]&(1<<(i%64)) != 0
}

func (b *bitset) set(i uint32) {
	w := int(i / 64)
	for len(*b) <= w {
		*b = append(*b, 0)
	}
	(*b)[w] |= 1 << (i % 64)
}

func (b bitset) clone() bitset {
	if b == nil {
		return nil
	}
	out := make(bitset, len(b))
	copy(out, b)
	return out
}

func (b bitset) count() int {
	n := 0
	for _, w := range b {
		for ; w != 0; w &= w - 1 {
			n++
		}
	}
	return n
}

// Dirty reports whether id or one of its descendants was edited.
func (t *Tree) Dirty(id NodeID) bool {
	return t.dirty.has(uint32(id))
}

// MarkDirty flags id and every ancestor up to the root.
func (t *Tree) MarkDirty(id NodeID) {
	for cur := id; cur.IsValid(); {
		n := t.Node(cur)
		if n == nil {
			return
		}
		t.dirty.set(uint32(cur))
		cur = n.Parent
	}
}

// DirtyCount returns how many nodes are flagged.
func (t *Tree) DirtyCount() int { return t.dirty.count() }
