package tsglr

// nodeArena is the slab allocator described in spec §4.A: each slab is
// a fixed-length array of Node slots plus a bitmap marking occupancy
// (width 64, as the spec suggests). allocate scans the current "first
// available" slab, advancing the cursor and appending a fresh slab
// when none has room; free clears the slot's bit and lowers the
// cursor when that unblocks an earlier slab. Grounded on arena.go's
// nodeArena design, retargeted from a generic tree-node type to this
// package's Node and its bitmap occupancy tracking (the teacher tracks
// occupancy via a simple `used` counter plus reuse-by-overwrite; the
// spec calls for an explicit bitmap so individual slots can be freed
// out of order, which `used` cannot express).
type nodeArena struct {
	slabs      []*nodeSlab
	firstAvail int
}

const slabWidth = 64

type nodeSlab struct {
	nodes [slabWidth]Node
	// occupied is a bitmap: bit i set means nodes[i] is live.
	occupied uint64
}

func newNodeArena() *nodeArena {
	return &nodeArena{slabs: []*nodeSlab{{}}}
}

func (a *nodeArena) allocNode() *Node {
	for a.firstAvail < len(a.slabs) {
		slab := a.slabs[a.firstAvail]
		if slab.occupied != ^uint64(0) {
			idx := firstZeroBit(slab.occupied)
			slab.occupied |= 1 << uint(idx)
			n := &slab.nodes[idx]
			n.slab, n.slot = slab, idx
			return n
		}
		a.firstAvail++
	}
	slab := &nodeSlab{occupied: 1}
	a.slabs = append(a.slabs, slab)
	a.firstAvail = len(a.slabs) - 1
	n := &slab.nodes[0]
	n.slab, n.slot = slab, 0
	return n
}

// free returns a slot to its owning slab, found directly via the
// back-pointer stashed at allocation time.
func (a *nodeArena) free(slab *nodeSlab, slot int) {
	if slab == nil {
		return
	}
	slab.occupied &^= 1 << uint(slot)
	for i, s := range a.slabs {
		if s == slab {
			if i < a.firstAvail {
				a.firstAvail = i
			}
			return
		}
	}
}

// liveCount reports how many slots are currently marked occupied
// across all slabs; used by tests to check the pool drains to zero
// once every subtree is released (spec §8 refcount soundness).
func (a *nodeArena) liveCount() int {
	total := 0
	for _, slab := range a.slabs {
		total += popcount(slab.occupied)
	}
	return total
}

func firstZeroBit(bits uint64) int {
	inv := ^bits
	for i := 0; i < 64; i++ {
		if inv&(1<<uint(i)) != 0 {
			return i
		}
	}
	return -1
}

func popcount(bits uint64) int {
	count := 0
	for bits != 0 {
		bits &= bits - 1
		count++
	}
	return count
}
