package disasm

import "sort"

// TargetKind classifies why an address was recorded as a disassembly
// target, which in turn decides what synthetic label prefix it gets.
type TargetKind int

const (
	TargetJump TargetKind = iota
	TargetSubroutine
	TargetITarget
	TargetIndexed
)

// prefixOrder fixes both the synthetic label prefix per kind and the
// precedence used to pick one label when an address is claimed by more
// than one kind (a data pointer that also happens to be a jump target, for
// instance): earlier entries win.
var prefixOrder = []struct {
	kind   TargetKind
	prefix string
}{
	{TargetITarget, "DATA"},
	{TargetSubroutine, "FUNC"},
	{TargetJump, "LABEL"},
	{TargetIndexed, "TABLE"},
}

// targetSet accumulates every address the sweep recorded as a branch,
// call, data-pointer, or indexed-jump target, and turns them into
// deterministic synthetic labels once the sweep finishes.
type targetSet struct {
	addrs map[TargetKind][]uint16
}

func newTargetSet() *targetSet {
	return &targetSet{addrs: make(map[TargetKind][]uint16)}
}

func (t *targetSet) add(addr uint16, kind TargetKind) {
	t.addrs[kind] = append(t.addrs[kind], addr)
}

// labels assigns each recorded address a name "<PREFIX><rank>" where rank
// is the address's 0-based position among same-kind addresses sorted
// ascending, after deduplication. When one address was recorded under more
// than one kind, prefixOrder's precedence picks a single label for it.
func (t *targetSet) labels() map[uint16]string {
	sorted := make(map[TargetKind][]uint16, len(t.addrs))
	for kind, addrs := range t.addrs {
		dedup := dedupSorted(addrs)
		sorted[kind] = dedup
	}

	out := make(map[uint16]string)
	for _, entry := range prefixOrder {
		for rank, addr := range sorted[entry.kind] {
			if _, claimed := out[addr]; claimed {
				continue
			}
			out[addr] = entry.prefix + itoa(rank)
		}
	}
	return out
}

func dedupSorted(addrs []uint16) []uint16 {
	if len(addrs) == 0 {
		return nil
	}
	cp := append([]uint16(nil), addrs...)
	sort.Slice(cp, func(i, j int) bool { return cp[i] < cp[j] })
	out := cp[:1]
	for _, a := range cp[1:] {
		if a != out[len(out)-1] {
			out = append(out, a)
		}
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
