package fastimg

import "fmt"

// rat is an exact rational number.
// It's a lightweight version of math/big.Rat.
type rat struct {
	num uint32
	den uint32
}

func (r rat) String() string {
	if r.den == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

// scale returns v * r truncated to an integer, computed without
// floating-point rounding drift.
func (r rat) scale(v uint32) uint32 {
	return uint32(uint64(v) * uint64(r.num) / uint64(r.den))
}
