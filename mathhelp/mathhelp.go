package mathhelp

import "golang.org/x/exp/constraints"

func Pow2(n uint) uint {
	return 1 << n
}

// IsPow2 reports whether n is a positive power of two.
func IsPow2(n uint) bool {
	return n != 0 && n&(n-1) == 0
}

func Bool2int(b bool) int {
	if b {
		return 1
	}
	return 0
}

func Clip[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pow4Sum returns 4^0 + 4^1 + ... + 4^n, i.e. (4^(n+1) - 1) / 3.
func Pow4Sum(n uint) uint {
	return (Pow2(2*(n+1)) - 1) / 3
}
