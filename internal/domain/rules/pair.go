package rules

import (
	"strconv"
	"strings"
)

const pairKeySeparator = ":"

// OrderedPair returns the two ids with the lexicographically smaller one first.
func OrderedPair(a, b string) (string, string) {
	if strings.Compare(a, b) > 0 {
		return b, a
	}
	return a, b
}

// PairKey is the canonical identity of an unordered user pair. It is the
// unique key matches are inserted under, so PairKey(a, b) == PairKey(b, a).
// The byte length of the smaller id leads the key, so ids containing the
// separator cannot make two different pairs collide.
func PairKey(a, b string) string {
	lo, hi := OrderedPair(a, b)
	return strconv.Itoa(len(lo)) + pairKeySeparator + lo + pairKeySeparator + hi
}
