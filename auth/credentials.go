package auth

import "crypto/subtle"

// SecretEqual reports whether candidate equals secret without leaking the
// position of the first differing byte. The comparison always runs over the
// longer of the two inputs, with out-of-range bytes read as zero, so a
// length mismatch does not short-circuit either.
func SecretEqual(candidate, secret []byte) bool {
	n := len(candidate)
	if len(secret) > n {
		n = len(secret)
	}
	var diff byte
	for i := 0; i < n; i++ {
		var c, s byte
		if i < len(candidate) {
			c = candidate[i]
		}
		if i < len(secret) {
			s = secret[i]
		}
		diff |= c ^ s
	}
	sameLen := subtle.ConstantTimeEq(int32(len(candidate)), int32(len(secret)))
	return subtle.ConstantTimeByteEq(diff, 0)&sameLen == 1
}
