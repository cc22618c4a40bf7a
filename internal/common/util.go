package common

// WipeByteArray overwrites a sensitive byte slice (passwords, keys) with
// zeros so it does not linger in memory.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
