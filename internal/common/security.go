package common

// SecureWipeSlice overwrites data with zeros so a removed document does not
// linger in memory until the garbage collector reuses it.
func SecureWipeSlice(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
