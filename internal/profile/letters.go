package profile

// Letters returns the first n labels of the spreadsheet-column sequence
// A..Z, AA..AZ, BA..ZZ, AAA... It is a pure function of n: calling it again
// with a larger n extends the same sequence.
func Letters(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, letterLabel(i))
	}
	return out
}

// letterLabel encodes a zero-based index in bijective base-26: 0 -> "A",
// 25 -> "Z", 26 -> "AA".
func letterLabel(i int) string {
	var b []byte
	for i >= 0 {
		b = append([]byte{byte('A' + i%26)}, b...)
		i = i/26 - 1
	}
	return string(b)
}
