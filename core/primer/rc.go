// core/primer/rc.go
package primer

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['T'] = 'A'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['N'] = 'N'
	complement['a'] = 'T'
	complement['t'] = 'A'
	complement['c'] = 'G'
	complement['g'] = 'C'
	complement['n'] = 'N'
}

// RevComp returns the reverse complement of seq over {A,C,G,T,N}.
// Unknown bytes map to 'N'. The result is always a fresh allocation.
func RevComp(seq []byte) []byte {
	n := len(seq)
	if n == 0 {
		return nil
	}
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[seq[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}
	return out
}
