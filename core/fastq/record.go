// core/fastq/record.go
package fastq

// Read is one sequencing read: identifier, bases, and per-base quality.
// Seq and Qual are always the same length once a Read leaves the Reader.
type Read struct {
	ID   string
	Seq  []byte
	Qual []byte
}
