// Package encoder turns internal pagination state into opaque strings and back.
package encoder

// Encoder is an interface that encodes and decodes cursor payloads.
type Encoder interface {
	Decode(string) ([]byte, error)
	Encode([]byte) (string, error)
}
