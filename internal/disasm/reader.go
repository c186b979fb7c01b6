package disasm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"bcdis/internal/obfuscate"
)

// ErrTruncated reports a primitive read that would run past the end of the
// byte stream. A misaligned read corrupts every subsequent decode, so the
// run stops here instead of returning a partial or zero-padded value.
var ErrTruncated = errors.New("truncated bytecode stream")

// Reader walks the decoded byte stream. The cursor only moves forward;
// jump targets are printed by the trace, never followed.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a Reader over transport-decoded bytecode bytes.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Offset returns the current cursor position.
func (r *Reader) Offset() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

func (r *Reader) take(n int) ([]byte, error) {
	if r.pos+n > len(r.data) {
		return nil, fmt.Errorf("read of %d bytes at offset 0x%x, stream ends at 0x%x: %w",
			n, r.pos, len(r.data), ErrTruncated)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// Byte reads one raw byte.
func (r *Reader) Byte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ShortPointer reads a big-endian unsigned 16-bit value, used for string
// lengths and small jump offsets.
func (r *Reader) ShortPointer() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// Word reads a big-endian unsigned 32-bit value, used for function entry
// points and 32-bit immediates.
func (r *Reader) Word() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Double reads an IEEE-754 binary64 value stored in big-endian byte order.
// The value is reconstructed explicitly from the sign bit, the 11-bit
// biased exponent and the 52-bit mantissa with the implicit leading 1
// restored for normalized values: (-1)^sign * 1.mantissa * 2^(exponent-1023).
func (r *Reader) Double() (float64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	bits := binary.BigEndian.Uint64(b)

	sign := 1.0
	if bits>>63 != 0 {
		sign = -1.0
	}
	exponent := int(bits >> 52 & 0x7ff)
	mantissa := bits & (1<<52 - 1)

	switch exponent {
	case 0:
		if mantissa == 0 {
			return sign * 0, nil
		}
		// Subnormal: no implicit leading 1, exponent pinned at -1022.
		return sign * math.Ldexp(float64(mantissa), -1022-52), nil
	case 0x7ff:
		if mantissa == 0 {
			return sign * math.Inf(1), nil
		}
		return math.NaN(), nil
	}

	frac := 1 + float64(mantissa)/(1<<52)
	return sign * math.Ldexp(frac, exponent-1023), nil
}

// ObfuscatedString reads a length-prefixed XOR-obfuscated string constant:
// a ShortPointer length followed by that many obfuscated bytes.
func (r *Reader) ObfuscatedString() (string, error) {
	n, err := r.ShortPointer()
	if err != nil {
		return "", err
	}
	b, err := r.take(int(n))
	if err != nil {
		return "", err
	}
	return obfuscate.Decode(b), nil
}
