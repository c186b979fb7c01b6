// Package obfuscate implements the string obfuscation scheme of the target
// bytecode format: every byte of a string constant is XORed with a fixed
// single-byte key. The scheme is symmetric and documented as obfuscation,
// not security; the key is a reverse-engineered constant of the format.
package obfuscate

// Key is the fixed XOR key recovered from the target format.
const Key byte = 50

// Decode recovers a string constant from its obfuscated bytes. Each byte is
// XORed with the key and reinterpreted as a character code point.
func Decode(data []byte) string {
	out := make([]rune, len(data))
	for i, b := range data {
		out[i] = rune(b ^ Key)
	}
	return string(out)
}

// Encode obfuscates a string. Used for building test fixtures; the target
// format only ever needs the decode direction. Characters must fit in a
// single byte.
func Encode(s string) []byte {
	runes := []rune(s)
	out := make([]byte, len(runes))
	for i, r := range runes {
		out[i] = byte(r) ^ Key
	}
	return out
}
