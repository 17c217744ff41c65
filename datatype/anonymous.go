package datatype

import (
	"strings"

	"github.com/ptscan/ptscan/errs"
)

// stripSeparators removes whitespace and comma separators, which both the
// hex and binary parsers tolerate anywhere in the text.
func stripSeparators(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', ',':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// decodeHexDigits parses a hex AnonymousValue into bytes in natural
// (most-significant-byte-first) order: optional "0x"/"0X" prefix,
// whitespace and commas ignored anywhere, case-insensitive, an odd number
// of digits is padded with a leading zero nibble, any non-hex digit is
// rejected.
func decodeHexDigits(text string) ([]byte, error) {
	s := stripSeparators(text)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		return nil, &errs.ParseError{Text: text, Reason: "empty hex value"}
	}
	if len(s)%2 != 0 {
		s = "0" + s
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(out); i++ {
		hi, ok1 := hexNibble(s[2*i])
		lo, ok2 := hexNibble(s[2*i+1])
		if !ok1 || !ok2 {
			return nil, &errs.ParseError{Text: text, Reason: "invalid hex digit"}
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

// decodeBinaryDigits parses a binary AnonymousValue into bytes in natural
// order: optional "0b"/"0B" prefix, whitespace and commas ignored
// anywhere, only '0'/'1' accepted, least-significant-bit-first into the
// last byte (i.e. the rightmost character of the text is bit 0 of the
// last byte, exactly as a normal binary literal reads).
func decodeBinaryDigits(text string) ([]byte, error) {
	s := stripSeparators(text)
	s = strings.TrimPrefix(s, "0b")
	s = strings.TrimPrefix(s, "0B")
	if s == "" {
		return nil, &errs.ParseError{Text: text, Reason: "empty binary value"}
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' && s[i] != '1' {
			return nil, &errs.ParseError{Text: text, Reason: "invalid binary digit"}
		}
	}
	if pad := len(s) % 8; pad != 0 {
		s = strings.Repeat("0", 8-pad) + s
	}
	out := make([]byte, len(s)/8)
	for i := range out {
		var b byte
		chunk := s[i*8 : i*8+8]
		for j := 0; j < 8; j++ {
			b <<= 1
			if chunk[j] == '1' {
				b |= 1
			}
		}
		out[i] = b
	}
	return out, nil
}

// fitToUnitSize takes bytes in natural (big-endian value) order and
// returns exactly unitSize bytes of the same natural order. Left-padding
// with zeros for a short input is never done here: callers must supply
// at least unitSize bytes. A longer input is truncated to its low-order
// unitSize bytes, matching how a user typing extra leading digits would
// expect the value to still fit in a narrower type.
func fitToUnitSize(natural []byte, unitSize int64, text string) ([]byte, error) {
	if int64(len(natural)) < unitSize {
		return nil, &errs.ParseError{Text: text, Reason: "value shorter than the type's unit size"}
	}
	return natural[int64(len(natural))-unitSize:], nil
}

// orderForStorage converts unitSize bytes in natural (big-endian value)
// order into the byte order the type stores in memory.
func orderForStorage(natural []byte, endian Endian) []byte {
	if endian == BigEndian {
		out := make([]byte, len(natural))
		copy(out, natural)
		return out
	}
	out := make([]byte, len(natural))
	for i, b := range natural {
		out[len(natural)-1-i] = b
	}
	return out
}

// deanonymizePrimitive decodes a Hex or Binary AnonymousValue into
// unitSize bytes stored in the type's configured endian.
func deanonymizePrimitive(typeID string, endian Endian, unitSize int64, v AnonymousValue) (DataValue, error) {
	var natural []byte
	var err error
	switch v.Kind {
	case Hex:
		natural, err = decodeHexDigits(v.Text)
	case Binary:
		natural, err = decodeBinaryDigits(v.Text)
	default:
		return DataValue{}, &errs.ParseError{Text: v.Text, TypeID: typeID, Reason: "unsupported anonymous value kind for deanonymizePrimitive"}
	}
	if err != nil {
		return DataValue{}, err
	}
	fit, err := fitToUnitSize(natural, unitSize, v.Text)
	if err != nil {
		return DataValue{}, err
	}
	return DataValue{Bytes: orderForStorage(fit, endian), Type: DataTypeRef{ID: typeID}}, nil
}

// deanonymizeBool decodes a boolean AnonymousValue. The decimal form
// accepts "true"/"false"/"1"/"0"; hex and binary accept only "0"/"1".
func deanonymizeBool(v AnonymousValue) (bool, error) {
	s := strings.TrimSpace(v.Text)
	switch v.Kind {
	case Decimal:
		switch strings.ToLower(s) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
	case Hex, Binary:
		s = stripSeparators(s)
		s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0b")
		switch s {
		case "1":
			return true, nil
		case "0":
			return false, nil
		}
	}
	return false, &errs.ParseError{Text: v.Text, TypeID: "bool", Reason: "expected true/false/0/1"}
}
