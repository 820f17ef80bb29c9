package core

import (
	"strings"
	"unicode/utf8"
)

// Unit extracts nothing. It succeeds for every payload, including None.
func Unit() Extractor[struct{}] {
	return ExtractorFunc[struct{}](func(*Request, *Payload) *Future[struct{}] {
		return Ready(struct{}{}, nil)
	})
}

// Text extracts the payload as UTF-8 text. Invalid sequences are replaced
// with U+FFFD rather than rejected, so only a None payload fails.
func Text() Extractor[string] {
	return ExtractorFunc[string](func(req *Request, payload *Payload) *Future[string] {
		buf, ok := payload.Bytes()
		if !ok {
			return Ready[string]("", missingPayload(req))
		}
		return Ready(lossyUTF8(buf), nil)
	})
}

// lossyUTF8 replaces every maximal ill-formed subsequence of b with one
// U+FFFD, following the Unicode substitution practice.
func lossyUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	var sb strings.Builder
	sb.Grow(len(b) + utf8.UTFMax)
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r != utf8.RuneError || size > 1 {
			sb.Write(b[:size])
			b = b[size:]
			continue
		}
		sb.WriteRune(utf8.RuneError)
		b = b[illFormedLen(b):]
	}
	return sb.String()
}

// illFormedLen returns the length of the maximal subpart at the start of b,
// which must not begin with a well-formed sequence.
func illFormedLen(b []byte) int {
	need := 0
	lo, hi := byte(0x80), byte(0xBF)
	switch c := b[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(b) && b[n] >= lo && b[n] <= hi {
		lo, hi = 0x80, 0xBF
		n++
	}
	return n
}
