package marshal

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"
)

// WideEncoding is the in-memory form of native wide text
type WideEncoding int

const (
	// WideUTF32 stores one code point per unit (wchar_t on unix)
	WideUTF32 WideEncoding = iota
	// WideUTF16 stores UTF-16 code units (wchar_t on windows)
	WideUTF16
)

func (e WideEncoding) String() string {
	if e == WideUTF16 {
		return "utf16"
	}
	return "utf32"
}

// PlatformWideEncoding returns the width of wchar_t on the running OS
func PlatformWideEncoding() WideEncoding {
	if runtime.GOOS == "windows" {
		return WideUTF16
	}
	return WideUTF32
}

// ParseWideEncoding accepts "utf16", "utf32" or "" for the platform default
func ParseWideEncoding(s string) (WideEncoding, error) {
	switch strings.ToLower(strings.ReplaceAll(s, "-", "")) {
	case "":
		return PlatformWideEncoding(), nil
	case "utf16":
		return WideUTF16, nil
	case "utf32":
		return WideUTF32, nil
	}
	return 0, fmt.Errorf("unknown wide encoding %q", s)
}

// WideText is native wide text, one element per wchar_t code unit
type WideText []uint32

// ErrConversion is wrapped by every TextError
var ErrConversion = errors.New("text conversion failed")

// TextError describes a failed narrow/wide conversion
type TextError struct {
	Op      string // "utf8-to-wide" or "wide-to-utf8"
	Offset  int    // index of the first offending byte or unit
	Charset string // charset the input looks like, when it is not UTF-8
	Err     error
}

func (e *TextError) Error() string {
	msg := fmt.Sprintf("%s: invalid input at %d", e.Op, e.Offset)
	if e.Charset != "" {
		msg += " (looks like " + e.Charset + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TextError) Unwrap() error { return ErrConversion }

// Codec converts between UTF-8 and native wide text
type Codec struct {
	wide WideEncoding
}

// NewCodec creates a codec for the given wide encoding
func NewCodec(wide WideEncoding) *Codec {
	return &Codec{wide: wide}
}

// Encoding reports the codec's wide encoding
func (c *Codec) Encoding() WideEncoding { return c.wide }

func (c *Codec) transformer() encoding.Encoding {
	if c.wide == WideUTF16 {
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	}
	return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
}

func (c *Codec) unitSize() int {
	if c.wide == WideUTF16 {
		return 2
	}
	return 4
}

// UTF8ToWide converts UTF-8 bytes to wide text. The whole slice is
// converted, embedded NUL bytes included. Empty input yields an empty
// result and no error.
func (c *Codec) UTF8ToWide(in []byte) (WideText, error) {
	if len(in) == 0 {
		return WideText{}, nil
	}
	if !utf8.Valid(in) {
		return nil, &TextError{
			Op:      "utf8-to-wide",
			Offset:  firstInvalidUTF8(in),
			Charset: detectCharset(in),
		}
	}

	raw, _, err := transform.Bytes(c.transformer().NewEncoder(), in)
	if err != nil {
		return nil, &TextError{Op: "utf8-to-wide", Err: err}
	}

	size := c.unitSize()
	out := make(WideText, len(raw)/size)
	for i := range out {
		if size == 2 {
			out[i] = uint32(binary.LittleEndian.Uint16(raw[i*2:]))
		} else {
			out[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
	}
	return out, nil
}

// WideToUTF8 converts wide text back to UTF-8. Empty input yields an
// empty result and no error.
func (c *Codec) WideToUTF8(in WideText) ([]byte, error) {
	if len(in) == 0 {
		return []byte{}, nil
	}
	if at := c.firstInvalidUnit(in); at >= 0 {
		return nil, &TextError{Op: "wide-to-utf8", Offset: at}
	}

	size := c.unitSize()
	raw := make([]byte, len(in)*size)
	for i, u := range in {
		if size == 2 {
			binary.LittleEndian.PutUint16(raw[i*2:], uint16(u))
		} else {
			binary.LittleEndian.PutUint32(raw[i*4:], u)
		}
	}

	out, _, err := transform.Bytes(c.transformer().NewDecoder(), raw)
	if err != nil {
		return nil, &TextError{Op: "wide-to-utf8", Err: err}
	}
	return out, nil
}

// firstInvalidUnit returns the index of the first unit that has no
// lossless UTF-8 form, or -1
func (c *Codec) firstInvalidUnit(in WideText) int {
	if c.wide == WideUTF32 {
		for i, u := range in {
			if u > utf8.MaxRune || utf16.IsSurrogate(rune(u)) {
				return i
			}
		}
		return -1
	}

	for i := 0; i < len(in); i++ {
		u := in[i]
		switch {
		case u > 0xFFFF:
			return i
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(in) || in[i+1] < 0xDC00 || in[i+1] > 0xDFFF {
				return i
			}
			i++
		case u >= 0xDC00 && u <= 0xDFFF:
			return i
		}
	}
	return -1
}

func firstInvalidUTF8(in []byte) int {
	for i := 0; i < len(in); {
		r, size := utf8.DecodeRune(in[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(in)
}

// detectCharset names the most likely charset of bytes that failed UTF-8
// validation, "" when nothing convincing is found.
func detectCharset(in []byte) string {
	result, err := chardet.NewTextDetector().DetectBest(in)
	if err != nil || result == nil || strings.EqualFold(result.Charset, "UTF-8") {
		return ""
	}
	return strings.ToLower(result.Charset)
}
