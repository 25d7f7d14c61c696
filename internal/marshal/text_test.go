package marshal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWideRoundTrip(t *testing.T) {
	inputs := []struct {
		name string
		text string
	}{
		{"ascii", "Hello, World!"},
		{"latin1 range", "grüße, café"},
		{"cjk", "日本語のテキスト"},
		{"astral", "emoji 🎉 and 𝄞 clef"},
		{"embedded nul", "a\x00b"},
		{"bom character", "\ufeffleading"},
	}

	for _, enc := range []WideEncoding{WideUTF16, WideUTF32} {
		codec := NewCodec(enc)
		for _, tt := range inputs {
			t.Run(enc.String()+"/"+tt.name, func(t *testing.T) {
				wide, err := codec.UTF8ToWide([]byte(tt.text))
				require.NoError(t, err)

				back, err := codec.WideToUTF8(wide)
				require.NoError(t, err)
				assert.Equal(t, tt.text, string(back))
			})
		}
	}
}

func TestWideUnits(t *testing.T) {
	utf16 := NewCodec(WideUTF16)
	utf32 := NewCodec(WideUTF32)

	w16, err := utf16.UTF8ToWide([]byte("a🎉"))
	require.NoError(t, err)
	assert.Equal(t, WideText{'a', 0xD83C, 0xDF89}, w16)

	w32, err := utf32.UTF8ToWide([]byte("a🎉"))
	require.NoError(t, err)
	assert.Equal(t, WideText{'a', 0x1F389}, w32)
}

func TestEmptyInputSucceeds(t *testing.T) {
	for _, enc := range []WideEncoding{WideUTF16, WideUTF32} {
		codec := NewCodec(enc)

		wide, err := codec.UTF8ToWide(nil)
		require.NoError(t, err)
		assert.NotNil(t, wide)
		assert.Empty(t, wide)

		narrow, err := codec.WideToUTF8(WideText{})
		require.NoError(t, err)
		assert.NotNil(t, narrow)
		assert.Empty(t, narrow)
	}
}

func TestInvalidUTF8Fails(t *testing.T) {
	codec := NewCodec(WideUTF32)

	_, err := codec.UTF8ToWide([]byte{'o', 'k', 0xff, 0xfe})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConversion))

	var te *TextError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "utf8-to-wide", te.Op)
	assert.Equal(t, 2, te.Offset)
}

func TestInvalidUTF8NamesCharset(t *testing.T) {
	codec := NewCodec(WideUTF16)
	latin1 := []byte("Le caf\xe9 est tr\xe8s bon et la cr\xe8me br\xfbl\xe9e aussi, voil\xe0 pourquoi nous revenons souvent")

	_, err := codec.UTF8ToWide(latin1)
	var te *TextError
	require.True(t, errors.As(err, &te))
	assert.NotEmpty(t, te.Charset)
	assert.Contains(t, err.Error(), "looks like")
}

func TestInvalidWideFails(t *testing.T) {
	tests := []struct {
		name   string
		enc    WideEncoding
		in     WideText
		offset int
	}{
		{"lone high surrogate", WideUTF16, WideText{'a', 0xD800}, 1},
		{"lone low surrogate", WideUTF16, WideText{0xDC00, 'a'}, 0},
		{"unit out of range", WideUTF16, WideText{0x10000}, 0},
		{"surrogate code point", WideUTF32, WideText{'x', 0xD834}, 1},
		{"beyond unicode", WideUTF32, WideText{0x110000}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(tt.enc).WideToUTF8(tt.in)
			var te *TextError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, "wide-to-utf8", te.Op)
			assert.Equal(t, tt.offset, te.Offset)
		})
	}
}

func TestParseWideEncoding(t *testing.T) {
	enc, err := ParseWideEncoding("UTF-16")
	require.NoError(t, err)
	assert.Equal(t, WideUTF16, enc)

	enc, err = ParseWideEncoding("utf32")
	require.NoError(t, err)
	assert.Equal(t, WideUTF32, enc)

	enc, err = ParseWideEncoding("")
	require.NoError(t, err)
	assert.Equal(t, PlatformWideEncoding(), enc)

	_, err = ParseWideEncoding("ucs2")
	assert.Error(t, err)
}
