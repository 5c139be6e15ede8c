package decode

import (
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readAll drains a decoder through the public Read method.
func readAll(t *testing.T, d *Decoder) string {
	t.Helper()
	var out []rune
	buf := make([]rune, 7)
	for {
		n, err := d.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return string(out)
		}
		require.NoError(t, err)
	}
}

func TestDecodeASCII(t *testing.T) {
	d := NewDecoder("t", strings.NewReader("a\nb\nc"), 5)
	got := readAll(t, d)
	assert.Equal(t, "a\nb\nc", got)

	src := d.Source()
	assert.Equal(t, 5, src.CharCount())
	assert.Equal(t, 3, src.LineCount())
	count, first := src.BadBytes()
	assert.Equal(t, 0, count)
	assert.Equal(t, -1, first)
}

func TestDecodeUTF8RoundTrip(t *testing.T) {
	in := "héllo wörld 北京 \U0001D11E done\n"
	d := NewDecoder("t", strings.NewReader(in), int64(len(in)))
	assert.Equal(t, in, readAll(t, d))

	count, _ := d.Source().BadBytes()
	assert.Equal(t, 0, count)
}

func TestDecodeOneByteReads(t *testing.T) {
	// Multi-byte sequences split across reads must reassemble, not
	// degrade into substitutions.
	in := "héllo \U0001D11E"
	d := NewDecoder("t", iotest.OneByteReader(strings.NewReader(in)), -1)
	assert.Equal(t, in, readAll(t, d))

	count, _ := d.Source().BadBytes()
	assert.Equal(t, 0, count)
}

func TestDecodeMalformedBytes(t *testing.T) {
	tests := []struct {
		name      string
		in        []byte
		want      string
		wantCount int
		wantFirst int
	}{
		{
			name:      "copyright sign",
			in:        []byte{'A', 0xA9, 'B'},
			want:      "A©B",
			wantCount: 1,
			wantFirst: 1,
		},
		{
			name:      "latin1 accent",
			in:        []byte{0xC9, 't', 0xE9},
			want:      "Été",
			wantCount: 2,
			wantFirst: 0,
		},
		{
			name:      "layout bytes become spaces",
			in:        []byte{'a', 0xA0, 'b', 0xA7, 'c'},
			want:      "a b c",
			wantCount: 2,
			wantFirst: 1,
		},
		{
			name:      "bullets become comment chars",
			in:        []byte{0x95, ' ', 'x'},
			want:      "* x",
			wantCount: 1,
			wantFirst: 0,
		},
		{
			name:      "unknown byte",
			in:        []byte{'a', 0x81, 'b'},
			want:      "a?b",
			wantCount: 1,
			wantFirst: 1,
		},
		{
			name:      "truncated sequence at end of input",
			in:        []byte{'A', 0xC3},
			want:      "AÃ",
			wantCount: 1,
			wantFirst: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder("t", strings.NewReader(string(tt.in)), -1)
			assert.Equal(t, tt.want, readAll(t, d))

			count, first := d.Source().BadBytes()
			assert.Equal(t, tt.wantCount, count)
			assert.Equal(t, tt.wantFirst, first)
		})
	}
}

func TestDecodeMarkupRewrite(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`say &quot;hi&quot;`, `say "hi"`},
		{`say &#34;hi&#34;`, `say "hi"`},
		{`<var>name</var>`, `"name"`},
		{`a&quotb`, `a&quotb`},     // incomplete sequence spills literally
		{`&&quot;`, `&"`},          // restart inside a failed prefix
		{`tail ends with &quo`, `tail ends with &quo`}, // flushed at EOF
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d := NewDecoder("t", strings.NewReader(tt.in), -1)
			assert.Equal(t, tt.want, readAll(t, d))
		})
	}
}

func TestLineNumber(t *testing.T) {
	in := "one\ntwo\nthree"
	d := NewDecoder("t", strings.NewReader(in), -1)
	readAll(t, d)
	src := d.Source()

	assert.Equal(t, 3, src.LineCount())
	assert.Equal(t, 1, src.LineNumber(0))
	assert.Equal(t, 1, src.LineNumber(3)) // the newline belongs to its line
	assert.Equal(t, 2, src.LineNumber(4))
	assert.Equal(t, 2, src.LineNumber(6))
	assert.Equal(t, 3, src.LineNumber(8))
	assert.Equal(t, 3, src.LineNumber(12))
}

func TestReadShortBuffer(t *testing.T) {
	d := NewDecoder("t", strings.NewReader("abc"), -1)
	_, err := d.Read(make([]rune, 1))
	assert.ErrorIs(t, err, ErrShortBuffer)
}

func TestReadDelimited(t *testing.T) {
	d := NewDecoder("t", strings.NewReader("one\ntwo"), -1)

	var acc []rune
	n, err := d.ReadDelimited('\n', &acc)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "one", string(acc))

	acc = acc[:0]
	n, err = d.ReadDelimited('\n', &acc)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "two", string(acc))

	acc = acc[:0]
	_, err = d.ReadDelimited('\n', &acc)
	assert.ErrorIs(t, err, io.EOF)
}

type failReader struct{ after int }

func (r *failReader) Read(p []byte) (int, error) {
	if r.after <= 0 {
		return 0, io.ErrUnexpectedEOF
	}
	n := r.after
	if n > len(p) {
		n = len(p)
	}
	for i := 0; i < n; i++ {
		p[i] = 'x'
	}
	r.after -= n
	return n, nil
}

func TestReadErrorCarriesPosition(t *testing.T) {
	d := NewDecoder("broken", &failReader{after: 3}, -1)
	buf := make([]rune, 16)
	n, err := d.Read(buf)
	// The three good characters arrive before the failure surfaces.
	if n == 3 {
		_, err = d.Read(buf)
	}
	require.Error(t, err)

	var perr *PositionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "broken", perr.Name)
	assert.Equal(t, 3, perr.Offset)
	assert.Equal(t, 1, perr.Line)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
