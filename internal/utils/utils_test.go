package utils

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestAlignTo(t *testing.T) {
	cases := []struct {
		offset, align, want uint64
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{9, 8, 16},
		{0, 1, 0},
		{5, 1, 5},
	}
	for _, c := range cases {
		if got := AlignTo(c.offset, c.align); got != c.want {
			t.Errorf("AlignTo(%d, %d) = %d, want %d", c.offset, c.align, got, c.want)
		}
	}
}

func TestAlignToSigned(t *testing.T) {
	cases := []struct {
		offset, align, want int64
	}{
		{0, 4, 0},
		{1, 4, 4},
		{100, 1, 100},
		{-1, 4, 0}, // alignment does not preserve the -1 sentinel; callers only ever align real offsets
	}
	for _, c := range cases {
		if got := AlignToSigned(c.offset, c.align); got != c.want {
			t.Errorf("AlignToSigned(%d, %d) = %d, want %d", c.offset, c.align, got, c.want)
		}
	}
}

func TestReadDecodesLittleEndianStruct(t *testing.T) {
	type pair struct {
		A uint32
		B uint64
	}
	in := pair{A: 42, B: 1 << 40}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, in); err != nil {
		t.Fatal(err)
	}

	var out pair
	Read(buf.Bytes(), &out)
	if out != in {
		t.Fatalf("Read = %+v, want %+v", out, in)
	}
}
