package protocol

import (
	"testing"

	"github.com/ethaniccc/float32-cube/cube"
	"github.com/stretchr/testify/require"
)

func TestBlockPosRoundTrip(t *testing.T) {
	positions := []cube.Pos{
		{0, 0, 0},
		{1, 2, 3},
		{-1, -1, -1},
		{30000000, 319, 30000000},
		{-30000000, -64, -30000000},
		{12550820, -2048, -12550820},
	}
	for _, pos := range positions {
		b := NewBuffer(nil)
		b.WriteBlockPos(pos)
		require.Len(t, b.Bytes(), 8)

		got, err := b.ReadBlockPos()
		require.NoError(t, err)
		require.Equal(t, pos, got, "position %v did not survive the wire", pos)
	}
}

func TestSectionPosRoundTrip(t *testing.T) {
	sections := []SectionPos{
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: 0, Z: 0},
		{X: 1875000, Y: -8, Z: -1875000},
		{X: -2097152, Y: 524287, Z: 2097151},
	}
	for _, s := range sections {
		b := NewBuffer(nil)
		b.WriteSectionPos(s)

		got, err := b.ReadSectionPos()
		require.NoError(t, err)
		require.Equal(t, s, got, "section %v did not survive the wire", s)
	}
}

func TestSectionPosNegativeX(t *testing.T) {
	b := NewBuffer(nil)
	b.WriteSectionPos(SectionPos{X: -1})

	got, err := b.ReadSectionPos()
	require.NoError(t, err)
	require.Equal(t, SectionPos{X: -1, Y: 0, Z: 0}, got)
}

func TestBlockRecordAbsolutePosition(t *testing.T) {
	rec := BlockRecord{X: 3, Z: 7, Y: 5, State: 42}
	section := SectionPos{X: 0, Y: 4, Z: 0}

	b := NewBuffer(nil)
	b.WriteBlockRecord(rec)
	got, err := b.ReadBlockRecord()
	require.NoError(t, err)
	require.Equal(t, rec, got)

	require.Equal(t, cube.Pos{3, 4*16 + 5, 7}, got.Pos(section))
	require.Equal(t, int32(42), got.State)
}
