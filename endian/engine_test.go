package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	require.Equal(t, binary.BigEndian, Select(true))
	require.Equal(t, binary.LittleEndian, Select(false))
}

func TestIsBigEndian(t *testing.T) {
	require.True(t, IsBigEndian(GetBigEndianEngine()))
	require.False(t, IsBigEndian(GetLittleEndianEngine()))
}

func TestEngineAppendMatchesPut(t *testing.T) {
	for _, engine := range []EndianEngine{GetLittleEndianEngine(), GetBigEndianEngine()} {
		buf := make([]byte, 8)
		engine.PutUint64(buf, 0x0102030405060708)

		appended := engine.AppendUint64(nil, 0x0102030405060708)
		require.Equal(t, buf, appended)
		require.Equal(t, uint64(0x0102030405060708), engine.Uint64(appended))
	}
}
