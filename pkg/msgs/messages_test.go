package msgs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestEncoder(t *testing.T) {
	e := NewEncoder("dev1")
	_, err := uuid.Parse(e.Session)
	require.NoError(t, err)
	e.now = func() time.Time { return time.Unix(10, 5) }

	for seq := uint64(1); seq <= 2; seq++ {
		data, err := e.Encode([]byte{1, 2, 3})
		require.NoError(t, err)
		b, err := DecodeBatch(data)
		require.NoError(t, err)
		require.Equal(t, "dev1", b.GetDeviceId())
		require.Equal(t, e.Session, b.GetSession())
		require.Equal(t, seq, b.GetSeq())
		require.Equal(t, int64(10000000005), b.GetTimestamp())
		require.Equal(t, []byte{1, 2, 3}, b.GetSamples())
	}
	require.Equal(t, uint64(2), e.Seq())
	require.NotEqual(t, e.Session, NewEncoder("dev1").Session)
}

func TestAck(t *testing.T) {
	e := NewEncoder("dev1")
	data, err := e.Encode([]byte{9})
	require.NoError(t, err)
	b, err := DecodeBatch(data)
	require.NoError(t, err)

	data, err = NewAck(b).Encode()
	require.NoError(t, err)
	ack, err := DecodeAck(data)
	require.NoError(t, err)
	require.Equal(t, e.Session, ack.GetSession())
	require.Equal(t, uint64(1), ack.GetSeq())

	_, err = DecodeAck([]byte{0xff})
	require.Error(t, err)
}
