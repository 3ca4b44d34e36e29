package websocket

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/robotalks/telelink/pkg/msgs"
	"github.com/robotalks/telelink/pkg/uplink"
)

// ackPeer decodes every batch and replies with an Ack.
func ackPeer(batchCh chan<- *msgs.Batch) websocket.Handler {
	return func(conn *websocket.Conn) {
		rw := New(conn)
		for {
			pkt, err := rw.ReadPacket()
			if err != nil {
				return
			}
			b, err := msgs.DecodeBatch(pkt)
			if err != nil {
				return
			}
			batchCh <- b
			reply, _ := msgs.NewAck(b).Encode()
			if err := rw.WritePacket(reply); err != nil {
				return
			}
		}
	}
}

func TestPacketLinkOverWebsocket(t *testing.T) {
	batchCh := make(chan *msgs.Batch, 1)
	srv := httptest.NewServer(ackPeer(batchCh))
	defer srv.Close()

	rw, err := Dial("ws"+strings.TrimPrefix(srv.URL, "http"), srv.URL)
	require.NoError(t, err)
	link := uplink.NewPacketLink(rw, msgs.NewEncoder("dev1"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go link.Run(ctx)

	for _, b := range []byte{1, 2, 3} {
		require.NoError(t, link.WriteByte(b))
	}
	require.NoError(t, link.Flush())

	select {
	case b := <-batchCh:
		require.Equal(t, "dev1", b.GetDeviceId())
		require.Equal(t, []byte{1, 2, 3}, b.GetSamples())
	case <-time.After(time.Second):
		t.Fatal("batch not received")
	}

	deadline := time.Now().Add(time.Second)
	for {
		if b, ok := link.TryReadByte(); ok {
			require.Equal(t, byte(uplink.AckByte), b)
			break
		}
		require.True(t, time.Now().Before(deadline), "ack not received")
		time.Sleep(time.Millisecond)
	}
}
