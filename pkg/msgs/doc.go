// Package msgs defines the messages exchanged with a packet-oriented
// uplink peer.
//
// Every forwarded buffer is sent as one TelemetryBatch. The peer answers
// with an Ack; any packet received from the peer counts as an
// acknowledgment, the Ack content is informational.
package msgs
