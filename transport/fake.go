package transport

import (
	"fmt"
	"io"
)

// FakeCollab is an in-memory Collab used by node tests: it
// holds queued request/response bytes instead of touching a socket.
type FakeCollab struct {
	PendingRequests  [][]byte
	Replies          [][]byte
	Broadcasts       [][]byte
	SendTCPResponses [][]byte
	sendIdx          int

	// Disconnected makes RecvTCP report a genuine peer disconnect (io.EOF)
	// once PendingRequests is drained, instead of the default ErrTimeout
	// ("nothing pending yet").
	Disconnected bool
}

var _ Collab = (*FakeCollab)(nil)

// SendTCP returns the next queued response from SendTCPResponses, in order.
func (f *FakeCollab) SendTCP(req []byte) ([]byte, error) {
	if f.sendIdx >= len(f.SendTCPResponses) {
		return nil, fmt.Errorf("fake transport: no more queued SendTCP responses")
	}
	resp := f.SendTCPResponses[f.sendIdx]
	f.sendIdx++
	return resp, nil
}

// RecvTCP pops the next queued request. Once PendingRequests is drained it
// returns ErrTimeout, or io.EOF if Disconnected is set, mirroring
// NetTransport's distinction between "nothing pending yet" and "peer gone".
func (f *FakeCollab) RecvTCP() ([]byte, error) {
	if len(f.PendingRequests) == 0 {
		if f.Disconnected {
			return nil, io.EOF
		}
		return nil, ErrTimeout
	}
	req := f.PendingRequests[0]
	f.PendingRequests = f.PendingRequests[1:]
	return req, nil
}

// ReplyTCP records resp for inspection by the test.
func (f *FakeCollab) ReplyTCP(resp []byte) error {
	f.Replies = append(f.Replies, resp)
	return nil
}

// SendUDPBroadcast records frame for inspection by the test.
func (f *FakeCollab) SendUDPBroadcast(frame []byte) error {
	f.Broadcasts = append(f.Broadcasts, frame)
	return nil
}

// Close is a no-op for the fake.
func (f *FakeCollab) Close() error { return nil }
