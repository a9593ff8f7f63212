package transport

import (
	"fmt"
	"net"
)

// MaxDatagramSize is the largest UDP payload that fits in a single IPv4
// datagram (65535 - 8 byte UDP header - 20 byte IP header).
const MaxDatagramSize = 65507

// TransportError reports a failed send. Op is one of "marshal", "bind",
// "resolve" or "send".
type TransportError struct {
	Op   string
	Addr string
	Err  error
}

func (e *TransportError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("udp %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("udp %s to %s failed: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Send serializes p and transmits it to addr ("host:port") in one datagram.
//
// The local socket is bound to the wildcard address on an OS-assigned port and
// closed before Send returns. The returned count is the number of bytes
// written. Payloads larger than MaxDatagramSize fail without touching the
// network.
func Send(p Payload, addr string) (int, error) {
	data, err := p.Marshal()
	if err != nil {
		return 0, &TransportError{Op: "marshal", Err: err}
	}
	return SendBytes(data, addr)
}

// SendBytes transmits an already serialized body to addr in one datagram.
func SendBytes(data []byte, addr string) (int, error) {
	if len(data) > MaxDatagramSize {
		return 0, &TransportError{Op: "send", Addr: addr,
			Err: fmt.Errorf("payload of %d bytes exceeds datagram limit of %d", len(data), MaxDatagramSize)}
	}

	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return 0, &TransportError{Op: "resolve", Addr: addr, Err: err}
	}

	conn, err := net.ListenPacket("udp", ":0")
	if err != nil {
		return 0, &TransportError{Op: "bind", Addr: addr, Err: err}
	}
	defer conn.Close()

	n, err := conn.WriteTo(data, raddr)
	if err != nil {
		return n, &TransportError{Op: "send", Addr: addr, Err: err}
	}
	return n, nil
}
