// Package transport sends a processed image as a single JSON datagram over UDP.
//
// The wire format is one UTF-8 JSON object with a single field:
//
//	{"image":"<base64 of a JPEG byte stream>"}
//
// Delivery is fire-and-forget. Send binds an ephemeral local socket, writes the
// whole payload in one datagram and closes the socket. There is no
// acknowledgement, retry or fragmentation, so a send to an address nobody
// listens on still succeeds, and a lost datagram is never reported.
package transport
