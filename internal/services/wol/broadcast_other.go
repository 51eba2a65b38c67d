//go:build !unix

package wol

import "syscall"

// enableBroadcast is a no-op here: the runtime already sets SO_BROADCAST on
// IPv4 datagram sockets.
func enableBroadcast(_, _ string, _ syscall.RawConn) error {
	return nil
}
