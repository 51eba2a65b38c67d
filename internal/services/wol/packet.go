// Package wol provides Wake-on-LAN packet construction and delivery.
package wol

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/mdlayher/wol"
)

const (
	// DefaultPort is the discard port most NICs listen on. Port 7 (echo) is
	// used by some older implementations.
	DefaultPort = 9
	// DefaultBroadcastAddress is the limited broadcast address.
	DefaultBroadcastAddress = "255.255.255.255"
	// MagicPacketSize is 6x0xFF followed by 16 repetitions of the target MAC.
	MagicPacketSize = 6 + 16*6
)

var (
	// ErrInvalidAddress is returned for hardware addresses that are not
	// exactly 12 hex digits once separators are removed.
	ErrInvalidAddress = errors.New("invalid MAC address")
	// ErrMissingAddress is returned when neither the request nor the
	// configuration names a target.
	ErrMissingAddress = errors.New("no MAC address provided and no default configured")
)

// MagicPacket is the 102 byte Wake-on-LAN payload.
type MagicPacket [MagicPacketSize]byte

// Target returns the hardware address encoded in the packet.
func (p MagicPacket) Target() net.HardwareAddr {
	mac := make(net.HardwareAddr, 6)
	copy(mac, p[6:12])
	return mac
}

var separators = strings.NewReplacer(":", "", "-", "")

// ParseHardwareAddress accepts a 6 byte MAC address written with ':' or '-'
// separators, or none at all. Hex digits are case-insensitive.
func ParseHardwareAddress(s string) (net.HardwareAddr, error) {
	digits := separators.Replace(s)
	if len(digits) != 12 {
		return nil, fmt.Errorf("%w %q: want 12 hex digits, got %d characters", ErrInvalidAddress, s, len(digits))
	}

	b, err := hex.DecodeString(digits)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidAddress, s, err)
	}

	return net.HardwareAddr(b), nil
}

// BuildPacket encodes the magic packet for the given hardware address.
func BuildPacket(hardwareAddress string) (MagicPacket, error) {
	var pkt MagicPacket

	mac, err := ParseHardwareAddress(hardwareAddress)
	if err != nil {
		return pkt, err
	}

	mp := &wol.MagicPacket{Target: mac}
	b, err := mp.MarshalBinary()
	if err != nil {
		return pkt, fmt.Errorf("%w %q: %v", ErrInvalidAddress, hardwareAddress, err)
	}
	if len(b) != MagicPacketSize {
		return pkt, fmt.Errorf("unexpected magic packet length %d, want %d", len(b), MagicPacketSize)
	}

	copy(pkt[:], b)
	return pkt, nil
}
