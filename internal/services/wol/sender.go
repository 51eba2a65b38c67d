package wol

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/rs/zerolog"
)

// Service defines the interface for magic packet delivery.
type Service interface {
	Send(ctx context.Context, packet MagicPacket, opts models.SendOptions) models.SendResult
	SendToAllInterfaces(ctx context.Context, packet MagicPacket, base models.SendOptions) models.SendReport
}

// Transport writes a payload as a single UDP datagram (for mocking).
type Transport interface {
	Send(ctx context.Context, payload []byte, opts models.SendOptions) error
}

// UDPTransport is the default Transport. Every call owns its own socket.
type UDPTransport struct{}

// Send opens a broadcast-capable UDP socket, optionally bound to
// opts.Interface, writes payload to opts.Address:opts.Port and closes the
// socket again.
func (t *UDPTransport) Send(ctx context.Context, payload []byte, opts models.SendOptions) error {
	dst := net.ParseIP(opts.Address).To4()
	if dst == nil {
		return fmt.Errorf("invalid address %q", opts.Address)
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return fmt.Errorf("invalid port %d", opts.Port)
	}

	laddr := ":0"
	if opts.Interface != "" {
		ip := net.ParseIP(opts.Interface).To4()
		if ip == nil {
			return fmt.Errorf("invalid interface address %q", opts.Interface)
		}
		laddr = net.JoinHostPort(ip.String(), "0")
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	lc := net.ListenConfig{Control: enableBroadcast}
	conn, err := lc.ListenPacket(ctx, "udp4", laddr)
	if err != nil {
		return fmt.Errorf("bind failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}
	n, err := conn.WriteTo(payload, &net.UDPAddr{IP: dst, Port: opts.Port})
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("send failed: short write of %d/%d bytes", n, len(payload))
	}

	return nil
}

// Impl implements the WOL Service interface.
type Impl struct {
	transport Transport
	lister    InterfaceLister
	logger    zerolog.Logger
}

// New creates a new WOL service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		transport: &UDPTransport{},
		lister:    &SystemInterfaces{},
		logger:    logger,
	}
}

// NewWithClients creates a new WOL service with a custom transport and
// interface lister (for testing).
func NewWithClients(logger zerolog.Logger, transport Transport, lister InterfaceLister) *Impl {
	return &Impl{
		transport: transport,
		lister:    lister,
		logger:    logger,
	}
}

// Send delivers packet once using opts. Transport failures are reported in
// the result, never returned.
func (s *Impl) Send(ctx context.Context, packet MagicPacket, opts models.SendOptions) models.SendResult {
	dest := net.JoinHostPort(opts.Address, strconv.Itoa(opts.Port))

	s.logger.Debug().
		Str("mac", packet.Target().String()).
		Str("destination", dest).
		Str("interface", opts.Interface).
		Msg("sending magic packet")

	if err := s.transport.Send(ctx, packet[:], opts); err != nil {
		SendAttemptsTotal.WithLabelValues("failure").Inc()
		s.logger.Warn().
			Err(err).
			Str("destination", dest).
			Str("interface", opts.Interface).
			Msg("magic packet send failed")
		return models.SendResult{Error: err}
	}

	SendAttemptsTotal.WithLabelValues("success").Inc()
	return models.SendResult{Success: true}
}
