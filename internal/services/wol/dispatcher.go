package wol

import (
	"context"
	"fmt"
	"net"

	"github.com/fgeck/wolgate/internal/models"
	"golang.org/x/sync/errgroup"
)

// NetInterface is one address configured on a local network interface.
type NetInterface struct {
	Name     string
	Address  net.IP
	IPv4     bool
	Internal bool // loopback
}

// InterfaceLister enumerates local interface addresses (for mocking).
type InterfaceLister interface {
	Interfaces() ([]NetInterface, error)
}

// SystemInterfaces lists the addresses of the host's network interfaces.
type SystemInterfaces struct{}

// Interfaces returns one entry per address of every local interface.
func (SystemInterfaces) Interfaces() ([]NetInterface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate network interfaces: %w", err)
	}

	var list []NetInterface
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			return nil, fmt.Errorf("failed to get addresses of %s: %w", iface.Name, err)
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			list = append(list, NetInterface{
				Name:     iface.Name,
				Address:  ipnet.IP,
				IPv4:     ipnet.IP.To4() != nil,
				Internal: iface.Flags&net.FlagLoopback != 0,
			})
		}
	}

	return list, nil
}

// Qualifying returns the non-loopback IPv4 entries of list.
func Qualifying(list []NetInterface) []NetInterface {
	var out []NetInterface
	for _, iface := range list {
		if !iface.IPv4 || iface.Internal {
			continue
		}
		out = append(out, iface)
	}
	return out
}

// SendToAllInterfaces sends packet once from every non-loopback IPv4
// address, concurrently. The destination in base is left untouched. The
// report lists attempts in enumeration order; no qualifying interface
// yields an empty report.
func (s *Impl) SendToAllInterfaces(ctx context.Context, packet MagicPacket, base models.SendOptions) models.SendReport {
	list, err := s.lister.Interfaces()
	if err != nil {
		s.logger.Error().Err(err).Msg("interface enumeration failed")
		return models.SendReport{Results: []models.SendResult{{Error: err}}}
	}

	targets := Qualifying(list)
	if len(targets) == 0 {
		s.logger.Warn().Msg("no non-loopback IPv4 interfaces found")
		return models.SendReport{}
	}

	results := make([]models.SendResult, len(targets))
	var g errgroup.Group
	for i, iface := range targets {
		g.Go(func() error {
			opts := base
			opts.Interface = iface.Address.String()

			res := s.Send(ctx, packet, opts)
			res.InterfaceName = iface.Name
			res.InterfaceAddress = opts.Interface
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	InterfacesDispatchedTotal.Add(float64(len(targets)))

	report := models.SendReport{Results: results}
	s.logger.Info().
		Int("interfaces", len(targets)).
		Int("failures", report.Failures()).
		Bool("success", report.Success()).
		Msg("magic packet dispatched on all interfaces")

	return report
}
