// Package waker resolves wake requests against the configured defaults and
// dispatches the magic packet.
package waker

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/fgeck/wolgate/internal/models"
	"github.com/fgeck/wolgate/internal/services/telegram"
	"github.com/fgeck/wolgate/internal/services/wol"
	"github.com/rs/zerolog"
)

// Service defines the interface for the wake orchestrator.
type Service interface {
	Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error)
}

// Impl implements the waker Service interface.
type Impl struct {
	cfg         models.Config
	wolSvc      wol.Service
	telegramSvc telegram.Service
	logger      zerolog.Logger
}

// New creates a new waker service.
func New(logger zerolog.Logger, cfg models.Config) *Impl {
	return &Impl{
		cfg:         cfg,
		wolSvc:      wol.New(logger),
		telegramSvc: telegram.New(logger),
		logger:      logger,
	}
}

// NewWithServices creates a new waker service with custom services (for testing).
func NewWithServices(
	logger zerolog.Logger,
	cfg models.Config,
	wolSvc wol.Service,
	telegramSvc telegram.Service,
) *Impl {
	return &Impl{
		cfg:         cfg,
		wolSvc:      wolSvc,
		telegramSvc: telegramSvc,
		logger:      logger,
	}
}

// Wake sends a magic packet for req. wol.ErrMissingAddress and
// wol.ErrInvalidAddress are returned before any socket is opened; transport
// failures are reported in the result.
func (s *Impl) Wake(ctx context.Context, req models.WakeRequest) (*models.WakeResult, error) {
	startTime := time.Now()

	mac := req.MACAddress
	if mac == "" {
		mac = s.cfg.WOL.MACAddress
	}
	if mac == "" {
		WakeRequestsTotal.WithLabelValues("missing_address").Inc()
		return nil, wol.ErrMissingAddress
	}

	pkt, err := wol.BuildPacket(mac)
	if err != nil {
		WakeRequestsTotal.WithLabelValues("invalid_address").Inc()
		return nil, err
	}

	result := &models.WakeResult{
		MACAddress: pkt.Target().String(),
		Options:    s.options(req),
	}

	s.logger.Info().
		Str("mac", result.MACAddress).
		Str("destination", destination(result.Options)).
		Str("interface", result.Options.Interface).
		Bool("all_interfaces", req.AllInterfaces).
		Msg("sending Wake-on-LAN packet")

	if req.AllInterfaces {
		result.Report = s.wolSvc.SendToAllInterfaces(ctx, pkt, result.Options)
	} else {
		res := s.wolSvc.Send(ctx, pkt, result.Options)
		result.Report = models.SendReport{Results: []models.SendResult{res}}
	}
	result.Duration = time.Since(startTime)

	if result.Success() {
		WakeRequestsTotal.WithLabelValues("success").Inc()
		s.logger.Info().
			Str("mac", result.MACAddress).
			Int("attempts", len(result.Report.Results)).
			Int("failures", result.Report.Failures()).
			Dur("duration", result.Duration).
			Msg("Wake-on-LAN packet sent")
	} else {
		WakeRequestsTotal.WithLabelValues("failure").Inc()
		s.logger.Error().
			Err(reportError(result.Report)).
			Str("mac", result.MACAddress).
			Int("attempts", len(result.Report.Results)).
			Msg("Wake-on-LAN packet could not be sent")
	}

	if s.cfg.Telegram != nil {
		s.sendNotification(ctx, req, result, startTime)
	}

	return result, nil
}

// options fills the request's empty fields from the configured defaults.
func (s *Impl) options(req models.WakeRequest) models.SendOptions {
	opts := models.SendOptions{
		Address:   req.Address,
		Port:      req.Port,
		Interface: req.Interface,
		Timeout:   s.cfg.WOL.Timeout,
	}
	if opts.Address == "" {
		opts.Address = s.cfg.WOL.BroadcastAddress
	}
	if opts.Address == "" {
		opts.Address = wol.DefaultBroadcastAddress
	}
	if opts.Port == 0 {
		opts.Port = s.cfg.WOL.Port
	}
	if opts.Port == 0 {
		opts.Port = wol.DefaultPort
	}
	if req.AllInterfaces {
		opts.Interface = ""
	}
	return opts
}

func (s *Impl) sendNotification(
	ctx context.Context,
	req models.WakeRequest,
	result *models.WakeResult,
	startTime time.Time,
) {
	msg := models.TelegramMessage{
		Success:       result.Success(),
		MACAddress:    result.MACAddress,
		Destination:   destination(result.Options),
		AllInterfaces: req.AllInterfaces,
		StartTime:     startTime,
		Duration:      result.Duration,
		Attempts:      len(result.Report.Results),
		Failures:      result.Report.Failures(),
	}
	if err := reportError(result.Report); err != nil && !msg.Success {
		msg.ErrorMessage = err.Error()
	}

	res, err := s.telegramSvc.SendNotification(ctx, *s.cfg.Telegram, msg)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to send Telegram notification")
		return
	}
	if res.Error != nil {
		s.logger.Error().Err(res.Error).Msg("failed to send Telegram notification")
		return
	}

	s.logger.Debug().Msg("Telegram notification sent")
}

func destination(opts models.SendOptions) string {
	return net.JoinHostPort(opts.Address, strconv.Itoa(opts.Port))
}

// reportError joins the errors of all failed attempts, or returns a
// placeholder for an empty report.
func reportError(report models.SendReport) error {
	if len(report.Results) == 0 {
		return errors.New("no usable network interface")
	}
	var errs []error
	for _, res := range report.Results {
		if res.Error != nil {
			errs = append(errs, res.Error)
		}
	}
	return errors.Join(errs...)
}
