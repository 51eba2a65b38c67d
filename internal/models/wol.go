package models

import "time"

// SendOptions describes where and how a single magic packet is sent.
type SendOptions struct {
	Address   string        // destination broadcast address
	Port      int           // destination UDP port, usually 9 or 7
	Interface string        // local IPv4 address to bind from, empty lets the OS choose
	Timeout   time.Duration // zero means no deadline
}

// SendResult holds the outcome of one send attempt.
type SendResult struct {
	Success          bool
	InterfaceName    string // set for multi-interface sends
	InterfaceAddress string // set for multi-interface sends
	Error            error
}

// SendReport aggregates the attempts made for one wake request.
type SendReport struct {
	Results []SendResult
}

// Success reports whether at least one attempt succeeded.
func (r SendReport) Success() bool {
	for _, res := range r.Results {
		if res.Success {
			return true
		}
	}
	return false
}

// Failures returns the number of failed attempts.
func (r SendReport) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.Success {
			n++
		}
	}
	return n
}

// WakeRequest holds caller-supplied overrides. Zero values fall back to the
// configured defaults.
type WakeRequest struct {
	MACAddress    string
	Address       string
	Port          int
	Interface     string
	AllInterfaces bool
}

// WakeResult holds the result of a wake request.
type WakeResult struct {
	MACAddress string // normalized, lowercase with colons
	Options    SendOptions
	Report     SendReport
	Duration   time.Duration
}

// Success reports whether any underlying attempt succeeded.
func (r *WakeResult) Success() bool {
	return r.Report.Success()
}
