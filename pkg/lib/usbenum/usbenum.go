package usbenum

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/abhk-odoo/odoo-printer-agent/pkg/lib"
)

// Unknown is reported for a string descriptor that could not be read.
const Unknown = "Unknown"

// DefaultWorkers bounds how many devices are described at once.
const DefaultWorkers = 4

// Candidate is a device seen during listing. Listing opens nothing.
type Candidate struct {
	Bus       int
	Address   int
	VendorID  uint16
	ProductID uint16
}

// Device is an opened device whose string descriptors can be read.
type Device interface {
	Manufacturer() (string, error)
	Product() (string, error)
	Close() error
}

// Bus is one enumeration session over the host's devices.
type Bus interface {
	Devices() ([]Candidate, error)
	Open(c Candidate) (Device, error)
	Close() error
}

// BusOpener starts a new enumeration session.
type BusOpener func() (Bus, error)

// Enumerator builds device records from a fresh bus snapshot on every call.
// It holds no mutable state and is safe for concurrent use.
type Enumerator struct {
	open    BusOpener
	workers int
	log     *slog.Logger
}

// New returns an enumerator. workers <= 0 selects DefaultWorkers.
func New(open BusOpener, workers int, log *slog.Logger) *Enumerator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Enumerator{open: open, workers: workers, log: log.With("component", "usbenum")}
}

// ListDevices describes every device that could be opened, in bus order.
// Failures never surface: a bus that cannot be listed yields an empty result
// and a device that cannot be opened is skipped.
func (e *Enumerator) ListDevices(ctx context.Context) []lib.DeviceRecord {
	bus, err := e.open()
	if err != nil {
		e.log.Warn("usb bus unavailable", "error", err)
		return []lib.DeviceRecord{}
	}
	defer func() {
		if err := bus.Close(); err != nil {
			e.log.Debug("close usb bus", "error", err)
		}
	}()

	candidates, err := bus.Devices()
	if err != nil {
		e.log.Warn("usb device listing failed", "error", err)
		return []lib.DeviceRecord{}
	}

	// each worker writes only its own index
	found := make([]*lib.DeviceRecord, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, c := range candidates {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if rec, ok := e.describe(bus, c); ok {
				found[i] = &rec
			}
			return nil
		})
	}
	_ = g.Wait()

	records := make([]lib.DeviceRecord, 0, len(candidates))
	for _, rec := range found {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	e.log.Debug("usb scan finished", "seen", len(candidates), "described", len(records))
	return records
}

func (e *Enumerator) describe(bus Bus, c Candidate) (lib.DeviceRecord, bool) {
	dev, err := bus.Open(c)
	if err != nil {
		e.log.Debug("skip usb device", "bus", c.Bus, "address", c.Address, "error", err)
		return lib.DeviceRecord{}, false
	}
	defer func() {
		if err := dev.Close(); err != nil {
			e.log.Debug("close usb device", "bus", c.Bus, "address", c.Address, "error", err)
		}
	}()

	return lib.DeviceRecord{
		VendorID:     FormatID(c.VendorID),
		ProductID:    FormatID(c.ProductID),
		Manufacturer: readOr(dev.Manufacturer, Unknown),
		Product:      readOr(dev.Product, Unknown),
	}, true
}

// FormatID renders a vendor or product id as four lowercase hex digits.
func FormatID(id uint16) string {
	return fmt.Sprintf("%04x", id)
}

// readOr returns fallback when read fails, panics, or yields an empty string.
func readOr(read func() (string, error), fallback string) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fallback
		}
	}()
	v, err := read()
	if err != nil || v == "" {
		return fallback
	}
	return v
}
