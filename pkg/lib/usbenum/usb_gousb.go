package usbenum

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
)

var errDeviceGone = errors.New("device no longer on the bus")

type usbBus struct {
	ctx *gousb.Context
}

// OpenUSB starts a libusb session. It is the production BusOpener.
func OpenUSB() (b Bus, err error) {
	// gousb panics when libusb cannot be initialized
	defer func() {
		if r := recover(); r != nil {
			b, err = nil, fmt.Errorf("init libusb: %v", r)
		}
	}()
	return &usbBus{ctx: gousb.NewContext()}, nil
}

func (b *usbBus) Devices() ([]Candidate, error) {
	var out []Candidate
	_, err := b.ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		out = append(out, Candidate{
			Bus:       d.Bus,
			Address:   d.Address,
			VendorID:  uint16(d.Vendor),
			ProductID: uint16(d.Product),
		})
		return false
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *usbBus) Open(c Candidate) (Device, error) {
	devs, err := b.ctx.OpenDevices(func(d *gousb.DeviceDesc) bool {
		return d.Bus == c.Bus && d.Address == c.Address
	})
	if len(devs) == 0 {
		if err == nil {
			err = errDeviceGone
		}
		return nil, fmt.Errorf("open %03d.%03d: %w", c.Bus, c.Address, err)
	}
	for _, extra := range devs[1:] {
		_ = extra.Close()
	}
	return devs[0], nil
}

func (b *usbBus) Close() error {
	return b.ctx.Close()
}
