package devicebackend

import (
	"context"

	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// Transport identifies how the sensor module is attached to the host.
// The numeric values are part of the config contract.
type Transport int

const (
	TransportCSI Transport = 0
	TransportUSB Transport = 1
)

func (t Transport) String() string {
	switch t {
	case TransportCSI:
		return "csi"
	case TransportUSB:
		return "usb"
	}
	return "unknown"
}

// ResolveTransport maps a config-file transport name to a Transport.
func ResolveTransport(t string) Transport {
	switch t {
	case "csi":
		return TransportCSI
	default:
		return TransportUSB
	}
}

// Type is the sensor module variant.
type Type int

const (
	TypeVGA   Type = 0
	TypeHQVGA Type = 1
)

func (t Type) Dimensions() tofframe.Dimensions {
	if t == TypeHQVGA {
		return tofframe.Dimensions{W: 240, H: 180}
	}
	return tofframe.Dimensions{W: 640, H: 480}
}

func (t Type) String() string {
	if t == TypeHQVGA {
		return "hqvga"
	}
	return "vga"
}

// Info is a static capability snapshot of an opened device.
type Info struct {
	Index         int
	Transport     Transport
	Type          Type
	Kind          tofframe.Kind
	Width         int
	Height        int
	BitWidth      int
	BytesPerPixel int
}

// Low level control hook IDs shared between the camera session and
// the device backends.
const (
	DeviceControlExposure = iota
	DeviceControlFrameRate
	DeviceControlRange
)

type Device interface {
	Info() Info
	ReadPhaseGroup(*tofframe.PhaseGroup) error
	ApplyControl(id, val int) error
	IsOpen() bool
	Close() error
}

type Backend interface {
	Open(context.Context, Transport, int) (Device, error)
}

func Default() Backend {
	return UVC()
}

func UVC() Backend {
	return &uvcBackend{}
}

func Mock() Backend {
	return &mockBackend{}
}

func Resolve(t string) Backend {
	switch t {
	case "mock":
		return Mock()
	default:
		return Default()
	}
}
