package devicebackend

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tauraamui/xerror"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

type mockBackend struct{}

func (b *mockBackend) Open(cancel context.Context, transport Transport, index int) (Device, error) {
	return &mockDevice{
		transport: transport,
		index:     index,
		sensor:    TypeHQVGA,
		isOpen:    true,
		rangeMM:   4000,
	}, nil
}

// mockDevice synthesises phase groups for a scene made of a sloped
// backdrop with a sphere orbiting in front of it. The scene is a pure
// function of the read sequence number, so captures are deterministic
// and replayable in tests.
type mockDevice struct {
	mu        sync.Mutex
	transport Transport
	index     int
	sensor    Type
	isOpen    bool
	rangeMM   int
	exposure  int
	seq       uint64
}

func (d *mockDevice) Info() Info {
	d.mu.Lock()
	defer d.mu.Unlock()
	dims := d.sensor.Dimensions()
	return Info{
		Index:         d.index,
		Transport:     d.transport,
		Type:          d.sensor,
		Kind:          tofframe.KindRaw,
		Width:         dims.W,
		Height:        dims.H,
		BitWidth:      12,
		BytesPerPixel: 2,
	}
}

const (
	mockBackdropNearMM = 800
	mockBackdropFarMM  = 3600
	mockSphereDepthMM  = 600
	mockSphereRadius   = 40.0

	mockSampleOffset     = 1200.0
	mockSampleAmplitude  = 420.0
	mockSphereBrightness = 640.0
)

func (d *mockDevice) ReadPhaseGroup(pg *tofframe.PhaseGroup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isOpen {
		return xerror.New("device is not open")
	}

	dims := d.sensor.Dimensions()
	if pg.Width != dims.W || pg.Height != dims.H {
		return xerror.Errorf(
			"phase group dimensions %dx%d do not match sensor dimensions %dx%d",
			pg.Width, pg.Height, dims.W, dims.H,
		)
	}

	d.synthesiseScene(pg, d.seq)
	d.seq++
	pg.Timestamp = uint64(timeNow().UnixNano() / int64(time.Millisecond))
	return nil
}

func (d *mockDevice) synthesiseScene(pg *tofframe.PhaseGroup, seq uint64) {
	w, h := float64(pg.Width), float64(pg.Height)

	orbit := float64(seq) * math.Pi / 30
	sphereX := w/2 + (w/4)*math.Cos(orbit)
	sphereY := h/2 + (h/4)*math.Sin(orbit)

	for y := 0; y < pg.Height; y++ {
		backdrop := mockBackdropNearMM + (mockBackdropFarMM-mockBackdropNearMM)*float64(y)/h
		for x := 0; x < pg.Width; x++ {
			depthMM := backdrop
			amplitude := mockSampleAmplitude

			dx, dy := float64(x)-sphereX, float64(y)-sphereY
			if dist := math.Sqrt(dx*dx + dy*dy); dist <= mockSphereRadius {
				// sphere surface bows towards the sensor
				depthMM = mockSphereDepthMM + dist
				amplitude = mockSphereBrightness
			}

			shift := 2 * math.Pi * depthMM / float64(d.rangeMM)
			i := y*pg.Width + x
			pg.Planes[tofframe.Phase0][i] = uint16(mockSampleOffset + amplitude*math.Cos(shift))
			pg.Planes[tofframe.Phase90][i] = uint16(mockSampleOffset + amplitude*math.Sin(shift))
			pg.Planes[tofframe.Phase180][i] = uint16(mockSampleOffset - amplitude*math.Cos(shift))
			pg.Planes[tofframe.Phase270][i] = uint16(mockSampleOffset - amplitude*math.Sin(shift))
		}
	}
}

func (d *mockDevice) ApplyControl(id, val int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isOpen {
		return xerror.New("device is not open")
	}

	switch id {
	case DeviceControlRange:
		d.rangeMM = val
	case DeviceControlExposure:
		d.exposure = val
	case DeviceControlFrameRate:
	default:
		return xerror.Errorf("unsupported device control: %d", id)
	}
	return nil
}

func (d *mockDevice) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.isOpen
}

func (d *mockDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.isOpen = false
	return nil
}
