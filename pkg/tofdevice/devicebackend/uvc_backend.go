package devicebackend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tauraamui/xerror"
	"github.com/tauraamui/tofcam/pkg/tofframe"
	"gocv.io/x/gocv"
)

// The sensor module presents itself as a UVC/V4L2 node on both
// transports. One capture read delivers the four modulation phase
// planes stacked vertically in a single 16-bit grayscale image.

type uvcBackend struct{}

func (b *uvcBackend) Open(cancel context.Context, transport Transport, index int) (Device, error) {
	dev := uvcDevice{transport: transport, index: index}
	if err := dev.open(cancel); err != nil {
		return nil, err
	}
	return &dev, nil
}

type uvcDevice struct {
	mu        sync.Mutex
	transport Transport
	index     int
	isOpen    bool
	sensor    Type
	vc        *gocv.VideoCapture
}

type openCaptureResult struct {
	vc  *gocv.VideoCapture
	err error
}

func (d *uvcDevice) open(cancel context.Context) error {
	resultChan := make(chan openCaptureResult)
	go func() {
		vc, err := openVideoCapture(d.captureAddr())
		resultChan <- openCaptureResult{vc: vc, err: err}
	}()

	select {
	case r := <-resultChan:
		if r.err != nil {
			return xerror.Errorf("unable to open depth sensor node: %w", r.err)
		}
		d.vc = r.vc
		d.isOpen = true
		d.sensor = probeSensorType(r.vc)
		return nil
	case <-cancel.Done():
		return xerror.New("device open cancelled")
	}
}

func (d *uvcDevice) captureAddr() interface{} {
	if d.transport == TransportCSI {
		return fmt.Sprintf("/dev/video%d", d.index)
	}
	return d.index
}

var openVideoCapture = func(addr interface{}) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

func probeSensorType(vc *gocv.VideoCapture) Type {
	w := int(vc.Get(gocv.VideoCaptureFrameWidth))
	dims := TypeHQVGA.Dimensions()
	if w > dims.W {
		return TypeVGA
	}
	return TypeHQVGA
}

func (d *uvcDevice) Info() Info {
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

func (d *uvcDevice) ReadPhaseGroup(pg *tofframe.PhaseGroup) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isOpen {
		return xerror.New("device is not open")
	}

	mat := gocv.NewMat()
	defer mat.Close()
	if ok := readFromVideoCapture(d.vc, &mat); !ok {
		return xerror.New("unable to read phase frame from sensor node")
	}

	return splitStackedPhases(&mat, pg)
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

// splitStackedPhases unpacks a vertically stacked 4-phase capture
// into the group's per-phase planes.
func splitStackedPhases(mat *gocv.Mat, pg *tofframe.PhaseGroup) error {
	rows, cols := mat.Rows(), mat.Cols()
	if cols != pg.Width || rows != pg.Height*tofframe.PhaseCount {
		return xerror.Errorf(
			"unexpected capture dimensions %dx%d for %dx%d phase group",
			cols, rows, pg.Width, pg.Height,
		)
	}

	data := mat.ToBytes()
	pixels := pg.PixelCount()
	for p := 0; p < tofframe.PhaseCount; p++ {
		plane := pg.Planes[p]
		base := p * pixels * 2
		for i := 0; i < pixels; i++ {
			plane[i] = uint16(data[base+i*2]) | uint16(data[base+i*2+1])<<8
		}
	}

	pg.Timestamp = uint64(timeNow().UnixNano() / int64(time.Millisecond))
	return nil
}

var timeNow = func() time.Time {
	return time.Now()
}

func (d *uvcDevice) ApplyControl(id, val int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isOpen {
		return xerror.New("device is not open")
	}

	switch id {
	case DeviceControlExposure:
		d.vc.Set(gocv.VideoCaptureExposure, float64(val))
	case DeviceControlFrameRate:
		d.vc.Set(gocv.VideoCaptureFPS, float64(val))
	case DeviceControlRange:
		// modulation frequency switching happens on decode, nothing
		// for the capture node itself to do
	default:
		return xerror.Errorf("unsupported device control: %d", id)
	}
	return nil
}

func (d *uvcDevice) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.isOpen {
		return d.vc.IsOpened()
	}
	return false
}

func (d *uvcDevice) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.isOpen {
		return nil
	}
	d.isOpen = false
	return d.vc.Close()
}
