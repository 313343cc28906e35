package tofcamera

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tauraamui/xerror"
	"github.com/tauraamui/tofcam/internal/framequeue"
	"github.com/tauraamui/tofcam/internal/tofdecode"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/tofdevice/devicebackend"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

var (
	ErrNotOpened           = xerror.New("camera is not open")
	ErrAlreadyStarted      = xerror.New("camera stream already started")
	ErrNotStarted          = xerror.New("camera stream not started")
	ErrUnsupportedKind     = xerror.New("unsupported output frame kind")
	ErrFrameRequestTimeout = xerror.New("timed out waiting for frame")
	ErrNoFrameReady        = xerror.New("no frame ready")
)

// BlockIndefinitely requests a frame with no upper bound on the wait.
const BlockIndefinitely = framequeue.BlockIndefinitely

const readyFrameCapacity = 4

// Camera is a session against a single depth sensor module. The
// lifecycle is open, start, request/release frames, stop, close;
// calls outside that ordering fail with the sentinel errors above.
type Camera struct {
	uuid    string
	backend devicebackend.Backend

	mu            sync.Mutex
	device        devicebackend.Device
	opened        bool
	started       bool
	outputKind    tofframe.Kind
	preferredKind tofframe.Kind

	// controls has its own lock so the capture goroutine can read
	// skip counts without contending on the session lock
	controlsMu sync.RWMutex
	controls   map[Control]int

	dec   *tofdecode.Decoder
	queue *framequeue.Queue

	captureCancel context.CancelFunc
	captureDone   chan struct{}
}

// Open connects to the sensor module at the given index over the
// given transport.
func Open(transport devicebackend.Transport, index int, backend devicebackend.Backend) (*Camera, error) {
	return open(context.Background(), transport, index, backend)
}

// OpenWithCancel is Open bounded by the given context.
func OpenWithCancel(cancel context.Context, transport devicebackend.Transport, index int, backend devicebackend.Backend) (*Camera, error) {
	return open(cancel, transport, index, backend)
}

func open(cancel context.Context, transport devicebackend.Transport, index int, backend devicebackend.Backend) (*Camera, error) {
	device, err := backend.Open(cancel, transport, index)
	if err != nil {
		return nil, xerror.Errorf("unable to open depth camera [%s:%d]: %w", transport, index, err)
	}
	return &Camera{
		uuid:          uuid.NewString(),
		backend:       backend,
		device:        device,
		opened:        true,
		preferredKind: tofframe.KindDepth,
		controls:      defaultControls(),
	}, nil
}

func (c *Camera) UUID() string { return c.uuid }

// Info reports the static capability snapshot of the opened device.
// Once a stream has started the reported frame kind follows the
// started output kind.
func (c *Camera) Info() (devicebackend.Info, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return devicebackend.Info{}, ErrNotOpened
	}
	info := c.device.Info()
	if c.started {
		info.Kind = c.outputKind
	}
	return info, nil
}

func (c *Camera) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opened && c.device.IsOpen()
}

// Start begins the capture stream producing frames of the given
// output kind.
func (c *Camera) Start(kind tofframe.Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return ErrNotOpened
	}
	if c.started {
		return ErrAlreadyStarted
	}
	if !kind.Valid() || kind == tofframe.KindCache {
		return ErrUnsupportedKind
	}

	dec, err := tofdecode.New(c.controlValue(ControlRange))
	if err != nil {
		return err
	}

	info := c.device.Info()
	c.dec = dec
	c.queue = framequeue.New(readyFrameCapacity, info.Width, info.Height)
	c.outputKind = kind

	ctx, cancel := context.WithCancel(context.Background())
	c.captureCancel = cancel
	c.captureDone = make(chan struct{})
	go c.capture(ctx, c.queue, dec, info)

	c.started = true
	return nil
}

func (c *Camera) capture(ctx context.Context, queue *framequeue.Queue, dec *tofdecode.Decoder, info devicebackend.Info) {
	defer close(c.captureDone)

	pg := tofframe.NewPhaseGroup(info.Width, info.Height)
	var seq uint64
	var skipRemaining int

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if err := c.device.ReadPhaseGroup(pg); err != nil {
			log.Error("unable to read phase group from device: %s", err.Error())
			time.Sleep(10 * time.Millisecond)
			continue
		}

		if skipRemaining > 0 {
			skipRemaining--
			continue
		}
		skipRemaining = c.controlValue(ControlSkipFrame)

		buf := queue.AcquireFree()
		if buf == nil {
			// every buffer is borrowed, drop this exposure
			continue
		}

		if err := dec.Decode(pg, buf); err != nil {
			log.Error("unable to decode phase group: %s", err.Error())
			queue.Discard(buf)
			continue
		}

		buf.SetSeq(seq)
		seq++
		queue.Publish(buf)
	}
}

func (c *Camera) controlValue(id Control) int {
	c.controlsMu.RLock()
	defer c.controlsMu.RUnlock()
	return c.controls[id]
}

// RequestFrame borrows the oldest ready frame. A negative timeout
// blocks until a frame arrives, zero polls, and a positive value
// bounds the wait in the usual way.
func (c *Camera) RequestFrame(timeout time.Duration) (*tofframe.Buffer, error) {
	c.mu.Lock()
	queue := c.queue
	c.mu.Unlock()

	if queue == nil {
		return nil, ErrNotStarted
	}

	fb, err := queue.Request(timeout)
	if err != nil {
		switch {
		case errors.Is(err, framequeue.ErrTimeout):
			return nil, ErrFrameRequestTimeout
		case errors.Is(err, framequeue.ErrNoFrame):
			return nil, ErrNoFrameReady
		default:
			return nil, ErrNotStarted
		}
	}
	return fb, nil
}

// ReleaseFrame returns a requested frame buffer for reuse.
func (c *Camera) ReleaseFrame(fb *tofframe.Buffer) error {
	c.mu.Lock()
	queue := c.queue
	c.mu.Unlock()

	if queue == nil {
		return ErrNotStarted
	}
	return queue.Release(fb)
}

// SetControl sets the given control to the given value, validating it
// against the control's supported values.
func (c *Camera) SetControl(id Control, val int) error {
	if err := validateControl(id, val); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return ErrNotOpened
	}

	switch id {
	case ControlRange:
		if err := c.device.ApplyControl(devicebackend.DeviceControlRange, val); err != nil {
			return err
		}
		if c.dec != nil {
			if err := c.dec.SetRange(val); err != nil {
				return err
			}
		}
	case ControlExposure:
		if err := c.device.ApplyControl(devicebackend.DeviceControlExposure, val); err != nil {
			return err
		}
	case ControlFrameRate:
		if err := c.device.ApplyControl(devicebackend.DeviceControlFrameRate, val); err != nil {
			return err
		}
	}

	c.controlsMu.Lock()
	c.controls[id] = val
	c.controlsMu.Unlock()
	return nil
}

// GetControl reports the current value of the given control.
func (c *Camera) GetControl(id Control) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.opened {
		return 0, ErrNotOpened
	}

	switch id {
	case ControlFmtWidth:
		return c.device.Info().Width, nil
	case ControlFmtHeight:
		return c.device.Info().Height, nil
	}

	c.controlsMu.RLock()
	val, ok := c.controls[id]
	c.controlsMu.RUnlock()
	if !ok {
		return 0, ErrUnknownControl
	}
	return val, nil
}

// Stats reports the frame accounting of the running (or last) stream.
func (c *Camera) Stats() framequeue.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.queue == nil {
		return framequeue.Stats{}
	}
	return c.queue.Stats()
}

// Stop halts the capture stream. Frames already ready remain
// requestable until drained.
func (c *Camera) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stop()
}

func (c *Camera) stop() error {
	if !c.started {
		return ErrNotStarted
	}

	c.captureCancel()
	<-c.captureDone
	c.queue.Close()
	c.started = false
	return nil
}

// Close stops any running stream and releases the device.
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opened {
		return ErrNotOpened
	}

	if c.started {
		if err := c.stop(); err != nil {
			return err
		}
	}

	c.opened = false
	return c.device.Close()
}
