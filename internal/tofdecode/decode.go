package tofdecode

import (
	"math"
	"sync"

	"github.com/tauraamui/xerror"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// Four phase continuous wave demodulation. Each pixel is sampled at
// 0, 90, 180 and 270 degree offsets of the modulation signal; the
// phase shift of the returned light encodes distance within the
// unambiguous range set by the modulation frequency.

// DefaultConfidenceFloor is the amplitude below which a pixel's phase
// measurement is treated as noise and its depth decoded as zero.
const DefaultConfidenceFloor = 30.0

type Decoder struct {
	mu              sync.RWMutex
	rangeMM         float64
	confidenceFloor float64
}

// New constructs a decoder for the given unambiguous range in
// millimetres. The range follows the camera's range control value
// (2000 or 4000).
func New(rangeMM int) (*Decoder, error) {
	if rangeMM <= 0 {
		return nil, xerror.Errorf("decoder range must be positive, got: %d", rangeMM)
	}
	return &Decoder{
		rangeMM:         float64(rangeMM),
		confidenceFloor: DefaultConfidenceFloor,
	}, nil
}

func (d *Decoder) SetRange(rangeMM int) error {
	if rangeMM <= 0 {
		return xerror.Errorf("decoder range must be positive, got: %d", rangeMM)
	}
	d.mu.Lock()
	d.rangeMM = float64(rangeMM)
	d.mu.Unlock()
	return nil
}

func (d *Decoder) Range() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return int(d.rangeMM)
}

// Decode demodulates the phase group into the buffer's raw, depth and
// confidence planes. The buffer's dimensions must match the group's.
func (d *Decoder) Decode(pg *tofframe.PhaseGroup, out *tofframe.Buffer) error {
	dims := out.Dimensions()
	if pg.Width != dims.W || pg.Height != dims.H {
		return xerror.Errorf(
			"phase group dimensions %dx%d do not match buffer dimensions %dx%d",
			pg.Width, pg.Height, dims.W, dims.H,
		)
	}

	p0 := pg.Planes[tofframe.Phase0]
	p90 := pg.Planes[tofframe.Phase90]
	p180 := pg.Planes[tofframe.Phase180]
	p270 := pg.Planes[tofframe.Phase270]

	d.mu.RLock()
	rangeMM := d.rangeMM
	confidenceFloor := d.confidenceFloor
	d.mu.RUnlock()

	raw := out.RawData()
	depth := out.DepthData()
	confidence := out.ConfidenceData()

	for i := 0; i < pg.PixelCount(); i++ {
		q := float64(p90[i]) - float64(p270[i])
		iq := float64(p0[i]) - float64(p180[i])

		amplitude := math.Sqrt(q*q+iq*iq) / 2
		confidence[i] = float32(amplitude)
		raw[i] = p0[i]

		if amplitude < confidenceFloor {
			depth[i] = 0
			continue
		}

		phase := math.Atan2(q, iq)
		if phase < 0 {
			phase += 2 * math.Pi
		}
		depth[i] = float32(rangeMM * phase / (2 * math.Pi))
	}

	out.SetTimestamp(pg.Timestamp)
	return nil
}
