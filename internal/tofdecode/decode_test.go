package tofdecode_test

import (
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/internal/tofdecode"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

func phaseGroupForShift(w, h int, shift, amplitude, offset float64) *tofframe.PhaseGroup {
	pg := tofframe.NewPhaseGroup(w, h)
	offsets := []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2}
	for p, po := range offsets {
		sample := uint16(offset + amplitude*math.Cos(shift-po))
		for i := 0; i < w*h; i++ {
			pg.Planes[p][i] = sample
		}
	}
	return pg
}

func TestDecodeRecoversKnownPhaseShift(t *testing.T) {
	is := is.New(t)

	dec, err := tofdecode.New(4000)
	is.NoErr(err)

	// quarter turn phase shift should decode to a quarter of the range
	pg := phaseGroupForShift(4, 4, math.Pi/2, 500, 1000)
	pg.Timestamp = 42

	out := tofframe.NewBuffer(4, 4)
	is.NoErr(dec.Decode(pg, out))

	depth := float64(out.DepthData()[0])
	is.True(math.Abs(depth-1000) < 10)
	is.Equal(out.Timestamp(), uint64(42))
}

func TestDecodeHalfTurnIsHalfRange(t *testing.T) {
	is := is.New(t)

	dec, err := tofdecode.New(2000)
	is.NoErr(err)

	pg := phaseGroupForShift(2, 2, math.Pi, 500, 1000)
	out := tofframe.NewBuffer(2, 2)
	is.NoErr(dec.Decode(pg, out))

	depth := float64(out.DepthData()[0])
	is.True(math.Abs(depth-1000) < 10)
}

func TestDecodeConfidenceTracksAmplitude(t *testing.T) {
	is := is.New(t)

	dec, err := tofdecode.New(4000)
	is.NoErr(err)

	pg := phaseGroupForShift(2, 2, math.Pi/3, 400, 800)
	out := tofframe.NewBuffer(2, 2)
	is.NoErr(dec.Decode(pg, out))

	confidence := float64(out.ConfidenceData()[0])
	is.True(math.Abs(confidence-400) < 5)
}

func TestDecodeLowAmplitudePixelsZeroed(t *testing.T) {
	is := is.New(t)

	dec, err := tofdecode.New(4000)
	is.NoErr(err)

	// flat planes mean zero demodulation amplitude, below the floor
	pg := tofframe.NewPhaseGroup(2, 2)
	for p := range pg.Planes {
		for i := range pg.Planes[p] {
			pg.Planes[p][i] = 1000
		}
	}

	out := tofframe.NewBuffer(2, 2)
	is.NoErr(dec.Decode(pg, out))

	is.Equal(out.DepthData()[0], float32(0))
}

func TestDecodeRejectsMismatchedDimensions(t *testing.T) {
	is := is.New(t)

	dec, err := tofdecode.New(4000)
	is.NoErr(err)

	pg := tofframe.NewPhaseGroup(4, 4)
	out := tofframe.NewBuffer(2, 2)
	is.True(dec.Decode(pg, out) != nil)
}

func TestNewRejectsNonPositiveRange(t *testing.T) {
	is := is.New(t)

	_, err := tofdecode.New(0)
	is.True(err != nil)

	dec, err := tofdecode.New(2000)
	is.NoErr(err)
	is.True(dec.SetRange(-1) != nil)
	is.NoErr(dec.SetRange(4000))
	is.Equal(dec.Range(), 4000)
}
