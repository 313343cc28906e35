package tofframe

// PhaseCount is the number of modulation phase offsets sampled per
// capture (0, 90, 180 and 270 degrees).
const PhaseCount = 4

// Phase plane indices within a PhaseGroup.
const (
	Phase0 = iota
	Phase90
	Phase180
	Phase270
)

// PhaseGroup carries the four raw modulation-phase sample planes read
// from the sensor for a single exposure. It is the unit of transfer
// between a device backend and the decode stage.
type PhaseGroup struct {
	Width, Height int
	Timestamp     uint64
	Planes        [PhaseCount][]uint16
}

func NewPhaseGroup(width, height int) *PhaseGroup {
	pg := PhaseGroup{Width: width, Height: height}
	for i := range pg.Planes {
		pg.Planes[i] = make([]uint16, width*height)
	}
	return &pg
}

func (pg *PhaseGroup) PixelCount() int {
	return pg.Width * pg.Height
}
