package tofframe

import "github.com/tauraamui/xerror"

// Buffer holds the decoded planes of a single captured frame. Buffers
// are owned by the camera's frame queue: callers borrow one via a
// frame request and must hand it back with a release call before the
// queue will reuse it.
type Buffer struct {
	width, height int
	timestamp     uint64
	seq           uint64

	raw        []uint16
	depth      []float32
	confidence []float32
}

// NewBuffer allocates a buffer with every plane sized for the given
// dimensions. The capture loop populates only the planes relevant to
// the started output kind.
func NewBuffer(width, height int) *Buffer {
	pixels := width * height
	return &Buffer{
		width:      width,
		height:     height,
		raw:        make([]uint16, pixels),
		depth:      make([]float32, pixels),
		confidence: make([]float32, pixels),
	}
}

func (b *Buffer) SetTimestamp(ts uint64) { b.timestamp = ts }
func (b *Buffer) Timestamp() uint64      { return b.timestamp }

func (b *Buffer) SetSeq(seq uint64) { b.seq = seq }
func (b *Buffer) Seq() uint64       { return b.seq }

func (b *Buffer) Dimensions() Dimensions {
	return Dimensions{W: b.width, H: b.height}
}

// Format reports the format descriptor for the given plane kind of
// this frame.
func (b *Buffer) Format(kind Kind) (Format, error) {
	if !kind.Valid() {
		return Format{}, xerror.Errorf("unknown frame kind: %d", kind)
	}
	return Format{
		Width:     b.width,
		Height:    b.height,
		Kind:      kind,
		Timestamp: b.timestamp,
	}, nil
}

// RawData is the row-major 12-bit phase samples backing this frame.
func (b *Buffer) RawData() []uint16 { return b.raw }

// DepthData is the row-major per-pixel distance plane in millimetres.
func (b *Buffer) DepthData() []float32 { return b.depth }

// ConfidenceData is the row-major demodulation amplitude plane.
func (b *Buffer) ConfidenceData() []float32 { return b.confidence }

// AmplitudeData is the pre-0.2 name for the confidence plane.
//
// Deprecated: use ConfidenceData.
func (b *Buffer) AmplitudeData() []float32 { return b.ConfidenceData() }

// DepthMap wraps the depth plane in a bounds-checked row-major view.
func (b *Buffer) DepthMap() Map {
	return Map{width: b.width, height: b.height, values: b.depth}
}

// ConfidenceMap wraps the confidence plane in a bounds-checked
// row-major view.
func (b *Buffer) ConfidenceMap() Map {
	return Map{width: b.width, height: b.height, values: b.confidence}
}

// Map is a read-only row-major float32 view over one plane of a frame
// buffer. The backing storage remains owned by the buffer, so a Map
// must not outlive the frame's release.
type Map struct {
	width, height int
	values        []float32
}

func NewMap(width, height int, values []float32) Map {
	return Map{width: width, height: height, values: values}
}

// At reports the sample at the given co-ordinates and whether the
// co-ordinates fall within the plane's bounds.
func (m Map) At(x, y int) (float32, bool) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return 0, false
	}
	return m.values[y*m.width+x], true
}

func (m Map) Values() []float32 { return m.values }
func (m Map) Width() int        { return m.width }
func (m Map) Height() int       { return m.height }
