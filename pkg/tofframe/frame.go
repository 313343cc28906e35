package tofframe

// Kind identifies which plane of a captured frame is being referred
// to. The numeric values are part of the on-wire/config contract and
// must not be reordered.
type Kind int

const (
	KindRaw        Kind = 0
	KindConfidence Kind = 1
	KindDepth      Kind = 2
	KindCache      Kind = 3

	// KindAmplitude is the pre-0.2 name for the confidence plane.
	//
	// Deprecated: use KindConfidence.
	KindAmplitude = KindConfidence

	KindCount = 4
)

func (k Kind) String() string {
	switch k {
	case KindRaw:
		return "raw"
	case KindConfidence:
		return "confidence"
	case KindDepth:
		return "depth"
	case KindCache:
		return "cache"
	}
	return "unknown"
}

func (k Kind) Valid() bool {
	return k >= KindRaw && k < KindCount
}

// ResolveKind maps a config-file output kind name to a Kind.
func ResolveKind(t string) Kind {
	switch t {
	case "raw":
		return KindRaw
	case "confidence", "amplitude":
		return KindConfidence
	default:
		return KindDepth
	}
}

type Dimensions struct {
	W, H int
}

// Format describes one plane of a captured frame.
type Format struct {
	Width     int
	Height    int
	Kind      Kind
	Timestamp uint64
}

func (f Format) Dimensions() Dimensions {
	return Dimensions{W: f.Width, H: f.Height}
}

// PixelCount is the number of samples in the plane this format
// describes.
func (f Format) PixelCount() int {
	return f.Width * f.Height
}
