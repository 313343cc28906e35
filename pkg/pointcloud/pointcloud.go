package pointcloud

import (
	"math"

	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// Point is one projected sample in camera space, millimetres, with
// the sensor at the origin looking down positive Z.
type Point struct {
	X, Y, Z float32
}

// Intrinsics is the pinhole model of the sensor's lens.
type Intrinsics struct {
	Fx, Fy float64
	Cx, Cy float64
}

const (
	horizontalFOVDegrees = 70.0
	verticalFOVDegrees   = 60.0
)

// DefaultIntrinsics derives a pinhole model from the module's field
// of view for rigs without a per-unit calibration.
func DefaultIntrinsics(width, height int) Intrinsics {
	return Intrinsics{
		Fx: float64(width) / (2 * math.Tan(horizontalFOVDegrees*math.Pi/360)),
		Fy: float64(height) / (2 * math.Tan(verticalFOVDegrees*math.Pi/360)),
		Cx: float64(width-1) / 2,
		Cy: float64(height-1) / 2,
	}
}

// Project unprojects a depth plane into a point cloud. Samples the
// decoder rejected carry no depth and are skipped.
func Project(depth tofframe.Map, intr Intrinsics) []Point {
	points := make([]Point, 0, depth.Width()*depth.Height())
	for y := 0; y < depth.Height(); y++ {
		for x := 0; x < depth.Width(); x++ {
			z, ok := depth.At(x, y)
			if !ok || z <= 0 {
				continue
			}
			points = append(points, Point{
				X: float32((float64(x) - intr.Cx) * float64(z) / intr.Fx),
				Y: float32((float64(y) - intr.Cy) * float64(z) / intr.Fy),
				Z: z,
			})
		}
	}
	return points
}
