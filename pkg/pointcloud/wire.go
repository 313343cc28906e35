package pointcloud

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/tauraamui/xerror"
)

// Encoded clouds open with this magic so a receiver can reject
// streams which are not speaking the point cloud wire format.
const wireMagic = uint32(0x544F4650) // "TOFP"

const maxWirePoints = 1 << 22

const pointWireSize = 12

// Encode writes the cloud to the stream as a little endian frame of
// magic, point count, then packed XYZ float32 triples.
func Encode(w io.Writer, points []Point) error {
	if len(points) > maxWirePoints {
		return xerror.Errorf("point cloud too large to encode: %d points", len(points))
	}

	header := make([]byte, 8)
	binary.LittleEndian.PutUint32(header[0:4], wireMagic)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(points)))
	if _, err := w.Write(header); err != nil {
		return xerror.Errorf("unable to write point cloud header: %w", err)
	}

	body := make([]byte, len(points)*pointWireSize)
	for i, p := range points {
		off := i * pointWireSize
		binary.LittleEndian.PutUint32(body[off:], math.Float32bits(p.X))
		binary.LittleEndian.PutUint32(body[off+4:], math.Float32bits(p.Y))
		binary.LittleEndian.PutUint32(body[off+8:], math.Float32bits(p.Z))
	}
	if _, err := w.Write(body); err != nil {
		return xerror.Errorf("unable to write point cloud body: %w", err)
	}
	return nil
}

// Decode reads one encoded cloud frame from the stream.
func Decode(r io.Reader) ([]Point, error) {
	header := make([]byte, 8)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, xerror.Errorf("unable to read point cloud header: %w", err)
	}

	if magic := binary.LittleEndian.Uint32(header[0:4]); magic != wireMagic {
		return nil, xerror.Errorf("stream is not a point cloud stream, got magic: %#x", magic)
	}

	count := binary.LittleEndian.Uint32(header[4:8])
	if count > maxWirePoints {
		return nil, xerror.Errorf("refusing to decode oversized point cloud: %d points", count)
	}

	body := make([]byte, int(count)*pointWireSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, xerror.Errorf("unable to read point cloud body: %w", err)
	}

	points := make([]Point, count)
	for i := range points {
		off := i * pointWireSize
		points[i] = Point{
			X: math.Float32frombits(binary.LittleEndian.Uint32(body[off:])),
			Y: math.Float32frombits(binary.LittleEndian.Uint32(body[off+4:])),
			Z: math.Float32frombits(binary.LittleEndian.Uint32(body[off+8:])),
		}
	}
	return points, nil
}
