package tofcamera

import (
	"context"

	"github.com/tauraamui/tofcam/internal/config"
	"github.com/tauraamui/tofcam/pkg/tofdevice/devicebackend"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

// OpenWithFile opens the sensor described by the given camera
// configuration file and applies the file's control values. A
// negative index defers to the index recorded in the file.
func OpenWithFile(path string, index int, backend devicebackend.Backend) (*Camera, error) {
	return openWithFile(context.Background(), path, index, backend)
}

// OpenWithFileAndCancel is OpenWithFile bounded by the given context.
func OpenWithFileAndCancel(cancel context.Context, path string, index int, backend devicebackend.Backend) (*Camera, error) {
	return openWithFile(cancel, path, index, backend)
}

func openWithFile(cancel context.Context, path string, index int, backend devicebackend.Backend) (*Camera, error) {
	camcfg, err := config.LoadCameraFile(path)
	if err != nil {
		return nil, err
	}

	if index < 0 {
		index = camcfg.Index
	}

	cam, err := open(cancel, devicebackend.ResolveTransport(camcfg.Transport), index, backend)
	if err != nil {
		return nil, err
	}

	controls := map[Control]int{
		ControlRange:         camcfg.Range,
		ControlExposure:      camcfg.Exposure,
		ControlFrameRate:     camcfg.FPS,
		ControlMode:          camcfg.WorkMode,
		ControlFrameMode:     camcfg.FrameMode,
		ControlSkipFrame:     camcfg.SkipFrame,
		ControlSkipFrameLoop: camcfg.SkipFrameLoop,
	}
	for id, val := range controls {
		if err := cam.SetControl(id, val); err != nil {
			cam.Close()
			return nil, err
		}
	}

	cam.preferredKind = tofframe.ResolveKind(camcfg.OutputKind)
	return cam, nil
}

// PreferredKind reports the output kind recorded in the camera file
// this session was opened with, defaulting to the depth kind.
func (c *Camera) PreferredKind() tofframe.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.preferredKind
}
