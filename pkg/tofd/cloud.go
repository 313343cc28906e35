package tofd

import (
	"time"

	"github.com/tauraamui/tofcam/pkg/pointcloud"
	"github.com/tauraamui/tofcam/pkg/tofcamera"
	"github.com/tauraamui/xerror"
)

const cloudFrameRequestTimeout = time.Second

// CloudSource adapts a running camera session into a point cloud
// stream source, projecting one requested frame per call.
func CloudSource(cam *tofcamera.Camera) pointcloud.Source {
	return func() ([]pointcloud.Point, error) {
		info, err := cam.Info()
		if err != nil {
			return nil, err
		}
		intr := pointcloud.DefaultIntrinsics(info.Width, info.Height)

		frame, err := cam.RequestFrame(cloudFrameRequestTimeout)
		if err != nil {
			return nil, err
		}
		defer cam.ReleaseFrame(frame) //nolint

		return pointcloud.Project(frame.DepthMap(), intr), nil
	}
}

// ServeClouds starts a point cloud stream server fed by the first
// connected camera. Subscribers authenticate against the configured
// secret and, when an authorizer is wired, their operator account.
func (s *server) ServeClouds(addr string) (*pointcloud.Server, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.cameras) == 0 {
		return nil, xerror.New("no connected cameras to serve point clouds from")
	}

	return pointcloud.NewServer(addr, s.config.Secret, CloudSource(s.cameras[0].session), s.authorizer)
}
