package tofd

import (
	"context"
	"sync"

	"github.com/tauraamui/tofcam/internal/config"
	"github.com/tauraamui/tofcam/pkg/configdef"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/pointcloud"
	"github.com/tauraamui/tofcam/pkg/tofcamera"
	"github.com/tauraamui/tofcam/pkg/tofd/process"
	"github.com/tauraamui/tofcam/pkg/tofdevice/devicebackend"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

type Server interface {
	Connect() []error
	ConnectWithCancel(context.Context) []error
	LoadConfiguration() error
	SetupProcesses()
	RunProcesses()
	ServeClouds(addr string) (*pointcloud.Server, error)
	Shutdown() chan interface{}
}

// Options carry the daemon-level collaborators the server cannot
// derive from configuration alone.
type Options struct {
	Backend         devicebackend.Backend
	ConfigResolver  configdef.Resolver
	SessionRecorder process.SessionRecorder
	Authorizer      pointcloud.Authorizer
}

func NewServer(opts Options) Server {
	backend := opts.Backend
	if backend == nil {
		backend = devicebackend.Default()
	}
	resolver := opts.ConfigResolver
	if resolver == nil {
		resolver = config.DefaultResolver()
	}
	return &server{
		shutdownDone:    make(chan interface{}),
		backend:         backend,
		configResolver:  resolver,
		sessionRecorder: opts.SessionRecorder,
		authorizer:      opts.Authorizer,
	}
}

type connectedCamera struct {
	session *tofcamera.Camera
	cfg     configdef.Camera
}

type server struct {
	shutdownDone    chan interface{}
	config          configdef.Values
	backend         devicebackend.Backend
	configResolver  configdef.Resolver
	sessionRecorder process.SessionRecorder
	authorizer      pointcloud.Authorizer
	mu              sync.Mutex
	stopped         bool
	cameras         []connectedCamera
	coreProcesses   []process.Process
}

func (s *server) Connect() []error {
	return s.connect(context.Background())
}

func (s *server) ConnectWithCancel(cancel context.Context) []error {
	return s.connect(cancel)
}

func (s *server) connect(cancel context.Context) []error {
	var errs []error

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cam := range s.config.Cameras {
		select {
		case <-cancel.Done():
			return nil
		default:
			if cam.Disabled {
				log.Warn("Camera [%s] is disabled... skipping...", cam.Title)
				continue
			}

			session, err := openCamera(cancel, cam, s.backend)
			if err != nil {
				errs = append(errs, err)
			}

			if session != nil {
				log.Info("Connected successfully to camera: [%s]", cam.Title)
				s.cameras = append(s.cameras, connectedCamera{session: session, cfg: cam})
			}
		}
	}
	return errs
}

func openCamera(ctx context.Context, cam configdef.Camera, backend devicebackend.Backend) (*tofcamera.Camera, error) {
	log.Info("Connecting to camera: [%s]...", cam.Title)

	session, err := tofcamera.OpenWithCancel(
		ctx, devicebackend.ResolveTransport(cam.Transport), cam.Index, backend,
	)
	if err != nil {
		return nil, err
	}

	controls := map[tofcamera.Control]int{
		tofcamera.ControlRange:         cam.Range,
		tofcamera.ControlExposure:      cam.Exposure,
		tofcamera.ControlFrameRate:     cam.FPS,
		tofcamera.ControlMode:          cam.WorkMode,
		tofcamera.ControlFrameMode:     cam.FrameMode,
		tofcamera.ControlSkipFrame:     cam.SkipFrame,
		tofcamera.ControlSkipFrameLoop: cam.SkipFrameLoop,
	}
	for id, val := range controls {
		if err := session.SetControl(id, val); err != nil {
			session.Close() //nolint
			return nil, err
		}
	}

	if err := session.Start(tofframe.ResolveKind(cam.OutputKind)); err != nil {
		session.Close() //nolint
		return nil, err
	}

	return session, nil
}

func (s *server) LoadConfiguration() error {
	values, err := s.configResolver.Resolve()
	if err != nil {
		return err
	}

	s.config = values
	return nil
}

func (s *server) shutdown() {
	s.shutdownProcesses()

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cam := range s.cameras {
		log.Warn("Closing camera session: [%s]...", cam.cfg.Title)
		cam.session.Close() //nolint
	}
	s.cameras = nil
	if !s.stopped {
		s.stopped = true
		close(s.shutdownDone)
	}
}

func (s *server) Shutdown() chan interface{} {
	s.shutdown()
	return s.shutdownDone
}
