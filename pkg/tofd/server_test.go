package tofd_test

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/pkg/configdef"
	"github.com/tauraamui/tofcam/pkg/tofd"
	"github.com/tauraamui/tofcam/pkg/tofdevice/devicebackend"
)

type testConfigResolver struct {
	resolveConfigs func() configdef.Values
	resolveError   error
}

func (tcc testConfigResolver) Resolve() (configdef.Values, error) {
	if tcc.resolveError != nil {
		return configdef.Values{}, tcc.resolveError
	}
	if tcc.resolveConfigs != nil {
		return tcc.resolveConfigs(), nil
	}
	return configdef.Values{}, nil
}

func TestNewServer(t *testing.T) {
	s := tofd.NewServer(tofd.Options{
		Backend:        devicebackend.Mock(),
		ConfigResolver: testConfigResolver{},
	})
	if s == nil {
		t.Error("New server's response cannot be nil pointer")
	}
}

func TestServerShutdownBeforeConnect(t *testing.T) {
	s := tofd.NewServer(tofd.Options{
		Backend:        devicebackend.Mock(),
		ConfigResolver: testConfigResolver{},
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-s.Shutdown()
		// repeated shutdowns resolve against the same closed channel
		<-s.Shutdown()
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown before connect did not complete")
	}
}

func TestServerLoadConfiguration(t *testing.T) {
	is := is.New(t)

	s := tofd.NewServer(tofd.Options{
		Backend: devicebackend.Mock(),
		ConfigResolver: testConfigResolver{
			resolveConfigs: func() configdef.Values {
				return configdef.Values{
					Cameras: []configdef.Camera{
						{Title: "TestCam", Transport: "usb", Range: 4000, FPS: 30},
					},
				}
			},
		},
	})

	is.NoErr(s.LoadConfiguration())
}
