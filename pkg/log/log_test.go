package log_test

import (
	"fmt"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/pkg/log"
)

func TestLevelledLoggersAreOverridable(t *testing.T) {
	is := is.New(t)

	captured := []string{}
	capture := func(format string, a ...interface{}) {
		captured = append(captured, fmt.Sprintf(format, a...))
	}

	infoRef := log.Info
	warnRef := log.Warn
	log.Info = capture
	log.Warn = capture
	defer func() {
		log.Info = infoRef
		log.Warn = warnRef
	}()

	log.Info("connected to camera: [%s]", "TestCam")
	log.Warn("camera [%s] is disabled", "SpareCam")

	is.Equal(captured, []string{
		"connected to camera: [TestCam]",
		"camera [SpareCam] is disabled",
	})
}
