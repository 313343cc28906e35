package process

import (
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

var Stream = stream

func OverloadSaveSnapshot(overload func(string, string, *tofframe.Buffer, tofframe.Kind, int) (string, error)) func() {
	saveSnapshotRef := saveSnapshot
	saveSnapshot = overload
	return func() { saveSnapshot = saveSnapshotRef }
}
