package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/tauraamui/tofcam/pkg/tofframe"
	"github.com/tauraamui/xerror"
)

var fs afero.Fs = afero.NewOsFs()

var timeNow = time.Now

// Save renders the given frame buffer as the given kind and writes it
// as a PNG under persistLoc, named after the camera title and the
// capture time. It reports the written file's full path.
func Save(persistLoc, title string, fb *tofframe.Buffer, kind tofframe.Kind, rangeMM int) (string, error) {
	img, err := render(fb, kind, rangeMM)
	if err != nil {
		return "", err
	}

	now := timeNow()
	if err := drawLabel(img, 5, 14, title); err != nil {
		return "", err
	}
	if err := drawLabel(img, 5, 28, now.Format("2006-01-02 15:04:05.999999999")); err != nil {
		return "", err
	}

	path := filepath.Join(persistLoc, fmt.Sprintf(
		"%s-%s-%s.png", title, kind, now.Format("2006-01-02-15.04.05"),
	))

	if err := writePNG(path, img); err != nil {
		return "", err
	}
	return path, nil
}

func render(fb *tofframe.Buffer, kind tofframe.Kind, rangeMM int) (*image.RGBA, error) {
	switch kind {
	case tofframe.KindDepth:
		return RenderDepth(fb, rangeMM)
	case tofframe.KindConfidence:
		return RenderConfidence(fb)
	}
	return nil, xerror.Errorf("cannot render frame kind to image: %s", kind)
}

func writePNG(path string, img image.Image) error {
	if err := fs.MkdirAll(filepath.Dir(path), os.ModePerm|os.ModeDir); err != nil {
		return xerror.Errorf("unable to create snapshot dir: %w", err)
	}

	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		return xerror.Errorf("unable to encode snapshot image: %w", err)
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), os.ModePerm); err != nil {
		return xerror.Errorf("unable to write snapshot to disk: %w", err)
	}
	return nil
}
