package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/tauraamui/tofcam/pkg/configdef"
)

type LoadConfigTestSuite struct {
	suite.Suite
	configResolver configdef.Resolver
	fs             afero.Fs
	path           string
	configFile     afero.File
}

func (suite *LoadConfigTestSuite) SetupSuite() {
	suite.fs = afero.NewMemMapFs()
	suite.configResolver = DefaultResolver()

	// use in memory FS in implementation for tests
	fs = suite.fs
}

func (suite *LoadConfigTestSuite) TearDownSuite() {
	fs = afero.NewOsFs()
}

func (suite *LoadConfigTestSuite) SetupTest() {
	path, err := resolveConfigPath()
	require.NoError(suite.T(), err)
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(path), os.ModeDir|os.ModePerm))
	suite.path = path

	configFile, err := suite.fs.Create(path)
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), configFile)

	suite.configFile = configFile

	suite.overwriteTestConfig(
		`{
			"debug": true,
			"secret": "DJIF3fje943fi4jefgo0",
			"cameras": []
		}`,
	)
}

func (suite *LoadConfigTestSuite) overwriteTestConfig(config string) {
	require.NoError(suite.T(), suite.configFile.Truncate(0))
	_, err := suite.configFile.Seek(0, 0)
	require.NoError(suite.T(), err)
	_, err = suite.configFile.WriteString(config)
	assert.NoError(suite.T(), err)
}

func (suite *LoadConfigTestSuite) TearDownTest() {
	require.NoError(suite.T(), suite.configFile.Close())
	suite.fs.Remove(suite.path)
}

func TestLoadConfigTestSuite(t *testing.T) {
	suite.Run(t, &LoadConfigTestSuite{})
}

func (suite *LoadConfigTestSuite) TestLoadConfig() {
	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	require.NotNil(suite.T(), config)

	assert.Equal(suite.T(), true, config.Debug)
	assert.Equal(suite.T(), "DJIF3fje943fi4jefgo0", config.Secret)
	assert.ElementsMatch(suite.T(), config.Cameras, []configdef.Camera{})
}

func (suite *LoadConfigTestSuite) TestLoadAppliesCameraDefaults() {
	suite.overwriteTestConfig(
		`{"cameras": [{"title": "FrontDoor"}]}`,
	)

	config, err := suite.configResolver.Resolve()
	require.NoError(suite.T(), err)
	require.Len(suite.T(), config.Cameras, 1)

	cam := config.Cameras[0]
	assert.Equal(suite.T(), "usb", cam.Transport)
	assert.Equal(suite.T(), "depth", cam.OutputKind)
	assert.Equal(suite.T(), 4000, cam.Range)
	assert.Equal(suite.T(), 30, cam.FPS)
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsValidationOnDupCameraTitles() {
	suite.overwriteTestConfig(
		`{"cameras": [
			{"title": "FakeCam1"},
			{"title": "FakeCam2"},
			{"title": "FakeCam1"}
		]}`,
	)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, "validation failed: camera titles must be unique")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnUnknownTransport() {
	suite.overwriteTestConfig(
		`{"cameras": [{"title": "FakeCam1", "transport": "scsi"}]}`,
	)

	config, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	require.Empty(suite.T(), config)

	assert.EqualError(suite.T(), err, "validation failed: camera transport must be csi or usb, got: scsi")
}

func (suite *LoadConfigTestSuite) TestConfigLoadFailsOnMalformedJSON() {
	suite.overwriteTestConfig(`{"cameras": [`)

	_, err := suite.configResolver.Resolve()
	require.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "parsing configuration error")
}

func (suite *LoadConfigTestSuite) TestLoadCameraFile() {
	cameraFilePath := "/etc/tofcam/frontdoor.json"
	require.NoError(suite.T(), suite.fs.MkdirAll(filepath.Dir(cameraFilePath), os.ModeDir|os.ModePerm))
	require.NoError(suite.T(), afero.WriteFile(
		suite.fs,
		cameraFilePath,
		[]byte(`{"transport": "csi", "range": 2000, "fps": 15, "exposure": 9000}`),
		0666,
	))

	camera, err := LoadCameraFile(cameraFilePath)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "csi", camera.Transport)
	assert.Equal(suite.T(), 2000, camera.Range)
	assert.Equal(suite.T(), 15, camera.FPS)
	assert.Equal(suite.T(), 9000, camera.Exposure)
	assert.Equal(suite.T(), "depth", camera.OutputKind)
	assert.Equal(suite.T(), cameraFilePath, camera.Title)
}

func (suite *LoadConfigTestSuite) TestLoadCameraFileMissingFileErrors() {
	_, err := LoadCameraFile("/nowhere/cam.json")
	require.Error(suite.T(), err)
}
