package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tacusci/logging/v2"
	"github.com/takama/daemon"
	"github.com/tauraamui/tofcam/pkg/config"
	"github.com/tauraamui/tofcam/pkg/configdef"
	db "github.com/tauraamui/tofcam/pkg/database"
	"github.com/tauraamui/tofcam/pkg/database/repos"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/tofcam/pkg/pointcloud"
	"github.com/tauraamui/tofcam/pkg/tofd"
	"github.com/tauraamui/tofcam/pkg/tofd/process"
	"github.com/tauraamui/tofcam/pkg/tofdevice/devicebackend"
)

const (
	name        = "tofcam_daemon"
	description = "Depth camera service daemon which streams and snapshots ToF sensor frames"
)

type Service struct {
	daemon.Daemon
}

// Setup will setup local config and DB and ask for root operator credentials
func (service *Service) Setup() (string, error) {
	log.Info("Setting up tofcam daemon service...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	err = db.Setup()
	if err != nil {
		if !errors.Is(err, db.ErrDBAlreadyExists) {
			return "", err
		}
		log.Error(err.Error())
	}

	return "Setup successful...", nil
}

func (service *Service) RemoveSetup() (string, error) {
	log.Info("Removing setup for tofcam daemon service...")
	err := db.Destroy()
	if err != nil {
		log.Error("unable to delete database file: %s", err.Error())
	}

	return "Removing setup successful...", nil
}

// Token authenticates an operator's credentials and prints a stream
// auth token for point cloud subscribers to present.
func (service *Service) Token() (string, error) {
	resolver := config.DefaultResolver()
	values, err := resolver.Resolve()
	if err != nil {
		return "", err
	}

	return db.GenerateStreamToken(values.Secret)
}

func (service *Service) Manage() (string, error) {
	usage := "Usage: tofcamd setup | remove-setup | token | install | remove | start | stop | status"

	if len(os.Args) > 1 {
		command := os.Args[1]
		switch command {
		case "setup":
			return service.Setup()
		case "remove-setup":
			return service.RemoveSetup()
		case "token":
			return service.Token()
		case "install":
			return service.Install()
		case "remove":
			return service.Remove()
		case "start":
			return service.Start()
		case "stop":
			return service.Stop()
		case "status":
			return service.Status()
		default:
			return usage, nil
		}
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	log.Info("Starting tofcam daemon...")

	recorder, authorizer := resolveDataCollaborators()
	server := tofd.NewServer(tofd.Options{
		Backend:         devicebackend.Resolve(os.Getenv("TOFCAM_BACKEND")),
		SessionRecorder: recorder,
		Authorizer:      authorizer,
	})

	if err := server.LoadConfiguration(); err != nil {
		log.Fatal(err.Error())
	}

	ctx, cancelStartup := context.WithCancel(context.Background())
	go startupServer(ctx, server)

	killSignal := <-interrupt
	fmt.Print("\r")
	log.Error("Received signal: %s", killSignal)

	cancelStartup()
	log.Info("Shutting down server...")
	if cloudServer != nil {
		cloudServer.Shutdown() //nolint
	}
	<-server.Shutdown()

	return "Shutdown successful... BYE! 👋", nil
}

func resolveDataCollaborators() (process.SessionRecorder, pointcloud.Authorizer) {
	conn, err := db.Connect()
	if err != nil {
		log.Warn("running without capture session records or operator checks: %s", err.Error())
		return nil, nil
	}

	operators := repos.OperatorRepository{DB: conn}
	authorizer := func(operatorUUID string) error {
		_, err := operators.FindByUUID(operatorUUID)
		return err
	}
	return &repos.CaptureSessionRepository{DB: conn}, authorizer
}

func startupServer(ctx context.Context, server tofd.Server) {
	connectToCameras(ctx, server)
	server.SetupProcesses()
	server.RunProcesses()
	serveClouds(server)
}

func connectToCameras(ctx context.Context, server tofd.Server) {
	errs := server.ConnectWithCancel(ctx)
	for _, err := range errs {
		log.Error(err.Error())
	}
}

var cloudServer *pointcloud.Server

func serveClouds(server tofd.Server) {
	addr := os.Getenv("TOFCAM_CLOUD_ADDR")
	if len(addr) == 0 {
		return
	}

	s, err := server.ServeClouds(addr)
	if err != nil {
		log.Error("unable to serve point clouds: %s", err.Error())
		return
	}
	log.Info("Serving point clouds on %s", s.Addr())
	cloudServer = s
}

func init() {
	logging.CallbackLabelLevel = 5
	logging.ColorLogLevelLabelOnly = true
	loggingLevel := os.Getenv("TOFCAM_LOGGING_LEVEL")

	switch strings.ToLower(loggingLevel) {
	case "info":
		logging.CurrentLoggingLevel = logging.InfoLevel
	case "warn":
		logging.CurrentLoggingLevel = logging.WarnLevel
	case "debug":
		logging.CurrentLoggingLevel = logging.DebugLevel
		logging.CallbackLabel = true
	default:
		logging.CurrentLoggingLevel = logging.WarnLevel
	}
}

func main() {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}

	srv, err := daemon.New(name, description, daemonType)
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	service := &Service{srv}
	status, err := service.Manage()
	if err != nil {
		logging.Error(err.Error()) //nolint
		os.Exit(1)
	}

	logging.Info(status) //nolint
}
