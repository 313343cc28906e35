package pointcloud_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/tofcam/pkg/api/auth"
	"github.com/tauraamui/tofcam/pkg/pointcloud"
)

const testSigningSecret = "test-signing-secret"

func startTestServer(t *testing.T, source pointcloud.Source) *pointcloud.Server {
	t.Helper()
	return startAuthorizedTestServer(t, source, nil)
}

func startAuthorizedTestServer(
	t *testing.T, source pointcloud.Source, authorize pointcloud.Authorizer,
) *pointcloud.Server {
	t.Helper()
	server, err := pointcloud.NewServer("localhost:0", testSigningSecret, source, authorize)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { server.Shutdown() })
	return server
}

func TestSubscriberReceivesStreamedClouds(t *testing.T) {
	is := is.New(t)

	cloud := []pointcloud.Point{
		{X: 1, Y: 2, Z: 800},
		{X: -4, Y: 0.5, Z: 2100},
	}
	server := startTestServer(t, func() ([]pointcloud.Point, error) {
		return cloud, nil
	})

	token, err := auth.GenToken(testSigningSecret, "operator-uuid-1234")
	is.NoErr(err)

	client, err := pointcloud.NewClient(fmt.Sprintf("tofp://%s", server.Addr()))
	is.NoErr(err)

	is.NoErr(client.Connect(context.Background(), token))
	defer client.Close()

	for i := 0; i < 3; i++ {
		received, err := client.Receive()
		is.NoErr(err)
		is.Equal(received, cloud)
	}
}

func TestSubscriberWithBadTokenIsRefused(t *testing.T) {
	is := is.New(t)

	server := startTestServer(t, func() ([]pointcloud.Point, error) {
		return nil, nil
	})

	client, err := pointcloud.NewClient(fmt.Sprintf("tofp://%s", server.Addr()))
	is.NoErr(err)

	err = client.Connect(context.Background(), "forged-token")
	is.True(err != nil)
}

func TestSubscriberWithKnownOperatorIsAdmitted(t *testing.T) {
	is := is.New(t)

	cloud := []pointcloud.Point{{X: 1, Y: 2, Z: 800}}
	server := startAuthorizedTestServer(t,
		func() ([]pointcloud.Point, error) { return cloud, nil },
		func(operatorUUID string) error {
			if operatorUUID != "operator-uuid-1234" {
				return fmt.Errorf("operator of uuid %s not found", operatorUUID)
			}
			return nil
		},
	)

	token, err := auth.GenToken(testSigningSecret, "operator-uuid-1234")
	is.NoErr(err)

	client, err := pointcloud.NewClient(fmt.Sprintf("tofp://%s", server.Addr()))
	is.NoErr(err)
	is.NoErr(client.Connect(context.Background(), token))
	defer client.Close()

	received, err := client.Receive()
	is.NoErr(err)
	is.Equal(received, cloud)
}

func TestSubscriberWithUnknownOperatorIsRefused(t *testing.T) {
	is := is.New(t)

	server := startAuthorizedTestServer(t,
		func() ([]pointcloud.Point, error) { return nil, nil },
		func(operatorUUID string) error {
			return fmt.Errorf("operator of uuid %s not found", operatorUUID)
		},
	)

	// valid signature, but the operator account no longer exists
	token, err := auth.GenToken(testSigningSecret, "removed-operator-uuid")
	is.NoErr(err)

	client, err := pointcloud.NewClient(fmt.Sprintf("tofp://%s", server.Addr()))
	is.NoErr(err)

	err = client.Connect(context.Background(), token)
	is.True(err != nil)
}

func TestSubscriberDroppedWhenSourceFails(t *testing.T) {
	is := is.New(t)

	server := startTestServer(t, func() ([]pointcloud.Point, error) {
		return nil, fmt.Errorf("camera stream stopped")
	})

	token, err := auth.GenToken(testSigningSecret, "operator-uuid-1234")
	is.NoErr(err)

	client, err := pointcloud.NewClient(fmt.Sprintf("tofp://%s", server.Addr()))
	is.NoErr(err)
	is.NoErr(client.Connect(context.Background(), token))
	defer client.Close()

	_, err = client.Receive()
	is.True(err != nil)
}

func TestNewClientValidatesAddress(t *testing.T) {
	is := is.New(t)

	_, err := pointcloud.NewClient("rtsp://localhost:554")
	is.True(err != nil)

	_, err = pointcloud.NewClient("tofp://localhost:3443")
	is.NoErr(err)
}
