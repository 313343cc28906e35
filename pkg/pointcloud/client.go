package pointcloud

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Client subscribes to a point cloud stream served by a tofcam
// daemon.
type Client struct {
	address string
	conn    net.Conn
	reader  *bufio.Reader
}

func NewClient(address string) (*Client, error) {
	c := Client{address: address}
	if err := c.validateAndProcessAddr(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Client) validateAndProcessAddr() error {
	parsedURL, err := url.Parse(c.address)
	if err != nil {
		return err
	}

	if s := parsedURL.Scheme; s != "tofp" {
		return fmt.Errorf("unsupported scheme: %s ('tofp' is the only supported scheme)", s)
	}

	c.address = parsedURL.Host
	if !strings.Contains(c.address, ":") {
		c.address += ":3443"
	}

	return nil
}

// Connect dials the stream and performs the token handshake.
func (c *Client) Connect(cancel context.Context, token string) error {
	var d net.Dialer
	ctx, ccancel := context.WithTimeout(cancel, time.Minute)
	defer ccancel()

	conn, err := d.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return err
	}

	if _, err := conn.Write([]byte(token + "\n")); err != nil {
		conn.Close()
		return err
	}

	reader := bufio.NewReader(conn)
	ack, err := reader.ReadString('\n')
	if err != nil {
		conn.Close()
		return fmt.Errorf("handshake ack never arrived: %w", err)
	}

	if strings.TrimSpace(ack) != "OK" {
		conn.Close()
		return fmt.Errorf("subscription refused: %s", strings.TrimSpace(ack))
	}

	c.conn = conn
	c.reader = reader
	return nil
}

// Receive blocks until the next cloud frame arrives.
func (c *Client) Receive() ([]Point, error) {
	if c.conn == nil {
		return nil, fmt.Errorf("client is not connected")
	}
	return Decode(c.reader)
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.reader = nil
	return err
}
