package pointcloud

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/tauraamui/tofcam/pkg/api/auth"
	"github.com/tauraamui/tofcam/pkg/log"
	"github.com/tauraamui/xerror"
)

// Source produces the next cloud to stream. It is called once per
// outgoing frame per subscriber.
type Source func() ([]Point, error)

// Authorizer checks that the operator a subscriber's token was minted
// for is still a known account. A nil authorizer admits any token
// with a valid signature.
type Authorizer func(operatorUUID string) error

const handshakeTimeout = 10 * time.Second

// Server streams encoded point clouds over TCP to subscribers which
// present a valid auth token during the handshake.
type Server struct {
	secret    string
	source    Source
	authorize Authorizer

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	shutdown bool
	wg       sync.WaitGroup
}

func NewServer(addr, secret string, source Source, authorize Authorizer) (*Server, error) {
	if source == nil {
		return nil, xerror.New("cannot serve point clouds without a source")
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, xerror.Errorf("unable to listen for point cloud subscribers: %w", err)
	}

	s := Server{
		secret: secret, source: source, authorize: authorize,
		listener: l, conns: map[net.Conn]struct{}{},
	}
	s.wg.Add(1)
	go s.acceptLoop(l)
	return &s, nil
}

func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// Addr reports the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

func (s *Server) acceptLoop(l net.Listener) {
	defer s.wg.Done()
	for {
		conn, err := l.Accept()
		if err != nil {
			s.mu.Lock()
			closing := s.shutdown
			s.mu.Unlock()
			if !closing {
				log.Error("unable to accept point cloud subscriber: %s", err.Error())
			}
			return
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveSubscriber(conn)
		}()
	}
}

func (s *Server) serveSubscriber(conn net.Conn) {
	defer conn.Close()

	if !s.track(conn) {
		return
	}
	defer s.untrack(conn)

	if err := s.handshake(conn); err != nil {
		log.Warn("rejected point cloud subscriber %s: %s", conn.RemoteAddr(), err.Error())
		return
	}

	for {
		s.mu.Lock()
		closing := s.shutdown
		s.mu.Unlock()
		if closing {
			return
		}

		points, err := s.source()
		if err != nil {
			log.Error("unable to produce point cloud for subscriber: %s", err.Error())
			return
		}

		if err := Encode(conn, points); err != nil {
			return
		}
	}
}

func (s *Server) handshake(conn net.Conn) error {
	if err := conn.SetReadDeadline(time.Now().Add(handshakeTimeout)); err != nil {
		return err
	}

	token, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return xerror.Errorf("unable to read subscriber token: %w", err)
	}

	operatorUUID, err := auth.ValidateToken(s.secret, strings.TrimSpace(token))
	if err != nil {
		conn.Write([]byte("DENIED\n"))
		return err
	}

	if s.authorize != nil {
		if err := s.authorize(operatorUUID); err != nil {
			conn.Write([]byte("DENIED\n"))
			return err
		}
	}

	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		return err
	}

	if _, err := conn.Write([]byte("OK\n")); err != nil {
		return xerror.Errorf("unable to ack subscriber handshake: %w", err)
	}
	return nil
}

// Shutdown stops accepting subscribers, drops the active ones and
// waits for their handlers to finish.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	if s.shutdown {
		s.mu.Unlock()
		return nil
	}
	s.shutdown = true
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	err := s.listener.Close()
	s.wg.Wait()
	return err
}
