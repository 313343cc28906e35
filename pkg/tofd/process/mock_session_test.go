package process_test

import (
	"sync"
	"time"

	"github.com/tauraamui/tofcam/internal/framequeue"
	"github.com/tauraamui/tofcam/pkg/tofframe"
)

type mockCameraSession struct {
	mu            sync.Mutex
	uuid          string
	open          bool
	requestErr    error
	requested     int
	released      []*tofframe.Buffer
	stats         framequeue.Stats
	width, height int
}

func newMockCameraSession() *mockCameraSession {
	return &mockCameraSession{
		uuid: "mock-session-uuid", open: true,
		width: 240, height: 180,
	}
}

func (m *mockCameraSession) UUID() string {
	return m.uuid
}

func (m *mockCameraSession) RequestFrame(timeout time.Duration) (*tofframe.Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	m.requested++
	return tofframe.NewBuffer(m.width, m.height), nil
}

func (m *mockCameraSession) ReleaseFrame(fb *tofframe.Buffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, fb)
	return nil
}

func (m *mockCameraSession) Stats() framequeue.Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

func (m *mockCameraSession) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *mockCameraSession) requestedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requested
}

func (m *mockCameraSession) releasedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.released)
}
