package tofd

import (
	"sync"

	"github.com/tauraamui/tofcam/pkg/tofd/process"
)

func (s *server) SetupProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cam := range s.cameras {
		proc := process.NewCoreProcess(cam.session, cam.cfg, s.sessionRecorder)
		proc.Setup()
		s.coreProcesses = append(s.coreProcesses, proc)
	}
}

func (s *server) RunProcesses() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proc := range s.coreProcesses {
		proc.Start()
	}
}

func (s *server) shutdownProcesses() {
	s.mu.Lock()
	procs := s.coreProcesses
	s.coreProcesses = nil
	s.mu.Unlock()

	wg := sync.WaitGroup{}
	wg.Add(len(procs))
	for _, proc := range procs {
		go func(wg *sync.WaitGroup, proc process.Process) {
			proc.Stop()
			proc.Wait()
			wg.Done()
		}(&wg, proc)
	}
	wg.Wait()
}
