package mockhal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/hal-conformance/gralloc-test-harness/framework"
	"github.com/hal-conformance/gralloc-test-harness/framework/harness"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/eventsource"
)

// ServiceOptions configures the mock test service.
type ServiceOptions struct {
	// Name is the registered name of the HAL service instance, normally "gralloc".
	Name string

	// VendorVersion is reported in the status resource.
	VendorVersion string

	// Capabilities is the capability list the status resource reports. The mock's
	// behavior is gated on this list the same way a real service's would be.
	Capabilities framework.Capabilities
}

// Service is the HTTP face of the mock allocator. It implements the same resource
// protocol the harness drives a real test service with: a status resource, session
// creation with a Location header, command POSTs, and session/service teardown.
type Service struct {
	options       ServiceOptions
	logger        framework.Logger
	handler       http.Handler
	events        *eventsource.Server
	lastSessionID int
	sessions      map[string]*session
	stopped       chan struct{}
	stopOnce      sync.Once
	lock          sync.Mutex
}

type session struct {
	id        string
	tag       string
	allocator *Allocator
}

// NewService creates a mock test service with the given capability set.
func NewService(options ServiceOptions, logger framework.Logger) *Service {
	if options.Name == "" {
		options.Name = "gralloc"
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	s := &Service{
		options:  options,
		logger:   logger,
		sessions: make(map[string]*session),
		stopped:  make(chan struct{}),
	}
	if options.Capabilities.Has(servicedef.CapabilityAllocationEvents) {
		s.events = newEventServer(logger)
	}

	router := mux.NewRouter()
	router.HandleFunc("/", s.serveStatus).Methods("GET")
	router.HandleFunc("/", s.createSession).Methods("POST")
	router.HandleFunc("/", s.stop).Methods("DELETE")
	router.HandleFunc("/sessions/{id}", s.serveCommand).Methods("POST")
	router.HandleFunc("/sessions/{id}", s.closeSession).Methods("DELETE")
	router.HandleFunc("/sessions/{id}/events", s.serveEvents).Methods("GET")
	s.handler = router

	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Stopped is closed when a client has requested service shutdown with DELETE on the
// base URL.
func (s *Service) Stopped() <-chan struct{} {
	return s.stopped
}

func (s *Service) serveStatus(w http.ResponseWriter, r *http.Request) {
	rep := servicedef.StatusRep{
		TestServiceInfoBase: harness.TestServiceInfoBase{
			Name:         "mock-gralloc",
			HALVersion:   "2.0",
			Capabilities: s.options.Capabilities,
		},
		VendorVersion: s.options.VendorVersion,
	}
	data, _ := json.Marshal(rep)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Service) createSession(w http.ResponseWriter, r *http.Request) {
	var params servicedef.CreateSessionParams
	if r.Body != nil {
		defer r.Body.Close()
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			http.Error(w, "malformed session parameters", http.StatusBadRequest)
			return
		}
	}
	if params.ServiceName != "" && params.ServiceName != s.options.Name {
		http.Error(w, fmt.Sprintf("no HAL service registered as %q", params.ServiceName),
			http.StatusNotFound)
		return
	}

	s.lock.Lock()
	s.lastSessionID++
	id := fmt.Sprintf("%d", s.lastSessionID)
	sess := &session{
		id:  id,
		tag: params.Tag,
		allocator: NewAllocator(s.options.Capabilities.Has(servicedef.CapabilityLayeredBuffers),
			framework.LoggerWithPrefix(s.logger, "[session "+id+"] ")),
	}
	s.sessions[id] = sess
	s.lock.Unlock()

	s.logger.Printf("created session %s (tag: %s)", id, params.Tag)
	w.Header().Set("Location", "/sessions/"+id)
	w.WriteHeader(http.StatusCreated)
}

func (s *Service) getSession(r *http.Request) *session {
	id := mux.Vars(r)["id"]
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.sessions[id]
}

func (s *Service) closeSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.lock.Lock()
	sess := s.sessions[id]
	delete(s.sessions, id)
	s.lock.Unlock()
	if sess == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	sess.allocator.Reset()
	s.logger.Printf("closed session %s", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) stop(w http.ResponseWriter, r *http.Request) {
	s.logger.Printf("got shutdown request")
	w.WriteHeader(http.StatusNoContent)
	s.stopOnce.Do(func() { close(s.stopped) })
}

func (s *Service) serveEvents(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if s.events == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.events.Handler(sessionChannel(sess.id))(w, r)
}

func (s *Service) serveCommand(w http.ResponseWriter, r *http.Request) {
	sess := s.getSession(r)
	if sess == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	defer r.Body.Close()
	var params servicedef.CommandParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		http.Error(w, "malformed command body", http.StatusBadRequest)
		return
	}
	s.logger.Printf("[session %s] command %s", sess.id, params.Command)

	resp, err := s.dispatchCommand(sess, params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, _ := json.Marshal(resp)
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Service) dispatchCommand(sess *session, params servicedef.CommandParams) (interface{}, error) {
	switch params.Command {
	case servicedef.CommandCreateDescriptor:
		if !params.CreateDescriptor.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		descriptor, halErr := sess.allocator.CreateDescriptor(params.CreateDescriptor.Value().Info)
		return servicedef.CreateDescriptorResponse{Error: halErr, Descriptor: descriptor}, nil

	case servicedef.CommandDestroyDescriptor:
		if !params.DestroyDescriptor.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		halErr := sess.allocator.DestroyDescriptor(params.DestroyDescriptor.Value().Descriptor)
		return servicedef.DestroyDescriptorResponse{Error: halErr}, nil

	case servicedef.CommandTestAllocate:
		if !s.options.Capabilities.Has(servicedef.CapabilityTestAllocate) {
			return servicedef.TestAllocateResponse{Error: servicedef.ErrorUnsupported}, nil
		}
		if !params.TestAllocate.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		halErr := sess.allocator.TestAllocate(params.TestAllocate.Value().Descriptors)
		return servicedef.TestAllocateResponse{Error: halErr}, nil

	case servicedef.CommandAllocate:
		if !params.Allocate.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		buffers, halErr := sess.allocator.Allocate(params.Allocate.Value().Descriptors)
		if halErr == servicedef.ErrorNone || halErr == servicedef.ErrorNotShared {
			s.publishAllocations(sess, buffers)
		}
		return servicedef.AllocateResponse{Error: halErr, Buffers: buffers}, nil

	case servicedef.CommandFree:
		if !params.Free.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		buffer := params.Free.Value().Buffer
		halErr := sess.allocator.Free(buffer)
		if halErr == servicedef.ErrorNone {
			s.publishFree(sess, buffer)
		}
		return servicedef.FreeResponse{Error: halErr}, nil

	case servicedef.CommandExportHandle:
		if !params.ExportHandle.IsDefined() {
			return nil, missingParamsError(params.Command)
		}
		p := params.ExportHandle.Value()
		handle, halErr := sess.allocator.ExportHandle(p.Descriptor, p.Buffer)
		return servicedef.ExportHandleResponse{Error: halErr, Handle: handle}, nil

	case servicedef.CommandDumpDebugInfo:
		p := params.DumpDebugInfo.Value()
		dump := sess.allocator.DebugDump()
		if p.SinkURL != "" {
			if !s.options.Capabilities.Has(servicedef.CapabilityDumpToEndpoint) {
				return servicedef.DumpDebugInfoResponse{Error: servicedef.ErrorUnsupported}, nil
			}
			if err := postDump(p.SinkURL, dump); err != nil {
				s.logger.Printf("dump delivery to %s failed: %s", p.SinkURL, err)
				return servicedef.DumpDebugInfoResponse{Error: servicedef.ErrorUndefined}, nil
			}
		}
		return servicedef.DumpDebugInfoResponse{Error: servicedef.ErrorNone, Dump: dump}, nil

	case servicedef.CommandGetResourceStats:
		if !s.options.Capabilities.Has(servicedef.CapabilityResourceAccounting) {
			return servicedef.ResourceStatsResponse{Error: servicedef.ErrorUnsupported}, nil
		}
		return servicedef.ResourceStatsResponse{Error: servicedef.ErrorNone, Stats: sess.allocator.Stats()}, nil

	default:
		return nil, fmt.Errorf("unrecognized command %q", params.Command)
	}
}

func missingParamsError(command string) error {
	return fmt.Errorf("command %q was sent without matching parameters", command)
}
