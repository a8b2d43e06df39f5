// Package mockhal provides an in-process mock of a graphics buffer allocator test
// service. The conformance suite is meant to be run against real vendor services; this
// mock exists so the harness's own behavior can be tested hermetically.
package mockhal

import (
	"fmt"
	"sync"

	"github.com/hal-conformance/gralloc-test-harness/framework"
	"github.com/hal-conformance/gralloc-test-harness/servicedef"
)

// Buffer sizes are rounded up to this alignment, as a typical gralloc implementation
// would for CPU-accessible buffers.
const bufferAlignment = 64

// Allocator is a reference implementation of the allocator contract: a descriptor
// registry and a buffer table with shared-allocation semantics.
type Allocator struct {
	logger           framework.Logger
	lastDescriptorID int
	lastBufferID     int
	lastHandleID     int
	descriptors      map[string]servicedef.BufferDescriptorInfo
	buffers          map[string]bufferRecord
	supportsLayered  bool
	lock             sync.Mutex
}

type bufferRecord struct {
	descriptor string
	info       servicedef.BufferDescriptorInfo
	size       int64
	shared     bool
}

// NewAllocator creates an Allocator. If supportsLayered is false, descriptors with a
// layer count greater than one are rejected with UNSUPPORTED.
func NewAllocator(supportsLayered bool, logger framework.Logger) *Allocator {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &Allocator{
		logger:          logger,
		descriptors:     make(map[string]servicedef.BufferDescriptorInfo),
		buffers:         make(map[string]bufferRecord),
		supportsLayered: supportsLayered,
	}
}

func bytesPerPixel(format servicedef.PixelFormat) (int64, bool) {
	switch format {
	case servicedef.PixelFormatRGBA8888, servicedef.PixelFormatRGBX8888, servicedef.PixelFormatBGRA8888:
		return 4, true
	case servicedef.PixelFormatRGB888:
		return 3, true
	case servicedef.PixelFormatRGB565:
		return 2, true
	case servicedef.PixelFormatYV12:
		// YV12 is subsampled; 12 bits per pixel rounded up
		return 2, true
	default:
		return 0, false
	}
}

func alignUp(n int64) int64 {
	return (n + bufferAlignment - 1) &^ (bufferAlignment - 1)
}

func (a *Allocator) validateInfo(info servicedef.BufferDescriptorInfo) servicedef.Error {
	if info.Width == 0 || info.Height == 0 || info.LayerCount == 0 {
		return servicedef.ErrorBadValue
	}
	if _, ok := bytesPerPixel(info.Format); !ok {
		return servicedef.ErrorUnsupported
	}
	if info.LayerCount > 1 && !a.supportsLayered {
		return servicedef.ErrorUnsupported
	}
	return servicedef.ErrorNone
}

func bufferSize(info servicedef.BufferDescriptorInfo) int64 {
	bpp, _ := bytesPerPixel(info.Format)
	return alignUp(int64(info.Width) * int64(info.Height) * int64(info.LayerCount) * bpp)
}

// CreateDescriptor validates the info and registers a descriptor for it.
func (a *Allocator) CreateDescriptor(info servicedef.BufferDescriptorInfo) (string, servicedef.Error) {
	if err := a.validateInfo(info); err != servicedef.ErrorNone {
		return "", err
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	a.lastDescriptorID++
	id := fmt.Sprintf("descriptor-%d", a.lastDescriptorID)
	a.descriptors[id] = info
	a.logger.Printf("created %s for %+v", id, info)
	return id, servicedef.ErrorNone
}

// DestroyDescriptor removes a descriptor. Buffers allocated from it remain valid.
func (a *Allocator) DestroyDescriptor(id string) servicedef.Error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.descriptors[id]; !ok {
		return servicedef.ErrorBadDescriptor
	}
	delete(a.descriptors, id)
	a.logger.Printf("destroyed %s", id)
	return servicedef.ErrorNone
}

func (a *Allocator) lookupAll(descriptorIDs []string) ([]servicedef.BufferDescriptorInfo, servicedef.Error) {
	if len(descriptorIDs) == 0 {
		return nil, servicedef.ErrorBadValue
	}
	infos := make([]servicedef.BufferDescriptorInfo, 0, len(descriptorIDs))
	for _, id := range descriptorIDs {
		info, ok := a.descriptors[id]
		if !ok {
			return nil, servicedef.ErrorBadDescriptor
		}
		infos = append(infos, info)
	}
	return infos, servicedef.ErrorNone
}

func sharable(infos []servicedef.BufferDescriptorInfo) bool {
	for _, info := range infos[1:] {
		if info != infos[0] {
			return false
		}
	}
	return true
}

// TestAllocate is a dry run of Allocate: it reports whether the descriptor set could be
// allocated, and whether the resulting buffers would be shared, without committing any
// memory.
func (a *Allocator) TestAllocate(descriptorIDs []string) servicedef.Error {
	a.lock.Lock()
	defer a.lock.Unlock()
	infos, err := a.lookupAll(descriptorIDs)
	if err != servicedef.ErrorNone {
		return err
	}
	if len(infos) > 1 && !sharable(infos) {
		return servicedef.ErrorNotShared
	}
	return servicedef.ErrorNone
}

// Allocate creates one buffer per descriptor entry (duplicate entries are allowed). The
// result is NONE when the buffers could be shared, or NOT_SHARED when allocation
// succeeded but the buffers are distinct; either way exactly len(descriptorIDs) buffers
// exist afterward.
func (a *Allocator) Allocate(descriptorIDs []string) ([]string, servicedef.Error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	infos, err := a.lookupAll(descriptorIDs)
	if err != servicedef.ErrorNone {
		return nil, err
	}
	shared := len(infos) > 1 && sharable(infos)
	buffers := make([]string, 0, len(infos))
	for i, info := range infos {
		a.lastBufferID++
		id := fmt.Sprintf("buffer-%d", a.lastBufferID)
		a.buffers[id] = bufferRecord{
			descriptor: descriptorIDs[i],
			info:       info,
			size:       bufferSize(info),
			shared:     shared,
		}
		buffers = append(buffers, id)
	}
	a.logger.Printf("allocated %d buffer(s): %v", len(buffers), buffers)
	if len(infos) > 1 && !shared {
		return buffers, servicedef.ErrorNotShared
	}
	return buffers, servicedef.ErrorNone
}

// Free releases a buffer.
func (a *Allocator) Free(bufferID string) servicedef.Error {
	a.lock.Lock()
	defer a.lock.Unlock()
	if _, ok := a.buffers[bufferID]; !ok {
		return servicedef.ErrorBadBuffer
	}
	delete(a.buffers, bufferID)
	a.logger.Printf("freed %s", bufferID)
	return servicedef.ErrorNone
}

// ExportHandle produces a client-usable handle for a buffer allocated from the given
// descriptor.
func (a *Allocator) ExportHandle(descriptorID, bufferID string) (servicedef.HandleRep, servicedef.Error) {
	a.lock.Lock()
	defer a.lock.Unlock()
	descInfo, ok := a.descriptors[descriptorID]
	if !ok {
		return servicedef.HandleRep{}, servicedef.ErrorBadDescriptor
	}
	buf, ok := a.buffers[bufferID]
	if !ok {
		return servicedef.HandleRep{}, servicedef.ErrorBadBuffer
	}
	if buf.info != descInfo {
		return servicedef.HandleRep{}, servicedef.ErrorBadValue
	}
	a.lastHandleID++
	return servicedef.HandleRep{
		ID:      fmt.Sprintf("handle-%d", a.lastHandleID),
		NumFds:  1,
		NumInts: 4,
	}, servicedef.ErrorNone
}

func (a *Allocator) bufferSizeOf(bufferID string) int64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.buffers[bufferID].size
}

// Stats returns the live resource counts.
func (a *Allocator) Stats() servicedef.ResourceStats {
	a.lock.Lock()
	defer a.lock.Unlock()
	var total int64
	for _, buf := range a.buffers {
		total += buf.size
	}
	return servicedef.ResourceStats{
		Descriptors:    len(a.descriptors),
		Buffers:        len(a.buffers),
		AllocatedBytes: total,
	}
}

// Reset frees every descriptor and buffer, as when a session is closed.
func (a *Allocator) Reset() {
	a.lock.Lock()
	defer a.lock.Unlock()
	a.descriptors = make(map[string]servicedef.BufferDescriptorInfo)
	a.buffers = make(map[string]bufferRecord)
}
