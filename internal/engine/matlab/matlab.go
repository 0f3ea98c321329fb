//go:build matlab && cgo

package matlab

/*
#cgo LDFLAGS: -leng -lmx
#include <stdlib.h>
#include <string.h>
#include <stdbool.h>
#include "engine.h"
*/
import "C"

import (
	"fmt"
	"unsafe"

	"mxbridge/internal/engine"
	"mxbridge/internal/mxarray"
	"mxbridge/internal/status"
)

// Available reports whether the MATLAB binding was compiled in.
func Available() bool {
	return true
}

type driver struct{}

// NewDriver returns a driver that opens MATLAB engine sessions.
func NewDriver() engine.Driver {
	return driver{}
}

func (driver) Open(startCmd string) engine.Handle {
	var cmd *C.char
	if startCmd != "" {
		cmd = C.CString(startCmd)
		defer C.free(unsafe.Pointer(cmd))
	}

	ep := C.engOpen(cmd)
	if ep == nil {
		return nil
	}
	return &handle{ep: ep}
}

type handle struct {
	ep *C.Engine
}

func (h *handle) SetVisible(visible bool) int {
	return int(C.engSetVisible(h.ep, C.bool(visible)))
}

func (h *handle) PutVariable(name string, value *mxarray.Array) int {
	pm := toMxArray(value)
	if pm == nil {
		return 1
	}
	defer C.mxDestroyArray(pm)

	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	return int(C.engPutVariable(h.ep, cname, pm))
}

func (h *handle) GetVariable(name string, alloc mxarray.Allocator) (*mxarray.Array, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	pm := C.engGetVariable(h.ep, cname)
	if pm == nil {
		return nil, status.ErrVariableNotFound
	}
	defer C.mxDestroyArray(pm)

	return fromMxArray(pm, alloc, name)
}

func (h *handle) EvalString(expr string) int {
	cexpr := C.CString(expr)
	defer C.free(unsafe.Pointer(cexpr))

	return int(C.engEvalString(h.ep, cexpr))
}

func (h *handle) Close() int {
	if h.ep == nil {
		return 0
	}
	code := int(C.engClose(h.ep))
	h.ep = nil
	return code
}

func toMxArray(value *mxarray.Array) *C.mxArray {
	dims := value.Dimensions()
	cdims := make([]C.mwSize, len(dims))
	for i, d := range dims {
		cdims[i] = C.mwSize(d)
	}

	var pm *C.mxArray
	switch value.Class() {
	case mxarray.LogicalClass:
		pm = C.mxCreateLogicalArray(C.mwSize(len(dims)), &cdims[0])
	case mxarray.CharClass:
		pm = C.mxCreateCharArray(C.mwSize(len(dims)), &cdims[0])
	default:
		pm = C.mxCreateNumericArray(C.mwSize(len(dims)), &cdims[0], C.mxClassID(value.Class()), C.mxREAL)
	}
	if pm == nil {
		return nil
	}

	data := value.Data()
	if len(data) > 0 {
		C.memcpy(C.mxGetData(pm), unsafe.Pointer(&data[0]), C.size_t(len(data)))
	}
	return pm
}

func fromMxArray(pm *C.mxArray, alloc mxarray.Allocator, tag string) (*mxarray.Array, error) {
	if C.mxIsComplex(pm) {
		return nil, fmt.Errorf("complex variable %s: %w", tag, status.ErrShapeMismatch)
	}

	ndim := int(C.mxGetNumberOfDimensions(pm))
	cdims := unsafe.Slice(C.mxGetDimensions(pm), ndim)
	dims := make([]int, ndim)
	for i := range dims {
		dims[i] = int(cdims[i])
	}

	value, err := mxarray.New(mxarray.ClassID(C.mxGetClassID(pm)), dims, alloc, tag)
	if err != nil {
		return nil, err
	}

	data := value.Data()
	if len(data) > 0 {
		src := C.mxGetData(pm)
		if src == nil {
			value.Destroy()
			return nil, fmt.Errorf("variable %s has no data: %w", tag, status.ErrNullArgument)
		}
		copy(data, unsafe.Slice((*byte)(src), len(data)))
	}
	return value, nil
}
