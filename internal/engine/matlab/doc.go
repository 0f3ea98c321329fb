// Package matlab binds the engine session to the MATLAB Engine C API (libeng, libmx).
//
// The binding is compiled only with the "matlab" build tag and cgo enabled, and expects
// CGO_CFLAGS/CGO_LDFLAGS to point at the MATLAB extern/include and bin directories. Other
// builds get a driver whose Open always fails, so callers see ErrEngineUnavailable.
//
// Arrays cross the boundary by copy: PutVariable builds a temporary mxArray from the Go
// buffer, GetVariable copies the engine's mxArray into a Go-owned array and destroys the
// mxArray immediately.
package matlab
