package mxarray

import (
	"fmt"

	"mxbridge/internal/status"
)

// MoveData hands src's buffer to dst without copying. dst's previous buffer is released and
// src is left as a shell that keeps its shape but owns nothing, so destroying it afterwards
// frees nothing. Both arrays are locked for the whole move.
func MoveData(src, dst *Array) error {
	if src == nil || dst == nil {
		return status.Wrap("move data", status.ErrNullArgument)
	}
	if src == dst {
		return nil
	}

	first, second := src, dst
	if dst.id < src.id {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if err := checkMoveShape(src, dst); err != nil {
		return status.Wrap("move data", err)
	}
	if src.buf == nil {
		return status.Wrap("move data", fmt.Errorf("source owns no buffer: %w", status.ErrNullArgument))
	}

	if dst.buf != nil {
		dst.buf.release()
	}
	dst.buf = src.buf
	src.buf = nil

	return nil
}

func checkMoveShape(src, dst *Array) error {
	if src.ElementSize() != dst.ElementSize() {
		return fmt.Errorf("element size %d vs %d: %w", src.ElementSize(), dst.ElementSize(), status.ErrIncompatibleShape)
	}
	if len(src.dims) != 3 || len(src.dims) != len(dst.dims) {
		return fmt.Errorf("dimension count %d vs %d: %w", len(src.dims), len(dst.dims), status.ErrIncompatibleShape)
	}
	for i := 0; i < 3; i++ {
		if src.dims[i] != dst.dims[i] {
			return fmt.Errorf("extents %v vs %v: %w", src.dims, dst.dims, status.ErrIncompatibleShape)
		}
	}
	return nil
}
