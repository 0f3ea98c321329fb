package mxarray

import "fmt"

// ClassID is the element type tag of an array. Values follow the engine's class numbering so
// drivers can pass them across the boundary unchanged.
type ClassID int

const (
	UnknownClass ClassID = 0
	LogicalClass ClassID = 3
	CharClass    ClassID = 4
	DoubleClass  ClassID = 6
	SingleClass  ClassID = 7
	Int8Class    ClassID = 8
	Uint8Class   ClassID = 9
	Int16Class   ClassID = 10
	Uint16Class  ClassID = 11
	Int32Class   ClassID = 12
	Uint32Class  ClassID = 13
	Int64Class   ClassID = 14
	Uint64Class  ClassID = 15
)

// ElementSize returns the number of bytes per element, or 0 for classes that carry no
// numeric payload.
func (c ClassID) ElementSize() int {
	switch c {
	case LogicalClass, Int8Class, Uint8Class:
		return 1
	case CharClass, Int16Class, Uint16Class:
		return 2
	case SingleClass, Int32Class, Uint32Class:
		return 4
	case DoubleClass, Int64Class, Uint64Class:
		return 8
	default:
		return 0
	}
}

func (c ClassID) String() string {
	switch c {
	case LogicalClass:
		return "logical"
	case CharClass:
		return "char"
	case DoubleClass:
		return "double"
	case SingleClass:
		return "single"
	case Int8Class:
		return "int8"
	case Uint8Class:
		return "uint8"
	case Int16Class:
		return "int16"
	case Uint16Class:
		return "uint16"
	case Int32Class:
		return "int32"
	case Uint32Class:
		return "uint32"
	case Int64Class:
		return "int64"
	case Uint64Class:
		return "uint64"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}
