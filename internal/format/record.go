package format

import (
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Raw protoreflect values lose the field descriptor that gave them
// meaning: a bare EnumNumber has no way back to its symbolic name, and a
// List does not know its element kind. The carrier types below keep that
// context attached so classification and conversion can happen later,
// after resolution, without re-walking the record.

// enumMember is an enumeration value paired with its descriptor.
type enumMember struct {
	num  protoreflect.EnumNumber
	desc protoreflect.EnumDescriptor
}

// protoList is a repeated field paired with its field descriptor.
type protoList struct {
	list protoreflect.List
	fd   protoreflect.FieldDescriptor
}

// protoMap is a map field paired with its field descriptor.
type protoMap struct {
	m  protoreflect.Map
	fd protoreflect.FieldDescriptor
}

// fieldValue converts the raw value of a message field into a value this
// package can classify on its own.
func fieldValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch {
	case fd.IsMap():
		return protoMap{m: v.Map(), fd: fd}
	case fd.IsList():
		return protoList{list: v.List(), fd: fd}
	default:
		return singularValue(fd, v)
	}
}

// singularValue converts one non-repeated value. For list elements fd is
// the repeated field itself (whose Kind is the element kind); for map
// values it is the MapValue descriptor.
func singularValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) any {
	switch fd.Kind() {
	case protoreflect.EnumKind:
		return enumMember{num: v.Enum(), desc: fd.Enum()}
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return v.Message().Interface()
	default:
		return v.Interface()
	}
}
