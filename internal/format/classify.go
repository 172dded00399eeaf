package format

import (
	"reflect"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// shape is the closed set of value categories the normalizer understands.
// Every probe lives in classify; the conversion code switches on the
// resulting tag and never inspects values itself.
type shape int

const (
	shapeNull shape = iota
	shapeEnum
	shapeTextAsset
	shapeMapping
	shapeRepeated
	shapeRecord
	shapeForeignMessage
	shapeScalar
)

// textAssetName is the message the platform uses as a shorthand wrapper
// around ad copy. In report output callers almost always want the bare
// text, so it gets its own category.
const textAssetName = "AdTextAsset"

// foreignPrefix marks messages owned by the serialization framework
// itself rather than the reporting object model. Those have custom
// canonical JSON mappings and must not be dumped field by field.
const foreignPrefix = "google.protobuf."

// classify assigns a value to exactly one shape. The order of the checks
// is load-bearing: a record type also satisfies the generic sequence
// probes further down, so the structural categories are tested before
// the generic reflection ones.
func classify(v any) shape {
	if v == nil {
		return shapeNull
	}

	// Text and byte strings would satisfy the sequence probes below but
	// belong to the scalar category.
	switch v.(type) {
	case string, []byte:
		return shapeScalar
	}

	switch tv := v.(type) {
	case enumMember, protoreflect.Enum:
		return shapeEnum
	case protoMap:
		return shapeMapping
	case protoList, protoreflect.List:
		return shapeRepeated
	case proto.Message:
		desc := tv.ProtoReflect().Descriptor()
		if desc.Name() == textAssetName && desc.Fields().ByName("text") != nil {
			return shapeTextAsset
		}
		if strings.HasPrefix(string(desc.FullName()), foreignPrefix) {
			return shapeForeignMessage
		}
		return shapeRecord
	case protoreflect.Map:
		return shapeMapping
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return shapeNull
		}
		return classify(rv.Elem().Interface())
	case reflect.Map:
		return shapeMapping
	case reflect.Slice, reflect.Array:
		return shapeRepeated
	case reflect.Struct:
		// A record-like value without reflective field support; handled
		// by the best-effort scan.
		return shapeRecord
	}

	return shapeScalar
}
