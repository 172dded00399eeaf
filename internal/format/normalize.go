package format

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"reflect"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/vk/adsgateway/internal/ctxlog"
)

// Normalize converts a value from the reporting object model into a
// JSON-safe value: nil, a bool/number/string, a []any, or a
// map[string]any. It never panics to its caller; an unexpected failure
// anywhere inside the value is logged and downgrades only the failing
// part to its printable string form, so the output stays serializable
// and sibling values survive.
func Normalize(ctx context.Context, v any) any {
	return normalize(ctx, v)
}

// normalize guards one conversion step. Every recursive descent passes
// through here, so a failure deep inside a record is contained to that
// subtree rather than unwinding to the root.
func normalize(ctx context.Context, v any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("value normalization failed, falling back to string form",
				"value_type", fmt.Sprintf("%T", v), "panic", r)
			out = fmt.Sprint(v)
		}
	}()
	return convert(ctx, v)
}

// convert dispatches on the value's shape. First match wins; the
// ordering lives in classify.
func convert(ctx context.Context, v any) any {
	switch classify(v) {
	case shapeNull:
		return nil
	case shapeEnum:
		return enumSymbol(v)
	case shapeTextAsset:
		return textAssetText(v.(proto.Message))
	case shapeMapping:
		return normalizeMapping(ctx, v)
	case shapeRepeated:
		return normalizeRepeated(ctx, v)
	case shapeRecord:
		return normalizeRecord(ctx, v)
	case shapeForeignMessage:
		return normalizeForeign(ctx, v.(proto.Message))
	default:
		return normalizeScalar(v)
	}
}

// enumSymbol returns the declared name of an enumeration value. Open
// enums can carry numbers with no declared name; those come back as the
// bare number rather than an invented string.
func enumSymbol(v any) any {
	var num protoreflect.EnumNumber
	var desc protoreflect.EnumDescriptor
	switch e := v.(type) {
	case enumMember:
		num, desc = e.num, e.desc
	case protoreflect.Enum:
		num, desc = e.Number(), e.Descriptor()
	default:
		return fmt.Sprint(v)
	}
	if vd := desc.Values().ByNumber(num); vd != nil {
		return string(vd.Name())
	}
	return int32(num)
}

// textAssetText unwraps the ad-copy shorthand message to its bare text.
func textAssetText(msg proto.Message) any {
	m := msg.ProtoReflect()
	fd := m.Descriptor().Fields().ByName("text")
	return m.Get(fd).String()
}

func normalizeMapping(ctx context.Context, v any) map[string]any {
	out := make(map[string]any)

	switch mv := v.(type) {
	case protoMap:
		valDesc := mv.fd.MapValue()
		mv.m.Range(func(k protoreflect.MapKey, val protoreflect.Value) bool {
			out[k.String()] = normalize(ctx, singularValue(valDesc, val))
			return true
		})
		return out
	case protoreflect.Map:
		// A raw map without its field descriptor; values surface in
		// their protoreflect form and normalize as best they can.
		mv.Range(func(k protoreflect.MapKey, val protoreflect.Value) bool {
			out[k.String()] = normalize(ctx, val.Interface())
			return true
		})
		return out
	}

	// Classification sees through pointers; do the same here.
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	for it := rv.MapRange(); it.Next(); {
		out[fmt.Sprint(it.Key().Interface())] = normalize(ctx, it.Value().Interface())
	}
	return out
}

func normalizeRepeated(ctx context.Context, v any) []any {
	switch lv := v.(type) {
	case protoList:
		out := make([]any, 0, lv.list.Len())
		for i := 0; i < lv.list.Len(); i++ {
			out = append(out, normalize(ctx, singularValue(lv.fd, lv.list.Get(i))))
		}
		return out
	case protoreflect.List:
		out := make([]any, 0, lv.Len())
		for i := 0; i < lv.Len(); i++ {
			out = append(out, normalize(ctx, lv.Get(i).Interface()))
		}
		return out
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	out := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out = append(out, normalize(ctx, rv.Index(i).Interface()))
	}
	return out
}

// normalizeRecord converts a structured record to a map. Messages from
// the object model expose their populated fields reflectively, so the
// result is sparse: only fields that were actually set appear. Anything
// record-shaped without that capability falls back to a best-effort scan
// of its exported fields, which may be incomplete.
func normalizeRecord(ctx context.Context, v any) map[string]any {
	if msg, ok := v.(proto.Message); ok {
		out := make(map[string]any)
		msg.ProtoReflect().Range(func(fd protoreflect.FieldDescriptor, val protoreflect.Value) bool {
			out[string(fd.Name())] = normalize(ctx, fieldValue(fd, val))
			return true
		})
		return out
	}

	ctxlog.FromContext(ctx).Debug("record has no populated-field reflection, scanning exported fields",
		"value_type", fmt.Sprintf("%T", v))

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	out := make(map[string]any)
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		fv := rv.Field(i)
		if fv.Kind() == reflect.Func {
			continue
		}
		out[f.Name] = normalize(ctx, fv.Interface())
	}
	return out
}

// normalizeForeign converts a framework-owned message through its
// canonical JSON mapping, preserving original field names rather than
// camelCased aliases.
func normalizeForeign(ctx context.Context, msg proto.Message) any {
	b, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(msg)
	if err == nil {
		var out any
		if err = json.Unmarshal(b, &out); err == nil {
			return out
		}
	}
	ctxlog.FromContext(ctx).Warn("canonical JSON conversion failed, using field scan",
		"message", string(msg.ProtoReflect().Descriptor().FullName()), "error", err)
	return normalizeRecord(ctx, msg)
}

// normalizeScalar passes primitives through unchanged. Byte strings are
// base64-encoded, matching the canonical JSON mapping for bytes.
func normalizeScalar(v any) any {
	if b, ok := v.([]byte); ok {
		return base64.StdEncoding.EncodeToString(b)
	}
	return v
}
