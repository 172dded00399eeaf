package format

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// FieldResolutionError reports a path segment that no candidate name
// could resolve against the record.
type FieldResolutionError struct {
	Path    string
	Segment string
}

func (e *FieldResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve segment %q in field path %q", e.Segment, e.Path)
}

// reservedMarker is the suffix the object model appends to fields whose
// natural name collides with a reserved identifier ("type" becomes
// "type_"). Callers write paths with the query language's natural names
// and must not need to know which fields were renamed.
const reservedMarker = "_"

// segmentTransforms are the candidate-name rewrites tried, in order, for
// every path segment. New collision patterns slot in here without
// touching the resolution loop.
var segmentTransforms = []func(string) string{
	func(s string) string { return s },
	func(s string) string { return s + reservedMarker },
	func(s string) string { return strings.TrimSuffix(s, reservedMarker) },
	// JSON-shaped rows from the REST surface use lowerCamel keys.
	lowerCamel,
}

func segmentCandidates(segment string) []string {
	out := make([]string, 0, len(segmentTransforms))
	for _, transform := range segmentTransforms {
		c := transform(segment)
		if c == "" || slices.Contains(out, c) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Resolve walks the dot-separated path against root, one segment at a
// time. Each segment tries the candidate names in order; the first hit
// becomes the object for the next segment. A segment no candidate can
// resolve yields a *FieldResolutionError.
func Resolve(root any, path string) (any, error) {
	cur := root
	for _, segment := range strings.Split(path, ".") {
		next, ok := resolveSegment(cur, segment)
		if !ok {
			return nil, &FieldResolutionError{Path: path, Segment: segment}
		}
		cur = next
	}
	return cur, nil
}

func resolveSegment(obj any, segment string) (any, bool) {
	if obj == nil {
		return nil, false
	}
	candidates := segmentCandidates(segment)

	switch o := obj.(type) {
	case proto.Message:
		return resolveMessageField(o, candidates)
	case protoMap:
		return resolveProtoMapKey(o, candidates)
	}

	rv := reflect.ValueOf(obj)
	switch rv.Kind() {
	case reflect.Map:
		return resolveMapKey(rv, candidates)
	case reflect.Struct, reflect.Pointer:
		return resolveStructField(rv, candidates)
	}
	return nil, false
}

// resolveMessageField looks a segment up against a record's declared
// fields. Unpopulated fields resolve to their default value, the same
// way plain attribute access behaves on the object model.
func resolveMessageField(msg proto.Message, candidates []string) (any, bool) {
	m := msg.ProtoReflect()
	fields := m.Descriptor().Fields()
	for _, name := range candidates {
		fd := fields.ByName(protoreflect.Name(name))
		if fd == nil {
			fd = fields.ByJSONName(name)
		}
		if fd == nil {
			continue
		}
		return fieldValue(fd, m.Get(fd)), true
	}
	return nil, false
}

func resolveProtoMapKey(pm protoMap, candidates []string) (any, bool) {
	if pm.fd.MapKey().Kind() != protoreflect.StringKind {
		return nil, false
	}
	valDesc := pm.fd.MapValue()
	for _, name := range candidates {
		key := protoreflect.ValueOfString(name).MapKey()
		if pm.m.Has(key) {
			return singularValue(valDesc, pm.m.Get(key)), true
		}
	}
	return nil, false
}

func resolveMapKey(rv reflect.Value, candidates []string) (any, bool) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	for _, name := range candidates {
		v := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if v.IsValid() {
			return v.Interface(), true
		}
	}
	return nil, false
}

// resolveStructField tries a nil-safe getter first, then the exported
// field itself. Generated record structs expose Get<Field> accessors
// that tolerate nil receivers, which makes partially populated rows
// resolve cleanly.
func resolveStructField(rv reflect.Value, candidates []string) (any, bool) {
	for _, name := range candidates {
		goName := exportName(name)
		if goName == "" {
			continue
		}
		if m := rv.MethodByName("Get" + strings.TrimSuffix(goName, reservedMarker)); m.IsValid() {
			if mt := m.Type(); mt.NumIn() == 0 && mt.NumOut() == 1 {
				return m.Call(nil)[0].Interface(), true
			}
		}
		elem := rv
		for elem.Kind() == reflect.Pointer {
			if elem.IsNil() {
				return nil, false
			}
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			return nil, false
		}
		if f := elem.FieldByName(goName); f.IsValid() && f.CanInterface() {
			return f.Interface(), true
		}
	}
	return nil, false
}

// exportName maps a snake_case segment to the exported Go identifier,
// keeping a trailing reserved marker in place ("type_" -> "Type_").
func exportName(name string) string {
	trailing := strings.HasSuffix(name, reservedMarker)
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimSuffix(name, reservedMarker), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	if trailing && b.Len() > 0 {
		b.WriteString(reservedMarker)
	}
	return b.String()
}

// lowerCamel maps a snake_case segment to the lowerCamel alias used by
// JSON-shaped rows ("ad_group_ad" -> "adGroupAd").
func lowerCamel(name string) string {
	out := exportName(name)
	if out == "" {
		return out
	}
	return strings.ToLower(out[:1]) + out[1:]
}
