package prelude

import (
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/funvibe/weave/internal/ext"
	"github.com/funvibe/weave/internal/function"
	"github.com/funvibe/weave/internal/value"
)

// protoTypeTag marks the Extension proto-load returns, wrapping the
// loaded *desc.FileDescriptor state. No builtin reads the descriptors
// back out of that value: encode/decode/invoke look them up in the
// package-level protoRegistry below.
const protoTypeTag value.Symbol = "proto-schema"

// protoRegistry mirrors the teacher's builtins_grpc.go package-level
// protoRegistry: a process-wide map from .proto file name to its parsed
// FileDescriptor, since a dynamic.Message needs its MessageDescriptor
// at encode/decode/invoke time regardless of which Value carried the
// load request.
var (
	protoRegistry      = make(map[string]*desc.FileDescriptor)
	protoRegistryMutex sync.RWMutex
)

func protoBuiltins() []binding {
	return []binding{
		{"proto-load", function.NewPrim("proto-load", value.TierFree, evalArrow, primProtoLoad)},
		{"proto-encode", function.NewPrim("proto-encode", value.TierFree, evalArrow, primProtoEncode)},
		{"proto-decode", function.NewPrim("proto-decode", value.TierFree, evalArrow, primProtoDecode)},
	}
}

// primProtoLoad parses a .proto file (input: Text path) and registers
// every message/service descriptor it declares for later proto-encode/
// proto-decode/grpc-invoke lookups.
func primProtoLoad(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	path, ok := input.(value.Text)
	if !ok {
		return value.Unit{}
	}
	p := protoparse.Parser{ImportPaths: []string{"."}}
	fds, err := p.ParseFiles(string(path))
	if err != nil {
		return value.Unit{}
	}
	protoRegistryMutex.Lock()
	for _, fd := range fds {
		protoRegistry[fd.GetName()] = fd
	}
	protoRegistryMutex.Unlock()
	return ext.New(protoTypeTag, fds, nil)
}

func findMessageDescriptor(name string) (*desc.MessageDescriptor, error) {
	protoRegistryMutex.RLock()
	defer protoRegistryMutex.RUnlock()
	for _, fd := range protoRegistry {
		if md := fd.FindMessage(name); md != nil {
			return md, nil
		}
	}
	return nil, fmt.Errorf("message type %q not found (load its .proto with proto-load first)", name)
}

func findMethodDescriptor(path string) (*desc.MethodDescriptor, error) {
	slash := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			slash = i
			break
		}
	}
	if slash < 0 {
		return nil, fmt.Errorf("invalid method path %q, expected \"package.Service/Method\"", path)
	}
	serviceName, methodName := path[:slash], path[slash+1:]
	protoRegistryMutex.RLock()
	defer protoRegistryMutex.RUnlock()
	for _, fd := range protoRegistry {
		if svc := fd.FindService(serviceName); svc != nil {
			if m := svc.FindMethodByName(methodName); m != nil {
				return m, nil
			}
		}
	}
	return nil, fmt.Errorf("method %q not found", path)
}

// mapToDynamicMessage fills msg's fields from a weave Map keyed by
// Symbol or Text field names (spec's Map keys may be any Value; only
// Symbol/Text keys are meaningful proto field names).
func mapToDynamicMessage(m value.Map, msg *dynamic.Message) error {
	for _, kv := range m.Items() {
		name, ok := fieldName(kv.Key)
		if !ok {
			continue
		}
		fd := msg.GetMessageDescriptor().FindFieldByName(name)
		if fd == nil {
			continue
		}
		goVal, err := valueToProto(kv.Val, fd)
		if err != nil {
			return err
		}
		if err := msg.TrySetField(fd, goVal); err != nil {
			return err
		}
	}
	return nil
}

func fieldName(v value.Value) (string, bool) {
	switch k := v.(type) {
	case value.Symbol:
		return string(k), true
	case value.Text:
		return string(k), true
	default:
		return "", false
	}
}

func valueToProto(v value.Value, fd *desc.FieldDescriptor) (any, error) {
	switch fd.GetType().String() {
	case "TYPE_STRING":
		t, _ := v.(value.Text)
		return string(t), nil
	case "TYPE_BOOL":
		b, _ := v.(value.Bit)
		return bool(b), nil
	case "TYPE_BYTES":
		b, _ := v.(value.Byte)
		return []byte(b), nil
	case "TYPE_MESSAGE":
		sub, ok := v.(value.Map)
		if !ok {
			return nil, fmt.Errorf("field %s expects a Map", fd.GetName())
		}
		subMsg := dynamic.NewMessage(fd.GetMessageType())
		if err := mapToDynamicMessage(sub, subMsg); err != nil {
			return nil, err
		}
		return subMsg, nil
	default:
		if i, ok := v.(value.Int); ok && i.V != nil {
			return i.V.Int64(), nil
		}
		return nil, fmt.Errorf("field %s: unsupported value %s", fd.GetName(), v.Kind())
	}
}

// dynamicMessageToMap is the inverse of mapToDynamicMessage, producing
// a Map keyed by Symbol field names the way show/`do` pattern
// destructuring expects.
func dynamicMessageToMap(msg *dynamic.Message) value.Map {
	out := value.EmptyMap()
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		raw := msg.GetField(fd)
		out.Put(value.Symbol(fd.GetName()), protoToValue(raw, fd))
	}
	return out
}

func protoToValue(raw any, fd *desc.FieldDescriptor) value.Value {
	switch r := raw.(type) {
	case string:
		return value.Text(r)
	case bool:
		return value.Bit(r)
	case []byte:
		return value.Byte(r)
	case int32:
		return value.NewInt(int64(r))
	case int64:
		return value.NewInt(r)
	case uint32:
		return value.NewInt(int64(r))
	case uint64:
		return value.NewInt(int64(r))
	case *dynamic.Message:
		return dynamicMessageToMap(r)
	default:
		return value.Unit{}
	}
}

// primProtoEncode: input Pair(messageName Text, data Map) -> Byte.
func primProtoEncode(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	name, ok := p.First().(value.Text)
	if !ok {
		return value.Unit{}
	}
	data, ok := p.Second().(value.Map)
	if !ok {
		return value.Unit{}
	}
	md, err := findMessageDescriptor(string(name))
	if err != nil {
		return value.Unit{}
	}
	msg := dynamic.NewMessage(md)
	if err := mapToDynamicMessage(data, msg); err != nil {
		return value.Unit{}
	}
	bs, err := msg.Marshal()
	if err != nil {
		return value.Unit{}
	}
	return value.Byte(bs)
}

// primProtoDecode: input Pair(messageName Text, data Byte) -> Map.
func primProtoDecode(tier value.AccessTier, ambient *value.Ctx, action value.TaskAction, input value.Value) value.Value {
	p, ok := input.(value.Pair)
	if !ok {
		return value.Unit{}
	}
	name, ok := p.First().(value.Text)
	if !ok {
		return value.Unit{}
	}
	data, ok := p.Second().(value.Byte)
	if !ok {
		return value.Unit{}
	}
	md, err := findMessageDescriptor(string(name))
	if err != nil {
		return value.Unit{}
	}
	msg := dynamic.NewMessage(md)
	if err := msg.Unmarshal([]byte(data)); err != nil {
		return value.Unit{}
	}
	return dynamicMessageToMap(msg)
}
