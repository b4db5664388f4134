package helpers

import "reflect"

// StrPanic panics with panicMessage if s is empty; otherwise returns s. Used for fail-fast
// validation of required constructor arguments (node id, peer address, base URL).
//
// Parameters: s: string to check (only s == "" panics, no trimming); panicMessage: value passed to panic.
//
// Returns: s unchanged when non-empty.
//
// Called from service.NewRegistry, service.NewReplicator, adapters.registryhttp.NewClient, adapters.peergrpc.Dial.
func StrPanic(s string, panicMessage string) string {
	if s == "" {
		panic(panicMessage)
	}
	return s
}

// NilPanic panics with panicMessage if v is nil (nil interface, or nil pointer, slice, map, chan, func);
// otherwise returns v with its static type preserved.
//
// Parameters: v: dependency to check; panicMessage: value passed to panic.
//
// Returns: v unchanged when non-nil.
//
// Called from service and adapter constructors when validating required dependencies.
func NilPanic[T any](v T, panicMessage string) T {
	if isNil(v) {
		panic(panicMessage)
	}
	return v
}

// isNil reports whether v is nil, looking through typed nils via reflect.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
