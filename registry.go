package granola

import (
	"reflect"
	"sync"
)

// Per-type caches shared by every Mapper. Plans and wire fields depend only
// on the type, never on a particular Mapper instance.
var (
	cacheMu       sync.RWMutex
	planCache     = make(map[reflect.Type]*structPlan)
	wireCache     = make(map[reflect.Type][]wireField)
	normalizeMemo = make(map[reflect.Type]bool)
)

// planFor returns the cached normalization plan for a struct type,
// building it on first use.
func planFor(rt reflect.Type) *structPlan {
	// Fast path: read-lock cache check
	cacheMu.RLock()
	if cached, ok := planCache[rt]; ok {
		cacheMu.RUnlock()
		return cached
	}
	cacheMu.RUnlock()

	plan := buildPlan(rt)

	// Slow path: store with write-lock
	cacheMu.Lock()
	defer cacheMu.Unlock()

	// Double-check pattern
	if cached, ok := planCache[rt]; ok {
		return cached
	}
	planCache[rt] = plan
	return plan
}

// wireFieldsFor returns the cached wire rendering of a struct type.
func wireFieldsFor(rt reflect.Type) []wireField {
	cacheMu.RLock()
	if cached, ok := wireCache[rt]; ok {
		cacheMu.RUnlock()
		return cached
	}
	cacheMu.RUnlock()

	fields := buildWireFields(rt)

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if cached, ok := wireCache[rt]; ok {
		return cached
	}
	wireCache[rt] = fields
	return fields
}

func lookupNormalizable(t reflect.Type) (bool, bool) {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	v, ok := normalizeMemo[t]
	return v, ok
}

func storeNormalizable(t reflect.Type, v bool) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	normalizeMemo[t] = v
}

var (
	defaultMu     sync.RWMutex
	defaultMapper *Mapper
)

// Default returns the process-wide shared Mapper, building it on first
// use. Sharing is by convention: callers that want an independent engine
// call New instead.
func Default() *Mapper {
	defaultMu.RLock()
	if defaultMapper != nil {
		m := defaultMapper
		defaultMu.RUnlock()
		return m
	}
	defaultMu.RUnlock()

	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultMapper == nil {
		defaultMapper = New()
	}
	return defaultMapper
}

// ResetDefault clears the shared Mapper and the per-type caches.
// This is primarily useful for test isolation.
func ResetDefault() {
	defaultMu.Lock()
	defaultMapper = nil
	defaultMu.Unlock()

	cacheMu.Lock()
	planCache = make(map[reflect.Type]*structPlan)
	wireCache = make(map[reflect.Type][]wireField)
	normalizeMemo = make(map[reflect.Type]bool)
	cacheMu.Unlock()
}
