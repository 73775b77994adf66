package granola

import (
	"reflect"
	"sync"
	"time"
)

// EncoderFunc converts a value of a registered type into its wire form
// before the codec runs. The returned value is encoded in place of the
// original.
type EncoderFunc func(v any) (any, error)

// Options collects the configuration a Module can contribute while New
// assembles a Mapper. After New returns, the assembled Mapper no longer
// reads Options, so modules cannot affect an existing Mapper.
type Options struct {
	encoders map[reflect.Type]EncoderFunc
}

// Encoder registers a wire-form encoder for values of type t.
func (o *Options) Encoder(t reflect.Type, fn EncoderFunc) {
	o.encoders[t] = fn
}

// Module is a serialization extension. Modules register themselves with
// RegisterModule (typically from init) and are applied once per call to
// New, so every Mapper picks up whatever extensions are linked in.
type Module interface {
	// Name identifies the module in diagnostics.
	Name() string

	// Install contributes the module's configuration.
	Install(o *Options)
}

var (
	modulesMu sync.RWMutex
	modules   []Module
)

// RegisterModule adds a module to the process-wide registry. Mappers built
// before registration are unaffected.
func RegisterModule(mod Module) {
	modulesMu.Lock()
	defer modulesMu.Unlock()
	modules = append(modules, mod)
}

// registeredModules returns a snapshot of the registry.
func registeredModules() []Module {
	modulesMu.RLock()
	defer modulesMu.RUnlock()
	cp := make([]Module, len(modules))
	copy(cp, modules)
	return cp
}

func init() {
	RegisterModule(timeTextModule{})
}

// timeTextModule encodes time.Time as RFC 3339 text. Numeric timestamps
// are never emitted.
type timeTextModule struct{}

func (timeTextModule) Name() string {
	return "timetext"
}

func (timeTextModule) Install(o *Options) {
	o.Encoder(reflect.TypeOf(time.Time{}), func(v any) (any, error) {
		return v.(time.Time).Format(time.RFC3339Nano), nil
	})
}
