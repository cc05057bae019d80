package guest

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/glintui/glint-bridge/app"
	"github.com/glintui/glint-bridge/bridge"
	"github.com/glintui/glint-bridge/errors"
	"github.com/glintui/glint-bridge/handle"
	"github.com/glintui/glint-bridge/object"
)

const surfaceVersion = "0.1.0"

// Namespaces returns the registrable interface names.
func Namespaces() []string {
	return []string{"variant", "app", "tasks", "object"}
}

// ModuleName returns the wazero module name of a surface interface.
func ModuleName(ns string) string {
	return "glint:bridge/" + ns + "@" + surfaceVersion
}

// Config assembles the host state a Registry exposes to guests.
type Config struct {
	Runtime wazero.Runtime
	Bridge  *bridge.Bridge
	App     app.Config
	Classes []*object.Class
}

type hostFunc struct {
	handler api.GoModuleFunc
	name    string
	params  []api.ValueType
	results []api.ValueType
}

// Registry builds wazero host modules exposing the bridge surface.
// Operation signatures are declared once in surface.wit; Register
// validates every host function set against that declaration before
// instantiating anything.
type Registry struct {
	runtime  wazero.Runtime
	bridge   *bridge.Bridge
	classes  []*object.Class
	apps     *handle.Table[*app.Application]
	runtimes *handle.Table[*taskRuntime]
	builders *handle.Table[*listAccum]
	objects  *handle.Table[*object.Object]
	sigs     map[string]map[string]*funcSignature
	sigsErr  error
	appCfg   app.Config
	sigsOnce sync.Once
}

func NewRegistry(cfg Config) *Registry {
	return &Registry{
		runtime:  cfg.Runtime,
		bridge:   cfg.Bridge,
		appCfg:   cfg.App,
		classes:  cfg.Classes,
		apps:     handle.NewTable[*app.Application](),
		runtimes: handle.NewTable[*taskRuntime](),
		builders: handle.NewTable[*listAccum](),
		objects:  handle.NewTable[*object.Object](),
	}
}

// Register validates and instantiates the named host namespaces into the
// wazero runtime. With no arguments it registers all of them.
func (r *Registry) Register(ctx context.Context, namespaces ...string) error {
	if len(namespaces) == 0 {
		namespaces = Namespaces()
	}
	for _, ns := range namespaces {
		var funcs []hostFunc
		switch ns {
		case "variant":
			funcs = r.variantFuncs()
		case "app":
			funcs = r.appFuncs()
		case "tasks":
			funcs = r.taskFuncs()
		case "object":
			funcs = r.objectFuncs()
		default:
			return errors.NotFound(errors.PhaseGuest, "namespace", ns)
		}
		if err := r.validate(ns, funcs); err != nil {
			return err
		}
		if err := r.instantiate(ctx, ns, funcs); err != nil {
			return err
		}
	}
	return nil
}

// validate checks a host function set against the WIT declaration:
// every function must be declared, carry the declared flat signature,
// and every declared function must be present.
func (r *Registry) validate(ns string, funcs []hostFunc) error {
	r.sigsOnce.Do(func() {
		r.sigs, r.sigsErr = parseSurface(surfaceWIT)
	})
	if r.sigsErr != nil {
		return r.sigsErr
	}

	declared, ok := r.sigs[ns]
	if !ok {
		return errors.NotFound(errors.PhaseGuest, "interface", ns)
	}

	seen := make(map[string]bool, len(funcs))
	for _, f := range funcs {
		sig, ok := declared[f.name]
		if !ok {
			return errors.Registration(ModuleName(ns), f.name,
				errors.InvalidInput(errors.PhaseGuest, "function is not declared"))
		}
		seen[f.name] = true

		wantParams, err := flatten(sig.params)
		if err != nil {
			return errors.Registration(ModuleName(ns), f.name, err)
		}
		wantResults, err := flatten(sig.results)
		if err != nil {
			return errors.Registration(ModuleName(ns), f.name, err)
		}
		if !typesEqual(f.params, wantParams) || !typesEqual(f.results, wantResults) {
			return errors.Registration(ModuleName(ns), f.name,
				errors.InvalidInput(errors.PhaseGuest, "signature does not match declaration"))
		}
	}

	for name := range declared {
		if !seen[name] {
			return errors.Registration(ModuleName(ns), name,
				errors.InvalidInput(errors.PhaseGuest, "declared function has no host implementation"))
		}
	}
	return nil
}

func (r *Registry) instantiate(ctx context.Context, ns string, funcs []hostFunc) error {
	builder := r.runtime.NewHostModuleBuilder(ModuleName(ns))
	for _, f := range funcs {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(f.handler, f.params, f.results).
			Export(f.name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Registration(ModuleName(ns), "", err)
	}
	Logger().Info("host namespace registered",
		zap.String("module", ModuleName(ns)),
		zap.Int("functions", len(funcs)))
	return nil
}

// Close releases every handle issued through the surface: objects, list
// builders, task runtimes, and applications. Host modules themselves live
// until the wazero runtime is closed.
func (r *Registry) Close() {
	n := r.objects.Len() + r.builders.Len() + r.runtimes.Len() + r.apps.Len()
	r.objects.Close()
	r.builders.Close()
	r.runtimes.Close()
	r.apps.Each(func(_ handle.ID, a *app.Application) bool {
		_ = a.Close()
		return true
	})
	r.apps.Close()
	Logger().Info("guest surface closed", zap.Int("reclaimed", n))
}

func typesEqual(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// i32ret packs a signed status or count for an i32 result slot.
func i32ret(v int32) uint64 {
	return uint64(uint32(v))
}
