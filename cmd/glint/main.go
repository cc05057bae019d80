package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/glintui/glint-bridge/app"
	"github.com/glintui/glint-bridge/bridge"
	"github.com/glintui/glint-bridge/codec"
	"github.com/glintui/glint-bridge/guest"
	"github.com/glintui/glint-bridge/manifest"
	"github.com/glintui/glint-bridge/variant"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to glint.toml manifest (optional)")
		probe       = flag.String("probe", "", "Typed literal to coerce (i32:5, f64:3.9, str:hi, bool:true)")
		target      = flag.String("to", "", "Coercion target kind (bool, i32, u32, i64, u64, f32, f64, str)")
		decodeFile  = flag.String("decode", "", "Decode a stored value file and print it")
		guestFile   = flag.String("guest", "", "Path to guest wasm module")
		callName    = flag.String("call", "run", "Guest export to invoke with -guest")
		interactive = flag.Bool("i", false, "Interactive coercion workbench")
	)
	flag.Parse()

	if *probe == "" && *decodeFile == "" && *guestFile == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: glint -probe <kind:literal> [-to kind]")
		fmt.Fprintln(os.Stderr, "       glint -decode <file>")
		fmt.Fprintln(os.Stderr, "       glint [-config glint.toml] -guest <file.wasm> [-call name]")
		fmt.Fprintln(os.Stderr, "       glint -i  (interactive coercion workbench)")
		os.Exit(1)
	}

	man, err := loadManifest(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := setupLogging(man); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *interactive:
		err = runInteractive()
	case *probe != "":
		err = runProbe(*probe, *target)
	case *decodeFile != "":
		err = runDecode(*decodeFile)
	default:
		err = runGuest(man, *guestFile, *callName)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadManifest(path string) (*manifest.Manifest, error) {
	if path == "" {
		return manifest.Decode(nil)
	}
	return manifest.Load(path)
}

func setupLogging(man *manifest.Manifest) error {
	log, err := man.Logger()
	if err != nil {
		return err
	}
	bridge.SetLogger(log.Named("bridge"))
	app.SetLogger(log.Named("app"))
	guest.SetLogger(log.Named("guest"))
	return nil
}

// parseLiteral builds a value from a kind:literal pair, e.g. i32:5.
func parseLiteral(s string) (*variant.Value, error) {
	prefix, raw, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("literal %q: want kind:value", s)
	}
	kind, ok := variant.ParseKind(prefix)
	if !ok {
		return nil, fmt.Errorf("literal %q: unknown kind %q", s, prefix)
	}

	switch kind {
	case variant.KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("parse bool %q: %w", raw, err)
		}
		return variant.NewBool(v), nil
	case variant.KindInt32:
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse i32 %q: %w", raw, err)
		}
		return variant.NewInt32(int32(v)), nil
	case variant.KindUint32:
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parse u32 %q: %w", raw, err)
		}
		return variant.NewUint32(uint32(v)), nil
	case variant.KindInt64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse i64 %q: %w", raw, err)
		}
		return variant.NewInt64(v), nil
	case variant.KindUint64:
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse u64 %q: %w", raw, err)
		}
		return variant.NewUint64(v), nil
	case variant.KindFloat32:
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("parse f32 %q: %w", raw, err)
		}
		return variant.NewFloat32(float32(v)), nil
	case variant.KindFloat64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse f64 %q: %w", raw, err)
		}
		return variant.NewFloat64(v), nil
	case variant.KindString:
		return variant.NewString(raw), nil
	default:
		return nil, fmt.Errorf("literal %q: %s has no literal form", s, kind)
	}
}

// renderValue prints a value the way the workbench shows it: strings
// quoted, lists bracketed, numbers in decimal.
func renderValue(v *variant.Value) string {
	switch v.Kind() {
	case variant.KindInvalid:
		return "-"
	case variant.KindString:
		s, _ := v.ToText()
		return strconv.Quote(s)
	case variant.KindList:
		n, _ := v.ListLen()
		parts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			e, _ := v.At(i)
			parts = append(parts, renderValue(e))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		s, _ := v.ToText()
		return s
	}
}

func runProbe(literal, to string) error {
	v, err := parseLiteral(literal)
	if err != nil {
		return err
	}
	fmt.Printf("Source: %s %s\n", v.TypeName(), renderValue(v))

	if to == "" {
		return nil
	}
	kind, ok := variant.ParseKind(to)
	if !ok {
		return fmt.Errorf("unknown target kind %q", to)
	}
	conv, ok := v.ConvertTo(kind)
	if !ok {
		fmt.Printf("Coerce to %s: not convertible\n", kind)
		return nil
	}
	fmt.Printf("Coerced: %s %s\n", conv.TypeName(), renderValue(conv))
	return nil
}

func runDecode(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	v, err := codec.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	fmt.Printf("%s: %s %s\n", path, v.TypeName(), renderValue(v))
	return nil
}

func runGuest(man *manifest.Manifest, wasmFile, callName string) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	classes, err := man.Classes()
	if err != nil {
		return err
	}

	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	br := bridge.New()
	defer br.Close()

	reg := guest.NewRegistry(guest.Config{
		Runtime: rt,
		Bridge:  br,
		App:     man.AppConfig(),
		Classes: classes,
	})
	defer reg.Close()

	if err := reg.Register(ctx, man.Guest.Namespaces...); err != nil {
		return fmt.Errorf("register surface: %w", err)
	}

	mod, err := rt.Instantiate(ctx, data)
	if err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	defer mod.Close(ctx)

	fmt.Printf("Guest: %s\n", wasmFile)
	fmt.Printf("Application: %s\n", man.Application.Name)
	fmt.Printf("Namespaces: %s\n", strings.Join(man.Guest.Namespaces, ", "))
	fmt.Printf("Classes: %d\n", len(classes))

	fmt.Printf("\nExported functions:\n")
	defs := mod.ExportedFunctionDefinitions()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s%s\n", name, formatSignature(defs[name]))
	}

	fn := mod.ExportedFunction(callName)
	if fn == nil {
		return fmt.Errorf("guest exports no function %q", callName)
	}

	fmt.Printf("\nCalling %s()...\n", callName)
	res, err := fn.Call(ctx)
	if err != nil {
		return fmt.Errorf("call %s: %w", callName, err)
	}
	if len(res) > 0 {
		fmt.Printf("Result: %d\n", res[0])
	}
	fmt.Printf("Live handles: %d\n", br.Live())
	return nil
}

func formatSignature(def api.FunctionDefinition) string {
	params := make([]string, len(def.ParamTypes()))
	for i, p := range def.ParamTypes() {
		params[i] = valueTypeName(p)
	}
	sig := "(" + strings.Join(params, ", ") + ")"
	if results := def.ResultTypes(); len(results) > 0 {
		out := make([]string, len(results))
		for i, r := range results {
			out[i] = valueTypeName(r)
		}
		sig += " -> " + strings.Join(out, ", ")
	}
	return sig
}

func valueTypeName(t api.ValueType) string {
	switch t {
	case api.ValueTypeI32:
		return "i32"
	case api.ValueTypeI64:
		return "i64"
	case api.ValueTypeF32:
		return "f32"
	case api.ValueTypeF64:
		return "f64"
	}
	return "?"
}
