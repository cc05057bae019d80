package guest

import (
	_ "embed"
	"regexp"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	"github.com/glintui/glint-bridge/errors"
)

//go:embed surface.wit
var surfaceWIT string

type funcSignature struct {
	params  []wit.Type
	results []wit.Type
}

var (
	ifacePattern = regexp.MustCompile(`interface\s+([a-z][a-z0-9-]*)\s*\{([^}]*)\}`)
	funcPattern  = regexp.MustCompile(`([a-zA-Z_][a-zA-Z0-9_-]*)\s*:\s*func\s*\(([^)]*)\)(?:\s*->\s*([^;]+))?`)
)

// parseSurface extracts per-interface function signatures from WIT text.
// Pattern per function: name: func(params) -> result;
func parseSurface(witText string) (map[string]map[string]*funcSignature, error) {
	ifaces := make(map[string]map[string]*funcSignature)

	blocks := ifacePattern.FindAllStringSubmatch(witText, -1)
	if len(blocks) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no interfaces found in WIT text")
	}

	for _, block := range blocks {
		name := block[1]
		funcs, err := parseFunctions(block[2])
		if err != nil {
			return nil, err
		}
		ifaces[name] = funcs
	}

	return ifaces, nil
}

func parseFunctions(body string) (map[string]*funcSignature, error) {
	funcs := make(map[string]*funcSignature)

	matches := funcPattern.FindAllStringSubmatch(body, -1)
	for _, match := range matches {
		name := match[1]
		paramsStr := strings.TrimSpace(match[2])
		resultStr := strings.TrimSpace(match[3])

		sig := &funcSignature{}

		if paramsStr != "" {
			for _, p := range splitParams(paramsStr) {
				typStr := p
				if idx := strings.LastIndex(p, ":"); idx != -1 {
					typStr = strings.TrimSpace(p[idx+1:])
				}
				t, err := wit.ParseType(typStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse param type "+typStr)
				}
				sig.params = append(sig.params, t)
			}
		}

		if resultStr != "" && resultStr != "()" {
			if strings.HasPrefix(resultStr, "(") && strings.HasSuffix(resultStr, ")") {
				inner := strings.TrimPrefix(strings.TrimSuffix(resultStr, ")"), "(")
				for _, part := range splitParams(inner) {
					t, err := wit.ParseType(strings.TrimSpace(part))
					if err != nil {
						return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+part)
					}
					sig.results = append(sig.results, t)
				}
			} else {
				t, err := wit.ParseType(resultStr)
				if err != nil {
					return nil, errors.Wrap(errors.PhaseParse, errors.KindInvalidData, err, "parse result type "+resultStr)
				}
				sig.results = []wit.Type{t}
			}
		}

		funcs[name] = sig
	}

	if len(funcs) == 0 {
		return nil, errors.InvalidInput(errors.PhaseParse, "no functions found in WIT interface")
	}

	return funcs, nil
}

// splitParams splits a parameter list, handling nested parens.
func splitParams(s string) []string {
	var result []string
	var current strings.Builder
	depth := 0

	for _, ch := range s {
		switch ch {
		case '(':
			depth++
			current.WriteRune(ch)
		case ')':
			depth--
			current.WriteRune(ch)
		case ',':
			if depth == 0 {
				if str := strings.TrimSpace(current.String()); str != "" {
					result = append(result, str)
				}
				current.Reset()
			} else {
				current.WriteRune(ch)
			}
		default:
			current.WriteRune(ch)
		}
	}

	if str := strings.TrimSpace(current.String()); str != "" {
		result = append(result, str)
	}

	return result
}

// coreTypes lowers a WIT type onto its flat core representation.
func coreTypes(t wit.Type) ([]api.ValueType, error) {
	switch t.(type) {
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32:
		return []api.ValueType{api.ValueTypeI32}, nil
	case wit.U64, wit.S64:
		return []api.ValueType{api.ValueTypeI64}, nil
	case wit.F32:
		return []api.ValueType{api.ValueTypeF32}, nil
	case wit.F64:
		return []api.ValueType{api.ValueTypeF64}, nil
	case wit.String:
		return []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, nil
	default:
		return nil, errors.New(errors.PhaseParse, errors.KindUnsupported).
			Detail("WIT type %T has no flat lowering here", t).
			Build()
	}
}

// flatten lowers a WIT signature side onto core value types.
func flatten(types []wit.Type) ([]api.ValueType, error) {
	var flat []api.ValueType
	for _, t := range types {
		core, err := coreTypes(t)
		if err != nil {
			return nil, err
		}
		flat = append(flat, core...)
	}
	return flat, nil
}
