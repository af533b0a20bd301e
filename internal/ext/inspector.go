package ext

import (
	"fmt"
	"go/types"

	"golang.org/x/tools/go/packages"
)

// vtableMethodSet names the methods ext.VTable requires, used to check
// a weave.yaml-declared binding at config-load time rather than failing
// late with a Go interface assertion panic when the extension is first
// invoked. Grounded on the teacher's internal/ext/inspector.go, which
// loads a Go package via golang.org/x/tools/go/packages and walks its
// *types.Package to verify declared bindings before code generation;
// this adapts the same technique to a single fixed interface instead of
// the teacher's arbitrary per-binding signature matching.
var vtableMethodSet = []struct {
	name   string
	params int
}{
	{"Equal", 2},
	{"Debug", 1},
	{"Arbitrary", 0},
}

// VerifyVTable loads pkgPath and confirms it declares a type named
// typeName whose method set satisfies ext.VTable, returning a
// human-readable error (destined for a Malformed-config fault) instead
// of a panic at first invocation.
func VerifyVTable(pkgPath, typeName string) error {
	cfg := &packages.Config{Mode: packages.NeedTypes | packages.NeedTypesInfo | packages.NeedName}
	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", pkgPath, err)
	}
	if len(pkgs) == 0 || pkgs[0].Types == nil {
		return fmt.Errorf("package %s not found or failed to type-check", pkgPath)
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		return fmt.Errorf("package %s has %d error(s), first: %v", pkgPath, len(pkg.Errors), pkg.Errors[0])
	}

	obj := pkg.Types.Scope().Lookup(typeName)
	if obj == nil {
		return fmt.Errorf("type %s not found in package %s", typeName, pkgPath)
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return fmt.Errorf("%s.%s is not a named type", pkgPath, typeName)
	}

	ms := types.NewMethodSet(types.NewPointer(named))
	have := make(map[string]*types.Func)
	for i := 0; i < ms.Len(); i++ {
		fn := ms.At(i).Obj().(*types.Func)
		have[fn.Name()] = fn
	}
	for _, want := range vtableMethodSet {
		fn, ok := have[want.name]
		if !ok {
			return fmt.Errorf("%s.%s missing method %s required by ext.VTable", pkgPath, typeName, want.name)
		}
		sig := fn.Type().(*types.Signature)
		if sig.Params().Len() != want.params {
			return fmt.Errorf("%s.%s.%s: expected %d parameter(s), found %d", pkgPath, typeName, want.name, want.params, sig.Params().Len())
		}
	}
	return nil
}
