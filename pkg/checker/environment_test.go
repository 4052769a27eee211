package checker

import (
	"testing"

	"tslower/pkg/types"
)

func TestNewGlobalEnvironment(t *testing.T) {
	env := NewGlobalEnvironment()

	for _, name := range []string{"console", "document", "Date", "String"} {
		info, found := env.Resolve(name)
		if !found {
			t.Fatalf("%s not defined in global environment", name)
		}
		if !info.IsHost {
			t.Errorf("%s should be a host global", name)
		}
	}

	date, _ := env.Resolve("Date")
	if date.Signature == nil || date.Signature.ReturnType != types.String {
		t.Errorf("calling Date should produce a string, got %v", date.Signature)
	}
}

func TestEnclosedEnvironmentShadowing(t *testing.T) {
	global := NewGlobalEnvironment()
	inner := NewEnclosedEnvironment(global)

	if !inner.Define("Date", SymbolInfo{Type: types.Number}) {
		t.Fatal("shadowing an outer name should succeed")
	}
	if inner.Define("Date", SymbolInfo{Type: types.String}) {
		t.Error("redefining in the same scope should keep the first definition")
	}

	info, _ := inner.Resolve("Date")
	if info.Type != types.Number || info.IsHost {
		t.Errorf("inner Date = %+v", info)
	}
	outer, _ := global.Resolve("Date")
	if !outer.IsHost {
		t.Errorf("outer Date changed: %+v", outer)
	}
	if _, found := inner.Resolve("missing"); found {
		t.Error("unexpected symbol")
	}
}
