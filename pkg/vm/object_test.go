package vm

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestObjectKeysKeepInsertionOrder(t *testing.T) {
	obj := NewObject(nil)
	obj.SetOwn("b", NumberValue(1))
	obj.SetOwn("a", NumberValue(2))
	obj.SetOwn("b", NumberValue(3))

	if diff := cmp.Diff([]string{"b", "a"}, obj.OwnKeys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.GetOwn("b"); v.ToFloat() != 3 {
		t.Errorf("b = %s, want 3", v.ToString())
	}
}

func TestPrototypeChain(t *testing.T) {
	root := NewObject(nil)
	root.SetOwn("shared", NewString("root"))
	proto := NewObject(root)
	proto.SetOwn("method", NewString("proto"))
	obj := NewObject(proto)

	if v, ok := obj.Get("method"); !ok || v.ToString() != "proto" {
		t.Errorf("method = %v, %v", v.ToString(), ok)
	}
	if v, ok := obj.Get("shared"); !ok || v.ToString() != "root" {
		t.Errorf("shared = %v, %v", v.ToString(), ok)
	}
	if obj.HasOwn("method") {
		t.Error("method should not be an own property")
	}
	if _, ok := obj.Get("missing"); ok {
		t.Error("missing should not resolve")
	}

	obj.SetOwn("method", NewString("own"))
	if v, _ := obj.Get("method"); v.ToString() != "own" {
		t.Errorf("own property should shadow the prototype, got %s", v.ToString())
	}
	if v, _ := proto.Get("method"); v.ToString() != "proto" {
		t.Error("writing through the instance changed the prototype")
	}
}

func TestArrayObject(t *testing.T) {
	arr := NewArrayObject(nil, []Value{NumberValue(1), NewString("x")})
	if v, _ := arr.GetOwn("length"); v.ToFloat() != 2 {
		t.Errorf("length = %s", v.ToString())
	}
	arr.SetOwn("3", True)
	if v, _ := arr.GetOwn("length"); v.ToFloat() != 4 {
		t.Errorf("length after sparse write = %s", v.ToString())
	}
	if v, ok := arr.GetOwn("2"); !ok || !v.IsUndefined() {
		t.Errorf("hole = %s, %v", v.ToString(), ok)
	}
	if got := NewObjectValue(arr).ToString(); got != "1,x,,true" {
		t.Errorf("ToString = %q", got)
	}
	if _, ok := arr.GetOwn("01"); ok {
		t.Error("01 is not an array index")
	}
}

func TestPutRunsHostHook(t *testing.T) {
	var seen []string
	obj := NewObject(nil)
	obj.onSet = func(name string, v Value) (Value, error) {
		seen = append(seen, name+"="+v.ToString())
		if name == "bad" {
			return Undefined, fmt.Errorf("rejected")
		}
		return NewString("<" + v.ToString() + ">"), nil
	}
	if err := obj.Put("textContent", NewString("hi")); err != nil {
		t.Fatal(err)
	}
	if err := obj.Put("textContent", NewString("bye")); err != nil {
		t.Fatal(err)
	}
	if err := obj.Put("bad", NewString("x")); err == nil {
		t.Error("expected the hook error to be returned")
	}
	if diff := cmp.Diff([]string{"textContent=hi", "textContent=bye", "bad=x"}, seen); diff != "" {
		t.Errorf("writes mismatch (-want +got):\n%s", diff)
	}
	if v, _ := obj.GetOwn("textContent"); v.ToString() != "<bye>" {
		t.Errorf("stored value = %q, want %q", v.ToString(), "<bye>")
	}
	if obj.HasOwn("bad") {
		t.Error("a rejected write must not be stored")
	}

	obj.SetOwn("direct", NewString("raw"))
	if len(seen) != 3 {
		t.Error("SetOwn must not run the hook")
	}
}
