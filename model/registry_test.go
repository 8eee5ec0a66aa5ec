package model_test

import (
	"testing"

	"github.com/jacentio/orchard/model"
)

func TestNewRegistry(t *testing.T) {
	r := model.NewRegistry()
	if len(r.Definitions()) != 0 {
		t.Errorf("expected empty registry, got %d definitions", len(r.Definitions()))
	}
}

func TestRegistry_Register(t *testing.T) {
	r := model.NewRegistry()
	users := model.Define("users", model.Attr("name"))
	orders := model.Define("orders", model.Attr("total"))

	r.Register(users)
	r.Register(orders)

	if len(r.Definitions()) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(r.Definitions()))
	}
	if r.Definitions()[0] != users || r.Definitions()[1] != orders {
		t.Error("expected registration order to be preserved")
	}

	def, ok := r.Lookup("users")
	if !ok || def != users {
		t.Error("expected users definition")
	}
	if !r.Has("orders") {
		t.Error("expected orders to be registered")
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := model.NewRegistry()
	v1 := model.Define("users", model.Attr("name"))
	v2 := model.Define("users", model.Attr("name"), model.Attr("email"))

	r.Register(v1)
	r.Register(v2)

	if len(r.Definitions()) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(r.Definitions()))
	}
	def, _ := r.Lookup("users")
	if def != v2 {
		t.Error("expected later registration to replace earlier one")
	}
	if r.Definitions()[0] != v2 {
		t.Error("expected Definitions to hold the replacement")
	}
}

func TestRegistry_LookupNonexistent(t *testing.T) {
	r := model.NewRegistry()
	if _, ok := r.Lookup("missing"); ok {
		t.Error("expected lookup of unknown bucket to fail")
	}
	if r.Has("") {
		t.Error("expected empty bucket to be unknown")
	}
}
