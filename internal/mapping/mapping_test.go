package mapping

import (
	"reflect"
	"testing"
)

func TestMapping_ZeroValueUsable(t *testing.T) {
	var m Mapping
	if m.Len() != 0 || m.Has("a") {
		t.Fatal("zero mapping not empty")
	}
	if !m.Add("a", "x") {
		t.Fatal("Add() on zero value = false")
	}
	if got := m.Targets("a"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("Targets(a) = %v", got)
	}
}

func TestMapping_AddRemove(t *testing.T) {
	m := New()
	m.Add("Name", "first")
	m.Add("Name", "last")
	if m.Add("Name", "first") {
		t.Error("Add() duplicate pair = true, want false")
	}
	if got := m.Targets("Name"); !reflect.DeepEqual(got, []string{"first", "last"}) {
		t.Errorf("Targets = %v", got)
	}

	if !m.Remove("Name", "first") {
		t.Error("Remove() = false")
	}
	if m.Remove("Name", "missing") {
		t.Error("Remove(missing) = true")
	}
	m.Remove("Name", "last")
	if m.Has("Name") {
		t.Error("source kept after its last target was removed")
	}
}

func TestMapping_OrderAndCounts(t *testing.T) {
	m := New()
	m.Set("b", "x")
	m.Set("a", "x", "y", "x")
	m.Set("c", "z")
	m.Set("c")

	if got := m.Sources(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := m.Targets("a"); !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Targets(a) = %v, want repeated name collapsed", got)
	}
	if got := m.AllTargets(); !reflect.DeepEqual(got, map[string]int{"x": 2, "y": 1}) {
		t.Errorf("AllTargets() = %v", got)
	}
	if got := m.SourcesOf("x"); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("SourcesOf(x) = %v", got)
	}
}

func TestMapping_CloneIndependent(t *testing.T) {
	m := FromMap(map[string][]string{"b": {"y"}, "a": {"x"}})
	if got := m.Sources(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("FromMap order = %v, want sorted", got)
	}

	c := m.Clone()
	c.Add("a", "z")
	c.Delete("b")

	if got := m.Targets("a"); !reflect.DeepEqual(got, []string{"x"}) {
		t.Errorf("original Targets(a) = %v", got)
	}
	if !m.Has("b") {
		t.Error("Delete on clone removed source from original")
	}

	want := []Entry{{Source: "a", Targets: []string{"x", "z"}}}
	if got := c.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("clone Entries() = %+v, want %+v", got, want)
	}
}
