package registry

import (
	"errors"
	"reflect"
	"testing"
)

func recorder(calls *[]string, name string) Handler {
	return func(args []string) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestBuilder_BuildKeepsOrder(t *testing.T) {
	var calls []string
	table, err := NewBuilder().
		Add("icat", recorder(&calls, "icat")).
		Add("list-fonts", recorder(&calls, "list-fonts")).
		Add("+", recorder(&calls, "+")).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{"icat", "list-fonts", "+"}
	if got := table.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}
	if table.Len() != 3 {
		t.Errorf("Len() = %d, want 3", table.Len())
	}

	h, ok := table.Lookup("list-fonts")
	if !ok {
		t.Fatal("Lookup(list-fonts) not found")
	}
	_ = h(nil)
	if !reflect.DeepEqual(calls, []string{"list-fonts"}) {
		t.Errorf("calls = %q, want the list-fonts handler", calls)
	}
}

func TestTable_LookupMissing(t *testing.T) {
	table := NewBuilder().Add("icat", func([]string) error { return nil }).MustBuild()

	for _, name := range []string{"", "ICAT", "+icat", "launch"} {
		if _, ok := table.Lookup(name); ok {
			t.Errorf("Lookup(%q) found a handler, want none", name)
		}
	}

	var nilTable *Table
	if _, ok := nilTable.Lookup("icat"); ok {
		t.Error("nil table must not find anything")
	}
}

func TestTable_NamesIsACopy(t *testing.T) {
	table := NewBuilder().Add("a", func([]string) error { return nil }).MustBuild()

	names := table.Names()
	names[0] = "mutated"

	if _, ok := table.Lookup("a"); !ok {
		t.Error("mutating Names() result changed the table")
	}
	if table.Names()[0] != "a" {
		t.Errorf("Names()[0] = %q, want %q", table.Names()[0], "a")
	}
}

func TestBuilder_Errors(t *testing.T) {
	noop := func([]string) error { return nil }

	tests := []struct {
		name    string
		build   func() *Builder
		wantErr error
	}{
		{
			name:    "duplicate",
			build:   func() *Builder { return NewBuilder().Add("edit", noop).Add("edit", noop) },
			wantErr: ErrDuplicate,
		},
		{
			name:    "empty name",
			build:   func() *Builder { return NewBuilder().Add("", noop) },
			wantErr: ErrInvalid,
		},
		{
			name:    "nil handler",
			build:   func() *Builder { return NewBuilder().Add("hold", nil) },
			wantErr: ErrInvalid,
		},
		{
			name:    "first error wins",
			build:   func() *Builder { return NewBuilder().Add("", noop).Add("x", noop).Add("x", noop) },
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Build() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuilder_MustBuildPanicsOnDuplicate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild() should panic on a duplicate registration")
		}
	}()
	noop := func([]string) error { return nil }
	NewBuilder().Add("kitten", noop).Add("kitten", noop).MustBuild()
}

func TestDerive(t *testing.T) {
	noop := func([]string) error { return nil }
	top := NewBuilder().
		Add("icat", noop).
		Add("+", noop).
		Add("list-fonts", noop).
		Add("@", noop).
		Add("@remote", noop).
		MustBuild()

	namespaced := Derive(top, "+@").
		Add("hold", noop).
		Add("launch", noop).
		MustBuild()

	want := []string{"icat", "list-fonts", "hold", "launch"}
	if got := namespaced.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %q, want %q", got, want)
	}
	if top.Len() != 5 {
		t.Errorf("top-level Len() = %d, want 5 (Derive must not modify it)", top.Len())
	}
}

func TestDerive_DuplicateWithTopLevel(t *testing.T) {
	noop := func([]string) error { return nil }
	top := NewBuilder().Add("icat", noop).MustBuild()

	_, err := Derive(top, "+@").Add("icat", noop).Build()
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Build() error = %v, want %v", err, ErrDuplicate)
	}
}
