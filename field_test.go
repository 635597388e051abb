package presence

import "testing"

func TestField_ZeroValue(t *testing.T) {
	var f Field[string]

	if f.IsSpecified() {
		t.Error("zero Field should be unspecified")
	}
	if f.Value() != "" {
		t.Errorf("Value() = %q, want empty", f.Value())
	}
	if _, ok := f.Get(); ok {
		t.Error("Get() should report unspecified")
	}
	if f.Ptr() != nil {
		t.Error("Ptr() should be nil when unspecified")
	}
}

func TestField_Constructors(t *testing.T) {
	s := "x"

	tests := []struct {
		name          string
		field         Field[*string]
		wantSpecified bool
		wantNil       bool
	}{
		{"of", Of(&s), true, false},
		{"null", Null[*string](), true, true},
		{"from nil ptr", FromPtr[*string](nil), true, true},
		{"unspecified", Field[*string]{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.IsSpecified() != tt.wantSpecified {
				t.Errorf("IsSpecified() = %v, want %v", tt.field.IsSpecified(), tt.wantSpecified)
			}
			if (tt.field.Value() == nil) != tt.wantNil {
				t.Errorf("Value() nil = %v, want %v", tt.field.Value() == nil, tt.wantNil)
			}
		})
	}
}

func TestFromPtr(t *testing.T) {
	n := 7
	f := FromPtr(&n)
	if v, ok := f.Get(); !ok || v != 7 {
		t.Errorf("Get() = %d, %v; want 7, true", v, ok)
	}

	// A later write through the source pointer does not leak into the field.
	n = 8
	if f.Value() != 7 {
		t.Errorf("Value() = %d, want 7", f.Value())
	}

	null := FromPtr[int](nil)
	if !null.IsSpecified() || null.Value() != 0 {
		t.Error("FromPtr(nil) should be a specified zero")
	}
}

func TestField_Or(t *testing.T) {
	if got := (Field[int]{}).Or(5); got != 5 {
		t.Errorf("unspecified Or(5) = %d, want 5", got)
	}
	if got := Null[int]().Or(5); got != 0 {
		t.Errorf("null Or(5) = %d, want 0", got)
	}
	if got := Of(3).Or(5); got != 3 {
		t.Errorf("Of(3).Or(5) = %d, want 3", got)
	}
}

func TestField_Ptr(t *testing.T) {
	f := Of("a")
	p := f.Ptr()
	if p == nil || *p != "a" {
		t.Fatalf("Ptr() = %v, want a", p)
	}
	*p = "b"
	if f.Value() != "a" {
		t.Error("Ptr() should return a copy")
	}
}

func TestField_Apply(t *testing.T) {
	email := "old@example.com"
	target := struct {
		Name  string
		Email *string
		Age   int
	}{Name: "old", Email: &email, Age: 40}

	if !Of("new").Apply(&target.Name) {
		t.Error("specified Apply should report true")
	}
	if !Null[*string]().Apply(&target.Email) {
		t.Error("null Apply should report true")
	}
	if (Field[int]{}).Apply(&target.Age) {
		t.Error("unspecified Apply should report false")
	}
	if Of(1).Apply(nil) {
		t.Error("Apply(nil) should report false")
	}

	if target.Name != "new" {
		t.Errorf("Name = %q, want new", target.Name)
	}
	if target.Email != nil {
		t.Error("Email should be cleared")
	}
	if target.Age != 40 {
		t.Errorf("Age = %d, want 40", target.Age)
	}
}

func TestField_Comparable(t *testing.T) {
	if Of(1) != Of(1) {
		t.Error("equal fields should compare equal")
	}
	if Of(0) == (Field[int]{}) {
		t.Error("specified zero should differ from unspecified")
	}
	if Null[int]() != Of(0) {
		t.Error("Null should equal Of(zero)")
	}
}
