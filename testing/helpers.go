// Package testing provides test utilities for presence.
package testing

import (
	"testing"

	"github.com/zoobzio/presence"
)

// PatchUser is a partial-update document carrying keys for every format.
type PatchUser struct {
	Name  presence.Field[string]  `json:"name" yaml:"name" msgpack:"name" bson:"name"`
	Email presence.Field[*string] `json:"email" yaml:"email" msgpack:"email" bson:"email"`
	Age   presence.Field[*int]    `json:"age" yaml:"age" msgpack:"age" bson:"age"`
}

// Address is a nested document with a tracked member.
type Address struct {
	City presence.Field[string] `json:"city" yaml:"city" msgpack:"city" bson:"city"`
	Zip  string                 `json:"zip" yaml:"zip" msgpack:"zip" bson:"zip"`
}

// PatchProfile exercises nesting, collections and omitempty.
type PatchProfile struct {
	presence.Contract
	User     PatchUser                         `json:"user" yaml:"user" msgpack:"user" bson:"user"`
	Home     presence.Field[*Address]          `json:"home" yaml:"home" msgpack:"home" bson:"home"`
	Tags     presence.Field[[]string]          `json:"tags" yaml:"tags" msgpack:"tags" bson:"tags"`
	Scores   []presence.Field[int]             `json:"scores" yaml:"scores" msgpack:"scores" bson:"scores"`
	Labels   map[string]presence.Field[string] `json:"labels" yaml:"labels" msgpack:"labels" bson:"labels"`
	Nickname presence.Field[*string]           `json:"nickname,omitempty" yaml:"nickname,omitempty" msgpack:"nickname,omitempty" bson:"nickname,omitempty"`
}

// Options returns options with presence support installed.
func Options(t testing.TB) *presence.Options {
	t.Helper()
	opts, err := presence.AddPresenceSupport(presence.NewOptions())
	if err != nil {
		t.Fatalf("AddPresenceSupport() error: %v", err)
	}
	return opts
}

// Serializer builds a serializer for T over c with presence support installed.
func Serializer[T any](t testing.TB, c presence.Codec) *presence.Serializer[T] {
	t.Helper()
	s, err := presence.NewSerializer[T](c, Options(t))
	if err != nil {
		t.Fatalf("NewSerializer() error: %v", err)
	}
	return s
}

// Str returns a pointer to s.
func Str(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// AssertUnspecified fails the test if f is specified.
func AssertUnspecified[T any](t testing.TB, name string, f presence.Field[T]) {
	t.Helper()
	if f.IsSpecified() {
		t.Errorf("%s should be unspecified, got %+v", name, f.Value())
	}
}

// AssertNull fails the test unless f is specified with a nil pointer.
func AssertNull[T any](t testing.TB, name string, f presence.Field[*T]) {
	t.Helper()
	if !f.IsSpecified() {
		t.Errorf("%s should be specified", name)
		return
	}
	if f.Value() != nil {
		t.Errorf("%s should be null, got %+v", name, *f.Value())
	}
}

// AssertValue fails the test unless f is specified with want.
func AssertValue[T comparable](t testing.TB, name string, f presence.Field[T], want T) {
	t.Helper()
	got, ok := f.Get()
	if !ok {
		t.Errorf("%s should be specified", name)
		return
	}
	if got != want {
		t.Errorf("%s = %+v, want %+v", name, got, want)
	}
}

// AssertPtrValue fails the test unless f is specified with a pointer to want.
func AssertPtrValue[T comparable](t testing.TB, name string, f presence.Field[*T], want T) {
	t.Helper()
	got, ok := f.Get()
	if !ok {
		t.Errorf("%s should be specified", name)
		return
	}
	if got == nil {
		t.Errorf("%s = nil, want %+v", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %+v, want %+v", name, *got, want)
	}
}
