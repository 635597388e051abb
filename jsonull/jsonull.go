// Package jsonull converts between presence fields and goreus JsonNull values.
//
// Both types carry the same three states:
//
//	absent    Field unspecified       JsonNull{Present: false}
//	null      Field specified, nil    JsonNull{Present: true, Valid: false}
//	value     Field specified, &v     JsonNull{Present: true, Valid: true, Value: v}
package jsonull

import (
	"github.com/atfromhome/goreus/pkg/jsonull"
	"github.com/zoobzio/presence"
)

// JsonNull is the goreus nullable type.
type JsonNull[T any] = jsonull.JsonNull[T]

// FromJsonNull converts j to a Field over *T.
func FromJsonNull[T any](j JsonNull[T]) presence.Field[*T] {
	switch {
	case !j.Present:
		return presence.Field[*T]{}
	case !j.Valid:
		return presence.Null[*T]()
	default:
		v := j.Value
		return presence.Of(&v)
	}
}

// ToJsonNull converts f to a JsonNull. An unspecified field yields the zero
// JsonNull, which is not Present.
func ToJsonNull[T any](f presence.Field[*T]) JsonNull[T] {
	p, ok := f.Get()
	if !ok {
		return JsonNull[T]{}
	}
	return jsonull.JsonNullFromPtr(p)
}
