package presence

import "reflect"

// Contract marks an aggregate as using presence tracking. Embed it:
//
//	type PatchUser struct {
//	    presence.Contract
//	    Name presence.Field[string] `json:"name"`
//	}
//
// Contract is documentation only. Wrapper fields are still dispatched through
// AddPresenceSupport or the codec:"presence" tag, and a serializer built for a
// marked aggregate without either fails with ErrNoCodec.
//
// Embedding propagates, so a struct embedding a marked aggregate is marked too.
type Contract struct{}

func (Contract) presenceContract() {}

type contractor interface {
	presenceContract()
}

var contractorType = reflect.TypeFor[contractor]()

// HasContract reports whether t, or the type t points to, embeds Contract.
func HasContract(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Implements(contractorType)
}
