package hostfunc

import (
	"reflect"

	"rove/internal/errors"
)

// MethodsOf returns Members for every exported method of the receiver's
// type, in declaration order.
func MethodsOf(recv interface{}) []*Member {
	rt := reflect.TypeOf(recv)
	members := make([]*Member, 0, rt.NumMethod())
	for i := 0; i < rt.NumMethod(); i++ {
		m := rt.Method(i)
		if m.PkgPath != "" {
			continue
		}
		member, err := MethodOf(recv, m.Name)
		if err != nil {
			continue
		}
		members = append(members, member)
	}
	return members
}

// FindSingleMethod resolves the unique candidate with the given name. The
// binder does not resolve overloads: a second same-named candidate is an
// OverloadAmbiguityError.
func FindSingleMethod(candidates []*Member, name string) (*Member, error) {
	var found *Member
	for _, m := range candidates {
		if m == nil || m.Name != name {
			continue
		}
		if found != nil {
			return nil, errors.New(errors.OverloadAmbiguityError,
				"method %s has more than one candidate", name).WithFunction(name)
		}
		found = m
	}
	return found, nil
}
