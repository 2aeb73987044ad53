package rd

// exclusionSet holds digests of production bodies which must not be expanded
// on the current derivation path. It is the device that makes descending into
// left-recursive productions terminate: a production already being tried at
// the current input position is not tried again until a token has been
// consumed.
//
// The set is deliberately a bare map. Copies made with copy are independent,
// but a set handed down the call chain is shared by reference, so clearing it
// in one branch is visible to every frame holding the same set.
type exclusionSet map[string]struct{}

func newExclusionSet() exclusionSet {
	return make(exclusionSet)
}

func (s exclusionSet) add(digest string) {
	s[digest] = struct{}{}
}

func (s exclusionSet) contains(digest string) bool {
	_, ok := s[digest]
	return ok
}

// copy returns an independent set with the same members.
func (s exclusionSet) copy() exclusionSet {
	c := make(exclusionSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// clear removes all members in place, keeping the map identity intact.
func (s exclusionSet) clear() {
	for k := range s {
		delete(s, k)
	}
}
