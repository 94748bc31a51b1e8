package stringset

// StringSet is string container in which every string is contained at most once i.e. a set data structure.
type StringSet map[string]struct{}

// New builds a string set with elements from a given slice.
func New(elems ...string) StringSet {
	set := make(StringSet, len(elems))
	set.Add(elems...)
	return set
}

// Add inserts a string to the set.
func (set StringSet) Add(elems ...string) {
	for _, str := range elems {
		set[str] = struct{}{}
	}
}

// Contains checks if the set includes a given string.
func (set StringSet) Contains(str string) bool {
	_, ok := set[str]
	return ok
}
