package host

import "strconv"

// Identifier names a property either by string or by integer index
type Identifier struct {
	name     string
	index    int32
	isString bool
}

// StringIdentifier builds a string-keyed identifier
func StringIdentifier(name string) Identifier {
	return Identifier{name: name, isString: true}
}

// IntIdentifier builds an index-keyed identifier
func IntIdentifier(index int32) Identifier {
	return Identifier{index: index}
}

func (id Identifier) IsString() bool { return id.isString }
func (id Identifier) Name() string   { return id.name }
func (id Identifier) Index() int32   { return id.index }

// String renders the identifier as UTF-8 text, the way a host converts
// any identifier to a property key.
func (id Identifier) String() string {
	if id.isString {
		return id.name
	}
	return strconv.FormatInt(int64(id.index), 10)
}
