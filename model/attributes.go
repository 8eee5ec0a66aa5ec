package model

import "encoding/json"

// Attributes holds the attribute values of one record instance.
// Only names declared by the record's Definition are ever stored.
type Attributes struct {
	def    *Definition
	values map[string]any
}

// NewAttributes returns an empty attribute store for def.
func NewAttributes(def *Definition) *Attributes {
	return &Attributes{
		def:    def,
		values: make(map[string]any),
	}
}

// Set stores value under name and reports whether it was accepted.
// Undeclared names are discarded without error.
func (a *Attributes) Set(name string, value any) bool {
	if !a.def.Declares(name) {
		return false
	}
	a.values[name] = value
	return true
}

// Get returns the value stored under name. ok is false when the attribute is
// undeclared or has never been set, which is distinct from a stored false or zero value.
func (a *Attributes) Get(name string) (value any, ok bool) {
	value, ok = a.values[name]
	return value, ok
}

// Has reports whether a value is stored under name.
func (a *Attributes) Has(name string) bool {
	_, ok := a.values[name]
	return ok
}

// GetAll returns a mapping over exactly the declared names. Absent attributes map to nil.
func (a *Attributes) GetAll() map[string]any {
	all := make(map[string]any, len(a.def.attrs))
	for _, attr := range a.def.attrs {
		v, _ := a.Get(attr.Name)
		all[attr.Name] = v
	}
	return all
}

// SetAll applies Set to every entry of data. A nil value unsets the attribute,
// mirroring GetAll, so SetAll(GetAll()) keeps unset attributes unset.
func (a *Attributes) SetAll(data map[string]any) {
	for name, value := range data {
		if value == nil {
			a.Unset(name)
			continue
		}
		a.Set(name, value)
	}
}

// Unset removes the value stored under name.
func (a *Attributes) Unset(name string) {
	delete(a.values, name)
}

// Names returns the declared attribute names in declaration order.
func (a *Attributes) Names() []string {
	return a.def.Names()
}

// Len returns the number of attributes holding a value.
func (a *Attributes) Len() int {
	return len(a.values)
}

// Reset clears every stored value.
func (a *Attributes) Reset() {
	a.values = make(map[string]any)
}

// Serialize encodes GetAll as a JSON object with sorted keys.
func (a *Attributes) Serialize() (string, error) {
	b, err := json.Marshal(a.GetAll())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
