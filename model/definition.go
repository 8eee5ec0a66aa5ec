package model

// Attribute describes one declared attribute of a record type.
type Attribute struct {
	// Name is the attribute name used in payloads.
	Name string

	// Description is free-form documentation of the attribute.
	Description string
}

// Attr declares an attribute with no description.
func Attr(name string) Attribute {
	return Attribute{Name: name}
}

// Definition is the schema of a record type: its bucket and declared attributes.
// A Definition is immutable once built and safe to share between records.
type Definition struct {
	bucket   string
	attrs    []Attribute
	index    map[string]int
	validate func(*Attributes) error
}

// Define builds a Definition for bucket. Empty and duplicate attribute names are ignored.
func Define(bucket string, attrs ...Attribute) *Definition {
	d := &Definition{
		bucket: bucket,
		index:  make(map[string]int, len(attrs)),
	}
	for _, a := range attrs {
		if a.Name == "" {
			continue
		}
		if _, dup := d.index[a.Name]; dup {
			continue
		}
		d.index[a.Name] = len(d.attrs)
		d.attrs = append(d.attrs, a)
	}
	return d
}

// WithValidator returns a copy of the definition using fn as validation hook for Update and Insert.
func (d *Definition) WithValidator(fn func(*Attributes) error) *Definition {
	c := *d
	c.validate = fn
	return &c
}

// Bucket returns the bucket records of this type are stored in.
func (d *Definition) Bucket() string {
	return d.bucket
}

// Attributes returns the declared attributes in declaration order.
func (d *Definition) Attributes() []Attribute {
	return append([]Attribute(nil), d.attrs...)
}

// Attribute returns the declared attribute called name.
func (d *Definition) Attribute(name string) (Attribute, bool) {
	i, ok := d.index[name]
	if !ok {
		return Attribute{}, false
	}
	return d.attrs[i], true
}

// Declares reports whether name is a declared attribute.
func (d *Definition) Declares(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Names returns the declared attribute names in declaration order.
func (d *Definition) Names() []string {
	names := make([]string, len(d.attrs))
	for i, a := range d.attrs {
		names[i] = a.Name
	}
	return names
}
