package model

// Registry holds the record definitions known to an application, by bucket.
type Registry struct {
	definitions []*Definition
	byBucket    map[string]*Definition
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: []*Definition{},
		byBucket:    make(map[string]*Definition),
	}
}

// Register adds a definition to the registry, replacing any definition of the same bucket.
// This should be called during init() for each record type.
func (r *Registry) Register(def *Definition) {
	if prev, ok := r.byBucket[def.Bucket()]; ok {
		for i, d := range r.definitions {
			if d == prev {
				r.definitions[i] = def
				break
			}
		}
	} else {
		r.definitions = append(r.definitions, def)
	}
	r.byBucket[def.Bucket()] = def
}

// Lookup returns the definition registered for bucket.
func (r *Registry) Lookup(bucket string) (*Definition, bool) {
	def, ok := r.byBucket[bucket]
	return def, ok
}

// Has returns true if a definition is registered for bucket.
func (r *Registry) Has(bucket string) bool {
	_, ok := r.byBucket[bucket]
	return ok
}

// Definitions returns all registered definitions in registration order.
func (r *Registry) Definitions() []*Definition {
	return r.definitions
}
