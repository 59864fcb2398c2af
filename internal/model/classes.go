package model

// Factory creates a fresh instance of one class.
type Factory func() *Model

// Supported class names.
const (
	ClassBaseModel = "BaseModel"
	ClassUser      = "User"
	ClassAmenity   = "Amenity"
	ClassCity      = "City"
	ClassPlace     = "Place"
	ClassReview    = "Review"
	ClassState     = "State"
)

var classNames = []string{
	ClassBaseModel,
	ClassUser,
	ClassAmenity,
	ClassCity,
	ClassPlace,
	ClassReview,
	ClassState,
}

var factories = func() map[string]Factory {
	m := make(map[string]Factory, len(classNames))
	for _, name := range classNames {
		m[name] = func() *Model { return newInstance(name) }
	}
	return m
}()

// Classes returns the supported class names in declaration order.
func Classes() []string {
	out := make([]string, len(classNames))
	copy(out, classNames)
	return out
}

// IsClass reports whether name is a supported class. Matching is case-sensitive.
func IsClass(name string) bool {
	_, ok := factories[name]
	return ok
}

// Lookup returns the factory for a class name.
func Lookup(name string) (Factory, bool) {
	f, ok := factories[name]
	return f, ok
}
