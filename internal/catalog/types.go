package catalog

import (
	"time"

	"github.com/sky/skypoint/internal/object"
)

// Entry is a cataloged object with its apparent visual magnitude
// (lower = brighter).
type Entry struct {
	Object object.Object
	Mag    float64
}

// Dataset is a complete catalog loaded from one source.
type Dataset struct {
	Source   string
	LoadedAt time.Time
	Entries  []Entry
}

// Find returns the entry with the given name (case-sensitive) and whether
// it was found.
func (d *Dataset) Find(name string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Object.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Objects returns the bare objects of the dataset, in catalog order.
func (d *Dataset) Objects() []object.Object {
	objs := make([]object.Object, len(d.Entries))
	for i, e := range d.Entries {
		objs[i] = e.Object
	}
	return objs
}
