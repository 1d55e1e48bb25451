package column

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/five82/assetlist/internal/host"
	"github.com/five82/assetlist/internal/listconfig"
	"github.com/five82/assetlist/internal/projection"
)

// Strategy picks one element out of an array property.
type Strategy interface {
	Resolve(collection host.Property) (host.Property, bool)
}

// NewStrategy compiles the array data into a strategy. Patterns are compiled
// here, once per column.
func NewStrategy(a *listconfig.ArrayData) (Strategy, error) {
	if a == nil {
		return nil, listconfig.ErrArrayDataMissing
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	switch a.Indexing {
	case listconfig.IndexFirst:
		return First{}, nil
	case listconfig.IndexByKey:
		re, err := regexp.Compile(a.QueryPattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", listconfig.ErrBadPattern, err)
		}
		return ByKey{Field: strings.TrimSpace(a.KeyFieldName), Pattern: re}, nil
	case listconfig.IndexByIndex:
		return ByIndex{Index: a.FixedIndex}, nil
	}
	return nil, fmt.Errorf("unknown indexing %v", a.Indexing)
}

// First selects element 0.
type First struct{}

func (First) Resolve(collection host.Property) (host.Property, bool) {
	if collection == nil || collection.Len() <= 0 {
		return nil, false
	}
	return collection.Index(0)
}

// ByKey selects the first element whose key field's canonical string matches
// Pattern. The scan restarts from element 0 on every call.
type ByKey struct {
	Field   string
	Pattern *regexp.Regexp
}

func (s ByKey) Resolve(collection host.Property) (host.Property, bool) {
	if collection == nil {
		return nil, false
	}
	n := collection.Len()
	for i := 0; i < n; i++ {
		el, ok := collection.Index(i)
		if !ok {
			continue
		}
		key, ok := el.Field(s.Field)
		if !ok || !listconfig.KeyKindSupported(key.Kind()) {
			continue
		}
		if s.Pattern.MatchString(projection.Canonical(key)) {
			return el, true
		}
	}
	return nil, false
}

// ByIndex selects the element at a fixed ordinal.
type ByIndex struct {
	Index int
}

func (s ByIndex) Resolve(collection host.Property) (host.Property, bool) {
	if collection == nil || s.Index < 0 || s.Index >= collection.Len() {
		return nil, false
	}
	return collection.Index(s.Index)
}
