package model

import (
	"sort"
	"strconv"

	"github.com/goliatone/go-gxsi/internal/normalize"
)

// FallbackKey substitutes for titles that normalize to nothing.
const FallbackKey = "DOM"

// Registry is the process-wide mapping from domain key to its ordered option
// items. Fields reference entries by key; the registry owns key uniqueness
// and item de-duplication while the Document drives reference-counted
// cleanup.
type Registry struct {
	domains map[string][]OptionItem
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{domains: make(map[string][]OptionItem)}
}

// UniqueKey derives a registry-unique key from a human title: the normalized
// base, or the first free integer-suffixed variant when taken.
func (r *Registry) UniqueKey(base string) string {
	key := normalize.Key(base)
	if key == "" {
		key = FallbackKey
	}
	candidate := key
	for i := 1; r.Has(candidate); i++ {
		candidate = key + strconv.Itoa(i)
	}
	return candidate
}

// Has reports whether the key exists.
func (r *Registry) Has(key string) bool {
	_, ok := r.domains[key]
	return ok
}

// Items returns the option list for key, nil when absent.
func (r *Registry) Items(key string) []OptionItem {
	return r.domains[key]
}

// Keys returns every registered key, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.domains))
	for key := range r.domains {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of registered domains.
func (r *Registry) Len() int {
	return len(r.domains)
}

// Upsert replaces or creates the item list for key. Items without an
// explicit value get one derived from their description.
func (r *Registry) Upsert(key string, items []OptionItem) {
	list := make([]OptionItem, 0, len(items))
	for _, item := range items {
		list = append(list, withDerivedValue(item))
	}
	r.domains[key] = list
}

// AppendItems adds items to an existing (or new) entry, skipping any whose
// (description, value) pair is already present. Repeated UI submissions must
// not duplicate options.
func (r *Registry) AppendItems(key string, items []OptionItem) {
	list := r.domains[key]
	for _, item := range items {
		item = withDerivedValue(item)
		if containsItem(list, item) {
			continue
		}
		list = append(list, item)
	}
	r.domains[key] = list
}

// Remove deletes the entry outright.
func (r *Registry) Remove(key string) {
	delete(r.domains, key)
}

// RemoveIfUnreferenced deletes the entry when no field in form references
// it. Call after every mutation that could drop a domain reference.
func (r *Registry) RemoveIfUnreferenced(key string, form *Form) {
	if key == "" || !r.Has(key) {
		return
	}
	if !form.References(key) {
		delete(r.domains, key)
	}
}

// Sweep removes every entry no field in form references, and returns the
// deleted keys sorted. This is the full reachability pass behind the
// invariant: an entry exists iff at least one field references its key.
func (r *Registry) Sweep(form *Form) []string {
	var removed []string
	for key := range r.domains {
		if !form.References(key) {
			removed = append(removed, key)
		}
	}
	for _, key := range removed {
		delete(r.domains, key)
	}
	sort.Strings(removed)
	return removed
}

func withDerivedValue(item OptionItem) OptionItem {
	if item.Value == "" {
		item.Value = normalize.ItemValue(item.Description)
	}
	return item
}

func containsItem(list []OptionItem, item OptionItem) bool {
	for _, existing := range list {
		if existing.Description == item.Description && existing.Value == item.Value {
			return true
		}
	}
	return false
}
