// Package resource shapes models into API JSON.
//
// A Transformer controls exactly which fields a response exposes:
//
//	type ProductResource struct{}
//	func (ProductResource) ToArray(v interface{}) resource.Map {
//	    p := v.(domain.Product)
//	    return resource.Map{"id": p.ID(), "name": p.Name()}
//	}
//
// Resources marshal themselves, so they drop straight into the response
// envelope:
//
//	response.Success(w, resource.New(ProductResource{}, product))
//	response.Success(w, resource.CollectionOf(ProductResource{}, products))
package resource

import "encoding/json"

// Map is a convenient alias for the output of ToArray.
type Map = map[string]interface{}

// Transformer converts one value into a Map.
type Transformer interface {
	ToArray(v interface{}) Map
}

// Resource wraps a single value with its transformer.
type Resource struct {
	transformer Transformer
	data        interface{}
}

// New creates a Resource for a single value.
func New(t Transformer, data interface{}) *Resource {
	return &Resource{transformer: t, data: data}
}

// ToArray applies the transformer.
func (r *Resource) ToArray() Map {
	return r.transformer.ToArray(r.data)
}

// MarshalJSON implements json.Marshaler so Resource can be nested.
func (r *Resource) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToArray())
}

// Collection wraps a list of values with a transformer.
type Collection struct {
	transformer Transformer
	items       []interface{}
}

// CollectionOf creates a Collection from a typed slice.
func CollectionOf[T any](t Transformer, items []T) *Collection {
	c := &Collection{transformer: t, items: make([]interface{}, len(items))}
	for i, it := range items {
		c.items[i] = it
	}
	return c
}

// ToArray transforms every item. An empty collection yields an empty,
// non-nil slice so it encodes as [].
func (c *Collection) ToArray() []Map {
	out := make([]Map, len(c.items))
	for i, it := range c.items {
		out[i] = c.transformer.ToArray(it)
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToArray())
}
