package models

import "encoding/json"

// Ref points at another entity by id. Depending on the query path the target
// may or may not have been loaded, so a Ref is either just the id or the id
// plus the hydrated entity. ID is valid in both cases.
type Ref[T any] struct {
	id     int64
	entity *T
}

func UnresolvedRef[T any](id int64) Ref[T] {
	return Ref[T]{id: id}
}

func ResolvedRef[T any](id int64, entity *T) Ref[T] {
	return Ref[T]{id: id, entity: entity}
}

func (r Ref[T]) ID() int64 {
	return r.id
}

func (r Ref[T]) Resolved() bool {
	return r.entity != nil
}

// Entity returns the hydrated target, or false when only the id is known.
func (r Ref[T]) Entity() (*T, bool) {
	return r.entity, r.entity != nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.entity != nil {
		return json.Marshal(r.entity)
	}
	return json.Marshal(r.id)
}
