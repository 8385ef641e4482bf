package models

import (
	"bytes"
	"encoding/json"
)

// Ref points at an entity that may or may not have been resolved yet.
// An unresolved Ref is an ID stub and serializes as the bare ID string,
// a resolved one serializes as the full object.
type Ref[T Identifiable] struct {
	ID    string
	Value *T
}

func StubRef[T Identifiable](id string) Ref[T] {
	return Ref[T]{ID: id}
}

func ResolvedRef[T Identifiable](v T) Ref[T] {
	return Ref[T]{ID: v.GetID(), Value: &v}
}

func (r Ref[T]) Resolved() bool {
	return r.Value != nil
}

func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	return json.Marshal(r.ID)
}

func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*r = Ref[T]{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		return json.Unmarshal(data, &r.ID)
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	r.ID = v.GetID()
	r.Value = &v
	return nil
}

func Stubs[T Identifiable](ids []string) []Ref[T] {
	refs := make([]Ref[T], 0, len(ids))
	for _, id := range ids {
		refs = append(refs, StubRef[T](id))
	}
	return refs
}

func RefIDs[T Identifiable](refs []Ref[T]) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}

// UnresolvedIDs lists the stubs in refs, in order.
func UnresolvedIDs[T Identifiable](refs []Ref[T]) []string {
	var ids []string
	for _, r := range refs {
		if !r.Resolved() {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func IndexByID[T Identifiable](items []T) map[string]T {
	index := make(map[string]T, len(items))
	for _, item := range items {
		index[item.GetID()] = item
	}
	return index
}

// Resolve substitutes every stub found in index. A miss keeps the stub,
// so the result always has one entry per input ref. misses counts them.
func Resolve[T Identifiable](refs []Ref[T], index map[string]T) (resolved []Ref[T], misses int) {
	resolved = make([]Ref[T], 0, len(refs))
	for _, r := range refs {
		if r.Resolved() {
			resolved = append(resolved, r)
			continue
		}
		if v, ok := index[r.ID]; ok {
			resolved = append(resolved, ResolvedRef(v))
			continue
		}
		misses++
		resolved = append(resolved, r)
	}
	return resolved, misses
}

// PopulatedCourse is a Course with reference lists replaced by Refs.
// Sections resolve to Section objects whose lessons remain IDs.
type PopulatedCourse struct {
	Model
	CourseInfo
	Instructors []Ref[User]    `json:"instructors"`
	Users       []Ref[User]    `json:"users"`
	Sections    []Ref[Section] `json:"sections"`
}

// Unpopulated wraps a course with every reference still a stub.
func Unpopulated(c Course) PopulatedCourse {
	return PopulatedCourse{
		Model:       c.Model,
		CourseInfo:  c.CourseInfo,
		Instructors: Stubs[User](c.Instructors),
		Users:       Stubs[User](c.Users),
		Sections:    Stubs[Section](c.Sections),
	}
}

// Course collapses the populated view back to ID lists.
func (pc PopulatedCourse) Course() Course {
	return Course{
		Model:       pc.Model,
		CourseInfo:  pc.CourseInfo,
		Instructors: RefIDs(pc.Instructors),
		Users:       RefIDs(pc.Users),
		Sections:    RefIDs(pc.Sections),
	}
}

type PopulatedSection struct {
	Section
	Lessons []Ref[Lesson] `json:"lessons"`
}

type PopulatedLesson struct {
	Lesson
	ContentItems []Ref[ContentItem] `json:"contentItems"`
}

// OrderByIDs returns the items listed in ids, in that order. Items absent
// from ids are dropped, ids absent from items are skipped.
func OrderByIDs[T Identifiable](ids []string, items []T) []T {
	index := IndexByID(items)
	ordered := make([]T, 0, len(ids))
	for _, id := range ids {
		if item, ok := index[id]; ok {
			ordered = append(ordered, item)
		}
	}
	return ordered
}
