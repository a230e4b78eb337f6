// Package admin describes which entities the back office manages and how they are
// listed, filtered and searched. The registry is built once at startup.
package admin

import (
	"fmt"
	"sort"
)

type Kind string

const (
	KindCourse     Kind = "course"
	KindLesson     Kind = "lesson"
	KindInstructor Kind = "instructor"
	KindLearner    Kind = "learner"
	KindQuestion   Kind = "question"
	KindChoice     Kind = "choice"
	KindSubmission Kind = "submission"
)

type Operation string

const (
	OpList   Operation = "list"
	OpRead   Operation = "read"
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

var crud = []Operation{OpList, OpRead, OpCreate, OpUpdate, OpDelete}

// Inline is a child kind edited on its parent's form
type Inline struct {
	Kind  Kind `json:"kind"`
	Extra int  `json:"extra"` // blank rows offered on the form
}

type Descriptor struct {
	Kind         Kind        `json:"kind"`
	Operations   []Operation `json:"operations"`
	ListDisplay  []string    `json:"list_display,omitempty"`
	ListFilter   []string    `json:"list_filter,omitempty"`
	SearchFields []string    `json:"search_fields,omitempty"`
	Inlines      []Inline    `json:"inlines,omitempty"`
}

func (d Descriptor) Allows(op Operation) bool {
	for _, o := range d.Operations {
		if o == op {
			return true
		}
	}
	return false
}

type Registry struct {
	descriptors map[Kind]Descriptor
}

func NewRegistry() *Registry {
	return &Registry{descriptors: make(map[Kind]Descriptor)}
}

// Register adds a descriptor; registering the same kind twice is an error
func (r *Registry) Register(d Descriptor) error {
	if d.Kind == "" {
		return fmt.Errorf("descriptor kind is required")
	}
	if _, exists := r.descriptors[d.Kind]; exists {
		return fmt.Errorf("kind %q already registered", d.Kind)
	}
	for _, inline := range d.Inlines {
		if inline.Kind == d.Kind {
			return fmt.Errorf("kind %q cannot inline itself", d.Kind)
		}
	}
	r.descriptors[d.Kind] = d
	return nil
}

func (r *Registry) Lookup(kind Kind) (Descriptor, bool) {
	d, ok := r.descriptors[kind]
	return d, ok
}

// Allows reports whether op is permitted on kind; unknown kinds allow nothing
func (r *Registry) Allows(kind Kind, op Operation) bool {
	d, ok := r.descriptors[kind]
	return ok && d.Allows(op)
}

// Descriptors returns all registrations ordered by kind
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.descriptors))
	for _, d := range r.descriptors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Default is the back-office configuration of the course platform
func Default() *Registry {
	r := NewRegistry()
	for _, d := range []Descriptor{
		{
			Kind:         KindCourse,
			Operations:   crud,
			ListDisplay:  []string{"name", "pub_date"},
			ListFilter:   []string{"pub_date"},
			SearchFields: []string{"name", "description"},
			Inlines:      []Inline{{Kind: KindLesson, Extra: 5}},
		},
		{Kind: KindLesson, Operations: crud, ListDisplay: []string{"title"}},
		{Kind: KindInstructor, Operations: crud},
		{Kind: KindLearner, Operations: crud},
		{
			Kind:        KindQuestion,
			Operations:  crud,
			ListDisplay: []string{"content"},
			Inlines:     []Inline{{Kind: KindChoice, Extra: 4}},
		},
		{Kind: KindChoice, Operations: []Operation{OpList, OpRead, OpCreate, OpDelete}},
		// Submissions are immutable once graded
		{Kind: KindSubmission, Operations: []Operation{OpList, OpRead}},
	} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}
