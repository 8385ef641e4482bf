package editor

import "github.com/philosofium/coursecontent/backend/models"

// Kind names a node variant.
type Kind string

const (
	KindSection     Kind = "section"
	KindLesson      Kind = "lesson"
	KindContentItem Kind = "contentItem"
)

func (k Kind) label() string {
	switch k {
	case KindSection:
		return "Section"
	case KindLesson:
		return "Lesson"
	case KindContentItem:
		return "Content item"
	}
	return string(k)
}

// Node is one editable element of the content tree. The set of variants is
// closed: SectionNode, LessonNode and ContentItemNode.
type Node interface {
	Kind() Kind
	// NodeID is empty for a node that has not been created yet.
	NodeID() string
	// ParentID is the owning course, section or lesson.
	ParentID() string
	Accept(v Visitor) error

	sealed()
}

// Visitor has one method per node variant. Every operation that depends on
// the node kind is a Visitor, so a new variant does not compile until each
// of them handles it.
type Visitor interface {
	VisitSection(n *SectionNode) error
	VisitLesson(n *LessonNode) error
	VisitContentItem(n *ContentItemNode) error
}

type SectionNode struct {
	ID       string
	CourseID string
	Data     models.SectionData
}

func (n *SectionNode) Kind() Kind             { return KindSection }
func (n *SectionNode) NodeID() string         { return n.ID }
func (n *SectionNode) ParentID() string       { return n.CourseID }
func (n *SectionNode) Accept(v Visitor) error { return v.VisitSection(n) }
func (n *SectionNode) sealed()                {}

type LessonNode struct {
	ID        string
	SectionID string
	Data      models.LessonData
}

func (n *LessonNode) Kind() Kind             { return KindLesson }
func (n *LessonNode) NodeID() string         { return n.ID }
func (n *LessonNode) ParentID() string       { return n.SectionID }
func (n *LessonNode) Accept(v Visitor) error { return v.VisitLesson(n) }
func (n *LessonNode) sealed()                {}

type ContentItemNode struct {
	ID       string
	LessonID string
	Data     models.ContentItemData
}

func (n *ContentItemNode) Kind() Kind             { return KindContentItem }
func (n *ContentItemNode) NodeID() string         { return n.ID }
func (n *ContentItemNode) ParentID() string       { return n.LessonID }
func (n *ContentItemNode) Accept(v Visitor) error { return v.VisitContentItem(n) }
func (n *ContentItemNode) sealed()                {}

func SectionOf(s models.Section) *SectionNode {
	return &SectionNode{ID: s.ID, CourseID: s.CourseID, Data: s.Form()}
}

func LessonOf(l models.Lesson) *LessonNode {
	return &LessonNode{ID: l.ID, SectionID: l.SectionID, Data: l.Form()}
}

func ContentItemOf(ci models.ContentItem) *ContentItemNode {
	return &ContentItemNode{ID: ci.ID, LessonID: ci.LessonID, Data: ci.Form()}
}

// formOf exposes the node's form payload for validation.
type formOf struct {
	form interface{}
}

func (f *formOf) VisitSection(n *SectionNode) error {
	f.form = &n.Data
	return nil
}

func (f *formOf) VisitLesson(n *LessonNode) error {
	f.form = &n.Data
	return nil
}

func (f *formOf) VisitContentItem(n *ContentItemNode) error {
	f.form = &n.Data
	return nil
}

func validate(n Node) error {
	f := &formOf{}
	_ = n.Accept(f)
	return models.Validate(f.form)
}
