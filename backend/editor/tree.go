package editor

import "github.com/philosofium/coursecontent/backend/models"

// Tree is the editor's working set: the hydrated course plus whatever
// sections and lessons have been expanded.
type Tree struct {
	Course models.PopulatedCourse
	// Sections holds expanded sections with their lessons, by section id.
	Sections map[string]models.PopulatedSection
	// Lessons holds expanded lessons with their content items, by lesson id.
	Lessons map[string]models.PopulatedLesson
}

func emptyTree() Tree {
	return Tree{
		Sections: map[string]models.PopulatedSection{},
		Lessons:  map[string]models.PopulatedLesson{},
	}
}

// section looks up a section of the course, resolved or not.
func (t *Tree) section(id string) (models.Section, bool) {
	for _, ref := range t.Course.Sections {
		if ref.ID == id && ref.Resolved() {
			return *ref.Value, true
		}
	}
	return models.Section{}, false
}

// lesson looks up a lesson under any expanded section.
func (t *Tree) lesson(id string) (models.Lesson, bool) {
	for _, ps := range t.Sections {
		for _, ref := range ps.Lessons {
			if ref.ID == id && ref.Resolved() {
				return *ref.Value, true
			}
		}
	}
	return models.Lesson{}, false
}

// parent resolves the id a new node of kind would be attached to. It fails
// when the parent is not part of the working set.
func (t *Tree) parent(kind Kind, parentID string) (string, bool) {
	switch kind {
	case KindSection:
		if t.Course.ID == "" {
			return "", false
		}
		if parentID == "" || parentID == t.Course.ID || parentID == t.Course.CourseID {
			return t.Course.ID, true
		}
	case KindLesson:
		_, ok := t.section(parentID)
		return parentID, ok
	case KindContentItem:
		_, ok := t.lesson(parentID)
		return parentID, ok
	}
	return "", false
}

// nextOrder proposes the order of a new child under parentID.
func (t *Tree) nextOrder(kind Kind, parentID string) int {
	highest := 0
	track := func(order int) {
		if order > highest {
			highest = order
		}
	}
	switch kind {
	case KindSection:
		for _, ref := range t.Course.Sections {
			if ref.Resolved() {
				track(ref.Value.Order)
			}
		}
	case KindLesson:
		for _, ref := range t.Sections[parentID].Lessons {
			if ref.Resolved() {
				track(ref.Value.Order)
			}
		}
	case KindContentItem:
		for _, ref := range t.Lessons[parentID].ContentItems {
			if ref.Resolved() {
				track(ref.Value.Order)
			}
		}
	}
	return highest + 1
}

func (t Tree) clone() Tree {
	out := Tree{
		Course:   clonePopulatedCourse(t.Course),
		Sections: make(map[string]models.PopulatedSection, len(t.Sections)),
		Lessons:  make(map[string]models.PopulatedLesson, len(t.Lessons)),
	}
	for id, ps := range t.Sections {
		out.Sections[id] = models.PopulatedSection{
			Section: cloneSection(ps.Section),
			Lessons: cloneRefs(ps.Lessons, cloneLesson),
		}
	}
	for id, pl := range t.Lessons {
		out.Lessons[id] = models.PopulatedLesson{
			Lesson:       cloneLesson(pl.Lesson),
			ContentItems: cloneRefs(pl.ContentItems, cloneContentItem),
		}
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneRefs[T models.Identifiable](refs []models.Ref[T], cloneValue func(T) T) []models.Ref[T] {
	if refs == nil {
		return nil
	}
	out := make([]models.Ref[T], 0, len(refs))
	for _, ref := range refs {
		if ref.Resolved() {
			out = append(out, models.ResolvedRef(cloneValue(*ref.Value)))
		} else {
			out = append(out, models.StubRef[T](ref.ID))
		}
	}
	return out
}

func clonePopulatedCourse(pc models.PopulatedCourse) models.PopulatedCourse {
	if pc.StartDate != nil {
		d := *pc.StartDate
		pc.StartDate = &d
	}
	if pc.EndDate != nil {
		d := *pc.EndDate
		pc.EndDate = &d
	}
	pc.Instructors = cloneRefs(pc.Instructors, cloneUser)
	pc.Users = cloneRefs(pc.Users, cloneUser)
	pc.Sections = cloneRefs(pc.Sections, cloneSection)
	return pc
}

func cloneUser(u models.User) models.User {
	return u
}

func cloneSection(s models.Section) models.Section {
	s.Lessons = cloneStrings(s.Lessons)
	return s
}

func cloneLesson(l models.Lesson) models.Lesson {
	if l.LiveSessionDate != nil {
		d := *l.LiveSessionDate
		l.LiveSessionDate = &d
	}
	l.ContentItems = cloneStrings(l.ContentItems)
	return l
}

func cloneContentItem(ci models.ContentItem) models.ContentItem {
	if ci.Duration != nil {
		d := *ci.Duration
		ci.Duration = &d
	}
	if ci.Size != nil {
		s := *ci.Size
		ci.Size = &s
	}
	ci.Tags = cloneStrings(ci.Tags)
	return ci
}
