package editor

import (
	"context"

	"github.com/philosofium/coursecontent/backend/models"
)

// checkEnvelope turns a repository result into a single error: the transport
// error as is, or a *RejectedError for success:false.
func checkEnvelope[T any](op string, env *models.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	if env == nil || !env.Success {
		return rejected(op, env)
	}
	return nil
}

// submitter sends a create or an update for the visited node.
type submitter struct {
	ctx      context.Context
	repo     Repository
	creating bool
}

func (s *submitter) VisitSection(n *SectionNode) error {
	if s.creating {
		env, err := s.repo.CreateSection(s.ctx, n.CourseID, n.Data)
		return checkEnvelope("CreateSection", env, err)
	}
	env, err := s.repo.UpdateSection(s.ctx, n.ID, n.Data.Patch())
	return checkEnvelope("UpdateSection", env, err)
}

func (s *submitter) VisitLesson(n *LessonNode) error {
	if s.creating {
		env, err := s.repo.CreateLesson(s.ctx, n.SectionID, n.Data)
		return checkEnvelope("CreateLesson", env, err)
	}
	env, err := s.repo.UpdateLesson(s.ctx, n.ID, n.Data.Patch())
	return checkEnvelope("UpdateLesson", env, err)
}

func (s *submitter) VisitContentItem(n *ContentItemNode) error {
	if s.creating {
		env, err := s.repo.CreateContentItem(s.ctx, n.LessonID, n.Data)
		return checkEnvelope("CreateContentItem", env, err)
	}
	env, err := s.repo.UpdateContentItem(s.ctx, n.ID, n.Data.Patch())
	return checkEnvelope("UpdateContentItem", env, err)
}

// deleter sends the delete for the visited node.
type deleter struct {
	ctx  context.Context
	repo Repository
}

func (d *deleter) VisitSection(n *SectionNode) error {
	env, err := d.repo.DeleteSection(d.ctx, n.ID)
	return checkEnvelope("DeleteSection", env, err)
}

func (d *deleter) VisitLesson(n *LessonNode) error {
	env, err := d.repo.DeleteLesson(d.ctx, n.ID)
	return checkEnvelope("DeleteLesson", env, err)
}

func (d *deleter) VisitContentItem(n *ContentItemNode) error {
	env, err := d.repo.DeleteContentItem(d.ctx, n.ID)
	return checkEnvelope("DeleteContentItem", env, err)
}

// remover drops a deleted node from the local tree ahead of the re-fetch.
type remover struct {
	tree *Tree
}

func (r *remover) VisitSection(n *SectionNode) error {
	r.tree.Course.Sections = dropRef(r.tree.Course.Sections, n.ID)
	if ps, ok := r.tree.Sections[n.ID]; ok {
		for _, lessonID := range ps.Section.Lessons {
			delete(r.tree.Lessons, lessonID)
		}
		delete(r.tree.Sections, n.ID)
	}
	return nil
}

func (r *remover) VisitLesson(n *LessonNode) error {
	for i, ref := range r.tree.Course.Sections {
		if ref.ID == n.SectionID && ref.Resolved() {
			section := cloneSection(*ref.Value)
			section.Lessons = dropID(section.Lessons, n.ID)
			r.tree.Course.Sections[i] = models.ResolvedRef(section)
		}
	}
	if ps, ok := r.tree.Sections[n.SectionID]; ok {
		ps.Section.Lessons = dropID(ps.Section.Lessons, n.ID)
		ps.Lessons = dropRef(ps.Lessons, n.ID)
		r.tree.Sections[n.SectionID] = ps
	}
	delete(r.tree.Lessons, n.ID)
	return nil
}

func (r *remover) VisitContentItem(n *ContentItemNode) error {
	for sectionID, ps := range r.tree.Sections {
		for i, ref := range ps.Lessons {
			if ref.ID == n.LessonID && ref.Resolved() {
				lesson := cloneLesson(*ref.Value)
				lesson.ContentItems = dropID(lesson.ContentItems, n.ID)
				ps.Lessons[i] = models.ResolvedRef(lesson)
			}
		}
		r.tree.Sections[sectionID] = ps
	}
	if pl, ok := r.tree.Lessons[n.LessonID]; ok {
		pl.Lesson.ContentItems = dropID(pl.Lesson.ContentItems, n.ID)
		pl.ContentItems = dropRef(pl.ContentItems, n.ID)
		r.tree.Lessons[n.LessonID] = pl
	}
	return nil
}

func dropID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func dropRef[T models.Identifiable](refs []models.Ref[T], id string) []models.Ref[T] {
	out := make([]models.Ref[T], 0, len(refs))
	for _, ref := range refs {
		if ref.ID != id {
			out = append(out, ref)
		}
	}
	return out
}

// locator checks that a node is in the working set under the parent it
// names.
type locator struct {
	tree *Tree
}

func (l *locator) VisitSection(n *SectionNode) error {
	if s, ok := l.tree.section(n.ID); !ok || s.CourseID != n.CourseID {
		return ErrUnknownNode
	}
	return nil
}

func (l *locator) VisitLesson(n *LessonNode) error {
	if ls, ok := l.tree.lesson(n.ID); !ok || ls.SectionID != n.SectionID {
		return ErrUnknownNode
	}
	return nil
}

func (l *locator) VisitContentItem(n *ContentItemNode) error {
	for _, ref := range l.tree.Lessons[n.LessonID].ContentItems {
		if ref.ID == n.ID && ref.Resolved() {
			return nil
		}
	}
	return ErrUnknownNode
}
