// Package editor holds the admin-side logic for editing a course's content
// tree: an edit session state machine over section, lesson and content item
// nodes, dispatch to the matching repository call, and a full re-fetch of
// the course after every successful mutation.
package editor

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/philosofium/coursecontent/backend/hydration"
	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

type State int

const (
	Idle State = iota
	EditingExisting
	CreatingNew
	Submitting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case EditingExisting:
		return "editing"
	case CreatingNew:
		return "creating"
	case Submitting:
		return "submitting"
	}
	return "unknown"
}

// Repository is the part of the content API client the editor drives.
type Repository interface {
	hydration.Repository

	FetchCourseContent(ctx context.Context, courseID string) (*models.Envelope[models.PopulatedCourse], error)

	CreateSection(ctx context.Context, courseID string, data models.SectionData) (*models.Envelope[models.Section], error)
	UpdateSection(ctx context.Context, id string, update models.SectionUpdate) (*models.Envelope[models.Section], error)
	DeleteSection(ctx context.Context, id string) (*models.Envelope[models.Deleted], error)

	CreateLesson(ctx context.Context, sectionID string, data models.LessonData) (*models.Envelope[models.Lesson], error)
	UpdateLesson(ctx context.Context, id string, update models.LessonUpdate) (*models.Envelope[models.Lesson], error)
	DeleteLesson(ctx context.Context, id string) (*models.Envelope[models.Deleted], error)

	CreateContentItem(ctx context.Context, lessonID string, data models.ContentItemData) (*models.Envelope[models.ContentItem], error)
	UpdateContentItem(ctx context.Context, id string, update models.ContentItemUpdate) (*models.Envelope[models.ContentItem], error)
	DeleteContentItem(ctx context.Context, id string) (*models.Envelope[models.Deleted], error)
}

// Notifier shows the outcome of an action to the user.
type Notifier interface {
	Success(message string)
	Error(message string)
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

type session struct {
	kind     Kind
	nodeID   string
	parentID string
}

type Editor struct {
	courseID string
	repo     Repository
	hyd      *hydration.Service
	notify   Notifier
	log      *utils.Logger

	mu      sync.Mutex
	state   State
	prior   State
	session session
	loading bool
	tree    Tree
	// expanded drill-down, replayed on every reload
	expandedSections []string
	expandedLessons  []string
}

func New(courseID string, repo Repository, hyd *hydration.Service, n Notifier, log *utils.Logger) *Editor {
	if log == nil {
		log = utils.NopLogger()
	}
	if hyd == nil {
		hyd = hydration.New(repo, log)
	}
	if n == nil {
		n = nopNotifier{}
	}
	return &Editor{
		courseID: courseID,
		repo:     repo,
		hyd:      hyd,
		notify:   n,
		log:      log.With("component", "editor", "course", courseID),
		tree:     emptyTree(),
	}
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Loading reports whether a request is in flight.
func (e *Editor) Loading() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loading
}

// Snapshot returns a deep copy of the working set.
func (e *Editor) Snapshot() Tree {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tree.clone()
}

// Load replaces the working set with a fresh fetch of the course.
func (e *Editor) Load(ctx context.Context) error {
	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	tree, err := e.fetchTree(ctx)
	if err != nil {
		e.fail("load", err)
		return err
	}
	e.mu.Lock()
	e.tree = tree
	e.mu.Unlock()
	return nil
}

// BeginEdit opens an edit session on a node of the loaded tree.
func (e *Editor) BeginEdit(n Node) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Idle || e.loading {
		return e.transitionError()
	}
	if n.NodeID() == "" {
		return ErrUnknownNode
	}
	if err := n.Accept(&locator{tree: &e.tree}); err != nil {
		return err
	}
	e.state = EditingExisting
	e.session = session{kind: n.Kind(), nodeID: n.NodeID(), parentID: n.ParentID()}
	return nil
}

// BeginCreate opens a create session and returns a blank node for the form,
// attached to parentID and ordered after its loaded siblings. The parent must
// be in the loaded tree: the course (by _id or courseId, empty for the loaded
// course) for a section, a section for a lesson, an expanded lesson for a
// content item.
func (e *Editor) BeginCreate(kind Kind, parentID string) (Node, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Idle || e.loading {
		return nil, e.transitionError()
	}
	switch kind {
	case KindSection, KindLesson, KindContentItem:
	default:
		return nil, ErrKindMismatch
	}
	parentID, ok := e.tree.parent(kind, parentID)
	if !ok {
		return nil, ErrUnknownNode
	}

	order := e.tree.nextOrder(kind, parentID)
	var n Node
	switch kind {
	case KindSection:
		n = &SectionNode{CourseID: parentID, Data: models.SectionData{Order: order}}
	case KindLesson:
		n = &LessonNode{SectionID: parentID, Data: models.LessonData{Order: order, Type: models.LessonVideo}}
	case KindContentItem:
		n = &ContentItemNode{LessonID: parentID, Data: models.ContentItemData{Order: order, Type: models.ContentText}}
	default:
		return nil, ErrKindMismatch
	}

	e.state = CreatingNew
	e.session = session{kind: kind, parentID: parentID}
	return n, nil
}

// Cancel abandons the current edit session.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != EditingExisting && e.state != CreatingNew {
		return e.transitionError()
	}
	e.state = Idle
	e.session = session{}
	return nil
}

// Submit sends the node of the open session. Form rule violations and
// failed requests leave the session open and the tree untouched.
func (e *Editor) Submit(ctx context.Context, n Node) error {
	e.mu.Lock()
	if e.state != EditingExisting && e.state != CreatingNew || e.loading {
		err := e.transitionError()
		e.mu.Unlock()
		return err
	}
	if n.Kind() != e.session.kind || n.NodeID() != e.session.nodeID || n.ParentID() != e.session.parentID {
		e.mu.Unlock()
		return ErrKindMismatch
	}
	if err := validate(n); err != nil {
		e.mu.Unlock()
		e.notify.Error(userMessage(err))
		return err
	}
	creating := e.state == CreatingNew
	e.prior, e.state, e.loading = e.state, Submitting, true
	e.mu.Unlock()

	if err := n.Accept(&submitter{ctx: ctx, repo: e.repo, creating: creating}); err != nil {
		e.mu.Lock()
		e.state, e.loading = e.prior, false
		e.mu.Unlock()
		e.fail("submit", err)
		return err
	}

	verb := "updated"
	if creating {
		verb = "created"
	}
	return e.afterMutation(ctx, n.Kind().label()+" "+verb, nil)
}

// Delete removes the node on the server, drops it from the local tree and
// reloads the course.
func (e *Editor) Delete(ctx context.Context, n Node) error {
	e.mu.Lock()
	if e.state != Idle || e.loading {
		err := e.transitionError()
		e.mu.Unlock()
		return err
	}
	if n.NodeID() == "" {
		e.mu.Unlock()
		return ErrUnknownNode
	}
	if err := n.Accept(&locator{tree: &e.tree}); err != nil {
		e.mu.Unlock()
		return err
	}
	e.prior, e.state, e.loading = Idle, Submitting, true
	e.mu.Unlock()

	if err := n.Accept(&deleter{ctx: ctx, repo: e.repo}); err != nil {
		e.mu.Lock()
		e.state, e.loading = Idle, false
		e.mu.Unlock()
		e.fail("delete", err)
		return err
	}

	return e.afterMutation(ctx, n.Kind().label()+" deleted", n)
}

// afterMutation applies the optimistic removal of a deleted node, if any,
// then re-fetches the whole tree. The re-fetch wins over the local edit.
func (e *Editor) afterMutation(ctx context.Context, done string, deleted Node) error {
	if deleted != nil {
		e.mu.Lock()
		next := e.tree.clone()
		_ = deleted.Accept(&remover{tree: &next})
		e.tree = next
		e.mu.Unlock()
	}

	tree, err := e.fetchTree(ctx)

	e.mu.Lock()
	e.state, e.loading = Idle, false
	e.session = session{}
	if err == nil {
		e.tree = tree
	}
	e.mu.Unlock()

	if err != nil {
		e.fail("reload", err)
		return errors.Wrap(err, "reload after "+done)
	}
	e.notify.Success(done)
	return nil
}

// ExpandSection loads the lessons of a section and keeps them loaded
// across reloads.
func (e *Editor) ExpandSection(ctx context.Context, sectionID string) error {
	e.mu.Lock()
	section, ok := e.tree.section(sectionID)
	e.mu.Unlock()
	if !ok {
		return ErrUnknownNode
	}
	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	populated, err := e.hyd.PopulateSections(ctx, []models.Section{section})
	if err != nil {
		e.fail("expand section", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.tree.clone()
	next.Sections[sectionID] = populated[0]
	e.tree = next
	e.expandedSections = appendUnique(e.expandedSections, sectionID)
	return nil
}

// ExpandLesson loads the content items of a lesson under an expanded section.
func (e *Editor) ExpandLesson(ctx context.Context, lessonID string) error {
	e.mu.Lock()
	lesson, ok := e.tree.lesson(lessonID)
	e.mu.Unlock()
	if !ok {
		return ErrUnknownNode
	}
	if err := e.acquire(); err != nil {
		return err
	}
	defer e.release()

	populated, err := e.hyd.PopulateLessons(ctx, []models.Lesson{lesson})
	if err != nil {
		e.fail("expand lesson", err)
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	next := e.tree.clone()
	next.Lessons[lessonID] = populated[0]
	e.tree = next
	e.expandedLessons = appendUnique(e.expandedLessons, lessonID)
	return nil
}

// Collapse forgets an expanded section or lesson.
func (e *Editor) Collapse(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.tree.clone()
	if ps, ok := next.Sections[id]; ok {
		for _, lessonID := range ps.Section.Lessons {
			delete(next.Lessons, lessonID)
			e.expandedLessons = dropID(e.expandedLessons, lessonID)
		}
	}
	delete(next.Sections, id)
	delete(next.Lessons, id)
	e.tree = next
	e.expandedSections = dropID(e.expandedSections, id)
	e.expandedLessons = dropID(e.expandedLessons, id)
}

// fetchTree rebuilds the working set from the server: course content,
// hydration, then the remembered drill-down. Expanded nodes that no longer
// exist are forgotten.
func (e *Editor) fetchTree(ctx context.Context) (Tree, error) {
	env, err := e.repo.FetchCourseContent(ctx, e.courseID)
	if err := checkEnvelope("FetchCourseContent", env, err); err != nil {
		return Tree{}, err
	}
	course, err := e.hyd.Hydrate(ctx, env.Data)
	if err != nil {
		return Tree{}, err
	}

	tree := emptyTree()
	tree.Course = course

	e.mu.Lock()
	expandedSections := cloneStrings(e.expandedSections)
	expandedLessons := cloneStrings(e.expandedLessons)
	e.mu.Unlock()

	var sections []models.Section
	for _, id := range expandedSections {
		if section, ok := tree.section(id); ok {
			sections = append(sections, section)
		}
	}
	if len(sections) > 0 {
		populated, err := e.hyd.PopulateSections(ctx, sections)
		if err != nil {
			return Tree{}, err
		}
		for _, ps := range populated {
			tree.Sections[ps.ID] = ps
		}
	}

	var lessons []models.Lesson
	for _, id := range expandedLessons {
		if lesson, ok := tree.lesson(id); ok {
			lessons = append(lessons, lesson)
		}
	}
	if len(lessons) > 0 {
		populated, err := e.hyd.PopulateLessons(ctx, lessons)
		if err != nil {
			return Tree{}, err
		}
		for _, pl := range populated {
			tree.Lessons[pl.ID] = pl
		}
	}

	e.mu.Lock()
	e.expandedSections = keepKeys(e.expandedSections, tree.Sections)
	e.expandedLessons = keepKeys(e.expandedLessons, tree.Lessons)
	e.mu.Unlock()
	return tree, nil
}

func (e *Editor) acquire() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.loading || e.state == Submitting {
		return ErrBusy
	}
	e.loading = true
	return nil
}

func (e *Editor) release() {
	e.mu.Lock()
	e.loading = false
	e.mu.Unlock()
}

// transitionError must be called with mu held.
func (e *Editor) transitionError() error {
	if e.state == Submitting || e.loading {
		return ErrBusy
	}
	return ErrInvalidTransition
}

func (e *Editor) fail(action string, err error) {
	var rej *RejectedError
	if errors.As(err, &rej) {
		e.log.Warn("request rejected", "action", action, "op", rej.Op, "error", rej.Message)
	} else {
		e.log.Error("request failed", "action", action, "error", err)
	}
	e.notify.Error(userMessage(err))
}

func appendUnique(ids []string, id string) []string {
	for _, v := range ids {
		if v == id {
			return ids
		}
	}
	return append(ids, id)
}

func keepKeys[V any](ids []string, present map[string]V) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := present[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
