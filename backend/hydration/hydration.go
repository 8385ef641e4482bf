// Package hydration turns id references into the objects they point to.
//
// Population is shallow: a course resolves its sections, instructors and
// users; sections and lessons are populated one level at a time on demand.
// Every lookup that misses keeps the id stub, so hydration never fails on
// dangling references. It only fails when the transport does.
package hydration

import (
	"context"

	"github.com/philosofium/coursecontent/backend/models"
	"github.com/philosofium/coursecontent/backend/utils"
)

// Repository is the read side of the content API that hydration needs.
type Repository interface {
	FetchSections(ctx context.Context, courseID string) (*models.Envelope[[]models.Section], error)
	FetchLessons(ctx context.Context, sectionIDs []string) (*models.Envelope[[]models.Lesson], error)
	FetchContentItems(ctx context.Context, ids []string) (*models.Envelope[[]models.ContentItem], error)
	FetchInstructors(ctx context.Context) (*models.Envelope[[]models.User], error)
	FetchUsersCourse(ctx context.Context) (*models.Envelope[[]models.User], error)
}

type Service struct {
	repo Repository
	log  *utils.Logger
}

func New(repo Repository, log *utils.Logger) *Service {
	if log == nil {
		log = utils.NopLogger()
	}
	return &Service{repo: repo, log: log.With("component", "hydration")}
}

// Hydrate resolves the stubs left in the course's sections, instructors and
// users. Lists without stubs are not fetched. On a transport error the input
// course is returned unchanged together with the error.
func (s *Service) Hydrate(ctx context.Context, course models.PopulatedCourse) (models.PopulatedCourse, error) {
	out := course

	sections, err := resolve(ctx, s, "sections", course.Sections, func(ctx context.Context) (*models.Envelope[[]models.Section], error) {
		return s.repo.FetchSections(ctx, course.ID)
	})
	if err != nil {
		return course, err
	}
	instructors, err := resolve(ctx, s, "instructors", course.Instructors, s.repo.FetchInstructors)
	if err != nil {
		return course, err
	}
	users, err := resolve(ctx, s, "users", course.Users, s.repo.FetchUsersCourse)
	if err != nil {
		return course, err
	}

	out.Sections, out.Instructors, out.Users = sections, instructors, users
	return out, nil
}

// HydrateCourse populates a plain course.
func (s *Service) HydrateCourse(ctx context.Context, course models.Course) (models.PopulatedCourse, error) {
	return s.Hydrate(ctx, models.Unpopulated(course))
}

// PopulateSections resolves the lessons of all given sections with one batch fetch.
func (s *Service) PopulateSections(ctx context.Context, sections []models.Section) ([]models.PopulatedSection, error) {
	out := make([]models.PopulatedSection, 0, len(sections))
	sectionIDs := make([]string, 0, len(sections))
	for _, section := range sections {
		if section.Lessons == nil {
			s.log.Warn("section has no lessons list, using empty", "section", section.ID)
			section.Lessons = []string{}
		}
		sectionIDs = append(sectionIDs, section.ID)
		out = append(out, models.PopulatedSection{
			Section: section,
			Lessons: models.Stubs[models.Lesson](section.Lessons),
		})
	}

	if !hasLessons(out) {
		return out, nil
	}

	env, err := s.repo.FetchLessons(ctx, sectionIDs)
	if err != nil {
		return nil, err
	}
	index, ok := indexOf(s, env, "lessons")
	if !ok {
		return out, nil
	}
	misses := 0
	for i := range out {
		var missed int
		out[i].Lessons, missed = models.Resolve(out[i].Lessons, index)
		misses += missed
	}
	s.reportMisses("lessons", misses)
	return out, nil
}

// PopulateLessons resolves the content items of all given lessons with one batch fetch.
func (s *Service) PopulateLessons(ctx context.Context, lessons []models.Lesson) ([]models.PopulatedLesson, error) {
	out := make([]models.PopulatedLesson, 0, len(lessons))
	var itemIDs []string
	for _, lesson := range lessons {
		if lesson.ContentItems == nil {
			s.log.Warn("lesson has no contentItems list, using empty", "lesson", lesson.ID)
			lesson.ContentItems = []string{}
		}
		itemIDs = append(itemIDs, lesson.ContentItems...)
		out = append(out, models.PopulatedLesson{
			Lesson:       lesson,
			ContentItems: models.Stubs[models.ContentItem](lesson.ContentItems),
		})
	}

	if len(itemIDs) == 0 {
		return out, nil
	}

	env, err := s.repo.FetchContentItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	index, ok := indexOf(s, env, "contentItems")
	if !ok {
		return out, nil
	}
	misses := 0
	for i := range out {
		var missed int
		out[i].ContentItems, missed = models.Resolve(out[i].ContentItems, index)
		misses += missed
	}
	s.reportMisses("contentItems", misses)
	return out, nil
}

// resolve substitutes the stubs of one reference list. A nil list is a
// shape anomaly and becomes empty. A rejected fetch keeps every stub.
func resolve[T models.Identifiable](
	ctx context.Context,
	s *Service,
	list string,
	refs []models.Ref[T],
	fetch func(context.Context) (*models.Envelope[[]T], error),
) ([]models.Ref[T], error) {
	if refs == nil {
		s.log.Warn("course has no reference list, using empty", "list", list)
		return []models.Ref[T]{}, nil
	}
	if len(models.UnresolvedIDs(refs)) == 0 {
		return refs, nil
	}

	env, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	index, ok := indexOf(s, env, list)
	if !ok {
		return append([]models.Ref[T]{}, refs...), nil
	}
	resolved, misses := models.Resolve(refs, index)
	s.reportMisses(list, misses)
	return resolved, nil
}

// indexOf builds the id lookup of a fetched list, or reports false when
// the fetch was rejected.
func indexOf[T models.Identifiable](s *Service, env *models.Envelope[[]T], list string) (map[string]T, bool) {
	if env == nil || !env.Success {
		s.log.Warn("reference fetch rejected, keeping stubs", "list", list, "error", env.Failure())
		return nil, false
	}
	return models.IndexByID(env.Data), true
}

func (s *Service) reportMisses(list string, misses int) {
	if misses > 0 {
		s.log.Warn("unresolved references kept as stubs", "list", list, "missing", misses)
	}
}

func hasLessons(sections []models.PopulatedSection) bool {
	for _, section := range sections {
		if len(section.Lessons) > 0 {
			return true
		}
	}
	return false
}
