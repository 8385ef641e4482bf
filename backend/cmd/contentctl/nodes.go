package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/philosofium/coursecontent/backend/editor"
	"github.com/philosofium/coursecontent/backend/models"
)

type sectionFlags struct {
	title, description string
	order              int
	optional           bool
}

func (f *sectionFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "section title")
	cmd.Flags().StringVar(&f.description, "description", "", "section description")
	cmd.Flags().IntVar(&f.order, "order", 0, "position in the course, next free one by default")
	cmd.Flags().BoolVar(&f.optional, "optional", false, "mark the section optional")
}

func (f *sectionFlags) apply(cmd *cobra.Command, d *models.SectionData) {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("order") {
		d.Order = f.order
	}
	if changed("optional") {
		d.IsOptional = f.optional
	}
}

type lessonFlags struct {
	title, description, kind string
	order, minutes           int
}

func (f *lessonFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "lesson title")
	cmd.Flags().StringVar(&f.description, "description", "", "lesson description")
	cmd.Flags().StringVar(&f.kind, "type", "", "video, text, interactive or live-session")
	cmd.Flags().IntVar(&f.order, "order", 0, "position in the section, next free one by default")
	cmd.Flags().IntVar(&f.minutes, "minutes", 0, "estimated completion time")
}

func (f *lessonFlags) apply(cmd *cobra.Command, d *models.LessonData) {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("type") {
		d.Type = models.LessonType(f.kind)
	}
	if changed("order") {
		d.Order = f.order
	}
	if changed("minutes") {
		d.EstimatedCompletionTime = f.minutes
	}
}

type contentFlags struct {
	title, description, kind, data, fileType string
	order                                    int
	tags                                     []string
}

func (f *contentFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "item title")
	cmd.Flags().StringVar(&f.description, "description", "", "item description")
	cmd.Flags().StringVar(&f.kind, "type", "", "text, video, audio, interactive, quiz, document, link or code-snippet")
	cmd.Flags().StringVar(&f.data, "data", "", "URL, text body or embed reference")
	cmd.Flags().StringVar(&f.fileType, "file-type", "", "MIME type of an uploaded file")
	cmd.Flags().IntVar(&f.order, "order", 0, "position in the lesson")
	cmd.Flags().StringSliceVar(&f.tags, "tag", nil, "tag, repeatable")
}

func (f *contentFlags) apply(cmd *cobra.Command, d *models.ContentItemData) {
	changed := cmd.Flags().Changed
	if changed("title") {
		d.Title = f.title
	}
	if changed("description") {
		d.Description = f.description
	}
	if changed("type") {
		d.Type = models.ContentType(f.kind)
	}
	if changed("data") {
		d.Data = f.data
	}
	if changed("file-type") {
		d.FileType = f.fileType
	}
	if changed("order") {
		d.Order = f.order
	}
	if changed("tag") {
		d.Tags = f.tags
	}
}

func newSectionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "section", Short: "Add, edit and delete sections"}

	var addFlags sectionFlags
	add := &cobra.Command{
		Use:   "add <courseId>",
		Short: "Append a section to a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.create(cmd, args[0], editor.KindSection, "", func(n editor.Node) {
				addFlags.apply(cmd, &n.(*editor.SectionNode).Data)
			})
		},
	}
	addFlags.bind(add)

	var editFlags sectionFlags
	edit := &cobra.Command{
		Use:   "edit <courseId> <sectionId>",
		Short: "Change a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				n, err := findSection(t, args[1])
				if err == nil {
					editFlags.apply(cmd, &n.Data)
				}
				return n, err
			})
		},
	}
	editFlags.bind(edit)

	remove := &cobra.Command{
		Use:   "delete <courseId> <sectionId>",
		Short: "Delete a section with its lessons and content items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.remove(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				return findSection(t, args[1])
			})
		},
	}

	cmd.AddCommand(add, edit, remove)
	return cmd
}

func newLessonCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "lesson", Short: "Add, edit and delete lessons"}

	var addFlags lessonFlags
	add := &cobra.Command{
		Use:   "add <courseId> <sectionId>",
		Short: "Append a lesson to a section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.create(cmd, args[0], editor.KindLesson, args[1], func(n editor.Node) {
				addFlags.apply(cmd, &n.(*editor.LessonNode).Data)
			})
		},
	}
	addFlags.bind(add)

	var editFlags lessonFlags
	edit := &cobra.Command{
		Use:   "edit <courseId> <lessonId>",
		Short: "Change a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				n, err := findLesson(t, args[1])
				if err == nil {
					editFlags.apply(cmd, &n.Data)
				}
				return n, err
			})
		},
	}
	editFlags.bind(edit)

	remove := &cobra.Command{
		Use:   "delete <courseId> <lessonId>",
		Short: "Delete a lesson with its content items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.remove(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				return findLesson(t, args[1])
			})
		},
	}

	cmd.AddCommand(add, edit, remove)
	return cmd
}

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "content", Short: "Add, edit and delete content items"}

	var addFlags contentFlags
	add := &cobra.Command{
		Use:   "add <courseId> <lessonId>",
		Short: "Append a content item to a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.create(cmd, args[0], editor.KindContentItem, args[1], func(n editor.Node) {
				addFlags.apply(cmd, &n.(*editor.ContentItemNode).Data)
			})
		},
	}
	addFlags.bind(add)

	var editFlags contentFlags
	edit := &cobra.Command{
		Use:   "edit <courseId> <contentId>",
		Short: "Change a content item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				n, err := findContentItem(t, args[1])
				if err == nil {
					editFlags.apply(cmd, &n.Data)
				}
				return n, err
			})
		},
	}
	editFlags.bind(edit)

	remove := &cobra.Command{
		Use:   "delete <courseId> <contentId>",
		Short: "Delete a content item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.remove(cmd, args[0], func(t editor.Tree) (editor.Node, error) {
				return findContentItem(t, args[1])
			})
		},
	}

	cmd.AddCommand(add, edit, remove)
	return cmd
}

// create opens a create session under parentID, lets fill set the form
// fields and submits it.
func (a *app) create(cmd *cobra.Command, courseID string, kind editor.Kind, parentID string, fill func(editor.Node)) error {
	ctx := cmd.Context()
	ed := a.editor(courseID, cmd.ErrOrStderr())
	if err := a.loadAll(ctx, ed); err != nil {
		return err
	}
	n, err := ed.BeginCreate(kind, parentID)
	if err != nil {
		return err
	}
	fill(n)
	return ed.Submit(ctx, n)
}

func (a *app) edit(cmd *cobra.Command, courseID string, find func(editor.Tree) (editor.Node, error)) error {
	return a.withNode(cmd.Context(), a.editor(courseID, cmd.ErrOrStderr()), find, func(ctx context.Context, ed *editor.Editor, n editor.Node) error {
		if err := ed.BeginEdit(n); err != nil {
			return err
		}
		return ed.Submit(ctx, n)
	})
}

func (a *app) remove(cmd *cobra.Command, courseID string, find func(editor.Tree) (editor.Node, error)) error {
	return a.withNode(cmd.Context(), a.editor(courseID, cmd.ErrOrStderr()), find, func(ctx context.Context, ed *editor.Editor, n editor.Node) error {
		return ed.Delete(ctx, n)
	})
}

func (a *app) withNode(ctx context.Context, ed *editor.Editor, find func(editor.Tree) (editor.Node, error), run func(context.Context, *editor.Editor, editor.Node) error) error {
	if err := a.loadAll(ctx, ed); err != nil {
		return err
	}
	n, err := find(ed.Snapshot())
	if err != nil {
		return err
	}
	return run(ctx, ed, n)
}

func findSection(t editor.Tree, id string) (*editor.SectionNode, error) {
	for _, ref := range t.Course.Sections {
		if ref.ID == id && ref.Resolved() {
			return editor.SectionOf(*ref.Value), nil
		}
	}
	return nil, errors.Errorf("section %s not found in course %s", id, t.Course.CourseID)
}

func findLesson(t editor.Tree, id string) (*editor.LessonNode, error) {
	for _, ps := range t.Sections {
		for _, ref := range ps.Lessons {
			if ref.ID == id && ref.Resolved() {
				return editor.LessonOf(*ref.Value), nil
			}
		}
	}
	return nil, errors.Errorf("lesson %s not found in course %s", id, t.Course.CourseID)
}

func findContentItem(t editor.Tree, id string) (*editor.ContentItemNode, error) {
	for _, pl := range t.Lessons {
		for _, ref := range pl.ContentItems {
			if ref.ID == id && ref.Resolved() {
				return editor.ContentItemOf(*ref.Value), nil
			}
		}
	}
	return nil, errors.Errorf("content item %s not found in course %s", id, t.Course.CourseID)
}
