package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/philosofium/coursecontent/backend/editor"
	"github.com/philosofium/coursecontent/backend/models"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Print a token for CONTENTCTL_TOKEN",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if !resp.Success {
				return envelopeError(resp.Failure())
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Data.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCourseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "course", Short: "List, create and inspect courses"}

	var status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.ListCourses(cmd.Context(), models.CourseStatus(status))
			if err != nil {
				return err
			}
			if !resp.Success {
				return envelopeError(resp.Failure())
			}
			for _, c := range resp.Data {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%d sections\n", c.CourseID, c.Status, c.Title, len(c.Sections))
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "only courses with this status")

	var data models.CourseData
	var level, courseStatus, format string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a course",
		RunE: func(cmd *cobra.Command, args []string) error {
			data.Level = models.CourseLevel(level)
			data.Status = models.CourseStatus(courseStatus)
			data.Format = models.CourseFormat(format)
			if err := models.Validate(&data); err != nil {
				return err
			}
			resp, err := a.client.CreateCourse(cmd.Context(), data)
			if err != nil {
				return err
			}
			if !resp.Success {
				return envelopeError(resp.Failure())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", resp.Data.CourseID, resp.Data.ID)
			return nil
		},
	}
	f := create.Flags()
	f.StringVar(&data.Title, "title", "", "course title")
	f.StringVar(&data.Description, "description", "", "course description")
	f.StringVar(&data.Category, "category", "", "catalog category")
	f.Float64Var(&data.Price, "price", 0, "price")
	f.StringVar(&data.Currency, "currency", "", "price currency")
	f.IntVar(&data.MinParticipants, "min", 0, "minimum participants")
	f.IntVar(&data.MaxParticipants, "max", 0, "maximum participants, 0 for unlimited")
	f.StringVar(&level, "level", "", "beginner, intermediate or advanced")
	f.StringVar(&courseStatus, "status", "", "active, inactive, full, draft or archived")
	f.StringVar(&format, "format", "", "recorded or live")
	_ = create.MarkFlagRequired("title")

	show := &cobra.Command{
		Use:   "show <courseId>",
		Short: "Print the content tree of a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed := a.editor(args[0], cmd.ErrOrStderr())
			if err := a.loadAll(cmd.Context(), ed); err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), ed.Snapshot())
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "delete <courseId>",
		Short: "Delete a course and its whole content tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.DeleteCourse(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !resp.Success {
				return envelopeError(resp.Failure())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", resp.Data.ID)
			return nil
		},
	}

	cmd.AddCommand(list, create, show, remove)
	return cmd
}

func printTree(w io.Writer, tree editor.Tree) {
	c := tree.Course
	fmt.Fprintf(w, "%s  %s [%s]\n", c.CourseID, c.Title, c.Status)
	for _, ref := range c.Instructors {
		if ref.Resolved() {
			fmt.Fprintf(w, "  instructor %s\n", ref.Value.Username)
		} else {
			fmt.Fprintf(w, "  instructor %s (unresolved)\n", ref.ID)
		}
	}
	fmt.Fprintf(w, "  %d enrolled\n", len(c.Users))

	for _, sref := range c.Sections {
		if !sref.Resolved() {
			fmt.Fprintf(w, "  ? section %s (unresolved)\n", sref.ID)
			continue
		}
		s := sref.Value
		fmt.Fprintf(w, "  %d. %s  <%s>\n", s.Order, s.Title, s.ID)
		for _, lref := range tree.Sections[s.ID].Lessons {
			if !lref.Resolved() {
				fmt.Fprintf(w, "     ? lesson %s (unresolved)\n", lref.ID)
				continue
			}
			l := lref.Value
			fmt.Fprintf(w, "     %d. %s (%s, %d min)  <%s>\n", l.Order, l.Title, l.Type, l.EstimatedCompletionTime, l.ID)
			for _, iref := range tree.Lessons[l.ID].ContentItems {
				if !iref.Resolved() {
					fmt.Fprintf(w, "        ? item %s (unresolved)\n", iref.ID)
					continue
				}
				ci := iref.Value
				fmt.Fprintf(w, "        - [%s] %s v%d  <%s>\n", ci.Type, ci.Title, ci.Version, ci.ID)
			}
		}
	}
}
