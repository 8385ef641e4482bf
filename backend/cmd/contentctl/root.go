package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/philosofium/coursecontent/backend/client"
	"github.com/philosofium/coursecontent/backend/editor"
	"github.com/philosofium/coursecontent/backend/hydration"
	"github.com/philosofium/coursecontent/backend/utils"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	conf   *viper.Viper
	log    *utils.Logger
	client *client.Client
}

func newRootCmd() *cobra.Command {
	a := &app{conf: viper.New()}

	root := &cobra.Command{
		Use:          "contentctl",
		Short:        "Manage course sections, lessons and content items",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				a.log.Sync()
			}
		},
	}

	a.conf.SetEnvPrefix("CONTENTCTL")
	a.conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.conf.AutomaticEnv()
	a.conf.SetDefault("server", "http://localhost:8080")
	a.conf.SetDefault("timeout", 10*time.Second)
	a.conf.SetDefault("log-level", "warn")

	flags := root.PersistentFlags()
	flags.String("server", "http://localhost:8080", "API server base URL")
	flags.String("token", "", "JWT of an admin account")
	flags.Duration("timeout", 10*time.Second, "per-request timeout")
	flags.String("log-level", "warn", "debug, info, warn or error")
	for _, name := range []string{"server", "token", "timeout", "log-level"} {
		_ = a.conf.BindPFlag(name, flags.Lookup(name))
	}

	root.AddCommand(
		newLoginCmd(a),
		newCourseCmd(a),
		newSectionCmd(a),
		newLessonCmd(a),
		newContentCmd(a),
	)
	return root
}

func (a *app) setup() error {
	log, err := utils.InitLogger(utils.LoggerConfig{Format: "console", Level: a.conf.GetString("log-level")})
	if err != nil {
		return err
	}
	a.log = log
	a.client = client.New(client.Config{
		BaseURL:   a.conf.GetString("server"),
		AuthToken: a.conf.GetString("token"),
		Timeout:   a.conf.GetDuration("timeout"),
	}, log)
	return nil
}

// editor returns an editor for the course that reports to out.
func (a *app) editor(courseID string, out io.Writer) *editor.Editor {
	return editor.New(courseID, a.client, hydration.New(a.client, a.log), printNotifier{out: out}, a.log)
}

// loadAll loads the course and expands every section and lesson.
func (a *app) loadAll(ctx context.Context, ed *editor.Editor) error {
	if err := ed.Load(ctx); err != nil {
		return err
	}
	for _, ref := range ed.Snapshot().Course.Sections {
		if !ref.Resolved() {
			continue
		}
		if err := ed.ExpandSection(ctx, ref.ID); err != nil {
			return err
		}
	}
	for _, ps := range ed.Snapshot().Sections {
		for _, ref := range ps.Lessons {
			if !ref.Resolved() {
				continue
			}
			if err := ed.ExpandLesson(ctx, ref.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

type printNotifier struct {
	out io.Writer
}

func (p printNotifier) Success(msg string) {
	fmt.Fprintln(p.out, msg)
}

func (p printNotifier) Error(msg string) {
	fmt.Fprintln(p.out, "error:", msg)
}

// envelopeError turns a rejected envelope into a command error.
func envelopeError(failure string) error {
	return errors.Errorf("server rejected the request: %s", failure)
}
