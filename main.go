package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stagas/dom-lite/config"
	"github.com/stagas/dom-lite/css"
	"github.com/stagas/dom-lite/dom"
	"github.com/stagas/dom-lite/js"
	"github.com/stagas/dom-lite/lite"
	"github.com/stagas/dom-lite/network"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type globalFlags struct {
	config  string
	verbose bool
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:          "dom-lite",
		Short:        "Run scripts against an HTML page through the dom-lite facade",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "YAML config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().DurationVar(&flags.timeout, "timeout", 30*time.Second, "Timeout for HTTP requests")

	root.AddCommand(newRunCmd(flags), newQueryCmd(flags), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "dom-lite %s\n", version)
		},
	}
}

// session is a loaded page with its facade.
type session struct {
	ctx    context.Context
	cfg    *config.Config
	logger *logrus.Logger
	loader *network.Loader
	page   string
	dom    *lite.DOM
}

func load(cmd *cobra.Command, flags *globalFlags, page string) (*session, error) {
	cfg, err := config.Load(flags.config, nil)
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)
	if flags.verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	client, err := network.NewClient(network.WithTimeout(flags.timeout))
	if err != nil {
		return nil, err
	}
	loader := network.NewLoader(client, network.WithLogger(logger))

	doc, err := loader.LoadDocument(ctx, page, dom.WithFeatures(cfg.DocumentFeatures()))
	if err != nil {
		return nil, fmt.Errorf("failed to load page: %w", err)
	}
	if body := doc.Body(); body != nil {
		body.SetGeometry(dom.NewDOMRect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height))
	}

	resolver := css.NewResolver(css.WithLogger(logger))
	sheets, err := loader.LoadStylesheets(ctx, doc, page, resolver)
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"page":        page,
		"stylesheets": sheets,
		"features":    fmt.Sprintf("%+v", cfg.Features),
	}).Debug("page loaded")

	return &session{
		ctx:    ctx,
		cfg:    cfg,
		logger: logger,
		loader: loader,
		page:   page,
		dom:    lite.New(doc, lite.WithLogger(logger), lite.WithResolver(resolver)),
	}, nil
}

func (s *session) runScript(rt *js.Runtime, path string) error {
	res, err := s.loader.Load(s.ctx, path)
	if err != nil {
		return err
	}
	src, err := res.Text()
	if err != nil {
		return err
	}
	_, err = rt.RunString(path, src)
	return err
}

type runFlags struct {
	triggers []string
	print    string
}

func newRunCmd(flags *globalFlags) *cobra.Command {
	rf := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run PAGE [SCRIPT...]",
		Short: "Load a page, run scripts, fire events and print the result",
		Long: `Loads PAGE, runs each SCRIPT with the dom and document globals,
fires every --trigger in order and prints the document, or the elements
matching --print.

Triggers have the form 'selector@event', for example '#save@click'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, flags, args[0])
			if err != nil {
				return err
			}
			return s.run(cmd, args[1:], rf)
		},
	}
	cmd.Flags().StringArrayVarP(&rf.triggers, "trigger", "t", nil, "Fire an event as 'selector@event' (repeatable)")
	cmd.Flags().StringVarP(&rf.print, "print", "p", "", "Print only the elements matching this selector")
	return cmd
}

func (s *session) run(cmd *cobra.Command, scripts []string, rf *runFlags) error {
	rt := js.NewRuntime(s.dom, js.WithLogger(s.logger))
	for _, path := range scripts {
		if err := s.runScript(rt, path); err != nil {
			return fmt.Errorf("script %s: %w", path, err)
		}
	}

	for _, tr := range rf.triggers {
		sel, event, err := parseTrigger(tr)
		if err != nil {
			return err
		}
		list, err := s.dom.FindAll(sel)
		if err != nil {
			return fmt.Errorf("trigger %q: %w", tr, err)
		}
		for _, el := range list.Slice() {
			if _, err := s.dom.Trigger(el, event); err != nil {
				return fmt.Errorf("trigger %q: %w", tr, err)
			}
		}
	}

	if errs := rt.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d script error(s), first: %w", len(errs), errs[0])
	}

	if rf.print == "" {
		fmt.Fprintln(cmd.OutOrStdout(), s.dom.Document().OuterHTML())
		return nil
	}
	return s.print(cmd, rf.print)
}

func (s *session) print(cmd *cobra.Command, sel string) error {
	list, err := s.dom.FindAll(sel)
	if err != nil {
		return err
	}
	for _, el := range list.Slice() {
		fmt.Fprintln(cmd.OutOrStdout(), el.OuterHTML())
	}
	return nil
}

func parseTrigger(spec string) (sel, event string, err error) {
	i := strings.LastIndex(spec, "@")
	if i <= 0 || i == len(spec)-1 {
		return "", "", fmt.Errorf("invalid trigger %q, want 'selector@event'", spec)
	}
	return spec[:i], spec[i+1:], nil
}

func newQueryCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query PAGE SELECTOR",
		Short: "Print the elements of PAGE matching SELECTOR",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := load(cmd, flags, args[0])
			if err != nil {
				return err
			}
			return s.print(cmd, args[1])
		},
	}
}
