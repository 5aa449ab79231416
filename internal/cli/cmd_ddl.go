package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/bridge/dialect/sql/schema"
)

// debounce is the quiet period after a model change before the models
// are reloaded. Editors often write a file in several steps.
const debounce = 200 * time.Millisecond

func (a *app) ddlCommand() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "ddl",
		Short: "Print the CREATE statements of the models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.printDDL(ctx); err != nil {
				if !watch {
					return err
				}
				a.logger.Error("models are invalid", "error", err)
			}
			if !watch {
				return nil
			}
			return a.watch(ctx, a.printDDL)
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "print the statements again when a model file changes")
	return cmd
}

func (a *app) printDDL(ctx context.Context) error {
	g, err := a.graph()
	if err != nil {
		return err
	}
	if res := schema.ValidateSchema(g.Tables()); res.HasErrors() {
		return fmt.Errorf("invalid tables:\n%s", res)
	}
	stmts, err := schema.Plan(ctx, a.cfg.Dialect, g.Tables())
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if _, err := fmt.Fprintf(a.out, "%s;\n", s); err != nil {
			return err
		}
	}
	return nil
}

// watch calls fn whenever a model file changes, until ctx is done.
// Failures of fn are logged and do not stop the watch.
func (a *app) watch(ctx context.Context, fn func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	match, err := a.watchModels(w)
	if err != nil {
		return err
	}
	a.logger.Info("watching models", "paths", a.cfg.Models)
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if match(ev) {
				pending = time.After(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch failed", "error", err)
		case <-pending:
			pending = nil
			if err := fn(ctx); err != nil {
				a.logger.Error("models are invalid", "error", err)
			}
		}
	}
}

// watchModels adds the directories of the model paths to the watcher
// and returns the filter of the events that concern model files.
func (a *app) watchModels(w *fsnotify.Watcher) (func(fsnotify.Event) bool, error) {
	var (
		dirs  = make(map[string]bool)
		files = make(map[string]bool)
	)
	for _, p := range a.cfg.Models {
		p = filepath.Clean(p)
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		dir := p
		if info.IsDir() {
			dirs[p] = true
		} else {
			files[p] = true
			dir = filepath.Dir(p)
		}
		if err := w.Add(dir); err != nil {
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	if len(dirs)+len(files) == 0 {
		return nil, errors.New("no model paths to watch")
	}
	return func(ev fsnotify.Event) bool {
		return modelEvent(ev, dirs, files)
	}, nil
}

// modelEvent reports if the event changes a model file: one of the
// files, or a YAML file in one of the directories.
func modelEvent(ev fsnotify.Event, dirs, files map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if files[name] {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	return dirs[filepath.Dir(name)] && (ext == ".yaml" || ext == ".yml")
}
