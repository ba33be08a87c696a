// Shared session setup and output helpers for offbook CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/stageloft/offbook/internal/library"
	"github.com/stageloft/offbook/internal/paths"
	"github.com/stageloft/offbook/internal/settings"
	"github.com/stageloft/offbook/pkg/types"
)

// Session state, initialized by PersistentPreRunE.
var (
	logger  *zap.Logger
	manager *library.Manager
)

// initSession wires settings, logging, and the library manager before any
// subcommand runs.
func initSession(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	logger = zap.NewNop()
	if flagVerbose {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("init logging: %w", err)
		}
		logger = l
	}

	confDir, err := paths.ResolveAppSupportDir(flagConfigDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	s, err := settings.Load(confDir, logger)
	if err != nil {
		return err
	}

	manager = library.NewManager(s, logger)
	return nil
}

// closeSession releases the bound library after the subcommand finishes.
func closeSession(cmd *cobra.Command, args []string) error {
	if manager != nil {
		if err := manager.Close(); err != nil {
			logger.Warn("close library", zap.Error(err))
		}
	}
	if logger != nil {
		_ = logger.Sync()
	}
	return nil
}

// resolveProject looks a project up by numeric id or, failing that, by name.
func resolveProject(ref string) (*types.Project, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if p, err := manager.Get(id); err == nil {
			return p, nil
		} else if !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
	}
	return manager.GetByName(ref)
}

// fail prints a command error and exits with the code matching its class:
// user errors for bad input and unknown projects, system errors otherwise.
func fail(verb string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", verb, err)
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrNameConflict),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidPath),
		errors.Is(err, types.ErrNoLibrary):
		os.Exit(exitUserError)
	default:
		os.Exit(exitSysError)
	}
}

// printProject writes one project as JSON or a readable block.
func printProject(p *types.Project) {
	if flagJSON {
		printJSON(p)
		return
	}
	fmt.Printf("id:        %d\n", p.ID)
	fmt.Printf("name:      %s\n", p.Name)
	fmt.Printf("content:   %s\n", p.ContentPath)
	if p.ChosenCharacter != "" {
		fmt.Printf("character: %s\n", p.ChosenCharacter)
	}
	switch {
	case p.IsReferenced():
		fmt.Println("kind:      referenced")
	case p.IsPlaceholder():
		fmt.Println("kind:      placeholder")
	}
	fmt.Printf("updated:   %s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"))
}

// printProjects writes a list as JSON or one tab-separated row per project.
func printProjects(all []*types.Project) {
	if flagJSON {
		printJSON(all)
		return
	}
	for _, p := range all {
		fmt.Printf("%d\t%s\t%s\n", p.ID, p.Name, p.ContentPath)
	}
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("encode", err)
	}
	fmt.Println(string(data))
}
