/*
Copyright © 2026 James Lawson (jpl-au) <hello@caelisco.net>
*/

// init_extensions.go handles extension initialisation and command registration.
//
// Extensions register during init() but aren't initialised until the first
// command that needs the archive runs. The archive is opened once and shared
// across all extensions via the Context.

package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/jpl-au/examdex/extension"
	"github.com/jpl-au/examdex/internal/archive"
	"github.com/jpl-au/examdex/internal/log"
)

// noStoreCommands lists commands that bypass automatic archive opening.
// Built from bootstrap commands plus extension-declared storeless commands.
var noStoreCommands map[string]bool

// buildNoStoreCommands creates the set of commands that skip opening the
// archive. Bootstrap commands (init, guide, config) must work before
// "examdex init" has run; other extensions declare theirs through
// extension.Storeless.
func buildNoStoreCommands() map[string]bool {
	cmds := map[string]bool{
		"init":   true,
		"guide":  true,
		"config": true,
	}

	for _, ext := range extension.All() {
		if s, ok := ext.(extension.Storeless); ok {
			for _, name := range s.NoStoreCommands() {
				cmds[name] = true
			}
		}
	}

	return cmds
}

// Global extension context, created during initialisation.
var (
	extContext extension.Context
	extService *archive.Service
	initOnce   sync.Once
	initErr    error
)

// initExtensions opens the archive and injects it into extensions.
// repo.ErrNotInitialised surfaces unchanged so the user sees
// "run 'examdex init'".
func initExtensions() error {
	initOnce.Do(func() {
		svc, err := archive.NewDir(context.Background(), DB(), Dir())
		if err != nil {
			initErr = fmt.Errorf("opening archive: %w", err)
			return
		}
		extService = svc

		log.SetProject(svc.Dir())

		extContext = extension.NewContext(svc, svc.DB(), svc.Config())

		for _, ext := range extension.All() {
			if init, ok := ext.(extension.Initializable); ok {
				if err := init.Init(extContext); err != nil {
					initErr = fmt.Errorf("init extension %s: %w", ext.Name(), err)
					return
				}
			}
		}
	})
	return initErr
}

var extensionsOnce sync.Once

// registerExtensions adds commands from all registered extensions.
// Called once before Execute runs.
func registerExtensions() {
	extensionsOnce.Do(func() {
		for _, ext := range extension.All() {
			for _, cmd := range ext.Commands() {
				rootCmd.AddCommand(cmd)
			}
		}

		noStoreCommands = buildNoStoreCommands()
	})
}
