//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Search builds the CLI and runs one search against the configured service.
func Search(query string) error {
	mg.Deps(Build)
	return sh.RunV(binPath, "search", "--query", query)
}

// Probe builds the CLI and checks /healthz and /ready on the configured service.
func Probe() error {
	mg.Deps(Build)
	if err := sh.RunV(binPath, "health"); err != nil {
		return err
	}
	return sh.RunV(binPath, "ready")
}
