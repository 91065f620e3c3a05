//go:build tools
// +build tools

// Package directchat declares tool dependencies for this module.
//
// mockgen is invoked through go generate to refresh mocks/, this import
// keeps it tracked in go.mod.
package directchat

import (
	_ "go.uber.org/mock/mockgen"
)
