package console

import (
	core "github.com/goliatone/go-admin-console/components/console"
)

// Service exposes the underlying components/console.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// Frequently used collaborator types, re-exported so embedding applications
// only import this package.
type (
	Session     = core.Session
	Identity    = core.Identity
	Credentials = core.Credentials
	AuthState   = core.AuthState
	Broadcast   = core.Broadcast
	Registry    = core.Registry
	Stats       = core.Stats
)

// NewService proxies to the internal constructor.
func NewService(opts Options) (*Service, error) {
	return core.NewService(opts)
}

// NewBroadcast proxies to the internal constructor.
func NewBroadcast() *Broadcast {
	return core.NewBroadcast()
}

// NewRegistry proxies to the internal constructor.
func NewRegistry() *Registry {
	return core.NewRegistry()
}
