// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"sort"
	"sync"
)

// ProviderFactory creates a Provider instance.
// A factory may return nil to indicate the provider was compiled out
// (build-tag stub); such entries resolve by name but are never available.
type ProviderFactory func() Provider

// RegistryEntry represents a registered engine provider.
type RegistryEntry struct {
	// Name is the unique identifier for this provider.
	Name string

	// Priority determines selection order (higher = preferred).
	// Standard priorities:
	//   - 100: GPU engines (wgpu)
	//   - 50: hardware-assisted software
	//   - 10: pure software engines
	Priority int

	// Factory creates provider instances.
	Factory ProviderFactory

	// Available reports if the provider is usable on this system.
	Available func() bool
}

// globalRegistry is the default registry.
var globalRegistry = &Registry{}

// Registry manages registered engine providers.
//
// The registry enables per-platform engine bindings to register themselves
// without requiring changes to the core library. Providers typically
// register from init():
//
//	func init() {
//	    engine.Register("wgpu", 100, factory, nil)
//	}
//
// Selection either names a provider explicitly or auto-selects the best
// available one:
//
//	conn, err := engine.Open("software", engine.Options{})
//	conn, err := engine.OpenDefault(engine.Options{})
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*RegistryEntry
}

// NewRegistry creates a new empty registry.
// Most code should use the global registry via Register and OpenDefault.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*RegistryEntry),
	}
}

// Register adds a provider to the global registry.
//
// If available is nil, the provider is assumed always available.
// Registering a name that already exists replaces the previous entry.
func Register(name string, priority int, factory ProviderFactory, available func() bool) {
	globalRegistry.Register(name, priority, factory, available)
}

// Unregister removes a provider from the global registry.
// This is useful for testing.
func Unregister(name string) {
	globalRegistry.Unregister(name)
}

// Names returns all registered provider names sorted by priority
// (highest first).
func Names() []string {
	return globalRegistry.Names()
}

// AvailableNames returns names of all available providers sorted by
// priority.
func AvailableNames() []string {
	return globalRegistry.AvailableNames()
}

// Lookup returns a provider instance by name.
// Returns nil, false if the provider is not registered or compiled out.
func Lookup(name string) (Provider, bool) {
	return globalRegistry.Lookup(name)
}

// Open establishes a connection using a specific named provider.
func Open(name string, opts Options) (Conn, error) {
	return globalRegistry.Open(name, opts)
}

// OpenDefault establishes a connection using the best available provider,
// trying each in priority order until one succeeds.
func OpenDefault(opts Options) (Conn, error) {
	return globalRegistry.OpenDefault(opts)
}

// Register adds a provider to this registry.
func (r *Registry) Register(name string, priority int, factory ProviderFactory, available func() bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.entries == nil {
		r.entries = make(map[string]*RegistryEntry)
	}

	if available == nil {
		available = func() bool { return true }
	}

	r.entries[name] = &RegistryEntry{
		Name:      name,
		Priority:  priority,
		Factory:   factory,
		Available: available,
	}
}

// Unregister removes a provider from this registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, name)
}

// Names returns all registered provider names sorted by priority.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(false)
}

// AvailableNames returns names of available providers sorted by priority.
func (r *Registry) AvailableNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sortedNames(true)
}

// Lookup returns a provider instance by name.
func (r *Registry) Lookup(name string) (Provider, bool) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, false
	}

	p := entry.Factory()
	if p == nil {
		return nil, false
	}
	return p, true
}

// Open establishes a connection using a specific named provider.
func (r *Registry) Open(name string, opts Options) (Conn, error) {
	r.mu.RLock()
	entry, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return nil, &ProviderNotFoundError{Name: name}
	}

	if !entry.Available() {
		return nil, &ProviderUnavailableError{Name: name}
	}

	p := entry.Factory()
	if p == nil {
		return nil, &ProviderUnavailableError{Name: name}
	}

	return p.Open(opts)
}

// OpenDefault establishes a connection using the best available provider.
func (r *Registry) OpenDefault(opts Options) (Conn, error) {
	r.mu.RLock()
	available := r.sortedNames(true)
	r.mu.RUnlock()

	if len(available) == 0 {
		return nil, ErrNoEngineAvailable
	}

	// Try each available provider in priority order.
	var lastErr error
	for _, name := range available {
		conn, err := r.Open(name, opts)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrNoEngineAvailable
}

// sortedNames returns provider names sorted by priority (highest first).
// If onlyAvailable is true, filters to available providers only.
// Must be called with lock held.
func (r *Registry) sortedNames(onlyAvailable bool) []string {
	if len(r.entries) == 0 {
		return nil
	}

	type entry struct {
		name     string
		priority int
	}

	entries := make([]entry, 0, len(r.entries))
	for name, e := range r.entries {
		if onlyAvailable && !e.Available() {
			continue
		}
		entries = append(entries, entry{name: name, priority: e.Priority})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].priority > entries[j].priority
	})

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// ProviderNotFoundError indicates a named provider is not registered.
type ProviderNotFoundError struct {
	Name string
}

func (e *ProviderNotFoundError) Error() string {
	return "engine: provider not found: " + e.Name
}

// ProviderUnavailableError indicates a provider exists but is not usable
// on this system (or was compiled out).
type ProviderUnavailableError struct {
	Name string
}

func (e *ProviderUnavailableError) Error() string {
	return "engine: provider unavailable: " + e.Name
}
