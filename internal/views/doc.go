// Package views implements the embeddable-view engine: resolving templates
// against the application manifest, loading them transiently into the host
// tree, synchronizing instance content from template content, discovering
// topmost instances inside containers, creating new instances, and cascading
// template changes across screens and across templates that embed each other.
//
// The package is deliberately one unit: the six engine parts call each other
// tightly (orchestrator -> discovery -> synchronizer -> memory -> resolver,
// factory -> synchronizer) and share the plan/copy types. Everything the
// engine knows about the authoring environment goes through the contracts in
// internal/host; everything it knows about the application goes through
// manifest.Provider.
//
// # Synchronization model
//
// The host has no diffing primitive, so every refresh is an imperative
// teardown-and-rebuild. The engine splits that into two phases: BuildPlan
// reads a template once and produces a host-independent CopyPlan (effective
// content root, carried-over behavior and cosmetics, control descriptors
// with rects relative to the root's origin); Synchronizer.Sync applies a
// plan to one instance under a notification-suppression scope. Plans are
// cached per kind so a cascade touching many instances of one template reads
// the template once.
//
// # Cascades
//
// CascadeUpdate propagates a template change to instances in ordinary
// screens, then to instances inside other templates, recursing because
// updating another template can itself affect yet more screens. An explicit
// in-flight kind set guards against mutual template containment; the
// deduplicated set of mutated screens is returned for the caller to persist.
package views
