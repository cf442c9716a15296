package fable

// Version is the library version, overridable at build time with
// -ldflags "-X github.com/fablegraph/fable.Version=...".
var Version = "0.1.0"
