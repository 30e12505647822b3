//go:build debug

package world

// debugAssert gates host protocol checks that are too hot for release
// builds. Enable with -tags debug.
const debugAssert = true
