// Package pkginfo models the metadata a built package exposes to its
// consumers: components with library names, include directories, compile
// definitions, pkg-config and CMake target names, and run-environment
// entries.
//
// The metadata is what downstream build systems consume after a package has
// been built and laid out; it carries no build logic itself. Recipes compute
// a *Package from their resolved option set, so library naming rules (such
// as ImageMagick's quantum-depth and HDRI suffixes) surface here.
package pkginfo
