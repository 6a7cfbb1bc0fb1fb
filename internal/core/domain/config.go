// Package domain contains the core domain model for the harness: the
// immutable toolchain configuration and the outcome of a compile-and-run
// invocation.
package domain

import "go.trai.ch/zerr"

// Config holds the five values that fully determine one harness invocation.
// It is a value object: built once by the configuration loader, passed by
// value, and never mutated afterwards.
//
// None of the values are checked against the filesystem. A path that does
// not exist is a compiler error, not a harness error.
type Config struct {
	// Compiler is the full toolchain invocation, command plus flags,
	// e.g. "clang++ -std=c++17 -O3".
	Compiler string

	// Source is the path of the test source file to compile.
	Source string

	// IncludeDir is the directory holding the testing framework headers.
	// It is rendered as a -I flag in the compile command.
	IncludeDir string

	// Library is the path of the prebuilt static framework archive to link.
	Library string

	// Output is the path the compiled test binary is written to and
	// executed from.
	Output string
}

// Default configuration values. A bare invocation with no qrun.yaml behaves
// exactly per these.
const (
	DefaultCompiler   = "clang++ -std=c++17 -O3"
	DefaultSource     = "lazy_map_test.cpp"
	DefaultIncludeDir = "/usr/local/scaligent/toolchain/local/include"
	DefaultLibrary    = "/usr/local/scaligent/toolchain/local/lib/libgtest.a"
	DefaultOutput     = "/tmp/lazy_map_test"
)

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() Config {
	return Config{
		Compiler:   DefaultCompiler,
		Source:     DefaultSource,
		IncludeDir: DefaultIncludeDir,
		Library:    DefaultLibrary,
		Output:     DefaultOutput,
	}
}

// Validate checks that every configuration value is non-empty after the
// loader merged file values over the defaults. It never checks that a path
// exists.
func (c Config) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"compiler", c.Compiler},
		{"source", c.Source},
		{"include", c.IncludeDir},
		{"library", c.Library},
		{"output", c.Output},
	}
	for _, f := range fields {
		if f.value == "" {
			return zerr.With(ErrInvalidConfig, "field", f.name)
		}
	}
	return nil
}
