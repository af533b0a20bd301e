// Package config holds the small set of ambient constants: the version
// cmd/weave prints, source file conventions, a runtime mode flag, and
// the names of the always-present prelude builtins.
// Adapted from the teacher's internal/config/constants.go, trimmed to
// drop every constant that named a trait/nominal-type-system concept
// (Iter trait, Option/Result/Bits type names, ...) the spec's homoiconic
// value model has no equivalent of.
package config

// Version is the current weave engine version, set at build time via
// -ldflags the same way the teacher's prepare_release.sh does.
var Version = "0.1.0"

const SourceFileExt = ".weave"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".weave", ".wv"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// IsTestMode is a runtime mode flag mirroring the teacher's own
// startup-flag convention; cmd/weave has no test subcommand and nothing
// in this module sets it.
var IsTestMode = false

// Names of the always-present prelude builtins that internal/prelude
// registers under these constants.
const (
	PrintFuncName  = "print"
	DebugFuncName  = "debug"
	TraceFuncName  = "trace"
	LenFuncName    = "len"
	TypeOfFuncName = "typeOf"
	ShowFuncName   = "show"
	ReadFuncName   = "read"
	IdFuncName     = "id"
)
