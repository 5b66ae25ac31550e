package buildinfo

import "fmt"

// BuildInfo describes the build of the sortby binary. The fields are set by the linker.
type BuildInfo struct {
	Program    string
	Version    string
	CommitHash string
	BuildDate  string
}

// New returns the build info of a program, substituting placeholders for unset fields.
func New(program, version, commitHash, buildDate string) BuildInfo {
	if version == "" {
		version = "dev"
	}
	if commitHash == "" {
		commitHash = "n/a"
	}
	if buildDate == "" {
		buildDate = "<unknown>"
	}
	return BuildInfo{Program: program, Version: version, CommitHash: commitHash, BuildDate: buildDate}
}

// String returns the build info as a string.
func (i BuildInfo) String() string {
	return fmt.Sprintf("%s version %s (%s) built on %s", i.Program, i.Version, i.CommitHash, i.BuildDate)
}
