package buildinfo

// These values are injected by GoReleaser via ldflags for release binaries.
// They default to empty for local/dev builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

// Describe returns a human-readable version string for the version command
// and --version output. Falls back to "dev" when no release metadata was
// injected.
func Describe() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit != "" {
		short := Commit
		if len(short) > 12 {
			short = short[:12]
		}
		v += " (" + short + ")"
	}
	return v
}
