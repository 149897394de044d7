package version

// Set at build time with -ldflags "-X github.com/applytrack/applytrack/pkg/version.gitVersion=..."
var (
	gitVersion = "unknown"
	gitCommit  = ""
)

type Info struct {
	GitVersion string `json:"gitVersion"`
	GitCommit  string `json:"gitCommit"`
}

func Get() Info {
	return Info{
		GitVersion: gitVersion,
		GitCommit:  gitCommit,
	}
}
