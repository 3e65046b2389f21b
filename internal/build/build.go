// Package build holds build-time information.
package build

// Version is the application version.
// It defaults to "dev" and can be overwritten by linker flags.
var Version = "dev"

// Built-in source defaults, used when no manifest is found.
// They are empty unless set with linker flags, for example:
//
//	-ldflags "-X go.trai.ch/typesync/internal/build.Repository=go-gitea/gitea
//	          -X go.trai.ch/typesync/internal/build.RepositoryVersion=1.21.0"
var (
	Repository        = ""
	RepositoryVersion = ""
	SourceSubdir      = ""
	Generator         = ""
)
