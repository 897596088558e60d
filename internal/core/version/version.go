package version

// Version is overridden at build time:
//
//	go build -ldflags "-X github.com/guiyumin/vdl/internal/core/version.Version=1.2.3"
var Version = "dev"
