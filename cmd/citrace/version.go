package main

import (
	"fmt"

	"github.com/rizsotto/citrace/version"
)

// VersionCmd prints citrace's own build provenance.
type VersionCmd struct{}

func (c *VersionCmd) Run(rctx *RunContext) error {
	info := version.Get()
	if info.GitCommit != "" {
		fmt.Println("commit:", info.GitCommit)
	}
	if info.BuildTime != "" {
		fmt.Println("build time:", info.BuildTime)
	}
	if info.BuildInfo == nil {
		fmt.Println("build info not available")
		return nil
	}
	fmt.Println("module:", info.BuildInfo.Main.Path, info.BuildInfo.Main.Version)
	fmt.Println("go version:", info.BuildInfo.GoVersion)
	for _, setting := range info.BuildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				fmt.Println("commit:", setting.Value)
			}
		case "vcs.time":
			fmt.Println("commit time:", setting.Value)
		case "vcs.modified":
			fmt.Println("dirty:", setting.Value)
		}
	}
	return nil
}
