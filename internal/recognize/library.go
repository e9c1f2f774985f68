package recognize

import (
	"os"
	"path/filepath"
	"strings"
)

var sharedSuffixes = []string{".so", ".dylib", ".dll", ".DLL", ".ocx", ".OCX", ".lib", ".LIB", ".library"}
var staticSuffixes = []string{".a", ".lib", ".LIB"}

// libraryName extracts the bare name from a -l<name> / -l <name> flag's
// argument slice.
func libraryName(args []string) string {
	if len(args) == 2 {
		return args[1]
	}
	return strings.TrimPrefix(args[0], "-l")
}

// resolveLibrary implements §4.3's library resolution: look up
// lib<name>.{so,dylib,dll,DLL,ocx,OCX,lib,LIB,library} (shared set) or
// .a/.lib/.LIB (static set) under the given -L directories and
// LIBRARY_PATH, shared-first unless preferStatic, returning the first
// existing file found.
func resolveLibrary(args []string, workingDir string, searchDirs []string, env map[string]string, preferStatic bool) (string, bool) {
	name := libraryName(args)
	if name == "" {
		return "", false
	}

	dirs := append([]string(nil), searchDirs...)
	if lp, ok := env["LIBRARY_PATH"]; ok && lp != "" {
		dirs = append(dirs, strings.Split(lp, ":")...)
	}

	first, second := sharedSuffixes, staticSuffixes
	if preferStatic {
		first, second = staticSuffixes, sharedSuffixes
	}

	for _, suffixes := range [][]string{first, second} {
		for _, dir := range dirs {
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(workingDir, dir)
			}
			for _, suf := range suffixes {
				candidate := filepath.Join(dir, "lib"+name+suf)
				if fileExists(candidate) {
					return candidate, true
				}
			}
		}
	}
	return "", false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
