// Package main builds the interception shared library (§4.9): a
// process-lifecycle-scoped shim, loaded via LD_PRELOAD or
// DYLD_INSERT_LIBRARIES, that intercepts the exec family and posix_spawn[p]
// and redirects every call through citrace-supervisor.
//
// The C side owns symbol interposition and the variadic-to-vector
// collection the exec*l* family needs (§9); the Go side owns session
// capture and the new argument vector's construction, exported back to C.
package main

/*
#cgo LDFLAGS: -ldl

#include <dlfcn.h>
#include <errno.h>
#include <stdarg.h>
#include <stdlib.h>
#include <string.h>
#include <unistd.h>
#include <spawn.h>

extern char **environ;

typedef int (*execve_fn)(const char *, char *const[], char *const[]);
typedef int (*posix_spawn_fn)(pid_t *, const char *, const void *, const void *, char *const[], char *const[]);

// goBuildSupervisorArgv asks the Go side to resolve the real executable and
// build the replacement argv (supervisor + --destination ... --execute ...
// --command ...). It returns NULL (and sets *out_errno) when no session was
// captured or the real executable cannot be resolved.
extern char **goBuildSupervisorArgv(char *path, char **argv, int *out_errno);

static execve_fn real_execve(void) {
    static execve_fn fn = NULL;
    if (!fn) fn = (execve_fn)dlsym(RTLD_NEXT, "execve");
    return fn;
}

static posix_spawn_fn real_posix_spawn(const char *name) {
    return (posix_spawn_fn)dlsym(RTLD_NEXT, name);
}

static void free_argv(char **argv) {
    if (!argv) return;
    for (char **p = argv; *p; p++) free(*p);
    free(argv);
}

// dispatch rebuilds argv through the Go side and calls the real execve,
// falling back to forwarding the call unchanged when interception is
// inactive for this process.
static int dispatch_execve(const char *path, char *const argv[], char *const envp[]) {
    execve_fn fn = real_execve();
    if (!fn) { errno = EIO; return -1; }

    int err = 0;
    char **newArgv = goBuildSupervisorArgv((char *)path, (char **)argv, &err);
    if (!newArgv) {
        if (err != 0) { errno = err; return -1; }
        return fn(path, argv, envp);
    }
    int rc = fn(newArgv[0], newArgv, envp);
    int saved = errno;
    free_argv(newArgv);
    errno = saved;
    return rc;
}

int citrace_execve(const char *path, char *const argv[], char *const envp[]) {
    return dispatch_execve(path, argv, envp);
}

int citrace_execv(const char *path, char *const argv[]) {
    return dispatch_execve(path, argv, environ);
}

int citrace_execvp(const char *file, char *const argv[]) {
    return dispatch_execve(file, argv, environ);
}

int citrace_execvpe(const char *file, char *const argv[], char *const envp[]) {
    return dispatch_execve(file, argv, envp);
}

int citrace_execvP(const char *file, const char *search_path, char *const argv[]) {
    (void)search_path;
    return dispatch_execve(file, argv, environ);
}

// variadic forms materialize into a vector, per §9, then forward to the
// vector forms above.
static char **collect_va(const char *first, va_list ap) {
    size_t cap = 8, n = 0;
    char **argv = malloc(cap * sizeof(char *));
    argv[n++] = (char *)first;
    for (;;) {
        char *a = va_arg(ap, char *);
        if (n + 1 >= cap) { cap *= 2; argv = realloc(argv, cap * sizeof(char *)); }
        argv[n++] = a;
        if (!a) break;
    }
    return argv;
}

int citrace_execl(const char *path, const char *arg0, ...) {
    va_list ap;
    va_start(ap, arg0);
    char **argv = collect_va(arg0, ap);
    va_end(ap);
    int rc = citrace_execv(path, argv);
    free(argv);
    return rc;
}

int citrace_execlp(const char *file, const char *arg0, ...) {
    va_list ap;
    va_start(ap, arg0);
    char **argv = collect_va(arg0, ap);
    va_end(ap);
    int rc = citrace_execvp(file, argv);
    free(argv);
    return rc;
}

int citrace_execle(const char *path, const char *arg0, ...) {
    va_list ap;
    va_start(ap, arg0);
    char **argv = collect_va(arg0, ap);
    // the envp pointer follows the NULL terminator, by convention.
    char *const *envp = va_arg(ap, char *const *);
    va_end(ap);
    int rc = dispatch_execve(path, argv, envp);
    free(argv);
    return rc;
}

int citrace_exect(const char *path, char *const argv[], char *const envp[]) {
    return dispatch_execve(path, argv, envp);
}

int citrace_posix_spawn(pid_t *pid, const char *path,
                         const posix_spawn_file_actions_t *file_actions,
                         const posix_spawnattr_t *attrp,
                         char *const argv[], char *const envp[]) {
    posix_spawn_fn fn = (posix_spawn_fn)real_posix_spawn("posix_spawn");
    if (!fn) { errno = EIO; return EIO; }

    int err = 0;
    char **newArgv = goBuildSupervisorArgv((char *)path, (char **)argv, &err);
    if (!newArgv) {
        if (err != 0) return err;
        return fn(pid, path, file_actions, attrp, argv, envp);
    }
    int rc = fn(pid, newArgv[0], file_actions, attrp, newArgv, (char *const *)(envp ? envp : environ));
    free_argv(newArgv);
    return rc;
}

int citrace_posix_spawnp(pid_t *pid, const char *file,
                          const posix_spawn_file_actions_t *file_actions,
                          const posix_spawnattr_t *attrp,
                          char *const argv[], char *const envp[]) {
    posix_spawn_fn fn = (posix_spawn_fn)real_posix_spawn("posix_spawnp");
    if (!fn) { errno = EIO; return EIO; }

    int err = 0;
    char **newArgv = goBuildSupervisorArgv((char *)file, (char **)argv, &err);
    if (!newArgv) {
        if (err != 0) return err;
        return fn(pid, file, file_actions, attrp, argv, envp);
    }
    int rc = fn(pid, newArgv[0], file_actions, attrp, newArgv, (char *const *)(envp ? envp : environ));
    free_argv(newArgv);
    return rc;
}
*/
import "C"

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unsafe"
)

// capturedSession holds the values read from the environment exactly once,
// at first use, matching the atomic-initialization, process-scope-lifetime
// singleton described in §4.9 and §9.
type capturedSession struct {
	supervisor  string
	destination string
	verbose     bool
	systemPath  string
	valid       bool
}

var (
	sessionOnce sync.Once
	session     capturedSession
)

func captureSession() {
	session = capturedSession{
		supervisor:  os.Getenv("INTERCEPT_REPORT_COMMAND"),
		destination: os.Getenv("INTERCEPT_REPORT_DESTINATION"),
		verbose:     os.Getenv("INTERCEPT_VERBOSE") != "",
		systemPath:  os.Getenv("PATH"),
	}
	session.valid = session.supervisor != "" && session.destination != ""
}

// resolveExecutable implements §4.9 step 1: a path containing a separator
// is used as-is (relative to the current directory); otherwise PATH is
// walked, falling back to the system default path.
func resolveExecutable(name string) (string, bool) {
	if strings.ContainsRune(name, filepath.Separator) {
		if fileExecutable(name) {
			return name, true
		}
		return "", false
	}
	searchPath := session.systemPath
	if searchPath == "" {
		searchPath = os.Getenv("PATH")
	}
	if searchPath == "" {
		searchPath = "/usr/bin:/bin"
	}
	for _, dir := range strings.Split(searchPath, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if fileExecutable(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func fileExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// goBuildSupervisorArgv is called from the C dispatcher for every
// intercepted exec/spawn. It returns a NUL-terminated C array of C strings
// (supervisor argv), or NULL with *outErrno set to ENOENT/EIO per §4.9
// step 4, or NULL with *outErrno == 0 to signal "forward unchanged"
// (no session captured).
//
//export goBuildSupervisorArgv
func goBuildSupervisorArgv(cPath *C.char, cArgv **C.char, outErrno *C.int) **C.char {
	sessionOnce.Do(captureSession)
	*outErrno = 0
	if !session.valid {
		return nil
	}

	path := C.GoString(cPath)
	resolved, ok := resolveExecutable(path)
	if !ok {
		*outErrno = int32ToCErrno(2) // ENOENT
		return nil
	}

	original := goStringsFromArgv(cArgv)
	argv := []string{session.supervisor, "--destination", session.destination}
	if session.verbose {
		argv = append(argv, "--verbose")
	}
	argv = append(argv, "--execute", resolved, "--command")
	argv = append(argv, original...)

	return cArgvFromStrings(argv)
}

func int32ToCErrno(n int) C.int { return C.int(n) }

func goStringsFromArgv(argv **C.char) []string {
	var out []string
	if argv == nil {
		return out
	}
	for i := 0; ; i++ {
		p := cArgvIndex(argv, i)
		if p == nil {
			break
		}
		out = append(out, C.GoString(p))
	}
	return out
}

func cArgvIndex(argv **C.char, i int) *C.char {
	const ptrSize = unsafe.Sizeof(uintptr(0))
	base := unsafe.Pointer(argv)
	elem := (**C.char)(unsafe.Pointer(uintptr(base) + uintptr(i)*ptrSize))
	return *elem
}

// cArgvFromStrings allocates a NUL-terminated C array of C strings; the C
// side (free_argv) is responsible for releasing it.
func cArgvFromStrings(args []string) **C.char {
	n := len(args)
	size := unsafe.Sizeof(uintptr(0)) * uintptr(n+1)
	base := C.malloc(C.size_t(size))
	argv := (**C.char)(base)
	for i, a := range args {
		*cArgvIndexMut(argv, i) = C.CString(a)
	}
	*cArgvIndexMut(argv, n) = nil
	return argv
}

func cArgvIndexMut(argv **C.char, i int) **C.char {
	const ptrSize = unsafe.Sizeof(uintptr(0))
	base := unsafe.Pointer(argv)
	return (**C.char)(unsafe.Pointer(uintptr(base) + uintptr(i)*ptrSize))
}

func main() {
	// required by -buildmode=c-shared but never entered.
	fmt.Fprintln(os.Stderr, "citrace-preload: this is a shared library, not an executable")
}
