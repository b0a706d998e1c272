// Package tools resolves install directories of the external structure
// search tools. An explicit directory wins; otherwise an environment
// variable, a configurable search path and finally the conventional
// directory name relative to the working directory are tried in order.
package tools

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// PathEnv lists extra directories (os.PathListSeparator-separated) searched
// for conventional install directory names.
const PathEnv = "AF2TOOLS_TOOL_PATH"

// Tool describes where an external tool keeps its executable.
type Tool struct {
	Name         string
	Flag         string // CLI flag naming its install dir, for messages
	EnvVar       string
	Conventional []string // install dir names looked up along the search path
	Exec         string   // executable relative to the install dir
}

var (
	FATCAT = Tool{
		Name:         "FATCAT",
		Flag:         "--fatcat_install_dir",
		EnvVar:       "FATCAT_INSTALL_DIR",
		Conventional: []string{"FATCAT-dist", "FATCAT"},
		Exec:         filepath.Join("FATCATMain", "FATCATSearch.pl"),
	}
	USalign = Tool{
		Name:         "USalign",
		Flag:         "--tm_align_install_dir",
		EnvVar:       "USALIGN_INSTALL_DIR",
		Conventional: []string{"USalign"},
		Exec:         "USalign",
	}
)

// Installation is a located tool.
type Installation struct {
	Tool Tool
	Dir  string // absolute install dir
	Path string // absolute executable path
}

// LocateError explains why no usable installation was found.
type LocateError struct {
	Tool   Tool
	Dir    string
	Reason string
	Tried  []string
}

func (e *LocateError) Error() string {
	if e.Dir != "" {
		return fmt.Sprintf("%s: %s %s", e.Tool.Flag, e.Dir, e.Reason)
	}
	return fmt.Sprintf("%s: no installation found (provide %s or set %s); tried: %s",
		e.Tool.Name, e.Tool.Flag, e.Tool.EnvVar, strings.Join(e.Tried, ", "))
}

// Resolver carries the lookup environment.
type Resolver struct {
	SearchPath []string
	Base       string // conventional names are finally tried under Base; "" means "."
	Getenv     func(string) string
}

// Locate finds t. A non-empty explicit dir is authoritative: it must exist
// and hold the executable, with no fallback.
func (r Resolver) Locate(t Tool, explicit string) (Installation, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil || !info.IsDir() {
			return Installation{}, &LocateError{Tool: t, Dir: explicit, Reason: "does not exist, please ensure correct input"}
		}
		inst, reason := check(t, explicit)
		if reason != "" {
			return Installation{}, &LocateError{Tool: t, Dir: explicit, Reason: reason}
		}
		return inst, nil
	}

	var tried []string
	for _, dir := range r.candidates(t) {
		tried = append(tried, dir)
		if inst, reason := check(t, dir); reason == "" {
			return inst, nil
		}
	}
	return Installation{}, &LocateError{Tool: t, Tried: tried}
}

func (r Resolver) candidates(t Tool) []string {
	getenv := r.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	var out []string
	if v := strings.TrimSpace(getenv(t.EnvVar)); v != "" {
		out = append(out, v)
	}
	path := append([]string(nil), r.SearchPath...)
	path = append(path, SplitList(getenv(PathEnv))...)
	base := r.Base
	if base == "" {
		base = "."
	}
	path = append(path, base)
	for _, p := range path {
		for _, name := range t.Conventional {
			out = append(out, filepath.Join(p, name))
		}
	}
	return out
}

func check(t Tool, dir string) (Installation, string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Installation{}, err.Error()
	}
	exe := filepath.Join(abs, t.Exec)
	info, err := os.Stat(exe)
	if err != nil || !info.Mode().IsRegular() {
		return Installation{}, fmt.Sprintf("exists, but no %s executable found (installed incorrectly?)", t.Exec)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return Installation{}, fmt.Sprintf("exists, but %s is not executable", t.Exec)
	}
	return Installation{Tool: t, Dir: abs, Path: exe}, ""
}

// SplitList splits an os.PathListSeparator-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range filepath.SplitList(s) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
