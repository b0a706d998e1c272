// internal/cliutil/cliutil.go
package cliutil

import (
	"os"
	"path/filepath"
	"strings"

	"af2tools/internal/cli"
)

// RequireDir checks that the value of --flagName names an existing
// directory and returns its absolute path.
func RequireDir(flagName, path string) (string, error) {
	if path == "" {
		return "", cli.Configf("please provide --%s", flagName)
	}
	st, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return "", cli.Configf("the provided %s %q does not exist, please ensure correct input", flagName, path)
	case err != nil:
		return "", cli.Configf("%s: %v", flagName, err)
	case !st.IsDir():
		return "", cli.Configf("the provided %s %q is not a directory", flagName, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", cli.Configf("%s: %v", flagName, err)
	}
	return abs, nil
}

// RequireFile checks that the value of --flagName names an existing
// regular file and returns its absolute path.
func RequireFile(flagName, path string) (string, error) {
	if path == "" {
		return "", cli.Configf("please provide --%s", flagName)
	}
	st, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return "", cli.Configf("the provided %s %q does not exist, please ensure correct input", flagName, path)
	case err != nil:
		return "", cli.Configf("%s: %v", flagName, err)
	case st.IsDir():
		return "", cli.Configf("the provided %s %q is a directory, not a file", flagName, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", cli.Configf("%s: %v", flagName, err)
	}
	return abs, nil
}

// EnsureExt replaces name's extension with ext (".csv"), or appends it
// when name has none. A matching extension in another case is kept.
func EnsureExt(name, ext string) string {
	cur := filepath.Ext(name)
	if strings.EqualFold(cur, ext) {
		return name
	}
	return strings.TrimSuffix(name, cur) + ext
}

// CheckOverwrite refuses an existing output file unless force is set.
func CheckOverwrite(flagName, path string, force bool) error {
	st, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return cli.Configf("%s: %v", flagName, err)
	}
	if st.IsDir() {
		return cli.Configf("the provided %s %q is a directory", flagName, path)
	}
	if !force {
		return cli.Configf("%s %q already exists; use --force_overwrite to replace it", flagName, path)
	}
	return nil
}
