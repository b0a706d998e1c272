// Package jobscript renders per-job batch submission scripts from a plain
// text template carrying {{NAME}} placeholders.
package jobscript

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"af2tools/internal/fsutil"
)

// Recognized placeholders.
const (
	FastaFile = "{{FASTA_FILE}}"
	OutputDir = "{{OUTPUT_DIR}}"
	ImageFile = "{{IMAGE_FILE}}"
	JobName   = "{{JOB_NAME}}"
	User      = "{{USER}}"
)

var placeholderRE = regexp.MustCompile(`\{\{[A-Za-z0-9_]+\}\}`)

// ErrNoIdentity is returned when no user/login name can be resolved.
var ErrNoIdentity = errors.New("no user identity: set USER or LOGNAME")

// Values are the per-job substitutions. Paths should be absolute.
type Values struct {
	FastaFile string
	OutputDir string
	ImageFile string
	JobName   string
	User      string
}

func (v Values) byToken() map[string]string {
	return map[string]string{
		FastaFile: v.FastaFile,
		OutputDir: v.OutputDir,
		ImageFile: v.ImageFile,
		JobName:   v.JobName,
		User:      v.User,
	}
}

// UnknownPlaceholderError names template tokens this package cannot fill.
type UnknownPlaceholderError struct {
	Source string
	Tokens []string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("%s: unknown placeholder(s) %s", e.Source, strings.Join(e.Tokens, ", "))
}

// MissingValueError names placeholders present in the template with no value.
type MissingValueError struct {
	Source string
	Tokens []string
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("%s: no value for placeholder(s) %s", e.Source, strings.Join(e.Tokens, ", "))
}

// Template is a parsed job script template.
type Template struct {
	Source string
	text   string
	tokens []string
}

// Parse validates text as a template. source names it in errors.
func Parse(source, text string) (*Template, error) {
	known := Values{}.byToken()
	set := map[string]bool{}
	var unknown []string
	for _, tok := range placeholderRE.FindAllString(text, -1) {
		if set[tok] {
			continue
		}
		set[tok] = true
		if _, ok := known[tok]; !ok {
			unknown = append(unknown, tok)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownPlaceholderError{Source: source, Tokens: unknown}
	}
	tokens := make([]string, 0, len(set))
	for tok := range set {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return &Template{Source: source, text: text, tokens: tokens}, nil
}

// Load reads and parses the template at path.
func Load(path string) (*Template, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, string(b))
}

// Placeholders lists the distinct tokens used by the template, sorted.
func (t *Template) Placeholders() []string { return append([]string(nil), t.tokens...) }

// Render substitutes every placeholder in one pass. Values are inserted
// verbatim and never re-scanned, so a value that itself looks like a
// placeholder is left alone.
func (t *Template) Render(v Values) (string, error) {
	vals := v.byToken()
	var missing []string
	pairs := make([]string, 0, 2*len(t.tokens))
	for _, tok := range t.tokens {
		val := vals[tok]
		if val == "" {
			missing = append(missing, tok)
			continue
		}
		pairs = append(pairs, tok, val)
	}
	if len(missing) > 0 {
		return "", &MissingValueError{Source: t.Source, Tokens: missing}
	}
	return strings.NewReplacer(pairs...).Replace(t.text), nil
}

// JobNameFor derives the scheduler job name from an input stem.
func JobNameFor(stem string) string { return "af2_" + stem }

// ScriptName is the rendered script's file name inside the job directory.
func ScriptName(stem string) string { return "run_" + stem + ".sh" }

// Write stores a rendered script in dir and returns its path.
func Write(dir, stem, rendered string) (string, error) {
	p := filepath.Join(dir, ScriptName(stem))
	if err := fsutil.WriteFileAtomic(p, []byte(rendered), 0o755); err != nil {
		return "", err
	}
	return p, nil
}

// LookupUser resolves the submitting identity from USER, then LOGNAME.
// lookup is normally os.LookupEnv.
func LookupUser(lookup func(string) (string, bool)) (string, error) {
	for _, k := range []string{"USER", "LOGNAME"} {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), nil
		}
	}
	return "", ErrNoIdentity
}
