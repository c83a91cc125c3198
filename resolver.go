package golp

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/lprolog/golp/syntax"
)

// fileResolver loads accumulated and imported files for a session.
// Relative names resolve against the directory of the file currently
// being parsed, a name without an extension tries ".elpi" and falls back
// to the legacy ".mod", and an adjacent ".sig" signature file is parsed
// first when present. Files are memoized by durable identity, so cyclic
// or diamond-shaped accumulate graphs load each file exactly once and
// later requests are silently skipped.
type fileResolver struct {
	session *syntax.Session
	dir     string
	loaded  []os.FileInfo
}

func newFileResolver(s *syntax.Session, dir string) *fileResolver {
	return &fileResolver{session: s, dir: dir}
}

// Resolve implements syntax.Resolver: the concatenation, in argument
// order, of the named files' clauses.
func (r *fileResolver) Resolve(names []string) ([]syntax.Term, error) {
	var clauses []syntax.Term
	for _, name := range names {
		cs, err := r.load(name)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, cs...)
	}
	return clauses, nil
}

func (r *fileResolver) load(name string) ([]syntax.Term, error) {
	path, err := r.locate(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("accumulate %s: %w", name, err)
	}
	if r.seen(info) {
		logrus.WithField("file", path).Debug("already loaded, skipping")
		return nil, nil
	}
	r.loaded = append(r.loaded, info)

	// A signature file contributes declarations, never clauses.
	if sig := sigPath(path); sig != "" {
		if _, err := os.Stat(sig); err == nil {
			if _, err := r.parse(sig); err != nil {
				return nil, err
			}
		}
	}
	return r.parse(path)
}

// locate resolves name against the current file's directory and picks the
// extension, following symlinks so identity survives aliased paths.
func (r *fileResolver) locate(name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = filepath.Join(r.dir, name)
	}
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = []string{name + ".elpi", name + ".mod"}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			if resolved, err := filepath.EvalSymlinks(c); err == nil {
				return resolved, nil
			}
			return c, nil
		}
	}
	return "", fmt.Errorf("cannot resolve %s (tried %v)", name, candidates)
}

func (r *fileResolver) seen(info os.FileInfo) bool {
	for _, l := range r.loaded {
		if os.SameFile(l, info) {
			return true
		}
	}
	return false
}

func sigPath(path string) string {
	ext := filepath.Ext(path)
	if ext == ".sig" {
		return ""
	}
	return path[:len(path)-len(ext)] + ".sig"
}

// parse reads one file with the shared session. While the file is open,
// relative accumulates resolve against its directory.
func (r *fileResolver) parse(path string) ([]syntax.Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	logrus.WithField("file", path).Debug("loading")

	saved := r.dir
	r.dir = filepath.Dir(path)
	defer func() { r.dir = saved }()

	p := syntax.NewParser(r.session, bufio.NewReader(f))
	clauses, err := p.Program()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return clauses, nil
}
