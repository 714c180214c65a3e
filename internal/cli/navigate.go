package cli

import (
	"log"
	"strings"

	"github.com/pathkv/hierodb"
)

// openRoot opens opts.DBPath and returns the named table's root handle
// plus the *hierodb.DB the caller must Close.
func openRoot(opts *RootOptions) (*hierodb.DB, *hierodb.Handle, error) {
	if opts.DBPath == "" {
		return nil, nil, NewExitError(ExitCommandError, "--db is required")
	}

	logf := func(string, ...any) {}
	if opts.Verbose {
		logf = log.New(log.Writer(), "hierodb: ", 0).Printf
	}

	db, err := hierodb.Open(hierodb.Options{Path: opts.DBPath, Logf: logf})
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "open database", err)
	}

	root, err := db.Table(opts.Table)
	if err != nil {
		db.Close()
		return nil, nil, WrapExitError(ExitCommandError, "open table", err)
	}
	return db, root, nil
}

// splitPath splits a dot-separated CLI path argument ("a.b.2") into
// its segments. An empty string yields no segments (the root itself).
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// resolveParent walks all but the last segment of path from root,
// returning the parent handle and the final segment key. segments
// must contain at least one element.
func resolveParent(root *hierodb.Handle, segments []string) (*hierodb.Handle, string, error) {
	h, err := resolveHandle(root, segments[:len(segments)-1])
	if err != nil {
		return nil, "", err
	}
	return h, segments[len(segments)-1], nil
}

// resolveHandle walks every segment of path from root, returning the
// handle found there. An empty path returns root itself.
func resolveHandle(root *hierodb.Handle, segments []string) (*hierodb.Handle, error) {
	h := root
	for _, seg := range segments {
		res, err := h.Get(seg)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "navigate to "+seg, err)
		}
		if res.Absent {
			return nil, NewExitError(ExitFailure, "no value at "+seg)
		}
		if res.Handle == nil {
			return nil, NewExitError(ExitCommandError, seg+" is a scalar, not a composite")
		}
		h = res.Handle
	}
	return h, nil
}
