package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds the documents selected by opts. Paths naming files are
// taken as given when their extension matches; directories are walked.
// Hidden entries, rendered outputs and the output directory are skipped.
// The result holds absolute paths, sorted and without duplicates.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		opts:       opts,
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		seen:       make(map[string]struct{}),
	}
	if opts.OutputDir != "" {
		d.outputDir = absUnder(workDir, opts.OutputDir)
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		abs := absUnder(workDir, input)
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			d.consider(abs)
			continue
		}
		if err := d.walk(ctx, abs); err != nil {
			return nil, err
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// resolveWorkDir returns workDir as an absolute path, defaulting to the
// process working directory.
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

func absUnder(workDir, p string) string {
	if !filepath.IsAbs(p) {
		p = filepath.Join(workDir, p)
	}
	return filepath.Clean(p)
}

type discoverer struct {
	opts       Options
	workDir    string
	outputDir  string
	extensions []string
	seen       map[string]struct{}
	files      []string
}

// walk collects the documents below root.
func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || p == d.outputDir || d.excluded(d.rel(p)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.symlink(ctx, p)
		}

		d.consider(p)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// symlink follows a link found while walking. Broken links are ignored;
// directory links are walked only with FollowSymlinks.
func (d *discoverer) symlink(ctx context.Context, p string) error {
	target, err := filepath.EvalSymlinks(p)
	if err != nil {
		return nil //nolint:nilerr // broken symlinks are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}
	if !info.IsDir() {
		d.consider(p)
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	// Walking the target keeps WalkDir from seeing the link again.
	return d.walk(ctx, target)
}

// consider records p when it passes the extension and glob filters.
func (d *discoverer) consider(p string) {
	if _, ok := d.seen[p]; ok {
		return
	}
	if !d.selected(p) {
		return
	}
	d.seen[p] = struct{}{}
	d.files = append(d.files, p)
}

func (d *discoverer) selected(p string) bool {
	if strings.HasSuffix(strings.ToLower(p), outputSuffix) {
		return false
	}
	if !slices.Contains(d.extensions, strings.ToLower(filepath.Ext(p))) {
		return false
	}

	rel := d.rel(p)
	if d.excluded(rel) {
		return false
	}
	if len(d.opts.IncludeGlobs) == 0 {
		return true
	}
	return slices.ContainsFunc(d.opts.IncludeGlobs, func(pattern string) bool {
		return matchGlob(rel, pattern)
	})
}

func (d *discoverer) excluded(rel string) bool {
	return slices.ContainsFunc(d.opts.ExcludeGlobs, func(pattern string) bool {
		return matchGlob(rel, pattern)
	})
}

func (d *discoverer) rel(p string) string {
	rel, err := filepath.Rel(d.workDir, p)
	if err != nil {
		return p
	}
	return rel
}

// matchGlob reports whether the slash-separated form of rel matches
// pattern. A "**" segment matches any number of segments. A pattern
// without a slash is also tried against the base name.
func matchGlob(rel, pattern string) bool {
	rel = filepath.ToSlash(rel)
	pattern = filepath.ToSlash(pattern)

	if matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/")) {
		return true
	}
	if !strings.Contains(pattern, "/") {
		ok, err := path.Match(pattern, path.Base(rel))
		return err == nil && ok
	}
	return false
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], parts[0])
		if err != nil || !ok {
			return false
		}
		parts, pattern = parts[1:], pattern[1:]
	}
	return len(parts) == 0
}
