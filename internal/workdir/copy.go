// Package workdir materializes the pipeline working directory from a template
// tree.
package workdir

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
)

// DefaultExclude lists entry names never copied from the template: platform
// caches, previous run artifacts and environment manager directories.
var DefaultExclude = []string{
	"latch",
	".latch",
	"nextflow",
	".nextflow",
	"work",
	"results",
	"miniconda",
	"anaconda3",
	"mambaforge",
}

// Stats summarizes a copy.
type Stats struct {
	Files    int
	Dirs     int
	Excluded int
	Dangling int
	Bytes    int64
}

// Copy copies the tree under src into dst. Entries whose base name is in
// exclude are skipped at every depth, not only at the top level. Symlinks are
// followed; dangling and looping symlinks are skipped. dst may already exist: directories
// are reused and files are overwritten in place, so running Copy twice yields
// the same tree.
func Copy(src, dst string, exclude []string) (Stats, error) {
	c := &copier{
		exclude: make(map[string]struct{}, len(exclude)),
		visited: make(map[string]struct{}),
	}
	for _, name := range exclude {
		c.exclude[name] = struct{}{}
	}

	info, err := os.Stat(src)
	if err != nil {
		return c.stats, fmt.Errorf("template: %w", err)
	}
	if !info.IsDir() {
		return c.stats, fmt.Errorf("template %s is not a directory", src)
	}
	if err := c.copyDir(src, dst, info); err != nil {
		return c.stats, err
	}
	return c.stats, nil
}

type copier struct {
	exclude map[string]struct{}
	visited map[string]struct{} // resolved directories, guards symlink cycles
	stats   Stats
}

func (c *copier) excluded(name string) bool {
	_, ok := c.exclude[name]
	return ok
}

// copyDir recursively copies a directory tree with write permissions.
func (c *copier) copyDir(src, dst string, srcInfo fs.FileInfo) error {
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", src, err)
	}
	if _, seen := c.visited[resolved]; seen {
		return nil
	}
	c.visited[resolved] = struct{}{}
	defer delete(c.visited, resolved)

	if err := os.MkdirAll(dst, srcInfo.Mode().Perm()|0o700); err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	c.stats.Dirs++

	entries, err := os.ReadDir(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	for _, entry := range entries {
		if c.excluded(entry.Name()) {
			c.stats.Excluded++
			continue
		}
		srcPath := filepath.Join(src, entry.Name())
		dstPath := filepath.Join(dst, entry.Name())

		// Stat follows symlinks.
		info, err := os.Stat(srcPath)
		if err != nil {
			if entry.Type()&fs.ModeSymlink != 0 && unresolvable(err) {
				c.stats.Dangling++
				continue
			}
			return err
		}

		switch {
		case info.IsDir():
			if err := c.copyDir(srcPath, dstPath, info); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if err := c.copyFile(srcPath, dstPath, info); err != nil {
				return err
			}
		default:
			// Sockets, devices and pipes have no place in a working directory.
			c.stats.Excluded++
		}
	}
	return nil
}

// unresolvable reports whether a symlink target cannot be reached: it is
// missing or the chain loops.
func unresolvable(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ELOOP)
}

// copyFile copies one regular file, preserving its mode and mtime.
func (c *copier) copyFile(src, dst string, info fs.FileInfo) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	// A previous copy may have left a symlink or directory here.
	if existing, err := os.Lstat(dst); err == nil {
		switch {
		case !existing.Mode().IsRegular():
			if err := os.RemoveAll(dst); err != nil {
				return fmt.Errorf("replace %s: %w", dst, err)
			}
		case existing.Mode().Perm()&0o200 == 0:
			if err := os.Chmod(dst, existing.Mode().Perm()|0o200); err != nil {
				return fmt.Errorf("chmod %s: %w", dst, err)
			}
		}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm()|0o200)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	n, err := io.Copy(out, in)
	if closeErr := out.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod %s: %w", dst, err)
	}
	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return fmt.Errorf("chtimes %s: %w", dst, err)
	}

	c.stats.Files++
	c.stats.Bytes += n
	return nil
}
