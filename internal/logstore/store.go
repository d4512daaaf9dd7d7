// Package logstore uploads run logs to a remote object store.
package logstore

import (
	"context"
	"fmt"
	"strings"
)

// Scheme names recognised in remote locations.
const (
	SchemeFile  = "file"
	SchemeS3    = "s3"
	SchemeHTTP  = "http"
	SchemeHTTPS = "https"
)

// RemoteLogName is the object name of the uploaded Nextflow log.
const RemoteLogName = "nextflow.log"

// Store uploads a local file to a remote location URI.
type Store interface {
	Upload(ctx context.Context, localPath, remote string) error
}

// RemotePath composes <base>/<pipelineID>/<executionName>/nextflow.log.
// Redundant slashes between base and segments are collapsed; the scheme
// separator of base is kept. pipelineID and executionName must each be a
// single path segment.
func RemotePath(base, pipelineID, executionName string) (string, error) {
	for _, seg := range []string{pipelineID, executionName} {
		if err := checkSegment(seg); err != nil {
			return "", err
		}
	}
	return JoinURL(base, pipelineID, executionName, RemoteLogName), nil
}

func checkSegment(seg string) error {
	switch {
	case seg == "", seg == ".", seg == "..":
		return fmt.Errorf("logstore: invalid path segment %q", seg)
	case strings.ContainsAny(seg, `/\`):
		return fmt.Errorf("logstore: path segment %q contains a separator", seg)
	}
	return nil
}

// JoinURL joins URL path segments with single slashes.
func JoinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		out += "/" + p
	}
	return out
}

// ParseLocation splits a location into scheme and the remainder after "://".
// Locations without a scheme are treated as local paths.
func ParseLocation(loc string) (scheme, rest string) {
	if i := strings.Index(loc, "://"); i > 0 {
		return strings.ToLower(loc[:i]), loc[i+3:]
	}
	return "", loc
}

// Composite routes uploads to scheme-specific stores.
type Composite struct {
	handlers map[string]Store
}

// NewComposite creates a Composite from scheme handlers.
func NewComposite(handlers map[string]Store) *Composite {
	return &Composite{handlers: handlers}
}

// Upload routes to the handler registered for the scheme of remote.
func (c *Composite) Upload(ctx context.Context, localPath, remote string) error {
	scheme, _ := ParseLocation(remote)
	if scheme == "" {
		scheme = SchemeFile
	}
	h, ok := c.handlers[scheme]
	if !ok {
		return fmt.Errorf("logstore: no store registered for scheme %q", scheme)
	}
	return h.Upload(ctx, localPath, remote)
}

// Supports reports whether a handler exists for the scheme of remote.
func (c *Composite) Supports(remote string) bool {
	scheme, _ := ParseLocation(remote)
	if scheme == "" {
		scheme = SchemeFile
	}
	_, ok := c.handlers[scheme]
	return ok
}
