package acquire

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"

	"github.com/codegraphlabs/semcore/parse"
)

// Limits bounds what discover() will read, per spec.md §4.1 ("Skips
// binary files and files exceeding a configurable byte limit").
type Limits struct {
	MaxFileBytes int64
}

// DefaultLimits matches the teacher's posture of sane, explicit defaults
// rather than unbounded reads.
func DefaultLimits() Limits {
	return Limits{MaxFileBytes: 4 * 1024 * 1024}
}

// Discoverer enumerates a repository's files into SourceFiles. It is
// grounded on the teacher's afs-based directory walk
// (analyzer/package.go's analyzePackages), generalized from "walk and
// group into packages" to "walk and classify every file".
type Discoverer struct {
	fs     afs.Service
	limits Limits
}

func NewDiscoverer(limits Limits) *Discoverer {
	return &Discoverer{fs: afs.New(), limits: limits}
}

// Discover walks repoPath and returns one SourceFile per regular file,
// applying language detection and content hashing. Unknown languages are
// still returned (language == parse.Unknown) so callers can record and
// skip them per spec.md §4.1 failure semantics.
func (d *Discoverer) Discover(ctx context.Context, repoID, snapshotID, repoPath string) ([]*SourceFile, error) {
	var files []*SourceFile
	var walkErr error
	visitor := storage.OnVisit(func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		if info.IsDir() {
			if info.Name() == "vendor" || info.Name() == "node_modules" || info.Name() == ".git" {
				return false, nil
			}
			return true, nil
		}
		loc := url.Join(baseURL, parent, info.Name())
		content, err := d.fs.DownloadWithURL(ctx, loc)
		if err != nil {
			walkErr = err
			return false, err
		}
		sf := &SourceFile{
			RepoID:     repoID,
			SnapshotID: snapshotID,
			FilePath:   loc,
		}
		if int64(len(content)) > d.limits.MaxFileBytes {
			sf.Skipped = true
			sf.SkipReason = "exceeds byte limit"
			files = append(files, sf)
			return true, nil
		}
		if parse.IsBinary(content) {
			sf.Skipped = true
			sf.SkipReason = "binary content"
			files = append(files, sf)
			return true, nil
		}
		sf.Language = parse.DetectLanguage(loc, content)
		sf.Bytes = content
		sf.ContentHash = hashContent(content)
		files = append(files, sf)
		return true, nil
	})
	if err := d.fs.Walk(ctx, repoPath, visitor); err != nil {
		return nil, err
	}
	if walkErr != nil {
		return nil, walkErr
	}
	return files, nil
}

func hashContent(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}
