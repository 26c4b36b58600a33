package driver

import (
	"lavish/internal/project"
	"lavish/internal/source"
	"lavish/schema"
)

// unitDigest identifies a compilation unit for the schema cache:
// H( format || version || path1 || hash1 || path2 || hash2 ... ).
// ids must already be in deterministic order.
func unitDigest(fs *source.FileSet, ids []source.FileID, compilerVersion string) project.Digest {
	parts := make([]project.Digest, 0, 1+2*len(ids))
	parts = append(parts, project.StringDigest(compilerVersion))
	for _, id := range ids {
		f := fs.Get(id)
		parts = append(parts, project.StringDigest(f.Path), project.Digest(f.Hash))
	}
	var format project.Digest
	format[0], format[1] = byte(cacheFormatVersion>>8), byte(cacheFormatVersion)
	format[2], format[3] = byte(schema.DocumentVersion>>8), byte(schema.DocumentVersion)
	return project.Combine(format, parts...)
}
