package packager

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/repokit/repokit/internal/errs"
)

// readerWithContext stops a copy once ctx is done.
type readerWithContext struct {
	ctx context.Context
	r   io.Reader
}

func (r *readerWithContext) Read(p []byte) (int, error) {
	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	default:
		return r.r.Read(p)
	}
}

// CopyFile copies the regular file src to dst and gives dst the source's
// permission bits, access time and modification time. Returns the number of bytes copied.
func CopyFile(ctx context.Context, src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, errs.FileSystem("copy", src, err)
	}
	if !info.Mode().IsRegular() {
		return 0, errs.FileSystem("copy", src, fmt.Errorf("not a regular file"))
	}

	n, err := copyContents(ctx, src, dst)
	if err != nil {
		return n, errs.FileSystem("copy", src, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return n, errs.FileSystem("chmod", dst, err)
	}
	if err := os.Chtimes(dst, accessTime(info), info.ModTime()); err != nil {
		return n, errs.FileSystem("chtimes", dst, err)
	}
	return n, nil
}

func copyContents(ctx context.Context, src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, &readerWithContext{ctx: ctx, r: in})
	if err != nil {
		out.Close()
		return n, fmt.Errorf("cannot read/write file content: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		return n, err
	}
	return n, out.Close()
}

// Copy copies every mapping in order, calling progress before each file.
// The first failure aborts the batch; files already copied stay in place.
func Copy(ctx context.Context, mappings []Mapping, progress func(i, total int, m Mapping)) (int64, error) {
	var total int64
	for i, m := range mappings {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		if progress != nil {
			progress(i+1, len(mappings), m)
		}
		n, err := CopyFile(ctx, m.Src, m.Dst)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
