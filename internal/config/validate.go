package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/repokit/repokit/internal/output"
	"github.com/repokit/repokit/internal/scanner"
)

// Validate checks the ghlinks configuration for unusable values.
func (c *LinksConfig) Validate() error {
	var problems []error

	if !strings.HasPrefix(c.Host, "http://") && !strings.HasPrefix(c.Host, "https://") {
		problems = append(problems, fmt.Errorf("host %q must start with http:// or https://", c.Host))
	}
	if c.Username == "" {
		problems = append(problems, errors.New("username is empty"))
	}
	if err := validateSuffixes(c.Suffixes); err != nil {
		problems = append(problems, err)
	}
	if c.Format != "" && !output.IsValidFormat(c.Format) {
		problems = append(problems, fmt.Errorf("format %q is not one of %s",
			c.Format, strings.Join(output.ValidFormats(), ", ")))
	}

	return errors.Join(problems...)
}

// Validate checks the pkgfiles configuration for unusable values.
// Filesystem state (existence of roots) is checked later by the packager.
func (c *PackageConfig) Validate() error {
	var problems []error

	if c.SrcRoot == "" {
		problems = append(problems, errors.New("src_root is empty"))
	}
	if c.DstRoot == "" {
		problems = append(problems, errors.New("dst_root is empty"))
	}
	for _, d := range c.SubDirs {
		if d != "" && !filepath.IsLocal(filepath.Clean(d)) {
			problems = append(problems, fmt.Errorf("sub_dirs entry %q must be a relative path inside src_root", d))
		}
	}
	if err := validateSuffixes(c.Suffixes); err != nil {
		problems = append(problems, err)
	}
	if _, err := scanner.ParseSymlinkPolicy(c.Symlinks); err != nil {
		problems = append(problems, err)
	}

	return errors.Join(problems...)
}

func validateSuffixes(suffixes []string) error {
	for i, s := range suffixes {
		if s == "" {
			return fmt.Errorf("suffixes[%d] is empty", i)
		}
	}
	return nil
}
