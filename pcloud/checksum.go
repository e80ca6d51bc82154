package pcloud

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
)

// Region identifies one pCloud data region. Regions answer checksumfile
// with different digest sets: the US region returns SHA-1 and MD5, the EU
// region SHA-1 and SHA-256.
type Region int

const (
	RegionUnknown Region = iota
	RegionUS
	RegionEU
)

func (r Region) String() string {
	switch r {
	case RegionUS:
		return "US"
	case RegionEU:
		return "EU"
	default:
		return "unknown"
	}
}

// Checksum algorithm names as used in ChecksumSet keys.
const (
	AlgoSHA1   = "sha1"
	AlgoMD5    = "md5"
	AlgoSHA256 = "sha256"
)

// HostRegion derives the data region from an API host URL. Hosts outside
// the two documented endpoints map to RegionUnknown.
func HostRegion(host string) Region {
	switch {
	case strings.Contains(host, "eapi.pcloud.com"):
		return RegionEU
	case strings.Contains(host, "api.pcloud.com"):
		return RegionUS
	default:
		return RegionUnknown
	}
}

// ChecksumAlgorithms lists the digests the given region is known to return.
// RegionUnknown yields only SHA-1, the one digest every region serves.
func ChecksumAlgorithms(r Region) []string {
	switch r {
	case RegionUS:
		return []string{AlgoSHA1, AlgoMD5}
	case RegionEU:
		return []string{AlgoSHA1, AlgoSHA256}
	default:
		return []string{AlgoSHA1}
	}
}

// Region reports the data region of this client's API host.
func (c *Client) Region() Region {
	return HostRegion(c.apiHost)
}

// ChecksumSet maps lower-case algorithm names to lower-case hex digests.
type ChecksumSet map[string]string

// Checksums collects the digests present in the response into a set keyed
// by algorithm name. Absent digests are omitted, so a set from one region
// can be compared against a set from another.
func (f *FileChecksums) Checksums() ChecksumSet {
	set := ChecksumSet{}

	if f.SHA1 != "" {
		set[AlgoSHA1] = strings.ToLower(f.SHA1)
	}

	if f.MD5 != "" {
		set[AlgoMD5] = strings.ToLower(f.MD5)
	}

	if f.SHA256 != "" {
		set[AlgoSHA256] = strings.ToLower(f.SHA256)
	}

	return set
}

// ValidateChecksum compares a server-reported digest set against locally
// computed (or otherwise expected) digests. Only algorithms present in both
// sets are compared; any disagreement, or an empty intersection, is an
// ErrIntegrity. Comparison is case-insensitive.
func ValidateChecksum(got, want ChecksumSet) error {
	compared := 0

	for algo, wantSum := range want {
		gotSum, ok := got[algo]
		if !ok {
			continue
		}

		compared++

		if !strings.EqualFold(gotSum, wantSum) {
			return fmt.Errorf("pcloud: %s digest mismatch: got %s, want %s: %w",
				algo, gotSum, wantSum, ErrIntegrity)
		}
	}

	if compared == 0 {
		return fmt.Errorf("pcloud: no common checksum algorithm to compare: %w", ErrIntegrity)
	}

	return nil
}

// ChecksumBuilder prepares a checksumfile request.
type ChecksumBuilder struct {
	c        *Client
	file     File
	revision uint64
}

// ChecksumFile starts building a request for the server-side digests of the
// given file. Which digests come back depends on the client's Region.
func (c *Client) ChecksumFile(file File) *ChecksumBuilder {
	return &ChecksumBuilder{c: c, file: file}
}

// WithRevision requests digests of a specific stored revision.
func (b *ChecksumBuilder) WithRevision(id uint64) *ChecksumBuilder {
	b.revision = id

	return b
}

// Get fetches the digests.
func (b *ChecksumBuilder) Get(ctx context.Context) (*FileChecksums, error) {
	q := url.Values{}
	b.file.addTo(q)

	if b.revision != 0 {
		q.Set("revisionid", strconv.FormatUint(b.revision, 10))
	}

	b.c.logger.Debug("requesting checksums",
		slog.String("file", b.file.String()),
	)

	var sums FileChecksums
	if err := b.c.getJSON(ctx, "checksumfile", q, &sums); err != nil {
		return nil, err
	}

	return &sums, nil
}
