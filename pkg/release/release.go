// Package release talks to the GitHub releases API and selects the
// asset matching the resolved host platform.
package release

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v60/github"
	"github.com/pkg/errors"

	"github.com/TomBedinoVT/dockerops-manager/pkg/config"
	"github.com/TomBedinoVT/dockerops-manager/pkg/httpclient"
	"github.com/TomBedinoVT/dockerops-manager/pkg/platform"
)

// Asset is a single downloadable file attached to a release.
type Asset struct {
	Name string
	URL  string
}

// Release is a tagged, published version of the product.
type Release struct {
	Tag    string
	Assets []Asset
}

// Client fetches release metadata for the product repository.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithBaseURL points the client at an alternate API endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		u, err := url.Parse(base)
		if err != nil {
			return
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		c.gh.BaseURL = u
	}
}

// NewClient creates a release client for the configured repository.
// Requests go through the identifying-header transport; the API is
// public and no token is attached.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	c := &Client{
		gh:    github.NewClient(httpclient.New()),
		owner: cfg.RepoOwner,
		repo:  cfg.RepoName,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Latest fetches the most recent published release.
func (c *Client) Latest(ctx context.Context) (*Release, error) {
	rel, _, err := c.gh.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch latest release of %s/%s", c.owner, c.repo)
	}
	return convert(rel), nil
}

// ByTag fetches the release published under an exact tag.
func (c *Client) ByTag(ctx context.Context, tag string) (*Release, error) {
	rel, _, err := c.gh.Repositories.GetReleaseByTag(ctx, c.owner, c.repo, tag)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch release %s of %s/%s", tag, c.owner, c.repo)
	}
	return convert(rel), nil
}

func convert(rel *github.RepositoryRelease) *Release {
	out := &Release{Tag: rel.GetTagName()}
	for _, a := range rel.Assets {
		out.Assets = append(out.Assets, Asset{
			Name: a.GetName(),
			URL:  a.GetBrowserDownloadURL(),
		})
	}
	return out
}

// SelectAsset picks the asset for the given platform. The first asset
// whose name contains "<product>-<os>-<arch>" wins; failing that, the
// first asset whose name contains the OS token. First match in listed
// order, no scoring. The returned error enumerates every asset name so
// the operator can see what the release actually shipped.
func SelectAsset(rel *Release, product string, p platform.Platform) (*Asset, error) {
	target := fmt.Sprintf("%s-%s-%s", product, p.OS, p.Arch)

	for i := range rel.Assets {
		if strings.Contains(rel.Assets[i].Name, target) {
			return &rel.Assets[i], nil
		}
	}

	// Fallback: any asset built for this OS
	for i := range rel.Assets {
		if strings.Contains(rel.Assets[i].Name, p.OS) {
			return &rel.Assets[i], nil
		}
	}

	names := make([]string, len(rel.Assets))
	for i, a := range rel.Assets {
		names[i] = a.Name
	}
	return nil, fmt.Errorf("no suitable asset found for %s; available assets: %s",
		p, strings.Join(names, ", "))
}

// FindChecksumAsset returns the release's checksum manifest if it ships
// one, or nil. Manifests are named like "checksums.txt" or
// "<product>_checksums.txt".
func FindChecksumAsset(rel *Release) *Asset {
	for i := range rel.Assets {
		name := strings.ToLower(rel.Assets[i].Name)
		if strings.Contains(name, "checksums") && strings.HasSuffix(name, ".txt") {
			return &rel.Assets[i]
		}
	}
	return nil
}
