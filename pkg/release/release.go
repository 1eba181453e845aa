// Package release resolves which published release tag to install.
package release

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/apex/log"
	"github.com/google/go-github/v60/github"
	"github.com/pkg/errors"
)

// Request describes how the caller wants the tag resolved. ExplicitVersion
// always wins over IncludePrerelease.
type Request struct {
	ExplicitVersion   string
	IncludePrerelease bool
}

// Resolver answers release-tag queries against the GitHub API.
type Resolver struct {
	client *github.Client
	owner  string
	name   string
}

// NewResolver creates a resolver for the given owner/name repository.
// httpClient may be nil for the default transport.
func NewResolver(repo string, httpClient *http.Client) (*Resolver, error) {
	parts := strings.SplitN(repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository format: %s", repo)
	}
	return &Resolver{
		client: github.NewClient(httpClient),
		owner:  parts[0],
		name:   parts[1],
	}, nil
}

// Resolve returns the tag to install. An explicit version is returned
// verbatim with no network call; existence is discovered later when the
// download is attempted.
func (r *Resolver) Resolve(ctx context.Context, req Request) (string, error) {
	if req.ExplicitVersion != "" {
		log.Debugf("using pinned version %s", req.ExplicitVersion)
		return req.ExplicitVersion, nil
	}
	if req.IncludePrerelease {
		return r.newestIncludingPrerelease(ctx)
	}
	return r.latestStable(ctx)
}

// latestStable queries the latest-release endpoint, which excludes
// pre-releases and drafts by provider convention. It never consults the
// full release index.
func (r *Resolver) latestStable(ctx context.Context) (string, error) {
	log.Debug("querying latest stable release")
	rel, resp, err := r.client.Repositories.GetLatestRelease(ctx, r.owner, r.name)
	if err != nil {
		// 404 from this endpoint means the repository has no stable
		// release, not a transport failure.
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", r.noReleaseErr(false)
		}
		return "", errors.Wrap(err, "failed to fetch latest release")
	}
	tag := rel.GetTagName()
	if tag == "" {
		return "", r.noReleaseErr(false)
	}
	return tag, nil
}

// newestIncludingPrerelease takes the first entry of the release index in
// provider order (newest first); it does not re-sort.
func (r *Resolver) newestIncludingPrerelease(ctx context.Context) (string, error) {
	log.Debug("querying release index including pre-releases")
	releases, _, err := r.client.Repositories.ListReleases(ctx, r.owner, r.name, &github.ListOptions{
		PerPage: 1,
	})
	if err != nil {
		return "", errors.Wrap(err, "failed to list releases")
	}
	if len(releases) == 0 || releases[0].GetTagName() == "" {
		return "", r.noReleaseErr(true)
	}
	return releases[0].GetTagName(), nil
}

// noReleaseErr builds the terminal no-release error. The hint toward --pre
// or an explicit version is omitted when pre-releases were already
// requested, where it would only mislead.
func (r *Resolver) noReleaseErr(includedPrerelease bool) error {
	msg := fmt.Sprintf("no release found for %s/%s", r.owner, r.name)
	if !includedPrerelease {
		msg += "; retry with --pre or pin a tag with --version"
	}
	return errors.New(msg)
}
