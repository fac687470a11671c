// Package digest generates non-technical development reports from
// repository commits and delivers them to investors on a daily schedule,
// tracking progress with a persisted cursor.
package digest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v68/github"
)

// Truncation caps keeping commit analysis inside model token limits.
const (
	maxPatchPreview  = 500
	maxTotalAnalysis = 15000
)

// Commit is one repository commit, oldest-first ordering.
type Commit struct {
	SHA     string
	Author  string
	Message string
	URL     string
	Date    time.Time
}

// CommitDetail adds the formatted file-change analysis used for
// summarization.
type CommitDetail struct {
	Commit
	FilesAnalysis string
}

// Source lists commits and fetches change details.
type Source interface {
	ListCommits(ctx context.Context) ([]Commit, error)
	CommitDetail(ctx context.Context, sha string) (*CommitDetail, error)
}

// GitHubSource implements Source against the GitHub API.
type GitHubSource struct {
	client *github.Client
	owner  string
	repo   string
}

// NewGitHubSource creates a source for one repository. An empty token uses
// unauthenticated access (rate-limited, fine for public repos).
func NewGitHubSource(token, owner, repo string) *GitHubSource {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubSource{client: client, owner: owner, repo: repo}
}

// ListCommits returns the full commit history, oldest first, so the cursor
// walks forward through it.
func (s *GitHubSource) ListCommits(ctx context.Context) ([]Commit, error) {
	var all []Commit
	opts := &github.CommitsListOptions{ListOptions: github.ListOptions{PerPage: 100}}

	for {
		commits, resp, err := s.client.Repositories.ListCommits(ctx, s.owner, s.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("list commits for %s/%s: %w", s.owner, s.repo, err)
		}
		for _, rc := range commits {
			all = append(all, Commit{
				SHA:     rc.GetSHA(),
				Author:  rc.GetCommit().GetAuthor().GetName(),
				Message: rc.GetCommit().GetMessage(),
				URL:     rc.GetHTMLURL(),
				Date:    rc.GetCommit().GetAuthor().GetDate().Time,
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	// API returns newest first; reverse for sequential processing.
	for i, j := 0, len(all)-1; i < j; i, j = i+1, j-1 {
		all[i], all[j] = all[j], all[i]
	}
	return all, nil
}

// CommitDetail fetches one commit with truncated patch previews.
func (s *GitHubSource) CommitDetail(ctx context.Context, sha string) (*CommitDetail, error) {
	rc, _, err := s.client.Repositories.GetCommit(ctx, s.owner, s.repo, sha, nil)
	if err != nil {
		return nil, fmt.Errorf("get commit %s: %w", shortSHA(sha), err)
	}

	var files []string
	for _, f := range rc.Files {
		preview := f.GetPatch()
		if preview == "" {
			preview = "Binary or large file (no diff available)"
		} else if len(preview) > maxPatchPreview {
			preview = preview[:maxPatchPreview] + "\n... [truncated]"
		}
		files = append(files, fmt.Sprintf(
			"File: %s\nStatus: %s\nChanges: +%d -%d\nPatch Preview:\n%s\n---",
			f.GetFilename(), f.GetStatus(), f.GetAdditions(), f.GetDeletions(), preview))
	}

	analysis := strings.Join(files, "\n")
	if len(analysis) > maxTotalAnalysis {
		analysis = analysis[:maxTotalAnalysis] + "\n\n... [additional files truncated]"
	}

	return &CommitDetail{
		Commit: Commit{
			SHA:     rc.GetSHA(),
			Author:  rc.GetCommit().GetAuthor().GetName(),
			Message: rc.GetCommit().GetMessage(),
			URL:     rc.GetHTMLURL(),
			Date:    rc.GetCommit().GetAuthor().GetDate().Time,
		},
		FilesAnalysis: analysis,
	}, nil
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
