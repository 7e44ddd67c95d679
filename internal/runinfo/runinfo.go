// Package runinfo collects CI metadata for run manifests, so a dataset
// archived from a pipeline run records where it was built.
package runinfo

import (
	"os"
	"strings"
)

// BasicInfo captures CI/run metadata for logs and run manifests.
type BasicInfo struct {
	CI         bool   `json:"ci,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Repository string `json:"repository,omitempty"`
	Branch     string `json:"branch,omitempty"`
	Commit     string `json:"commit,omitempty"`
	RunID      string `json:"run_id,omitempty"`
	Actor      string `json:"actor,omitempty"`
	BuildURL   string `json:"build_url,omitempty"`
}

// FromEnv builds run metadata from environment variables. Explicit
// BANKGEN_CI_* values take precedence over provider defaults. It returns nil
// outside CI when nothing is set.
func FromEnv() *BasicInfo {
	info := detectBase()
	applyOverrides(&info)
	if info == (BasicInfo{}) {
		return nil
	}
	if info.CI && info.Provider == "" {
		info.Provider = "generic"
	}
	return &info
}

func detectBase() BasicInfo {
	info := BasicInfo{}

	if isTruthy(env("GITHUB_ACTIONS")) {
		info.CI = true
		info.Provider = "github_actions"
		info.Repository = env("GITHUB_REPOSITORY")
		info.Branch = envFirst("GITHUB_HEAD_REF", "GITHUB_REF_NAME")
		info.Commit = env("GITHUB_SHA")
		info.RunID = env("GITHUB_RUN_ID")
		info.Actor = env("GITHUB_ACTOR")
		serverURL := env("GITHUB_SERVER_URL")
		if serverURL == "" {
			serverURL = "https://github.com"
		}
		if info.Repository != "" && info.RunID != "" {
			info.BuildURL = strings.TrimRight(serverURL, "/") + "/" + info.Repository + "/actions/runs/" + info.RunID
		}
		return info
	}

	if isTruthy(env("CI")) {
		info.CI = true
		info.Repository = envFirst("CI_PROJECT_PATH", "BUILD_REPOSITORY_NAME")
		info.Branch = envFirst("CI_COMMIT_REF_NAME", "BRANCH_NAME", "GIT_BRANCH")
		info.Commit = envFirst("CI_COMMIT_SHA", "GIT_COMMIT")
		info.RunID = envFirst("CI_PIPELINE_ID", "BUILD_ID")
		info.BuildURL = envFirst("CI_JOB_URL", "BUILD_URL")
	}
	return info
}

func applyOverrides(info *BasicInfo) {
	setFromEnv(&info.Provider, "BANKGEN_CI_PROVIDER")
	setFromEnv(&info.Repository, "BANKGEN_CI_REPOSITORY")
	setFromEnv(&info.Branch, "BANKGEN_CI_BRANCH")
	setFromEnv(&info.Commit, "BANKGEN_CI_COMMIT")
	setFromEnv(&info.RunID, "BANKGEN_CI_RUN_ID")
	setFromEnv(&info.Actor, "BANKGEN_CI_ACTOR")
	setFromEnv(&info.BuildURL, "BANKGEN_CI_BUILD_URL")
	if v := env("BANKGEN_CI"); v != "" {
		info.CI = isTruthy(v)
	}
	info.Branch = strings.TrimPrefix(strings.TrimPrefix(info.Branch, "refs/heads/"), "origin/")
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envFirst(keys ...string) string {
	for _, key := range keys {
		if value := env(key); value != "" {
			return value
		}
	}
	return ""
}

func setFromEnv(dst *string, key string) {
	if value := env(key); value != "" {
		*dst = value
	}
}

func isTruthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
