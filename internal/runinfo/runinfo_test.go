package runinfo

import "testing"

func clearCI(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_ACTIONS", "GITHUB_REPOSITORY", "GITHUB_HEAD_REF", "GITHUB_REF_NAME",
		"GITHUB_SHA", "GITHUB_RUN_ID", "GITHUB_ACTOR", "GITHUB_SERVER_URL",
		"CI", "CI_PROJECT_PATH", "CI_COMMIT_REF_NAME", "CI_COMMIT_SHA",
		"CI_PIPELINE_ID", "CI_JOB_URL", "BUILD_REPOSITORY_NAME", "BRANCH_NAME",
		"GIT_BRANCH", "GIT_COMMIT", "BUILD_ID", "BUILD_URL",
		"BANKGEN_CI", "BANKGEN_CI_PROVIDER", "BANKGEN_CI_REPOSITORY",
		"BANKGEN_CI_BRANCH", "BANKGEN_CI_COMMIT", "BANKGEN_CI_RUN_ID",
		"BANKGEN_CI_ACTOR", "BANKGEN_CI_BUILD_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvOutsideCI(t *testing.T) {
	clearCI(t)
	if info := FromEnv(); info != nil {
		t.Fatalf("expected nil outside CI, got %+v", info)
	}
}

func TestFromEnvGitHubActions(t *testing.T) {
	clearCI(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/bankgen")
	t.Setenv("GITHUB_REF_NAME", "main")
	t.Setenv("GITHUB_SHA", "abc123")
	t.Setenv("GITHUB_RUN_ID", "99")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected info in CI")
	}
	if !info.CI || info.Provider != "github_actions" {
		t.Fatalf("info=%+v", info)
	}
	if info.Repository != "acme/bankgen" || info.Branch != "main" || info.Commit != "abc123" {
		t.Fatalf("info=%+v", info)
	}
	if info.BuildURL != "https://github.com/acme/bankgen/actions/runs/99" {
		t.Fatalf("build url=%q", info.BuildURL)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	clearCI(t)
	t.Setenv("GITHUB_ACTIONS", "true")
	t.Setenv("GITHUB_REPOSITORY", "acme/bankgen")
	t.Setenv("BANKGEN_CI_REPOSITORY", "acme/other")
	t.Setenv("BANKGEN_CI_BRANCH", "refs/heads/release")

	info := FromEnv()
	if info == nil {
		t.Fatalf("expected info")
	}
	if info.Repository != "acme/other" {
		t.Fatalf("override ignored: %q", info.Repository)
	}
	if info.Branch != "release" {
		t.Fatalf("branch not normalized: %q", info.Branch)
	}
}
