package version

import (
	"runtime/debug"
	"testing"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	prev := readBuildInfo
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	t.Cleanup(func() { readBuildInfo = prev })
}

func stubLdflags(t *testing.T, v, c, b string) {
	t.Helper()
	pv, pc, pb := Version, Commit, BuildTime
	Version, Commit, BuildTime = v, c, b
	t.Cleanup(func() { Version, Commit, BuildTime = pv, pc, pb })
}

func TestResolveLdflagsWin(t *testing.T) {
	stubLdflags(t, "v1.2.0", "0123456789abcdef", "2024-05-01")
	stubBuildInfo(t, &debug.BuildInfo{
		Main:     debug.Module{Version: "v0.0.1"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffff"}},
	})

	info := Resolve()
	if info.Version != "v1.2.0" || info.Commit != "0123456789abcdef" || info.BuildTime != "2024-05-01" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if got := String(); got != "v1.2.0 (0123456789ab)" {
		t.Fatalf("String got %q", got)
	}
}

func TestResolveBuildInfoFallback(t *testing.T) {
	stubLdflags(t, "", "", "")
	stubBuildInfo(t, &debug.BuildInfo{
		Main: debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "abc123"},
			{Key: "vcs.time", Value: "2024-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	})

	info := Resolve()
	if info.Version != "dev" {
		t.Fatalf("version got %q want dev", info.Version)
	}
	if info.BuildTime != "2024-01-02T03:04:05Z" {
		t.Fatalf("build time got %q", info.BuildTime)
	}
	if got := String(); got != "dev (abc123-dirty)" {
		t.Fatalf("String got %q", got)
	}
}

func TestResolveNoBuildInfo(t *testing.T) {
	stubLdflags(t, "", "", "")
	stubBuildInfo(t, nil)

	if got := String(); got != "dev" {
		t.Fatalf("String got %q want dev", got)
	}
}
