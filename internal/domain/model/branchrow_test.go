package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatBuildTime(t *testing.T) {
	ts := time.Date(2026, 3, 1, 14, 5, 9, 0, time.UTC)

	assert.Equal(t, "2026-03-01 - 14:05:09", FormatBuildTime(ts, time.UTC))
	assert.Equal(t, "2026-03-01 - 15:05:09", FormatBuildTime(ts, time.FixedZone("CET", 3600)))
	assert.Equal(t, "-", FormatBuildTime(time.Time{}, time.UTC))
}

func TestBranchLabel(t *testing.T) {
	assert.Equal(t, "login", BranchLabel("refs/heads/feature/login"))
	assert.Equal(t, "login", BranchLabel("feature/login"))
	assert.Equal(t, "main", BranchLabel("main"))
	assert.Equal(t, "", BranchLabel("feature/"))
}

func TestBranchInfo_Match(t *testing.T) {
	info := BranchInfo{Branches: []string{"main", "feature/login", "fix/api", "chore/api"}}

	name, count := info.Match("login")
	assert.Equal(t, "feature/login", name)
	assert.Equal(t, 1, count)

	name, count = info.Match("main")
	assert.Equal(t, "main", name)
	assert.Equal(t, 1, count)

	_, count = info.Match("api")
	assert.Equal(t, 2, count)

	_, count = info.Match("gone")
	assert.Equal(t, 0, count)
}
