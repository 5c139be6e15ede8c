package sources

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copywatch/copywatch"
	"github.com/copywatch/copywatch/scan"
)

const samplePatch = `From 1b6e3c2d4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c Mon Sep 17 00:00:00 2001
From: Jane Doe <jane@example.com>
Date: Tue, 1 Apr 2025 10:00:00 +0000
Subject: [PATCH] add license header

Pulled in the upstream notice verbatim.
---
 notice.txt | 2 ++
 1 file changed, 2 insertions(+)

diff --git a/notice.txt b/notice.txt
new file mode 100644
index 0000000..5ad28e2
--- /dev/null
+++ b/notice.txt
@@ -0,0 +1,2 @@
+MIT License
+Copyright (c) 2020 Jane Doe
`

func collectPatchTargets(t *testing.T, p *Patch) []scan.Target {
	t.Helper()
	var targets []scan.Target
	err := p.Targets(context.Background(), func(target scan.Target) error {
		targets = append(targets, target)
		return nil
	})
	require.NoError(t, err)
	return targets
}

func readTarget(t *testing.T, target scan.Target) string {
	t.Helper()
	rc, err := target.Open(context.Background())
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	return string(data)
}

func TestPatchTargets(t *testing.T) {
	p := &Patch{Reader: strings.NewReader(samplePatch), ScanCommitMessage: true}
	targets := collectPatchTargets(t, p)
	require.Len(t, targets, 2)

	const sha = "1b6e3c2d4f5a6b7c8d9e0f1a2b3c4d5e6f7a8b9c"

	msg := targets[0]
	assert.Equal(t, sha+":commit-message", msg.Resource.Name)
	assert.Equal(t, "git", msg.Resource.Source)
	assert.Equal(t, "add license header\n\nPulled in the upstream notice verbatim.", readTarget(t, msg))

	file := targets[1]
	assert.Equal(t, sha+":notice.txt", file.Resource.Name)
	assert.Equal(t, "MIT License\nCopyright (c) 2020 Jane Doe\n", readTarget(t, file))
	assert.Equal(t, sha, file.Resource.Get(copywatch.MetaCommitSHA))
	assert.Equal(t, "Jane Doe", file.Resource.Get(copywatch.MetaAuthorName))
	assert.Equal(t, "jane@example.com", file.Resource.Get(copywatch.MetaAuthorEmail))
	assert.Equal(t, "notice.txt", file.Resource.Get(copywatch.MetaPath))
	assert.Equal(t, "add license header", file.Resource.Get(copywatch.MetaCommitMessage))
}

func TestPatchSkipsCommitMessage(t *testing.T) {
	p := &Patch{Reader: strings.NewReader(samplePatch)}
	targets := collectPatchTargets(t, p)
	require.Len(t, targets, 1)
	assert.Contains(t, targets[0].Resource.Name, "notice.txt")
}

func TestPatchSkipsDeletions(t *testing.T) {
	patch := `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index 5ad28e2..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-MIT License
-Copyright (c) 2020 Jane Doe
`
	p := &Patch{Reader: strings.NewReader(patch)}
	targets := collectPatchTargets(t, p)
	assert.Empty(t, targets)
}

func TestPatchEmptyInput(t *testing.T) {
	p := &Patch{Reader: strings.NewReader(""), ScanCommitMessage: true}
	targets := collectPatchTargets(t, p)
	assert.Empty(t, targets)
}
