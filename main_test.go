package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, run([]string{"-v"}, &out, &errOut))
	assert.Contains(t, out.String(), "quark2d ")
}

func TestRunReportsConfigError(t *testing.T) {
	var out, errOut bytes.Buffer
	code := run([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")}, &out, &errOut)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "config: open config")
}

func TestRunRejectsBadFlagsAndScript(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 2, run([]string{"-nope"}, &out, &errOut))
	assert.Equal(t, 1, run([]string{"-headless", "-ticks", "1", "-fps-log", "-", "-keys", "q"}, &out, &errOut))
	assert.Equal(t, 1, run([]string{"-hz", "0"}, &out, &errOut))
}

func TestRunHeadlessWritesOutputs(t *testing.T) {
	dir := t.TempDir()
	snap := filepath.Join(dir, "frame.png")
	fpsLog := filepath.Join(dir, "fps.csv")

	var out, errOut bytes.Buffer
	code := run([]string{
		"-headless", "-hz", "200", "-ticks", "10",
		"-log", "warn",
		"-fps-log", fpsLog,
		"-snapshot", snap,
		"-keys", "2:z",
	}, &out, &errOut)
	require.Equal(t, 0, code, errOut.String())

	_, err := os.Stat(snap)
	assert.NoError(t, err)
	_, err = os.Stat(fpsLog)
	assert.NoError(t, err)
}
