// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockExecutor struct {
	availableBins map[string]bool
	runnableCmds  map[string]bool
	runPipedFunc  func(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(ctx, name, args, stdin, stdout)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		cmds     map[string]bool
		wantName string
	}{
		{"docker available", map[string]bool{"docker": true}, map[string]bool{"docker info": true}, "docker"},
		{"podman fallback", map[string]bool{"podman": true}, map[string]bool{"podman info": true}, "podman"},
		{"docker info fails", map[string]bool{"docker": true, "podman": true}, map[string]bool{"podman info": true}, "podman"},
		{"docker preferred", map[string]bool{"docker": true, "podman": true}, map[string]bool{"docker info": true, "podman info": true}, "docker"},
		{"neither", nil, nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(&mockExecutor{availableBins: tt.bins, runnableCmds: tt.cmds})
			if tt.wantName == "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	docker := newDockerRuntime(&mockExecutor{runnableCmds: map[string]bool{"docker image inspect markitdown:latest": true}})
	assert.NoError(t, docker.ImageExists("markitdown:latest"))

	podman := newPodmanRuntime(&mockExecutor{runnableCmds: map[string]bool{"podman image exists markitdown:latest": true}})
	assert.NoError(t, podman.ImageExists("markitdown:latest"))

	missing := newDockerRuntime(&mockExecutor{})
	err := missing.ImageExists("markitdown:latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "markitdown:latest")
}

func TestRun_PipesWithoutNetwork(t *testing.T) {
	var gotArgs []string
	exec := &mockExecutor{
		runPipedFunc: func(_ context.Context, name string, args []string, stdin io.Reader, stdout io.Writer) error {
			gotArgs = args
			data, _ := io.ReadAll(stdin)
			_, _ = stdout.Write([]byte(name + ": " + string(data)))
			return nil
		},
	}

	var out bytes.Buffer
	require.NoError(t, newPodmanRuntime(exec).Run(context.Background(), "markitdown:latest", strings.NewReader("pdf bytes"), &out))
	assert.Equal(t, "podman: pdf bytes", out.String())
	assert.Equal(t, []string{"run", "--rm", "-i", "--network", "none", "markitdown:latest"}, gotArgs)
}

func TestRun_Failure(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(context.Context, string, []string, io.Reader, io.Writer) error {
			return errors.New("exit status 1")
		},
	}
	err := newDockerRuntime(exec).Run(context.Background(), "markitdown:latest", strings.NewReader(""), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running docker container markitdown:latest")
}
