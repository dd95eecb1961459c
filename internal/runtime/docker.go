package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// DockerRuntime drives containers through the local Docker daemon.
type DockerRuntime struct {
	cli *client.Client
}

var _ Runtime = (*DockerRuntime)(nil)

// NewDockerRuntime connects using the standard environment configuration
// (DOCKER_HOST etc.) with API version negotiation.
func NewDockerRuntime() (*DockerRuntime, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &DockerRuntime{cli: cli}, nil
}

// Close releases the underlying client connection.
func (d *DockerRuntime) Close() error { return d.cli.Close() }

// Run creates and starts a detached container from image with the given
// bind mounts.
func (d *DockerRuntime) Run(ctx context.Context, image string, mounts []Mount) (Handle, error) {
	binds := make([]string, len(mounts))
	for n, m := range mounts {
		mode := "rw"
		if m.ReadOnly {
			mode = "ro"
		}
		binds[n] = fmt.Sprintf("%s:%s:%s", m.Source, m.Target, mode)
	}

	created, err := d.cli.ContainerCreate(ctx,
		&container.Config{Image: image},
		&container.HostConfig{Binds: binds},
		nil, nil, "")
	if err != nil {
		return "", fmt.Errorf("create container from %s: %w", image, err)
	}
	if err := d.cli.ContainerStart(ctx, created.ID, container.StartOptions{}); err != nil {
		// Best effort: don't leave the created-but-never-started container
		// around for the caller to discover.
		_ = d.cli.ContainerRemove(ctx, created.ID, container.RemoveOptions{Force: true})
		return "", fmt.Errorf("start container %s: %w", created.ID, err)
	}
	return Handle(created.ID), nil
}

// Wait blocks until the container stops running or timeout elapses,
// whichever comes first. Timeout is reported as ErrWaitTimeout.
func (d *DockerRuntime) Wait(ctx context.Context, h Handle, timeout time.Duration) (ExitInfo, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	statusCh, errCh := d.cli.ContainerWait(waitCtx, string(h), container.WaitConditionNotRunning)
	select {
	case status := <-statusCh:
		if status.Error != nil {
			return ExitInfo{}, fmt.Errorf("container wait: %s", status.Error.Message)
		}
		return ExitInfo{ExitCode: status.StatusCode}, nil
	case err := <-errCh:
		if errors.Is(err, context.DeadlineExceeded) {
			return ExitInfo{}, ErrWaitTimeout
		}
		return ExitInfo{}, fmt.Errorf("container wait: %w", err)
	}
}

// Logs returns the container's combined stdout and stderr.
func (d *DockerRuntime) Logs(ctx context.Context, h Handle) (string, error) {
	rc, err := d.cli.ContainerLogs(ctx, string(h), container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
	})
	if err != nil {
		return "", fmt.Errorf("container logs: %w", err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	// The daemon multiplexes both streams onto one connection.
	if _, err := stdcopy.StdCopy(&buf, &buf, rc); err != nil {
		return buf.String(), fmt.Errorf("demux container logs: %w", err)
	}
	return buf.String(), nil
}

// Stop halts a running container. Stopping an exited container is a no-op.
func (d *DockerRuntime) Stop(ctx context.Context, h Handle) error {
	if err := d.cli.ContainerStop(ctx, string(h), container.StopOptions{}); err != nil {
		return fmt.Errorf("stop container: %w", err)
	}
	return nil
}

// Remove force-deletes the container, running or not.
func (d *DockerRuntime) Remove(ctx context.Context, h Handle) error {
	if err := d.cli.ContainerRemove(ctx, string(h), container.RemoveOptions{Force: true}); err != nil {
		return fmt.Errorf("remove container: %w", err)
	}
	return nil
}
