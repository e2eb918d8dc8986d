// Chatproxy CI/CD
//
// Package main provides reproducible builds and tests locally and in GitHub actions.
package main

import (
	"context"

	"dagger/chatproxy/internal/dagger"
)

// Chatproxy is the main module for the chatproxy CI/CD pipeline
type Chatproxy struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

// New creates a new Chatproxy CI/CD module instance
func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".devenv", ".env", ".chatproxy", "build", "tmp"]
	source *dagger.Directory,
) *Chatproxy {
	return &Chatproxy{
		Source: source,
	}
}

// goContainer returns a Go container with module and build caches and the
// project source mounted. It is the shared foundation for tests and checks.
func (c *Chatproxy) goContainer() *dagger.Container {
	return dag.Container().
		From("golang:1.25-bookworm").
		WithEnvVariable("CGO_ENABLED", "0").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", c.Source)
}

// Test runs the chatproxy unit tests via "go test"
func (c *Chatproxy) Test(ctx context.Context) (string, error) {
	return c.goContainer().
		WithExec([]string{"go", "test", "-v", "./..."}).
		Stdout(ctx)
}
