// Package display provides the rendering backends and the controller
// that drives them. A backend is selected once at construction and
// never swapped within a session.
package display

import (
	"context"

	"matrixview/internal/domain"
)

// Backend is a concrete rendering target. Initialize acquires the
// underlying window or hardware session, Render blocks until the
// frame has been fully presented, Shutdown releases the session and
// leaves the target dark. Render and Shutdown must not be called
// before a successful Initialize.
type Backend interface {
	Initialize(ctx context.Context) error
	Render(ctx context.Context, fb *domain.FrameBuffer) error
	Shutdown(ctx context.Context) error
	Size() (width, height int)
}

// Backend kind selectors. "internal" is accepted as an alias for the
// emulated window backend.
const (
	KindExternal = "external"
	KindInternal = "internal"
	KindEmulated = "emulated"
)
