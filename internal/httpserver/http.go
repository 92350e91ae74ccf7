package httpserver

import (
	"context"
	"fmt"
)

// Run maps all handlers and starts listening. It blocks until the
// underlying gin server returns.
func (srv HTTPServer) Run() error {
	ctx := context.Background()

	if err := srv.mapHandlers(); err != nil {
		return fmt.Errorf("failed to map handlers: %w", err)
	}

	addr := fmt.Sprintf(":%d", srv.port)
	srv.l.Infof(ctx, "HTTP server listening on %s (mode: %s)", addr, srv.mode)

	return srv.gin.Run(addr)
}
