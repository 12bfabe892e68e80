package main

import (
	"context"
	"expvar"
	"fmt"
	"net/http"

	echoapi "github.com/collegedesk/console/apps/api/echo"
	"github.com/collegedesk/console/core"
)

type flusher interface {
	Flush()
}

// serve runs the API and the debug vars server until a shutdown signal or a
// listen failure.
func serve(conf *core.Config, logger core.Logger, server *echoapi.Server) {
	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer func() {
		logger.Info("Application stopped")
		if f, ok := logger.(flusher); ok {
			f.Flush()
		}
	}()

	// =========================================================================
	// Start Debug Service
	//
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("backend").Set(conf.Backend.BaseURL)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err := <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}
