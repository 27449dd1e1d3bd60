// Copyright (C) 2020 The floof Authors.
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package httpdev implements the Http operation's dev server: a main server (reverse
// proxy or static file mount) that injects a live-reload script into HTML responses,
// and a separate control server hosting the WebSocket reload endpoint.
package httpdev

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	cage_zap "github.com/codeactual/floof/internal/cage/log/zap"
	cagetime "github.com/codeactual/floof/internal/cage/time"
	"github.com/codeactual/floof/internal/floof/errkind"
)

// DefaultAddr is the main server's default bind address (spec.md §4.8).
const DefaultAddr = "127.0.0.1:8030"

// Config configures one Server instance, backing one Http operation.
type Config struct {
	// Addr is the main server's bind address, e.g. "127.0.0.1:8030".
	Addr string

	// ControlAddr is the control (WebSocket) server's bind address. If empty, it
	// defaults to Addr's host with the port incremented by one.
	ControlAddr string

	// ProxyTarget, if non-nil, puts the server in reverse-proxy mode: every request to
	// the main server is forwarded to this upstream.
	ProxyTarget *url.URL

	// StaticDir, used when ProxyTarget is nil, is served directly via http.FileServer.
	StaticDir string

	// Inject controls whether HTML responses get the reload script spliced in.
	Inject bool

	Clock  cagetime.Clock
	Logger *zap.Logger
}

// Server is one running dev HTTP server pair (main + control).
type Server struct {
	cfg Config
	hub *reloadHub

	mainLn    net.Listener
	mainHTTP  *http.Server
	ctrlLn    net.Listener
	ctrlHTTP  *http.Server
	scriptTag []byte
}

// New constructs a Server without binding it. Call Start to bind and begin serving.
func New(cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.ControlAddr == "" {
		controlAddr, err := deriveControlAddr(cfg.Addr)
		if err != nil {
			return nil, errkind.New(errkind.Config, "failed to derive control address from "+cfg.Addr, err)
		}
		cfg.ControlAddr = controlAddr
	}
	if cfg.Clock == nil {
		cfg.Clock = cagetime.RealClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Server{
		cfg: cfg,
		hub: newReloadHub(cfg.Logger),
	}, nil
}

// deriveControlAddr increments addr's port by one, keeping its host.
func deriveControlAddr(addr string) (string, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", errors.Wrapf(err, "failed to split host/port from %s", addr)
	}

	port, err := parsePort(portStr)
	if err != nil {
		return "", err
	}

	return net.JoinHostPort(host, strconv.Itoa(port+1)), nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid port %s", s)
	}
	return port, nil
}

// Reloader returns the handle Reload operations use to enqueue a reload.
func (s *Server) Reloader() Reloader {
	return s.hub
}

// Start binds both listeners and begins serving in the background. It returns once
// both listeners are bound; it does not wait for the proxy upstream to become ready.
func (s *Server) Start() error {
	mainLn, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errkind.New(errkind.Bind, "failed to bind dev server: "+s.cfg.Addr, err)
	}
	s.mainLn = mainLn

	ctrlLn, err := net.Listen("tcp", s.cfg.ControlAddr)
	if err != nil {
		_ = mainLn.Close()
		return errkind.New(errkind.Bind, "failed to bind control server: "+s.cfg.ControlAddr, err)
	}
	s.ctrlLn = ctrlLn

	controlPort := ctrlLn.Addr().(*net.TCPAddr).Port
	s.scriptTag = ReloadScript(controlPort)

	s.mainHTTP = &http.Server{Handler: s.mainHandler()}
	s.ctrlHTTP = &http.Server{Handler: s.hub}

	go s.serve(s.mainHTTP, mainLn, "main")
	go s.serve(s.ctrlHTTP, ctrlLn, "control")

	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener, name string) {
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.cfg.Logger.Error(name+" server stopped", cage_zap.Tag("httpdev", name), zap.Error(err))
	}
}

// HandleReloads blocks, servicing reload requests as they're enqueued via Reloader,
// until ctx is done. In proxy mode it waits for the upstream to accept a connection
// (bounded per spec.md §4.8/§5) before dropping sessions; if the deadline elapses it
// logs a warning and skips the drop for that request.
func (s *Server) HandleReloads(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.hub.requestCh():
			s.handleReloadRequest(ctx)
		}
	}
}

func (s *Server) handleReloadRequest(ctx context.Context) {
	if s.cfg.ProxyTarget != nil {
		if err := WaitReady(ctx, s.cfg.Clock, s.cfg.ProxyTarget); err != nil {
			s.cfg.Logger.Warn("upstream not ready before deadline, skipping reload", cage_zap.Tag("httpdev", "reload"), zap.Error(err))
			return
		}
	}
	s.hub.closeAll()
}

// Shutdown gracefully stops both servers.
func (s *Server) Shutdown(ctx context.Context) error {
	var mainErr, ctrlErr error
	if s.mainHTTP != nil {
		mainErr = s.mainHTTP.Shutdown(ctx)
	}
	if s.ctrlHTTP != nil {
		ctrlErr = s.ctrlHTTP.Shutdown(ctx)
	}
	if mainErr != nil {
		return mainErr
	}
	return ctrlErr
}

// Addr returns the actual bound main address, useful when Config.Addr used port 0.
func (s *Server) Addr() string {
	if s.mainLn == nil {
		return s.cfg.Addr
	}
	return s.mainLn.Addr().String()
}

// ControlAddr returns the actual bound control address.
func (s *Server) ControlAddr() string {
	if s.ctrlLn == nil {
		return s.cfg.ControlAddr
	}
	return s.ctrlLn.Addr().String()
}

func (s *Server) mainHandler() http.Handler {
	if s.cfg.ProxyTarget != nil {
		return s.proxyHandler()
	}
	return s.injectingHandler(http.FileServer(http.Dir(s.cfg.StaticDir)))
}

func (s *Server) proxyHandler() http.Handler {
	proxy := httputil.NewSingleHostReverseProxy(s.cfg.ProxyTarget)

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.cfg.Logger.Debug("upstream request failed", cage_zap.Tag("httpdev", "proxy"), zap.Error(err))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadGateway)
		body := errorPage(s.cfg.ProxyTarget.String(), err)
		_, _ = w.Write(InjectReloadScript(body, s.scriptTag))
	}

	return s.injectingHandler(proxy)
}

// injectingHandler wraps next, buffering its response so HTML bodies can have the
// reload script spliced in before anything reaches the client. Non-HTML responses keep
// their original bytes and headers, except that Content-Length is always set to the
// buffered body's length. When Inject is disabled, responses pass through unbuffered
// and untouched.
func (s *Server) injectingHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.cfg.Inject {
			next.ServeHTTP(w, r)
			return
		}

		rec := &responseRecorder{header: make(http.Header), status: http.StatusOK}
		next.ServeHTTP(rec, r)

		body := rec.body.Bytes()
		if isHTML(rec.header) {
			body = InjectReloadScript(body, s.scriptTag)
		}

		for k, vs := range rec.header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(rec.status)
		_, _ = w.Write(body)
	})
}

func isHTML(h http.Header) bool {
	ct := h.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "text/html")
}

// responseRecorder buffers a handler's response instead of writing it straight through,
// so injectingHandler can rewrite the body before it reaches the client.
type responseRecorder struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (r *responseRecorder) Header() http.Header { return r.header }

func (r *responseRecorder) WriteHeader(status int) {
	if r.wroteHeader {
		return
	}
	r.status = status
	r.wroteHeader = true
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	return r.body.Write(b)
}

var _ io.Writer = (*responseRecorder)(nil)

func errorPage(target string, err error) []byte {
	return []byte("<html><body><h1>floof: upstream unavailable</h1><p>" + target + "</p><pre>" + err.Error() + "</pre></body></html>")
}
