// Command brainstress runs the BrainStress quiz game.
//
// Commands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket
//     updates and an /mcp HTTP endpoint, optionally behind an ngrok tunnel
//  2. "mcp" runs an MCP stdio server against an API, starting an internal one
//     when none answers
//  3. "play" runs a quiz in the terminal on a real clock
//  4. "catalog" lists, previews and validates quizzes
//
// Runtime settings come from the environment (see package settings); a .env
// file in the working directory is loaded first.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
	"github.com/wricardo/brainstress/api"
	"github.com/wricardo/brainstress/game/catalog"
	"github.com/wricardo/brainstress/game/service"
	"github.com/wricardo/brainstress/game/session"
	"github.com/wricardo/brainstress/game/store"
	"github.com/wricardo/brainstress/settings"
	"github.com/wricardo/brainstress/transport/mcp"
	"github.com/wricardo/brainstress/transport/websocket"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"
	"golang.org/x/sync/errgroup"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "BrainStress"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newCommand(os.Stdin, os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newCommand builds the CLI. Logs always go to stderr so that stdout stays
// free for the MCP protocol and the terminal game.
func newCommand(in io.Reader, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "brainstress",
		Usage:   "Timed quiz game server",
		Version: Version,
		// serve when no command is given
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			playCommand(in, out),
			catalogCommand(out),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "listen address, overrides ADDR",
			},
			&cli.BoolFlag{
				Name:  "ngrok",
				Usage: "expose the server through an ngrok tunnel",
			},
			&cli.StringFlag{
				Name:    "ngrok-auth",
				Usage:   "ngrok auth token",
				Sources: cli.EnvVars("NGROK_AUTH_TOKEN"),
			},
			&cli.StringFlag{
				Name:  "ngrok-domain",
				Usage: "custom ngrok domain",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := settings.Load()
			if err != nil {
				return err
			}
			if addr := cmd.String("addr"); addr != "" {
				s.Addr = addr
			}
			if cmd.Bool("ngrok") {
				s.Ngrok.Enabled = true
			}
			if tok := cmd.String("ngrok-auth"); tok != "" && s.Ngrok.AuthToken == "" {
				s.Ngrok.AuthToken = tok
			}
			if domain := cmd.String("ngrok-domain"); domain != "" {
				s.Ngrok.Domain = domain
			}
			return runServe(ctx, s, s.Logger(os.Stderr))
		},
	}
}

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run an MCP stdio server that proxies to the REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "REST API to proxy; an internal server starts when it does not answer",
				Value:   "http://localhost:8080",
				Sources: cli.EnvVars("BRAINSTRESS_API_URL"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := settings.Load()
			if err != nil {
				return err
			}
			return runStdioMCP(ctx, s, s.Logger(os.Stderr), cmd.String("api-url"))
		},
	}
}

// app holds the wired game components
type app struct {
	store    store.Store
	catalog  *catalog.Manager
	sessions *session.Manager
	service  service.GameService
}

// newApp opens the store, loads the catalog and creates the game service
func newApp(ctx context.Context, s *settings.Settings, logger *slog.Logger, notifier service.Notifier) (*app, error) {
	if logger == nil {
		logger = slog.Default()
	}
	st, err := store.Open(ctx, s.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", s.StoreBackend, err)
	}

	cat, err := newCatalog(s.QuizDir)
	if err != nil {
		st.Close()
		return nil, err
	}

	sessions := session.NewManager()

	opts := s.ServiceOptions()
	opts.Logger = logger
	opts.Notifier = notifier

	logger.Info("game service ready",
		"store", s.StoreBackend, "quizzes", cat.Count(), "warm_up", s.WarmUpSeconds, "tick", s.TickInterval)

	return &app{
		store:    st,
		catalog:  cat,
		sessions: sessions,
		service:  service.NewGameService(sessions, cat, st, opts),
	}, nil
}

// Close stops all session clocks and closes the store
func (a *app) Close() error {
	a.service.Close()
	return a.store.Close()
}

// newCatalog creates the catalog with the built-in quizzes plus quizDir
func newCatalog(quizDir string) (*catalog.Manager, error) {
	cat := catalog.NewManager(nil)
	if quizDir != "" {
		if err := cat.LoadDir(quizDir); err != nil {
			return nil, fmt.Errorf("failed to load quizzes from %s: %w", quizDir, err)
		}
	}
	return cat, nil
}

// newHandler combines the API server with the /mcp JSON-RPC endpoint
func newHandler(apiServer http.Handler, mcpClient *mcp.Client) http.Handler {
	mainRouter := http.NewServeMux()
	mainRouter.Handle("/", apiServer)

	mainRouter.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	})

	return mainRouter
}

// listenerHandler builds the handler served on ln. The /mcp proxy calls
// back into ln's actual address, so ":0" works.
func listenerHandler(apiServer http.Handler, ln net.Listener) http.Handler {
	return newHandler(apiServer, mcp.NewClient(localBaseURL(ln.Addr().String())))
}

// localBaseURL turns a listen address into a URL reachable from this host
func localBaseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}

// runServe serves HTTP until ctx is done. The hub, the session sweeper and
// the optional tunnel share one errgroup with the listener.
func runServe(ctx context.Context, s *settings.Settings, logger *slog.Logger) error {
	hub := websocket.NewHub(logger)

	a, err := newApp(ctx, s, logger, hub)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Addr, err)
	}

	httpServer := &http.Server{
		Handler:      listenerHandler(api.NewServer(a.service, hub, logger), ln),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		logger.Info("http server listening", "addr", ln.Addr().String())
		logger.Info("endpoints",
			"api", localBaseURL(ln.Addr().String())+"/api",
			"ws", "/ws?session=<session_id>",
			"mcp", "/mcp")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		sessionCleanupRoutine(gctx, a.sessions, s.CleanupInterval, s.SessionTTL, logger)
		return nil
	})

	if s.Ngrok.Enabled {
		g.Go(func() error {
			runNgrokTunnel(gctx, s.Ngrok, httpServer.Handler, logger)
			return nil
		})
	}

	err = g.Wait()
	logger.Info("server stopped")
	return err
}

// sessionCleanupRoutine periodically removes sessions that have not been
// accessed within ttl
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager, every, ttl time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(ttl); removed > 0 {
				logger.Info("cleaned up expired sessions", "removed", removed, "remaining", manager.Count())
			}
		}
	}
}

// runNgrokTunnel serves handler through ngrok until ctx is done. Tunnel
// failures are logged and leave the local server running.
func runNgrokTunnel(ctx context.Context, cfg settings.Ngrok, handler http.Handler, logger *slog.Logger) {
	if cfg.AuthToken == "" {
		logger.Warn("ngrok enabled but no auth token provided (use --ngrok-auth, NGROK_AUTHTOKEN or NGROK_AUTH_TOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if cfg.Domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.Domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	logger.Info("starting ngrok tunnel", "domain", cfg.Domain)
	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.AuthToken))
	if err != nil {
		logger.Error("failed to start ngrok tunnel", "error", err)
		return
	}

	srv := &http.Server{Handler: handler}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("ngrok tunnel established", "url", tun.URL(), "api", tun.URL()+"/api", "mcp", tun.URL()+"/mcp")
	if err := srv.Serve(tun); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("ngrok server error", "error", err)
	}
	logger.Info("ngrok tunnel closed")
}

// apiAvailable reports whether baseURL answers the health check
func apiAvailable(ctx context.Context, baseURL string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// runStdioMCP serves MCP over stdio. It reuses the API at apiURL when it is
// up, otherwise it starts an internal server on a loopback port.
func runStdioMCP(ctx context.Context, s *settings.Settings, logger *slog.Logger, apiURL string) error {
	baseURL := apiURL

	if apiAvailable(ctx, apiURL) {
		logger.Info("using external API server", "url", apiURL)
	} else {
		logger.Info("no API server found, starting internal HTTP server", "url", apiURL)

		hub := websocket.NewHub(logger)
		go hub.Run(ctx)

		a, err := newApp(ctx, s, logger, hub)
		if err != nil {
			return err
		}
		defer a.Close()

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		internal := &http.Server{Handler: api.NewServer(a.service, hub, logger)}
		go func() {
			if err := internal.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("internal HTTP server error", "error", err)
			}
		}()
		defer internal.Close()

		baseURL = "http://" + ln.Addr().String()
		logger.Info("internal HTTP server ready", "url", baseURL)
	}

	logger.Info("MCP stdio server ready")
	if err := mcp.NewClient(baseURL).ServeStdio(); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}
