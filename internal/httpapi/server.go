package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yuqie6/trainerhub/internal/bootstrap"
)

type Server struct {
	core *bootstrap.Core
	ln   net.Listener
	srv  *http.Server
	addr string
}

type Options struct {
	ListenAddr        string // e.g. "127.0.0.1:8000"
	ReadHeaderTimeout time.Duration
}

// Start 监听并在后台提供 HTTP 服务，ctx 结束时优雅关闭
func Start(ctx context.Context, core *bootstrap.Core, opts Options) (*Server, error) {
	if core == nil {
		return nil, fmt.Errorf("core 不能为空")
	}
	if strings.TrimSpace(opts.ListenAddr) == "" {
		opts.ListenAddr = "127.0.0.1:0"
	}
	if opts.ReadHeaderTimeout <= 0 {
		opts.ReadHeaderTimeout = 5 * time.Second
	}

	ln, err := net.Listen("tcp", opts.ListenAddr)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           NewHandler(core),
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}

	s := &Server{
		core: core,
		ln:   ln,
		srv:  srv,
		addr: ln.Addr().String(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.Shutdown(shutdownCtx)
	}()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server 异常退出", "error", err)
		}
	}()

	slog.Info("HTTP 服务已启动", "addr", s.addr)
	return s, nil
}

func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	return s.addr
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

// NewHandler 构建完整路由（测试可直接使用）
func NewHandler(core *bootstrap.Core) http.Handler {
	a := newAPI(core)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /api/events", a.auth(a.handleSSE))
	a.registerJSONRoutes(mux)

	return withAccessLog(mux)
}

type apiServer struct {
	core      *bootstrap.Core
	startTime time.Time
}

func newAPI(core *bootstrap.Core) *apiServer {
	return &apiServer{core: core, startTime: time.Now()}
}

func (a *apiServer) registerJSONRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/pokemon/gain_xp", a.auth(a.gainXP))
	mux.HandleFunc("GET /api/pokemon", a.auth(a.listPokemon))
	mux.HandleFunc("POST /api/pokemon", a.auth(a.capturePokemon))
	mux.HandleFunc("GET /api/pokemon/{pokemon_id}", a.auth(a.getPokemon))
	mux.HandleFunc("DELETE /api/pokemon/{pokemon_id}", a.auth(a.releasePokemon))
	mux.HandleFunc("GET /api/xplog", a.auth(a.listXPLog))

	mux.HandleFunc("GET /api/me", a.auth(a.me))
	mux.HandleFunc("GET /api/settings", a.auth(a.getSettings))
	mux.HandleFunc("PATCH /api/settings", a.auth(a.patchSettings))

	mux.HandleFunc("GET /api/focus", a.auth(a.listFocus))
	mux.HandleFunc("POST /api/focus", a.auth(a.recordFocus))
	mux.HandleFunc("GET /api/focus/{date}", a.auth(a.getFocus))

	mux.HandleFunc("GET /api/journal", a.auth(a.listJournal))
	mux.HandleFunc("GET /api/journal/{date}", a.auth(a.getJournal))
	mux.HandleFunc("PUT /api/journal/{date}", a.auth(a.putJournal))
	mux.HandleFunc("DELETE /api/journal/{date}", a.auth(a.deleteJournal))
}
