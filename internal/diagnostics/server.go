package diagnostics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/logging"
	"github.com/annel0/genesys/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// AssetLister перечисляет загруженные сигнатуры
type AssetLister interface {
	Signatures(kind assets.Kind) []assets.Signature
}

// ServerConfig зависимости сервера диагностики
type ServerConfig struct {
	Addr      string
	PushEvery time.Duration
	Store     *Store
	Sampler   *SystemSampler
	Registry  *prometheus.Registry
	Logger    *logging.Logger
}

// Server отладочный HTTP-сервер песочницы
type Server struct {
	router    *gin.Engine
	addr      string
	pushEvery time.Duration
	store     *Store
	sampler   *SystemSampler
	log       *logging.Logger
	upgrader  websocket.Upgrader

	mu     sync.RWMutex
	assets AssetLister
	http   *http.Server
	bound  string
}

// NewServer создаёт сервер и настраивает маршруты
func NewServer(cfg ServerConfig) *Server {
	if cfg.PushEvery <= 0 {
		cfg.PushEvery = 500 * time.Millisecond
	}
	if cfg.Store == nil {
		cfg.Store = NewStore()
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.NewRegistry()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetDiagnosticsLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(middleware.NewRequestLogger(cfg.Logger).Handler())
	router.Use(otelgin.Middleware("diagnostics"))
	router.Use(middleware.NewPrometheusMiddleware("diagnostics", cfg.Registry).Handler())

	s := &Server{
		router:    router,
		addr:      cfg.Addr,
		pushEvery: cfg.PushEvery,
		store:     cfg.Store,
		sampler:   cfg.Sampler,
		log:       cfg.Logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // только для отладки
		},
	}

	router.GET("/health", s.handleHealth)
	router.GET("/debug/state", s.handleState)
	router.GET("/debug/assets", s.handleAssets)
	router.GET("/debug/stream", s.handleStream)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	return s
}

// SetAssets подключает каталог ассетов после запечатывания реестра
func (s *Server) SetAssets(a AssetLister) {
	s.mu.Lock()
	s.assets = a
	s.mu.Unlock()
}

// Handler возвращает корневой обработчик (для тестов и встраивания)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start начинает слушать адрес. Метод неблокирующий.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	srv := &http.Server{Handler: s.router, ReadHeaderTimeout: 5 * time.Second}

	s.mu.Lock()
	s.http = srv
	s.bound = ln.Addr().String()
	s.mu.Unlock()

	go func() {
		s.log.Info("🩺 Диагностика доступна по адресу http://%s", ln.Addr())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("Ошибка HTTP сервера диагностики: %v", err)
		}
	}()
	return nil
}

// Addr возвращает фактический адрес после Start
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bound
}

// Shutdown останавливает сервер
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.http
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if s.sampler != nil {
		resp["uptime"] = s.sampler.Uptime()
	}
	c.JSON(http.StatusOK, resp)
}

// snapshot последний снимок с актуальными сведениями о системе
func (s *Server) snapshot() (Snapshot, bool) {
	snap, ok := s.store.Latest()
	if s.sampler != nil {
		snap.System = s.sampler.Latest()
	}
	return snap, ok
}

func (s *Server) handleState(c *gin.Context) {
	snap, ok := s.snapshot()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "нет данных: цикл еще не запущен"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleAssets(c *gin.Context) {
	s.mu.RLock()
	lister := s.assets
	s.mu.RUnlock()
	if lister == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "реестр ассетов еще не запечатан"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"models":     lister.Signatures(assets.KindModel),
		"animations": lister.Signatures(assets.KindAnimation),
	})
}

// handleStream отправляет снимок состояния каждые pushEvery до закрытия соединения
func (s *Server) handleStream(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("Не удалось открыть websocket: %v", err)
		return
	}
	defer conn.Close()

	// Клиент ничего не шлет; чтение нужно только для обнаружения закрытия.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.pushEvery)
	defer ticker.Stop()
	for {
		if snap, ok := s.snapshot(); ok {
			_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteJSON(snap); err != nil {
				s.log.Debug("websocket закрыт: %v", err)
				return
			}
		}
		select {
		case <-ticker.C:
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
