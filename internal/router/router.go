package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pig-farm/docs"
	"pig-farm/internal/adapters/capabilities/plansfeatures"
	mem "pig-farm/internal/adapters/storage/memory"
	"pig-farm/internal/adapters/storage/sqldb"
	"pig-farm/internal/config"
	"pig-farm/internal/domain/accessgrants"
	"pig-farm/internal/domain/alerts"
	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/farms"
	"pig-farm/internal/domain/health"
	"pig-farm/internal/domain/matings"
	"pig-farm/internal/domain/pens"
	"pig-farm/internal/domain/pigs"
	"pig-farm/internal/middleware"
	"pig-farm/internal/platform/logger"
	"pig-farm/internal/platform/metrics"
	"pig-farm/internal/ports/auth"
	"pig-farm/internal/ports/capabilities"
)

type Options struct {
	Config config.Config
	Logger logger.Logger

	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si es nil se usa la matriz fija con Config.Plans.Tier.
	Plans capabilities.CapabilitiesResolver

	// Opcional: si viene, usa SQL. Si no, in-memory.
	DB *sqldb.DB
}

type repos struct {
	farms   farms.Repository
	grants  accessgrants.Repository
	pens    pens.Repository
	pigs    pigs.Repository
	matings matings.Repository
	health  health.Repository
}

func newRepos(db *sqldb.DB) repos {
	if db != nil {
		return repos{
			farms:   sqldb.NewFarmRepo(db),
			grants:  sqldb.NewAccessGrantsRepo(db),
			pens:    sqldb.NewPenRepo(db),
			pigs:    sqldb.NewPigRepo(db),
			matings: sqldb.NewMatingRepo(db),
			health:  sqldb.NewHealthRepo(db),
		}
	}
	return repos{
		farms:   mem.NewFarmRepo(),
		grants:  mem.NewAccessGrantsRepo(),
		pens:    mem.NewPenRepo(),
		pigs:    mem.NewPigRepo(),
		matings: mem.NewMatingRepo(),
		health:  mem.NewHealthRepo(),
	}
}

func NewRouter(opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	cfg := opts.Config

	engine, err := breeding.NewEngine(cfg.Breeding, log)
	if err != nil {
		return nil, err
	}

	plans := opts.Plans
	if plans == nil {
		tier, err := plansfeatures.ParseTier(cfg.Plans.Tier)
		if err != nil {
			return nil, err
		}
		plans = plansfeatures.NewStaticResolver(tier)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthContext(opts.AuthVerifier, log))
	r.Use(middleware.RequestLog(log, cfg.Metrics.Enabled))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	rp := newRepos(opts.DB)

	// Services por módulo
	farmsSvc := farms.NewService(rp.farms)
	grantsSvc := accessgrants.NewService(rp.grants)
	access := farms.NewAccess(farmsSvc, grantsSvc)

	pensSvc := pens.NewService(rp.pens)
	pigsSvc := pigs.NewService(rp.pigs, pensSvc, engine)
	pensSvc.SetOccupancy(pigsSvc)

	matingsSvc := matings.NewService(rp.matings, pigsSvc, engine, log)
	healthSvc := health.NewService(rp.health, pigsSvc)
	alertsSvc := alerts.NewService(pigsSvc, pensSvc, engine, mem.NewNotificationTracker(), log)

	// Rutas por módulo
	farms.RegisterRoutes(r, farmsSvc, access)
	accessgrants.RegisterRoutes(r, grantsSvc, farmsSvc, plans)
	pens.RegisterRoutes(r, pensSvc, access, plans)
	pigs.RegisterRoutes(r, pigsSvc, access, plans)
	matings.RegisterRoutes(r, matingsSvc, access, plans)
	health.RegisterRoutes(r, healthSvc, access, plans)
	alerts.RegisterRoutes(r, alertsSvc, access)

	return r, nil
}
