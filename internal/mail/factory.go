package mail

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/BanhTheCake/getnokori/internal/config"
	evsvc "github.com/BanhTheCake/getnokori/internal/events/service"
	ctrl "github.com/BanhTheCake/getnokori/internal/mail/controller"
	repo "github.com/BanhTheCake/getnokori/internal/mail/repository"
	svc "github.com/BanhTheCake/getnokori/internal/mail/service"
	"github.com/BanhTheCake/getnokori/internal/platform/session"
	"github.com/BanhTheCake/getnokori/internal/platform/usage"
	srepo "github.com/BanhTheCake/getnokori/internal/settings/repository"
	ssvc "github.com/BanhTheCake/getnokori/internal/settings/service"
)

// Register wires the mail module and registers HTTP routes.
func Register(e *echo.Echo, pg *pgxpool.Pool, rc *redis.Client, cfg config.Config) {
	r := repo.New(pg)
	settings := ssvc.New(srepo.New(pg))
	vendor := svc.NewMailgun(settings, cfg)
	resolver := svc.NewResolver(r)
	counter := usage.NewRedisCounter(rc)
	events := evsvc.NewLogger()

	s := svc.New(r, vendor, resolver, settings, counter, events, cfg)
	c := ctrl.New(s, settings)
	c.Register(e, session.Middleware(cfg))
}
