// Package jobs programa las tareas en segundo plano: reposición diaria y lecturas de temperatura.
package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/supply-chain-api/pkg/logger"
)

// Nombres de los jobs; la clave del lock es "jobs:<name>".
// La reposición diaria usa "jobs:<name>:<fecha local>".
const (
	JobAutoReplenish = "auto-replenish"
	JobTemperature   = "temperature-tick"
)

// Task trabajo programado.
type Task func(ctx context.Context) error

// Config horario de los jobs.
type Config struct {
	DailyHour           int
	DailyMinute         int
	Location            *time.Location
	TemperatureEnabled  bool
	TemperatureInterval time.Duration
	// DailyLockTTL duración del lease de la reposición diaria. No se libera al
	// terminar: debe cubrir el desfase de reloj entre réplicas.
	DailyLockTTL time.Duration
}

// Scheduler corre la reposición una vez al día y el tick de temperatura cada intervalo.
// Con Locker nil cada réplica corre todos los jobs.
type Scheduler struct {
	cfg       Config
	replenish Task
	tick      Task
	locker    Locker
	log       *logger.Logger
	now       func() time.Time

	wg sync.WaitGroup
}

// NewScheduler construye el scheduler. locker puede ser nil.
func NewScheduler(cfg Config, replenish, tick Task, locker Locker, log *logger.Logger) *Scheduler {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DailyLockTTL <= 0 {
		cfg.DailyLockTTL = 12 * time.Hour
	}
	return &Scheduler{
		cfg:       cfg,
		replenish: replenish,
		tick:      tick,
		locker:    locker,
		log:       log.Component("jobs"),
		now:       time.Now,
	}
}

// Start lanza los loops; terminan cuando ctx se cancela. Wait espera a que terminen.
func (s *Scheduler) Start(ctx context.Context) {
	if s.replenish != nil {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.dailyLoop(ctx)
		}()
	}
	if s.tick != nil && s.cfg.TemperatureEnabled && s.cfg.TemperatureInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.intervalLoop(ctx)
		}()
	}
	s.log.Info().
		Int("daily_hour", s.cfg.DailyHour).Int("daily_minute", s.cfg.DailyMinute).
		Str("timezone", s.cfg.Location.String()).
		Dur("temperature_interval", s.cfg.TemperatureInterval).
		Bool("distributed_lock", s.locker != nil).
		Msg("scheduler iniciado")
}

// Wait bloquea hasta que los loops terminen.
func (s *Scheduler) Wait() { s.wg.Wait() }

func (s *Scheduler) dailyLoop(ctx context.Context) {
	for {
		next := NextDailyRun(s.now(), s.cfg.DailyHour, s.cfg.DailyMinute, s.cfg.Location)
		s.log.Debug().Time("next_run", next).Str("job", JobAutoReplenish).Msg("próxima ejecución")
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunDaily(ctx, next, s.replenish)
		}
	}
}

func (s *Scheduler) intervalLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.TemperatureInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Run(ctx, JobTemperature, s.cfg.TemperatureInterval, s.tick)
		}
	}
}

// Run ejecuta task bajo el lease "jobs:<name>" y lo libera al terminar. Si otra réplica
// lo tiene, se omite la corrida. Devuelve true si la tarea se ejecutó.
func (s *Scheduler) Run(ctx context.Context, name string, ttl time.Duration, task Task) bool {
	return s.run(ctx, name, "jobs:"+name, ttl, true, task)
}

// RunDaily ejecuta la reposición programada para scheduled. El lease es por día local
// y se deja expirar, así una réplica con el reloj atrasado no repite la corrida.
func (s *Scheduler) RunDaily(ctx context.Context, scheduled time.Time, task Task) bool {
	return s.run(ctx, JobAutoReplenish, DailyLockKey(scheduled, s.cfg.Location), s.cfg.DailyLockTTL, false, task)
}

// DailyLockKey clave del lease de la reposición para el día local de scheduled.
func DailyLockKey(scheduled time.Time, loc *time.Location) string {
	return "jobs:" + JobAutoReplenish + ":" + scheduled.In(loc).Format("2006-01-02")
}

func (s *Scheduler) run(ctx context.Context, name, key string, ttl time.Duration, release bool, task Task) bool {
	log := s.log.With().Str("job", name).Logger()
	if s.locker != nil {
		unlock, err := s.locker.Obtain(ctx, key, ttl)
		if errors.Is(err, ErrLocked) {
			log.Debug().Msg("lock tomado por otra réplica, se omite")
			return false
		}
		if err != nil {
			log.Error().Err(err).Msg("no se pudo obtener el lock")
			return false
		}
		if release {
			defer func() {
				if err := unlock(context.WithoutCancel(ctx)); err != nil {
					log.Warn().Err(err).Msg("no se pudo liberar el lock")
				}
			}()
		}
	}

	start := s.now()
	if err := task(ctx); err != nil {
		log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("job fallido")
		return true
	}
	log.Debug().Dur("elapsed", time.Since(start)).Msg("job completado")
	return true
}

// NextDailyRun próximo instante hour:minute en loc estrictamente posterior a now.
func NextDailyRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
	local := now.In(loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
	if !next.After(local) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
