package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

// Scheduler drives the polling pipeline: every interval it sweeps the
// monitored locations in configured order, running fetch → persist → alert
// for each one. A failure for one location never stops the sweep.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	tracker   *weather.AlertTracker
	notifier  weather.Notifier
	locations []string
	interval  time.Duration
	timeout   time.Duration
	log       *logrus.Logger
}

// New creates a Scheduler. timeout bounds each location's pipeline run;
// zero defaults to 30 seconds.
func New(
	locations []string,
	interval time.Duration,
	timeout time.Duration,
	service *weather.Service,
	tracker *weather.AlertTracker,
	notifier weather.Notifier,
	log *logrus.Logger,
) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		tracker:   tracker,
		notifier:  notifier,
		locations: locations,
		interval:  interval,
		timeout:   timeout,
		log:       log,
	}
}

// Start schedules the periodic sweep and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Warn("scheduler: no locations configured; nothing to schedule")
		return nil
	}

	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 300
	}
	s.log.Infof("scheduler: sweeping %d locations every %s", len(s.locations), s.interval)

	// Singleton mode keeps a slow sweep from being re-entered; overlapping
	// sweeps would feed the alert tracker readings out of order.
	if _, err := s.scheduler.Every(seconds).Seconds().SingletonMode().Do(s.Sweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future sweeps.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// Sweep runs one full pass over the monitored locations, sequentially and in
// configured order. Per-location errors are logged and the sweep continues.
func (s *Scheduler) Sweep() {
	s.log.Debug("scheduler: starting sweep")
	for _, loc := range s.locations {
		if err := s.poll(loc); err != nil {
			s.log.WithField("location", loc).Warnf("scheduler: poll failed: %v", err)
		}
	}
	s.log.Debug("scheduler: sweep complete")
}

// poll runs the pipeline for one location. Alert evaluation happens for every
// fetched reading even if the persist step fails; the two are independent
// consumers of the same observation.
func (s *Scheduler) poll(location string) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	obs, err := s.service.FetchCurrent(ctx, location)
	if err != nil {
		return err
	}

	persistErr := s.service.Persist(ctx, obs)

	if s.tracker.Observe(location, obs.Temperature) == weather.Alert {
		ev := weather.AlertEvent{
			Location:    location,
			Temperature: obs.Temperature,
			Threshold:   s.tracker.Threshold(),
			Consecutive: s.tracker.Required(),
		}
		if err := s.notifier.Send(ctx, ev); err != nil {
			// A lost alert is logged and dropped; it does not re-arm the counter.
			s.log.WithField("location", location).Errorf("scheduler: alert notification failed: %v", err)
		} else {
			s.log.WithField("location", location).Infof(
				"scheduler: alert sent at %.1f°C", obs.Temperature)
		}
	}

	return persistErr
}