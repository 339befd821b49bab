package simulator

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/districtnet/wifi-dashboard/metrics"
	"github.com/districtnet/wifi-dashboard/models"
	"github.com/districtnet/wifi-dashboard/repositories"
)

// Broadcaster receives the snapshot after every tick. Satisfied by
// realtime.Hub.
type Broadcaster interface {
	Broadcast(snap *models.LiveSnapshot)
}

// Simulator perturbs district and device metrics on a fixed interval
// and pushes the result to the broadcaster. All randomness flows
// through one injectable source so tests can seed it.
type Simulator struct {
	districts   repositories.DistrictRepository
	devices     repositories.DeviceRepository
	connections repositories.ConnectionLogRepository
	events      repositories.SecurityEventRepository
	broadcaster Broadcaster
	metrics     *metrics.Metrics
	interval    time.Duration
	rng         *rand.Rand
}

// Config holds simulator construction parameters
type Config struct {
	Interval    time.Duration
	Seed        int64
	Broadcaster Broadcaster
	Metrics     *metrics.Metrics
}

// New creates a simulator over the given repositories
func New(repos *repositories.Repositories, cfg Config) *Simulator {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Simulator{
		districts:   repos.Districts,
		devices:     repos.Devices,
		connections: repos.Connections,
		events:      repos.SecurityEvent,
		broadcaster: cfg.Broadcaster,
		metrics:     cfg.Metrics,
		interval:    interval,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Run ticks until the context is cancelled. Call in its own goroutine.
func (s *Simulator) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("Simulator started (interval %s)", s.interval)

	for {
		select {
		case <-ctx.Done():
			log.Printf("Simulator stopped")
			return
		case <-ticker.C:
			if err := s.Tick(ctx); err != nil {
				log.Printf("Simulator tick failed: %v", err)
				if s.metrics != nil {
					s.metrics.SimulatorErrorsTotal.Inc()
				}
			}
		}
	}
}

// Tick runs one simulation step: perturb every district, touch a
// random device, maybe fabricate a security event, then broadcast.
func (s *Simulator) Tick(ctx context.Context) error {
	districts, err := s.districts.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load districts: %w", err)
	}

	for i := range districts {
		d := &districts[i]
		s.perturbDistrict(d)
		if err := s.districts.UpdateMetrics(ctx, d); err != nil {
			return fmt.Errorf("failed to persist district %d: %w", d.ID, err)
		}
	}

	if err := s.touchRandomDevice(ctx); err != nil {
		log.Printf("Simulator device update failed: %v", err)
	}

	// Roughly one fabricated event per minute at the default interval.
	if len(districts) > 0 && s.rng.Intn(12) == 0 {
		if err := s.fabricateEvent(ctx, districts); err != nil {
			log.Printf("Simulator event insert failed: %v", err)
		}
	}

	if s.broadcaster != nil {
		summary, err := s.districts.Summary(ctx)
		if err != nil {
			return fmt.Errorf("failed to build summary: %w", err)
		}
		s.broadcaster.Broadcast(&models.LiveSnapshot{
			Districts: districts,
			Summary:   *summary,
		})
	}

	if s.metrics != nil {
		s.metrics.SimulatorTicksTotal.Inc()
	}
	return nil
}

// step returns a uniform random integer in [-n, n]
func (s *Simulator) step(n int) int {
	return s.rng.Intn(2*n+1) - n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// perturbDistrict applies bounded random steps to one district's
// metrics and rederives its status.
func (s *Simulator) perturbDistrict(d *models.District) {
	d.ActiveHotspots = clamp(d.ActiveHotspots+s.step(2), 0, d.TotalHotspots)

	d.ConnectedDevices += s.step(15)
	if d.ConnectedDevices < 0 {
		d.ConnectedDevices = 0
	}

	d.UtilizationPct = clamp(d.UtilizationPct+s.step(5), 0, 100)

	// Bandwidth tracks the device count with ±10% jitter.
	jitter := 0.9 + 0.2*s.rng.Float64()
	d.BandwidthMbps = float64(d.ConnectedDevices) * 1.2 * jitter

	d.Status = d.DeriveStatus()
}

// touchRandomDevice bumps usage counters on one active device and logs
// a connection event for it.
func (s *Simulator) touchRandomDevice(ctx context.Context) error {
	devices, err := s.devices.GetActive(ctx)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		return nil
	}

	device := devices[s.rng.Intn(len(devices))]
	dataMB := 0.5 + s.rng.Float64()*49.5

	if err := s.devices.RecordUsage(ctx, device.ID, dataMB); err != nil {
		return err
	}

	event := models.ConnectionEventConnect
	if s.rng.Intn(4) == 0 {
		event = models.ConnectionEventDisconnect
	}

	return s.connections.Create(ctx, &models.ConnectionLogEntry{
		DeviceID:   device.ID,
		DistrictID: device.DistrictID,
		Event:      event,
		SignalDBM:  -30 - s.rng.Intn(61), // -30..-90 dBm
	})
}

var fabricatedTypes = []string{
	models.EventSuspiciousTraffic,
	models.EventRogueHotspot,
	models.EventAuthLockout,
}

var fabricatedSeverities = []string{
	models.SeverityLow,
	models.SeverityMedium,
	models.SeverityHigh,
	models.SeverityCritical,
}

// fabricateEvent inserts a synthetic security event in a random district
func (s *Simulator) fabricateEvent(ctx context.Context, districts []models.District) error {
	district := districts[s.rng.Intn(len(districts))]
	eventType := fabricatedTypes[s.rng.Intn(len(fabricatedTypes))]

	event := &models.SecurityEvent{
		EventType:   eventType,
		Severity:    fabricatedSeverities[s.rng.Intn(len(fabricatedSeverities))],
		DistrictID:  &district.ID,
		Source:      district.Name,
		Description: fmt.Sprintf("Simulated %s detected in %s", eventType, district.Name),
	}

	if err := s.events.Create(ctx, event); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.EventsGenerated.Inc()
	}
	return nil
}
