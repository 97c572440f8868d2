// Package driver glues the selection engine, the playlist convergence
// controller, and the player HTTP client together on a polling
// schedule. Grounded on internal/scheduler/scheduler.go's event-loop
// shape (ticker-driven Run, single goroutine owns all mutable state).
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prxssh/mediactl/internal/convert"
	"github.com/prxssh/mediactl/internal/engine"
	"github.com/prxssh/mediactl/internal/metrics"
	"github.com/prxssh/mediactl/internal/player"
	"github.com/prxssh/mediactl/pkg/rng"
)

// Player is the subset of *player.Client the driver depends on, so
// tests can substitute a fake.
type Player interface {
	Status(ctx context.Context) (*player.PlaybackStatus, error)
	Playlist(ctx context.Context) (*player.PlaylistInfo, error)
	Add(ctx context.Context, uri string) (*player.PlaybackStatus, error)
	Delete(ctx context.Context, id string) (*player.PlaybackStatus, error)
	Play(ctx context.Context, id string) (*player.PlaybackStatus, error)
}

// Config bounds the driver's cadence and lookahead behavior.
type Config struct {
	PollInterval    time.Duration
	LookaheadCount  int
	MaxHistoryCount uint32
}

// Driver owns one Network and one Converter and keeps the player's
// observed playlist converging to the engine's current selection.
type Driver struct {
	log       *slog.Logger
	cfg       Config
	player    Player
	network   *engine.Network[string, string]
	converter *convert.Converter
	rng       rng.Source
	metrics   *metrics.Metrics

	lastObservedAt time.Time
}

// New constructs a Driver over an already-populated network. m may be
// nil, in which case counters are not recorded.
func New(log *slog.Logger, cfg Config, p Player, network *engine.Network[string, string], src rng.Source, m *metrics.Metrics) *Driver {
	return &Driver{
		log:       log.With("component", "driver"),
		cfg:       cfg,
		player:    p,
		network:   network,
		converter: convert.NewConverter(),
		rng:       src,
		metrics:   m,
	}
}

// Run drives ticks until ctx is canceled. Each tick observes the
// player, feeds the observation to the Converter, and issues at most
// one primitive command, matching the Converter's one-action-per-tick
// contract.
func (d *Driver) Run(ctx context.Context) error {
	d.log.Debug("driver event loop started")

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("driver shutting down", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := d.tick(ctx); err != nil {
				d.log.Error("tick failed", "error", err)
				if d.metrics != nil {
					d.metrics.TickFailures.Inc()
				}
				continue
			}
			if d.metrics != nil {
				d.metrics.ConvergeTicks.Inc()
			}
		}
	}
}

// NeedsFreshObservation reports whether the driver has no observation
// yet or its last one is at least PollInterval old as of now, the way
// the original rule engine decided when a stale observation was no
// longer good enough to act on. This cadence policy is left to the
// caller by the convergence controller itself.
func (d *Driver) NeedsFreshObservation(now time.Time) bool {
	if d.lastObservedAt.IsZero() {
		return true
	}
	return now.Sub(d.lastObservedAt) >= d.cfg.PollInterval
}

func (d *Driver) tick(ctx context.Context) error {
	status, err := d.player.Status(ctx)
	if err != nil {
		return fmt.Errorf("driver: status: %w", err)
	}
	playlistInfo, err := d.player.Playlist(ctx)
	if err != nil {
		return fmt.Errorf("driver: playlist: %w", err)
	}
	d.lastObservedAt = time.Now()

	cmd, err := d.buildCommand()
	if err != nil {
		return fmt.Errorf("driver: build command: %w", err)
	}
	if cmd == nil {
		return nil
	}

	action, err := d.converter.Next(toConvertPlaylist(playlistInfo), toConvertStatus(status), *cmd)
	if err != nil {
		return fmt.Errorf("driver: converter: %w", err)
	}
	if action == nil {
		return nil
	}
	if action.NeedsFreshObservation {
		return nil
	}

	return d.issue(ctx, action.Command)
}

// buildCommand asks the engine what item should currently be playing
// and what should come next, within the driver's lookahead window. A
// nil result (no error) means the engine has nothing queued yet.
func (d *Driver) buildCommand() (*convert.Command, error) {
	needing, err := d.network.GetBucketsNeedingFill()
	if err != nil {
		return nil, err
	}
	if len(needing) > 0 {
		return nil, fmt.Errorf("driver: %d bucket(s) still need filling before playback can proceed", len(needing))
	}

	peeked, err := d.network.Peek(d.rng, d.cfg.LookaheadCount)
	if err != nil {
		return nil, err
	}
	if d.metrics != nil {
		d.metrics.PeekEffort.Add(float64(peeked.GetEffortCount()))
	}

	items := peeked.Items()
	if len(items) == 0 {
		return nil, nil
	}

	cmd, err := convert.NewCommand(items[0], items[1:], d.cfg.MaxHistoryCount)
	if err != nil {
		return nil, err
	}
	d.network.FinalizePeeked(peeked.AcceptIntoInner())
	return &cmd, nil
}

func (d *Driver) issue(ctx context.Context, lc *convert.LowCommand) error {
	if d.metrics != nil {
		d.metrics.CommandsEmitted.WithLabelValues(lc.Kind.String()).Inc()
	}

	switch lc.Kind {
	case convert.LowAdd:
		_, err := d.player.Add(ctx, lc.URL)
		return err
	case convert.LowDelete:
		_, err := d.player.Delete(ctx, lc.ID)
		return err
	case convert.LowPlay:
		_, err := d.player.Play(ctx, lc.ID)
		return err
	default:
		return fmt.Errorf("driver: unknown low command kind %v", lc.Kind)
	}
}

func toConvertPlaylist(p *player.PlaylistInfo) convert.PlaylistInfo {
	items := make([]convert.PlaylistItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = convert.PlaylistItem{ID: it.ID, URL: it.URI}
	}
	return convert.PlaylistInfo{Items: items}
}

func toConvertStatus(s *player.PlaybackStatus) convert.PlaybackStatus {
	return convert.PlaybackStatus{CurrentItemID: s.CurrentItemID}
}
