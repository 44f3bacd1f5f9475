package quiz

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/wordwise/internal/model"
)

const (
	defaultTickUnit = time.Second
	saveTimeout     = 10 * time.Second
)

// Saver persists a finished game.
type Saver interface {
	Save(ctx context.Context, snap model.Snapshot) error
}

// DriverOptions configures a Driver.
type DriverOptions struct {
	// Unit is the real duration of one tick.
	Unit   time.Duration
	Saver  Saver
	UserID string
	// OnNotice and OnChange may be called from the save goroutine; calls are serialized.
	OnNotice func(Notice)
	OnChange func(State)
}

// Driver runs a Session against wall-clock time. Answers and timer firings are
// applied from a single loop goroutine.
type Driver struct {
	session *Session
	opts    DriverOptions
	answers chan int

	notifyMu sync.Mutex
	saves    sync.WaitGroup
}

// NewDriver wraps session.
func NewDriver(session *Session, opts DriverOptions) *Driver {
	if opts.Unit <= 0 {
		opts.Unit = defaultTickUnit
	}
	return &Driver{
		session: session,
		opts:    opts,
		answers: make(chan int, 8),
	}
}

// Answer queues an option selection. It never blocks; input arriving while the
// queue is full is dropped.
func (d *Driver) Answer(option int) {
	select {
	case d.answers <- option:
	default:
	}
}

// Run plays one game and returns its snapshot once the results phase is
// reached. The snapshot is saved in the background; use Wait to flush saves.
func (d *Driver) Run(ctx context.Context, pool []model.Question, cfg model.SessionConfig) (model.Snapshot, error) {
	task, err := d.session.Start(pool, cfg)
	if err != nil {
		return model.Snapshot{}, err
	}
	d.changed()

	timer := time.NewTimer(d.delay(task))
	defer timer.Stop()

	for {
		// Input stays queued while an answer is revealed.
		answers := d.answers
		if d.session.Revealed() {
			answers = nil
		}

		var out Outcome
		select {
		case <-ctx.Done():
			d.session.Reset()
			return model.Snapshot{}, ctx.Err()
		case option := <-answers:
			out = d.session.Select(option)
		case <-timer.C:
			out = d.session.Fire(task)
		}

		d.notify(out.Notices...)
		if out.Next != nil || out.Snapshot != nil || len(out.Notices) > 0 {
			d.changed()
		}
		if out.Snapshot != nil {
			snap := *out.Snapshot
			snap.UserID = d.opts.UserID
			d.save(snap)
			return snap, nil
		}
		if out.Next != nil {
			task = *out.Next
			resetTimer(timer, d.delay(task))
		}
	}
}

// Wait blocks until background saves have finished.
func (d *Driver) Wait() {
	d.saves.Wait()
}

func (d *Driver) save(snap model.Snapshot) {
	if d.opts.Saver == nil {
		return
	}
	d.saves.Add(1)
	go func() {
		defer d.saves.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := d.opts.Saver.Save(ctx, snap); err != nil {
			d.notify(Notice{Level: LevelError, Text: "Failed to save game result"})
			return
		}
		d.notify(Notice{Level: LevelSuccess, Text: "Game result saved successfully!"})
	}()
}

func (d *Driver) delay(task Task) time.Duration {
	return time.Duration(task.After) * d.opts.Unit
}

func (d *Driver) notify(notices ...Notice) {
	if d.opts.OnNotice == nil || len(notices) == 0 {
		return
	}
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	for _, n := range notices {
		d.opts.OnNotice(n)
	}
}

func (d *Driver) changed() {
	if d.opts.OnChange == nil {
		return
	}
	d.notifyMu.Lock()
	defer d.notifyMu.Unlock()
	d.opts.OnChange(d.session.State())
}

func resetTimer(timer *time.Timer, delay time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(delay)
}
