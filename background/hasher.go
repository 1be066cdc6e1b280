// Package background contains work that runs off the HTTP request goroutines.
//
// Hasher is a fixed pool of workers doing bcrypt hashing and comparison.
// bcrypt is deliberately slow and CPU bound, so request handlers hand the job
// to the pool and wait for the answer (or for their context to end) instead
// of burning their own goroutine on it. The pool size bounds how many hashes
// run at once no matter how many logins arrive together.
package background

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/ryantanww/MovAI/logging"
)

// ErrHasherStopped is returned for jobs submitted to, or still queued in, a
// stopped Hasher.
var ErrHasherStopped = errors.New("hasher stopped")

// dummyPassword is hashed once at startup. Comparing against its hash gives
// an unknown-account login the same cost as a wrong password.
const dummyPassword = "movai-dummy-password"

type jobKind int

const (
	jobHash jobKind = iota
	jobCompare
)

// job is one unit of work. result is buffered so a worker never blocks on a
// caller that already gave up.
type job struct {
	kind     jobKind
	password []byte
	hash     []byte
	result   chan jobResult
}

type jobResult struct {
	hash []byte
	err  error
}

// Hasher runs bcrypt on a fixed number of worker goroutines.
type Hasher struct {
	cost      int
	jobs      chan job
	stopChan  chan struct{}
	stopOnce  sync.Once
	workersWg sync.WaitGroup
	dummyHash []byte
	log       logging.Logger
}

// NewHasher starts workers goroutines hashing at the given bcrypt cost.
// Call Stop to release them.
func NewHasher(workers, cost int, log logging.Logger) (*Hasher, error) {
	if workers < 1 {
		workers = 1
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, bcrypt.InvalidCostError(cost)
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	if err != nil {
		return nil, err
	}

	h := &Hasher{
		cost:      cost,
		jobs:      make(chan job, workers*4),
		stopChan:  make(chan struct{}),
		dummyHash: dummy,
		log:       log.With("component", "hasher"),
	}
	for i := 0; i < workers; i++ {
		h.workersWg.Add(1)
		go h.worker()
	}
	h.log.Info(context.Background(), "password hasher started", "workers", workers, "cost", cost)
	return h, nil
}

func (h *Hasher) worker() {
	defer h.workersWg.Done()
	for {
		select {
		case <-h.stopChan:
			return
		case j := <-h.jobs:
			j.result <- h.run(j)
		}
	}
}

func (h *Hasher) run(j job) jobResult {
	switch j.kind {
	case jobHash:
		hash, err := bcrypt.GenerateFromPassword(j.password, h.cost)
		return jobResult{hash: hash, err: err}
	case jobCompare:
		return jobResult{err: bcrypt.CompareHashAndPassword(j.hash, j.password)}
	default:
		return jobResult{err: errors.New("unknown hasher job")}
	}
}

// submit queues j and waits for its result.
func (h *Hasher) submit(ctx context.Context, j job) (jobResult, error) {
	select {
	case <-h.stopChan:
		return jobResult{}, ErrHasherStopped
	default:
	}

	select {
	case h.jobs <- j:
	case <-ctx.Done():
		return jobResult{}, ctx.Err()
	case <-h.stopChan:
		return jobResult{}, ErrHasherStopped
	}

	select {
	case r := <-j.result:
		return r, nil
	case <-ctx.Done():
		return jobResult{}, ctx.Err()
	case <-h.stopChan:
		return jobResult{}, ErrHasherStopped
	}
}

// Hash returns the bcrypt hash of password. Passwords longer than 72 bytes
// fail with bcrypt.ErrPasswordTooLong.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	r, err := h.submit(ctx, job{kind: jobHash, password: []byte(password), result: make(chan jobResult, 1)})
	if err != nil {
		return "", err
	}
	if r.err != nil {
		return "", r.err
	}
	return string(r.hash), nil
}

// Compare checks password against hash. It returns nil on a match and
// bcrypt.ErrMismatchedHashAndPassword on a mismatch.
func (h *Hasher) Compare(ctx context.Context, hash, password string) error {
	r, err := h.submit(ctx, job{kind: jobCompare, hash: []byte(hash), password: []byte(password), result: make(chan jobResult, 1)})
	if err != nil {
		return err
	}
	return r.err
}

// CompareDummy spends one comparison's worth of work and always fails.
func (h *Hasher) CompareDummy(ctx context.Context, password string) error {
	err := h.Compare(ctx, string(h.dummyHash), password)
	if err == nil {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return err
}

// Stop signals the workers to exit and waits for them. Jobs still queued are
// abandoned and their callers get ErrHasherStopped. Safe to call more than once.
func (h *Hasher) Stop() {
	h.stopOnce.Do(func() {
		close(h.stopChan)
		h.workersWg.Wait()
		h.log.Info(context.Background(), "password hasher stopped")
	})
}
