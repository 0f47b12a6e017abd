// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package core implements the deployment and resolution protocol of
// the shard-local shared code store, and drives the epoch clock that
// sweeps expired references.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/ChainSafe/chaindb"
	log "github.com/ChainSafe/log15"

	"github.com/ChainSafe/shardcode/lib/common"
	"github.com/ChainSafe/shardcode/lib/services"
	"github.com/ChainSafe/shardcode/ses/types"
)

var (
	_      services.Service = &Service{}
	logger log.Logger       = log.New("pkg", "core")
)

// Service implements the deployment and resolution protocol. All
// reference mutations are local to this node's shard; no cross-shard
// coordination happens here.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc

	shard       uint32
	epochLength time.Duration

	epochState     EpochState
	referenceState ReferenceState
	blobState      BlobState
	accountState   AccountState

	notifierLock   sync.RWMutex
	sweepNotifiers map[chan *types.SweepResult]struct{}
}

// Config holds the configuration for the core service
type Config struct {
	LogLvl log.Lvl
	Shard  uint32

	// EpochLength is the wall-clock duration of one epoch. If zero,
	// the epoch clock does not tick on its own and epochs only advance
	// through SetEpoch (dev RPC and tests).
	EpochLength time.Duration

	EpochState     EpochState
	ReferenceState ReferenceState
	BlobState      BlobState
	AccountState   AccountState
}

// NewService returns a new core service
func NewService(cfg *Config) (*Service, error) {
	if cfg.EpochState == nil {
		return nil, ErrNilEpochState
	}
	if cfg.ReferenceState == nil {
		return nil, ErrNilReferenceState
	}
	if cfg.BlobState == nil {
		return nil, ErrNilBlobState
	}
	if cfg.AccountState == nil {
		return nil, ErrNilAccountState
	}

	h := log.StreamHandler(os.Stdout, log.TerminalFormat())
	logger.SetHandler(log.LvlFilterHandler(cfg.LogLvl, h))

	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		ctx:            ctx,
		cancel:         cancel,
		shard:          cfg.Shard,
		epochLength:    cfg.EpochLength,
		epochState:     cfg.EpochState,
		referenceState: cfg.ReferenceState,
		blobState:      cfg.BlobState,
		accountState:   cfg.AccountState,
		sweepNotifiers: make(map[chan *types.SweepResult]struct{}),
	}, nil
}

// Start begins the epoch clock, if one is configured
func (s *Service) Start() error {
	if s.epochLength == 0 {
		logger.Warn("no epoch length configured; epochs only advance via dev RPC")
		return nil
	}
	go s.epochLoop()
	return nil
}

// Stop stops the epoch clock
func (s *Service) Stop() error {
	s.cancel()
	return nil
}

// Shard returns the shard this node serves
func (s *Service) Shard() uint32 {
	return s.shard
}

// CurrentEpoch returns the shard's current epoch
func (s *Service) CurrentEpoch() (uint64, error) {
	return s.epochState.CurrentEpoch()
}

func (s *Service) epochLoop() {
	ticker := time.NewTicker(s.epochLength)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.AdvanceEpoch(); err != nil {
				logger.Error("failed to advance epoch", "err", err)
			}
		}
	}
}

// AdvanceEpoch moves the shard to the next epoch and sweeps expired
// references. The expiry decision and the deletion happen in a single
// pass relative to concurrent accesses.
func (s *Service) AdvanceEpoch() (*types.SweepResult, error) {
	epoch, err := s.epochState.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	return s.transitionTo(epoch + 1)
}

// SetEpoch moves the shard directly to the given epoch. Epochs are
// monotonic: moving backwards is rejected. Used by the dev RPC module
// and by tests.
func (s *Service) SetEpoch(epoch uint64) (*types.SweepResult, error) {
	current, err := s.epochState.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	if epoch < current {
		return nil, fmt.Errorf("%w: current %d, requested %d", ErrEpochRegression, current, epoch)
	}
	return s.transitionTo(epoch)
}

func (s *Service) transitionTo(epoch uint64) (*types.SweepResult, error) {
	if err := s.epochState.SetCurrentEpoch(epoch); err != nil {
		return nil, err
	}

	swept, err := s.referenceState.Sweep(epoch)
	if err != nil {
		return nil, fmt.Errorf("sweeping at epoch %d: %w", epoch, err)
	}

	result := &types.SweepResult{
		Epoch: epoch,
		Swept: swept,
	}

	currentEpoch.Set(float64(epoch))
	sweepsTotal.Inc()
	sweptReferencesTotal.Add(float64(len(swept)))
	if count, err := s.referenceState.Count(); err == nil {
		liveReferences.Set(float64(count))
	}

	logger.Info("epoch transition", "epoch", epoch, "swept", len(swept))
	s.notifySweep(result)
	return result, nil
}

// Sweep runs a sweep at the current epoch without advancing it.
// Exposed through the unsafe dev RPC module.
func (s *Service) Sweep() (*types.SweepResult, error) {
	epoch, err := s.epochState.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	return s.transitionTo(epoch)
}

// HandleDeploy applies a deploy action to the account's code slot and
// returns the content hash of the deployed code.
//
// Shared deploys must address this node's shard. A soft-locked account
// only accepts a byte-identical re-deploy on the same shard; that
// re-deploy regenerates the reference under the same hash, unlocking
// every account that still points at it.
func (s *Service) HandleDeploy(deploy *types.Deploy) (common.Hash, error) {
	if deploy == nil || len(deploy.Code) == 0 {
		return common.Hash{}, ErrEmptyCode
	}

	hash, err := common.Blake2bHash(deploy.Code)
	if err != nil {
		return common.Hash{}, err
	}

	// a soft-locked slot only leaves that state through a
	// byte-identical shared re-deploy on the same shard
	locked, lockedHash, err := s.softLocked(deploy.Account)
	if err != nil {
		return common.Hash{}, err
	}
	if locked && (!deploy.Shared || hash != lockedHash || deploy.Shard != s.shard) {
		return common.Hash{}, fmt.Errorf("%w: account %s is locked on %s",
			ErrInvalidRedeploy, deploy.Account, lockedHash)
	}

	if !deploy.Shared {
		if err := s.accountState.SetPrivateCode(deploy.Account, deploy.Code); err != nil {
			return common.Hash{}, err
		}
		deploysTotal.WithLabelValues("private").Inc()
		return hash, nil
	}

	if deploy.Shard != s.shard {
		return common.Hash{}, fmt.Errorf("%w: deploy addressed shard %d, node serves shard %d",
			ErrLocalityMismatch, deploy.Shard, s.shard)
	}

	epoch, err := s.epochState.CurrentEpoch()
	if err != nil {
		return common.Hash{}, err
	}

	// blob and reference are written in one batch under the reference
	// store mutex, so a concurrent sweep sees either both or neither
	expiry, err := s.referenceState.CreateOrTouchWithBlob(hash, deploy.Code, epoch)
	if err != nil {
		return common.Hash{}, fmt.Errorf("storing blob and reference: %w", err)
	}

	if err := s.accountState.SetSharedCode(deploy.Account, hash, s.shard); err != nil {
		return common.Hash{}, err
	}

	deploysTotal.WithLabelValues("shared").Inc()
	sharedBytesTotal.Add(float64(len(deploy.Code)))
	if count, err := s.referenceState.Count(); err == nil {
		liveReferences.Set(float64(count))
	}

	logger.Debug("handled shared deploy",
		"account", deploy.Account, "hash", hash, "expiry", expiry)
	return hash, nil
}

// softLocked reports whether the account currently references swept
// shared code, and if so which hash it is locked on
func (s *Service) softLocked(id types.AccountID) (bool, common.Hash, error) {
	has, err := s.accountState.Has(id)
	if err != nil || !has {
		return false, common.Hash{}, err
	}

	ac, err := s.accountState.Code(id)
	if err != nil {
		return false, common.Hash{}, err
	}
	if !ac.IsShared() {
		return false, common.Hash{}, nil
	}

	live, err := s.referenceState.Has(ac.Hash)
	if err != nil {
		return false, common.Hash{}, err
	}
	return !live, ac.Hash, nil
}

// ResolveCode resolves the account's executable code, as done on every
// contract invocation. Resolving shared code renews its reference.
// If the referenced code has been swept, the call fails with
// ErrCodeSoftLocked before any state mutation.
func (s *Service) ResolveCode(id types.AccountID) ([]byte, error) {
	ac, err := s.accountState.Code(id)
	if err != nil {
		return nil, err
	}

	if !ac.IsShared() {
		return ac.Code, nil
	}

	if ac.Shard != s.shard {
		return nil, fmt.Errorf("%w: reference bound to shard %d, node serves shard %d",
			ErrLocalityMismatch, ac.Shard, s.shard)
	}

	epoch, err := s.epochState.CurrentEpoch()
	if err != nil {
		return nil, err
	}

	if _, err := s.referenceState.Touch(ac.Hash, epoch); err != nil {
		if errors.Is(err, chaindb.ErrKeyNotFound) {
			softLockedTotal.Inc()
			return nil, fmt.Errorf("%w: account %s references %s",
				ErrCodeSoftLocked, id, ac.Hash)
		}
		return nil, err
	}
	touchesTotal.Inc()

	code, err := s.blobState.Get(ac.Hash)
	if err != nil {
		// the reference was touchable, so the blob must exist; sweep
		// removes both in one batch
		return nil, fmt.Errorf("blob missing for live reference %s: %w", ac.Hash, err)
	}
	return code, nil
}

// PeekCode returns the account's code slot and its bytes without
// renewing the reference. Used by read-only queries, which must not
// extend an entry's life.
func (s *Service) PeekCode(id types.AccountID) (*types.AccountCode, []byte, error) {
	ac, err := s.accountState.Code(id)
	if err != nil {
		return nil, nil, err
	}

	if !ac.IsShared() {
		return ac, ac.Code, nil
	}

	code, err := s.blobState.Get(ac.Hash)
	if errors.Is(err, chaindb.ErrKeyNotFound) {
		return ac, nil, fmt.Errorf("%w: account %s references %s",
			ErrCodeSoftLocked, id, ac.Hash)
	} else if err != nil {
		return nil, nil, err
	}
	return ac, code, nil
}

// CodeStatus returns how the account's code slot currently resolves,
// together with the slot itself. It does not renew the reference.
func (s *Service) CodeStatus(id types.AccountID) (types.CodeStatus, *types.AccountCode, error) {
	ac, err := s.accountState.Code(id)
	if err != nil {
		return "", nil, err
	}

	if !ac.IsShared() {
		return types.CodeStatusPrivate, ac, nil
	}

	live, err := s.referenceState.Has(ac.Hash)
	if err != nil {
		return "", nil, err
	}
	if !live {
		return types.CodeStatusSoftLocked, ac, nil
	}
	return types.CodeStatusShared, ac, nil
}

// Health reports the node's current epoch, shard and reference count
func (s *Service) Health() (*types.Health, error) {
	epoch, err := s.epochState.CurrentEpoch()
	if err != nil {
		return nil, err
	}
	count, err := s.referenceState.Count()
	if err != nil {
		return nil, err
	}
	return &types.Health{
		Epoch:          epoch,
		Shard:          s.shard,
		LiveReferences: count,
	}, nil
}

// GetSweepNotifierChannel returns a channel that receives every sweep
// result. The channel must be freed with FreeSweepNotifierChannel.
func (s *Service) GetSweepNotifierChannel() chan *types.SweepResult {
	s.notifierLock.Lock()
	defer s.notifierLock.Unlock()

	ch := make(chan *types.SweepResult, 16)
	s.sweepNotifiers[ch] = struct{}{}
	return ch
}

// FreeSweepNotifierChannel removes the given channel from the notifier set
func (s *Service) FreeSweepNotifierChannel(ch chan *types.SweepResult) {
	s.notifierLock.Lock()
	defer s.notifierLock.Unlock()

	delete(s.sweepNotifiers, ch)
}

func (s *Service) notifySweep(result *types.SweepResult) {
	s.notifierLock.RLock()
	defer s.notifierLock.RUnlock()

	for ch := range s.sweepNotifiers {
		select {
		case ch <- result:
		default:
			// slow subscribers miss sweeps rather than blocking the
			// epoch transition
		}
	}
}
