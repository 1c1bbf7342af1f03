// Copyright 2024 Kelpchain Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package validator

import (
	"encoding/binary"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kelpchain/harvestd/internal/chain"
	"github.com/kelpchain/harvestd/internal/config"
	"github.com/kelpchain/harvestd/internal/logging"
	"github.com/kelpchain/harvestd/internal/metrics"

	"github.com/minio/sha256-simd"
)

// Candidate is a block awaiting a block-hit decision
type Candidate struct {
	Parent         *chain.Block
	Block          *chain.Block
	GenerationHash chain.GenerationHash
}

// Manager fans candidate blocks out to a pool of workers, each evaluating
// the block-hit predicate. Accepted candidates are delivered on the result
// channel for the chain-selection layer.
type Manager struct {
	workerWaitGroup  sync.WaitGroup
	candidateChan    chan Candidate
	resultChan       chan Candidate
	doneChan         chan any
	started          bool
	startMutex       sync.Mutex
	stopMutex        sync.Mutex
	evalCounter      *atomic.Uint64
	rateLogTimer     *time.Timer
	rateLogLastCount uint64
	predicate        *chain.BlockHitPredicate
}

var globalManager = &Manager{}

func (m *Manager) reset() {
	cfg := config.GetConfig()
	m.workerWaitGroup = sync.WaitGroup{}
	m.doneChan = make(chan any)
	m.candidateChan = make(chan Candidate, cfg.Validator.WorkerCount)
	m.resultChan = make(chan Candidate, cfg.Validator.WorkerCount)
}

func (m *Manager) Start(predicate *chain.BlockHitPredicate) {
	m.startMutex.Lock()
	defer m.startMutex.Unlock()
	if m.started {
		return
	}
	cfg := config.GetConfig()
	logger := logging.GetLogger()
	m.predicate = predicate
	// Start evaluation rate log timer
	m.evalCounter = &atomic.Uint64{}
	m.rateLogLastCount = 0
	m.scheduleRateLog()
	// Start workers
	m.reset()
	logger.Infof("starting %d workers", cfg.Validator.WorkerCount)
	for i := 0; i < cfg.Validator.WorkerCount; i++ {
		m.workerWaitGroup.Add(1)
		go m.runWorker()
	}
	m.started = true
}

func (m *Manager) Stop() {
	m.stopMutex.Lock()
	defer m.stopMutex.Unlock()
	if !m.started {
		return
	}
	if m.rateLogTimer != nil {
		m.rateLogTimer.Stop()
	}
	close(m.doneChan)
	m.workerWaitGroup.Wait()
	close(m.resultChan)
	m.started = false
	logging.GetLogger().Infof("stopped workers")
}

// Submit queues a candidate block for evaluation. It blocks when all
// workers are busy and the queue is full.
func (m *Manager) Submit(candidate Candidate) {
	m.candidateChan <- candidate
}

// Results returns the channel carrying accepted candidates
func (m *Manager) Results() <-chan Candidate {
	return m.resultChan
}

func (m *Manager) runWorker() {
	defer m.workerWaitGroup.Done()
	logger := logging.GetLogger()
	for {
		select {
		case <-m.doneChan:
			return
		case candidate := <-m.candidateChan:
			accepted := m.predicate.Hit(
				candidate.Parent,
				candidate.Block,
				candidate.GenerationHash,
			)
			m.evalCounter.Add(1)
			metrics.GetCandidatesEvaluated().Inc()
			if !accepted {
				continue
			}
			metrics.GetCandidatesAccepted().Inc()
			logger.Infof(
				"candidate %x at height %d hit its target",
				blockID(candidate.Block),
				candidate.Block.Height,
			)
			select {
			case <-m.doneChan:
				return
			case m.resultChan <- candidate:
			}
		}
	}
}

func (m *Manager) scheduleRateLog() {
	cfg := config.GetConfig()
	m.rateLogTimer = time.AfterFunc(
		time.Duration(cfg.Validator.RateLogInterval)*time.Second,
		m.rateLog,
	)
}

func (m *Manager) rateLog() {
	cfg := config.GetConfig()
	evalCount := m.evalCounter.Load()
	// Handle counter rollover
	if evalCount < m.rateLogLastCount {
		m.rateLogLastCount = 0
		m.scheduleRateLog()
		return
	}
	evalCountDiff := evalCount - m.rateLogLastCount
	m.rateLogLastCount = evalCount
	secondDivisor := uint64(cfg.Validator.RateLogInterval) // #nosec G115
	evalsPerSec := evalCountDiff / secondDivisor
	logging.GetLogger().Infof("evaluation rate: %d/s", evalsPerSec)
	m.scheduleRateLog()
}

// blockID derives a compact identifier for a candidate block for logging
func blockID(block *chain.Block) []byte {
	buf := make([]byte, 0, 48)
	buf = binary.BigEndian.AppendUint64(buf, uint64(block.Height))
	buf = binary.BigEndian.AppendUint64(buf, uint64(block.Timestamp))
	buf = append(buf, block.Signer[:]...)

	// Hash it once
	hasher := sha256.New()
	hasher.Write(buf)
	hash := hasher.Sum(nil)

	// And hash it again
	hasher2 := sha256.New()
	hasher2.Write(hash)
	return hasher2.Sum(nil)[:8]
}

// GetManager returns the global manager instance
func GetManager() *Manager {
	return globalManager
}
