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

package ledger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelpchain/harvestd/internal/chain"
	"github.com/kelpchain/harvestd/internal/config"
	"github.com/kelpchain/harvestd/internal/logging"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
)

const (
	chainCursorKey      = "chain_cursor"
	importanceKeyPrefix = "importance"
)

// Ledger answers historical importance lookups for block-hit evaluation.
// Importances are recorded at grouped heights; a lookup at any height reads
// the entry for the containing group.
type Ledger struct {
	db       *badger.DB
	grouping uint64
}

// importanceEntry is the stored representation of an account's importance
// at a grouped height
type importanceEntry struct {
	Importance uint64 `cbor:"1,keyasint"`
}

var globalLedger = &Ledger{}

func (l *Ledger) Load() error {
	cfg := config.GetConfig()
	badgerOpts := badger.DefaultOptions(cfg.Storage.Directory).
		WithLogger(NewBadgerLogger()).
		// The default INFO logging is a bit verbose
		WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return err
	}
	l.db = db
	l.grouping = cfg.Chain.ImportanceGrouping
	return nil
}

func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

// UpdateCursor records the chain tip the ledger state corresponds to
func (l *Ledger) UpdateCursor(height chain.Height, blockHash string) error {
	err := l.db.Update(func(txn *badger.Txn) error {
		val := fmt.Sprintf("%d,%s", height, blockHash)
		if err := txn.Set([]byte(chainCursorKey), []byte(val)); err != nil {
			return err
		}
		return nil
	})
	return err
}

func (l *Ledger) GetCursor() (chain.Height, string, error) {
	var height chain.Height
	var blockHash string
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(chainCursorKey))
		if err != nil {
			return err
		}
		err = item.Value(func(v []byte) error {
			cursorParts := strings.Split(string(v), ",")
			rawHeight, err := strconv.ParseUint(cursorParts[0], 10, 64)
			if err != nil {
				return err
			}
			height = chain.Height(rawHeight)
			blockHash = cursorParts[1]
			return nil
		})
		if err != nil {
			return err
		}
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return 0, "", nil
	}
	return height, blockHash, err
}

// SetImportance records a signer's importance for the group containing the
// given height
func (l *Ledger) SetImportance(
	signer chain.PublicKey,
	height chain.Height,
	importance chain.Importance,
) error {
	entryCbor, err := cbor.Marshal(
		importanceEntry{Importance: uint64(importance)},
	)
	if err != nil {
		return err
	}
	key := l.importanceKey(signer, height)
	err = l.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, entryCbor); err != nil {
			return err
		}
		return nil
	})
	return err
}

// GetImportance returns a signer's importance at the group containing the
// given height. An account with no recorded importance has importance zero.
func (l *Ledger) GetImportance(
	signer chain.PublicKey,
	height chain.Height,
) (chain.Importance, error) {
	var entry importanceEntry
	key := l.importanceKey(signer, height)
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		err = item.Value(func(v []byte) error {
			if err := cbor.Unmarshal(v, &entry); err != nil {
				return err
			}
			return nil
		})
		if err != nil {
			return err
		}
		return nil
	})
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	return chain.Importance(entry.Importance), err
}

// ImportanceOf satisfies chain.ImportanceLookup. Read failures are logged
// and reported as zero importance; an unreadable account cannot hit.
func (l *Ledger) ImportanceOf(
	signer chain.PublicKey,
	height chain.Height,
) chain.Importance {
	importance, err := l.GetImportance(signer, height)
	if err != nil {
		logging.GetLogger().Errorf(
			"failed importance lookup for %x at height %d: %s",
			signer,
			height,
			err,
		)
		return 0
	}
	return importance
}

func (l *Ledger) importanceKey(
	signer chain.PublicKey,
	height chain.Height,
) []byte {
	groupedHeight := chain.ConvertToImportanceHeight(height, l.grouping)
	return []byte(
		fmt.Sprintf("%s:%x:%d", importanceKeyPrefix, signer, groupedHeight),
	)
}

// GetLedger returns the global ledger instance
func GetLedger() *Ledger {
	return globalLedger
}
