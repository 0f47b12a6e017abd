// Copyright 2022 ChainSafe Systems (ON)
// SPDX-License-Identifier: LGPL-3.0-only

// Package sync implements blob-column snapshots. The blob column is
// not reachable from account state, so full state transfers between
// nodes must carry it explicitly; a snapshot packages every reference
// row together with its blob bytes.
package sync

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sort"

	log "github.com/ChainSafe/log15"
	"github.com/klauspost/compress/zstd"

	"github.com/ChainSafe/shardcode/lib/common"
)

var logger = log.New("pkg", "sync")

// ErrHashMismatch is returned when an imported blob does not hash to
// the hash recorded in the snapshot
var ErrHashMismatch = errors.New("imported blob does not match its recorded hash")

// ErrRecordTooLarge is returned when a snapshot record declares a code
// length above maxRecordSize
var ErrRecordTooLarge = errors.New("snapshot record exceeds maximum code size")

// maxRecordSize caps the declared code length of a snapshot record.
// The length field is untrusted input; without a cap a corrupt snapshot
// could demand an arbitrarily large allocation.
const maxRecordSize = 16 << 20

// ReferenceState is the part of the reference store used by snapshots
type ReferenceState interface {
	Entries() (map[common.Hash]uint64, error)
	Restore(hash common.Hash, expiry uint64) error
}

// BlobState is the part of the blob store used by snapshots
type BlobState interface {
	Get(hash common.Hash) ([]byte, error)
	Put(code []byte) (common.Hash, error)
}

// Export writes a zstd-compressed snapshot of every live reference and
// its blob to w, returning the number of exported entries. Records are
// written in hash order so identical stores produce identical
// snapshots.
func Export(w io.Writer, refs ReferenceState, blobs BlobState) (int, error) {
	entries, err := refs.Entries()
	if err != nil {
		return 0, fmt.Errorf("reading reference entries: %w", err)
	}

	hashes := make([]common.Hash, 0, len(entries))
	for hash := range entries {
		hashes = append(hashes, hash)
	}
	sort.Slice(hashes, func(i, j int) bool {
		return bytes.Compare(hashes[i].Bytes(), hashes[j].Bytes()) < 0
	})

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, err
	}

	for _, hash := range hashes {
		code, err := blobs.Get(hash)
		if err != nil {
			return 0, fmt.Errorf("reading blob %s: %w", hash, err)
		}
		if err := writeRecord(zw, hash, entries[hash], code); err != nil {
			return 0, err
		}
	}

	if err := zw.Close(); err != nil {
		return 0, err
	}

	logger.Info("exported blob snapshot", "entries", len(hashes))
	return len(hashes), nil
}

// Import reads a snapshot from r and restores its references and blobs,
// returning the number of imported entries. Importing is additive and
// idempotent: existing entries keep the larger expiry, and recreated
// references unlock accounts that were soft-locked on them.
func Import(r io.Reader, refs ReferenceState, blobs BlobState) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer zr.Close()

	count := 0
	for {
		hash, expiry, code, err := readRecord(zr)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return count, err
		}

		// verify before storing: a blob written under a hash no
		// reference records would be unreachable and never swept
		computed, err := common.Blake2bHash(code)
		if err != nil {
			return count, err
		}
		if computed != hash {
			return count, fmt.Errorf("%w: recorded %s, computed %s", ErrHashMismatch, hash, computed)
		}

		if _, err := blobs.Put(code); err != nil {
			return count, fmt.Errorf("storing blob %s: %w", hash, err)
		}

		if err := refs.Restore(hash, expiry); err != nil {
			return count, fmt.Errorf("restoring reference %s: %w", hash, err)
		}
		count++
	}

	logger.Info("imported blob snapshot", "entries", count)
	return count, nil
}

// record layout: 32-byte hash, 8-byte expiry epoch, 8-byte code
// length, code bytes; all integers little-endian
func writeRecord(w io.Writer, hash common.Hash, expiry uint64, code []byte) error {
	if _, err := w.Write(hash.Bytes()); err != nil {
		return err
	}

	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], expiry)
	binary.LittleEndian.PutUint64(buf[8:], uint64(len(code)))
	if _, err := w.Write(buf); err != nil {
		return err
	}

	_, err := w.Write(code)
	return err
}

func readRecord(r io.Reader) (hash common.Hash, expiry uint64, code []byte, err error) {
	hashBuf := make([]byte, common.HashLength)
	if _, err = io.ReadFull(r, hashBuf); err != nil {
		// a clean EOF here is the end of the snapshot
		if errors.Is(err, io.ErrUnexpectedEOF) {
			err = fmt.Errorf("truncated snapshot record: %w", err)
		}
		return
	}

	buf := make([]byte, 16)
	if _, err = io.ReadFull(r, buf); err != nil {
		return common.Hash{}, 0, nil, fmt.Errorf("truncated snapshot record: %w", err)
	}

	expiry = binary.LittleEndian.Uint64(buf[:8])
	length := binary.LittleEndian.Uint64(buf[8:])
	if length > maxRecordSize {
		return common.Hash{}, 0, nil, fmt.Errorf("%w: %d bytes", ErrRecordTooLarge, length)
	}

	code = make([]byte, length)
	if _, err = io.ReadFull(r, code); err != nil {
		return common.Hash{}, 0, nil, fmt.Errorf("truncated snapshot record: %w", err)
	}

	return common.NewHash(hashBuf), expiry, code, nil
}
