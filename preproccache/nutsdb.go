/*
 *  MIT License
 *
 *  Copyright (c) 2020 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package preproccache

import (
	"errors"
	"sync"

	"github.com/nutsdb/nutsdb"

	liberr "github.com/nabbar/rga/errors"
)

// NutsStore is a Store backed by an embedded nutsdb database: one B+tree
// bucket per adapter(name,version) pair, fsync'd single-writer semantics
// satisfying the "single writer at a time" requirement without building a
// store from scratch.
type NutsStore struct {
	mu  sync.Mutex
	db  *nutsdb.DB
	buk map[string]bool
}

// OpenNutsStore opens (creating if absent) a nutsdb database rooted at
// dir.
func OpenNutsStore(dir string) (*NutsStore, liberr.Error) {
	db, err := nutsdb.Open(
		nutsdb.DefaultOptions,
		nutsdb.WithDir(dir),
	)
	if err != nil {
		return nil, ErrorStoreOpen.Error(err)
	}

	return &NutsStore{db: db, buk: make(map[string]bool)}, nil
}

func (s *NutsStore) ensureBucket(bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buk[bucket] {
		return nil
	}

	err := s.db.Update(func(tx *nutsdb.Tx) error {
		e := tx.NewBucket(nutsdb.DataStructureBTree, bucket)
		if e != nil && !errors.Is(e, nutsdb.ErrBucketAlreadyExist) {
			return e
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.buk[bucket] = true
	return nil
}

// Get implements Store.
func (s *NutsStore) Get(bucket string, key []byte) ([]byte, bool, error) {
	var out []byte
	found := true

	err := s.db.View(func(tx *nutsdb.Tx) error {
		v, e := tx.Get(bucket, key)
		if e != nil {
			if errors.Is(e, nutsdb.ErrBucketNotExist) || errors.Is(e, nutsdb.ErrKeyNotFound) || errors.Is(e, nutsdb.ErrNotFoundKey) {
				found = false
				return nil
			}
			return e
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, ErrorStoreGet.Error(err)
	}
	if !found {
		return nil, false, nil
	}
	return out, true, nil
}

// Put implements Store.
func (s *NutsStore) Put(bucket string, key []byte, value []byte) error {
	if err := s.ensureBucket(bucket); err != nil {
		return ErrorStoreBucket.Error(err)
	}

	err := s.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(bucket, key, value, 0)
	})
	if err != nil {
		return ErrorStorePut.Error(err)
	}
	return nil
}

// Close implements Store.
func (s *NutsStore) Close() error {
	return s.db.Close()
}
