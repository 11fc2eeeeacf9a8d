//nolint
package store

import "github.com/iov-one/disburse"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = disburse.ReadOnlyKVStore
type SetDeleter = disburse.SetDeleter
type KVStore = disburse.KVStore
type Batch = disburse.Batch
type Iterator = disburse.Iterator
type CacheableKVStore = disburse.CacheableKVStore
type KVCacheWrap = disburse.KVCacheWrap
type CommitKVStore = disburse.CommitKVStore
type CommitID = disburse.CommitID
type Model = disburse.Model

// Pair constructs a model from a key-value pair
var Pair = disburse.Pair
