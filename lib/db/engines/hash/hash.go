package hash

import (
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/db/engines/list"
	"github.com/ValentinKolb/fKV/lib/db/util"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogEngineHash)

// DefaultBuckets is the bucket count used when none is configured
const DefaultBuckets = 32

// --------------------------------------------------------------------------
// Core hash table structure
// --------------------------------------------------------------------------

// Hash is a fixed-size array of list buckets. A key always lives in bucket
// util.SumHash(key, len(buckets)); the bucket count never changes.
type Hash struct {
	buckets []*list.List
}

// DBOptions configures the hash backend during initialization
type DBOptions struct {
	Buckets int // Number of buckets (0 = DefaultBuckets)
}

// DefaultOptions returns the default hash options
func DefaultOptions() *DBOptions {
	return &DBOptions{Buckets: DefaultBuckets}
}

// New creates a hash backend with the given number of buckets (at least 1).
func New(buckets int) (*Hash, error) {
	if buckets < 1 {
		log.Errorf("invalid bucket count %d", buckets)
		return nil, common.NewError(common.RetCInvalidArgument, "bucket count must be at least 1, got %d", buckets)
	}

	h := &Hash{buckets: make([]*list.List, buckets)}
	for i := range h.buckets {
		h.buckets[i] = list.New()
	}
	return h, nil
}

// NewHashDB creates a hash backend from options (nil = defaults)
func NewHashDB(opts *DBOptions) (db.KVDB, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	n := opts.Buckets
	if n == 0 {
		n = DefaultBuckets
	}
	h, err := New(n)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// BucketIndex returns the bucket a key is routed to
func (h *Hash) BucketIndex(key string) int {
	return util.SumHash(key, len(h.buckets))
}

// Buckets returns the bucket count
func (h *Hash) Buckets() int {
	return len(h.buckets)
}

// bucket validates the key and returns its bucket
func (h *Hash) bucket(key, op string) (*list.List, error) {
	if key == "" {
		return nil, common.NewError(common.RetCInvalidArgument, "empty key passed to hash %s", op)
	}
	return h.buckets[h.BucketIndex(key)], nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods (delegate to the key's bucket)
// --------------------------------------------------------------------------

func (h *Hash) Insert(e *entry.Entry) error {
	if e == nil {
		return common.NewError(common.RetCInvalidArgument, "nil entry passed to hash insert")
	}
	b, err := h.bucket(e.Key(), "insert")
	if err != nil {
		return err
	}
	return b.Insert(e)
}

func (h *Hash) Put(key, value, typ string) error {
	b, err := h.bucket(key, "put")
	if err != nil {
		return err
	}
	return b.Put(key, value, typ)
}

func (h *Hash) Delete(key string) error {
	b, err := h.bucket(key, "delete")
	if err != nil {
		return err
	}
	return b.Delete(key)
}

func (h *Hash) Get(key string) (*entry.Entry, error) {
	b, err := h.bucket(key, "get")
	if err != nil {
		return nil, err
	}
	return b.Get(key)
}

func (h *Hash) Len() int {
	n := 0
	for _, b := range h.buckets {
		n += b.Len()
	}
	return n
}

// Range visits buckets in index order and each bucket in insertion order.
func (h *Hash) Range(fn func(e *entry.Entry) bool) {
	keepGoing := true
	for _, b := range h.buckets {
		b.Range(func(e *entry.Entry) bool {
			keepGoing = fn(e)
			return keepGoing
		})
		if !keepGoing {
			return
		}
	}
}

// Save writes bucket after bucket. The resulting order is bucket index, then
// insertion order within a bucket; it is not the global insertion order.
func (h *Hash) Save(w db.EntryWriter) error {
	for i, b := range h.buckets {
		if err := b.Save(w); err != nil {
			log.Errorf("failed to save bucket %d: %v", i, err)
			return err
		}
	}
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Implementation - Features and Metadata
// --------------------------------------------------------------------------

const supportedFeatures = db.FeatureInsert |
	db.FeaturePut |
	db.FeatureGet |
	db.FeatureDelete |
	db.FeatureSave

func (h *Hash) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

// Metadata is the backend specific part of the hash DatabaseInfo
type Metadata struct {
	BucketCount        int                    `json:"bucket_count"`
	UsedBuckets        int                    `json:"used_buckets"`
	BucketDistribution util.DistributionStats `json:"bucket_distribution"`
}

func (h *Hash) GetInfo() db.DatabaseInfo {
	sizes := make([]int, len(h.buckets))
	total := 0
	used := 0
	for i, b := range h.buckets {
		sizes[i] = b.Len()
		total += sizes[i]
		if sizes[i] > 0 {
			used++
		}
	}

	meta := &Metadata{
		BucketCount:        len(h.buckets),
		UsedBuckets:        used,
		BucketDistribution: util.NewDistributionStats(sizes),
	}

	return db.DatabaseInfo{
		Entries: total,
		DbType:  db.ImplHash,
		SupportedFeatures: []db.Feature{
			db.FeatureInsert, db.FeaturePut, db.FeatureGet,
			db.FeatureDelete, db.FeatureSave,
		},
		Metadata: meta,
	}
}

// Close drops every bucket's entries. Calling it again is a no-op.
func (h *Hash) Close() error {
	for _, b := range h.buckets {
		_ = b.Close()
	}
	return nil
}
