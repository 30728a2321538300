package fstore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/db/engines/hash"
	"github.com/ValentinKolb/fKV/lib/db/engines/list"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/ValentinKolb/fKV/lib/serializer"
	"github.com/ValentinKolb/fKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogStore)

// TempSuffix is appended to the target path while saving
const TempSuffix = ".tmp"

// Options configures a file store
type Options struct {
	Buckets        int                    // Number of hash buckets (0 = hash.DefaultBuckets), ignored for list storage
	LineBufferSize int                    // Line buffer of the text format (0 = serializer.DefaultLineBufferSize)
	Serializer     serializer.ISerializer // File format (nil = text format with LineBufferSize)
}

// DefaultOptions returns the default file store options
func DefaultOptions() *Options {
	return &Options{
		Buckets:        hash.DefaultBuckets,
		LineBufferSize: serializer.DefaultLineBufferSize,
	}
}

// indexAccessor is implemented by backends supporting db.FeatureIndexAccess
type indexAccessor interface {
	GetByIndex(idx int) (*entry.Entry, error)
}

type storeImpl struct {
	db         db.KVDB
	kind       db.Implementation
	serializer serializer.ISerializer
	closed     bool
	metrics    *metrics.Set
}

// NewFileStore creates an empty store backed by the given storage kind
// ("list" or "hash"). Any other kind fails with InvalidStorageKind.
func NewFileStore(kind string, opts *Options) (store.IStore, error) {
	impl, err := db.ParseImplementation(kind)
	if err != nil {
		log.Errorf("failed to create store: %v", err)
		return nil, err
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	var factory store.DBFactory
	switch impl {
	case db.ImplList:
		factory = func() (db.KVDB, error) { return list.NewListDB(), nil }
	case db.ImplHash:
		factory = func() (db.KVDB, error) { return hash.NewHashDB(&hash.DBOptions{Buckets: opts.Buckets}) }
	}
	return New(factory, opts)
}

// New creates a store around the backend returned by factory.
func New(factory store.DBFactory, opts *Options) (store.IStore, error) {
	if factory == nil {
		return nil, common.NewError(common.RetCInvalidArgument, "nil db factory")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	ser := opts.Serializer
	if ser == nil {
		var err error
		if ser, err = serializer.NewTextSerializer(opts.LineBufferSize); err != nil {
			return nil, err
		}
	}

	backend, err := factory()
	if err != nil {
		log.Errorf("failed to create backend: %v", err)
		return nil, err
	}

	s := &storeImpl{
		db:         backend,
		kind:       backend.GetInfo().DbType,
		serializer: ser,
		metrics:    metrics.NewSet(),
	}
	s.metrics.GetOrCreateGauge(fmt.Sprintf(`fkv_entries{storage=%q}`, s.kind), func() float64 {
		if s.closed {
			return 0
		}
		return float64(s.db.Len())
	})

	log.Debugf("created %s store (format %s)", s.kind, ser.Name())
	return s, nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// track counts an operation and its failure (if any) and returns err unchanged
func (s *storeImpl) track(op string, err error) error {
	s.metrics.GetOrCreateCounter(fmt.Sprintf(`fkv_ops_total{op=%q,storage=%q}`, op, s.kind)).Inc()
	if err != nil {
		s.metrics.GetOrCreateCounter(fmt.Sprintf(`fkv_errors_total{op=%q,storage=%q}`, op, s.kind)).Inc()
	}
	return err
}

func (s *storeImpl) checkOpen(op string) error {
	if s.closed {
		return common.NewError(common.RetCInvalidArgument, "%s on closed store", op)
	}
	return nil
}

func (s *storeImpl) requireFeature(op string, feature db.Feature) error {
	if !s.db.SupportsFeature(feature) {
		return common.NewError(common.RetCUnsupported, "%s operation is not supported by %s storage", op, s.kind)
	}
	return nil
}

// warnIfUnsaveable logs a warning if the entry for key can not be written in
// the configured format. Every later Save fails until it is changed or deleted.
func (s *storeImpl) warnIfUnsaveable(key string) {
	v, ok := s.serializer.(serializer.IEntryValidator)
	if !ok {
		return
	}
	e, err := s.db.Get(key)
	if err != nil {
		return
	}
	if err := v.Validate(e); err != nil {
		log.Warningf("entry %q can not be saved in %s format: %v", key, s.serializer.Name(), err)
	}
}

func (s *storeImpl) observeFileOp(op string, start time.Time) {
	s.metrics.GetOrCreateHistogram(fmt.Sprintf(`fkv_file_duration_seconds{op=%q}`, op)).UpdateDuration(start)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Insert(e *entry.Entry) error {
	if err := s.checkOpen("insert"); err != nil {
		return err
	}
	if e == nil {
		return s.track("insert", common.NewError(common.RetCInvalidArgument, "nil entry"))
	}
	if err := s.requireFeature("insert", db.FeatureInsert); err != nil {
		return s.track("insert", err)
	}
	if err := s.db.Insert(e); err != nil {
		return s.track("insert", err)
	}
	s.warnIfUnsaveable(e.Key())
	return s.track("insert", nil)
}

func (s *storeImpl) Put(key, value, typ string) error {
	if err := s.checkOpen("put"); err != nil {
		return err
	}
	if key == "" || value == "" || typ == "" {
		return s.track("put", common.NewError(common.RetCInvalidArgument, "put needs a key, a value and a type"))
	}
	if err := s.requireFeature("put", db.FeaturePut); err != nil {
		return s.track("put", err)
	}
	if err := s.db.Put(key, value, typ); err != nil {
		return s.track("put", err)
	}
	s.warnIfUnsaveable(key)
	return s.track("put", nil)
}

func (s *storeImpl) Get(key string) (*entry.Entry, error) {
	if err := s.checkOpen("get"); err != nil {
		return nil, err
	}
	if key == "" {
		return nil, s.track("get", common.NewError(common.RetCInvalidArgument, "empty key"))
	}
	if err := s.requireFeature("get", db.FeatureGet); err != nil {
		return nil, s.track("get", err)
	}
	e, err := s.db.Get(key)
	if err != nil {
		return nil, s.track("get", err)
	}
	return e.Clone(), s.track("get", nil)
}

func (s *storeImpl) GetByIndex(idx int) (*entry.Entry, error) {
	if err := s.checkOpen("get by index"); err != nil {
		return nil, err
	}
	accessor, ok := s.db.(indexAccessor)
	if !ok || !s.db.SupportsFeature(db.FeatureIndexAccess) {
		return nil, s.track("get_by_index", common.NewError(common.RetCUnsupported, "index access is not supported by %s storage", s.kind))
	}
	e, err := accessor.GetByIndex(idx)
	if err != nil {
		return nil, s.track("get_by_index", err)
	}
	return e.Clone(), s.track("get_by_index", nil)
}

func (s *storeImpl) Delete(key string) error {
	if err := s.checkOpen("delete"); err != nil {
		return err
	}
	if key == "" {
		return s.track("delete", common.NewError(common.RetCInvalidArgument, "empty key"))
	}
	if err := s.requireFeature("delete", db.FeatureDelete); err != nil {
		return s.track("delete", err)
	}
	return s.track("delete", s.db.Delete(key))
}

func (s *storeImpl) Len() (int, error) {
	if err := s.checkOpen("len"); err != nil {
		return 0, err
	}
	return s.db.Len(), nil
}

func (s *storeImpl) Load(path string) error {
	if err := s.checkOpen("load"); err != nil {
		return err
	}
	if path == "" {
		return s.track("load", common.NewError(common.RetCInvalidArgument, "empty path"))
	}
	defer s.observeFileOp("load", time.Now())
	return s.track("load", s.load(path))
}

func (s *storeImpl) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		log.Errorf("failed to open %s: %v", path, err)
		return common.WrapError(common.RetCIoError, err, "failed to open %s", path)
	}
	defer f.Close()

	dec := s.serializer.NewDecoder(f)
	count := 0
	for {
		e, err := dec.ReadEntry()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Errorf("failed to load %s after %d entries: %v", path, count, err)
			return err
		}
		if err := s.db.Insert(e); err != nil {
			log.Errorf("failed to load %s after %d entries: %v", path, count, err)
			return err
		}
		count++
	}

	log.Infof("loaded %d entries from %s", count, path)
	return nil
}

func (s *storeImpl) Save(path string) error {
	if err := s.checkOpen("save"); err != nil {
		return err
	}
	if path == "" {
		return s.track("save", common.NewError(common.RetCInvalidArgument, "empty path"))
	}
	if err := s.requireFeature("save", db.FeatureSave); err != nil {
		return s.track("save", err)
	}
	defer s.observeFileOp("save", time.Now())
	return s.track("save", s.save(path))
}

// save writes the temp file completely (data flushed and synced) before it
// replaces path. Failures leave the temp file for inspection.
func (s *storeImpl) save(path string) error {
	tmpPath := path + TempSuffix

	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		log.Errorf("failed to create %s: %v", tmpPath, err)
		return common.WrapError(common.RetCIoError, err, "failed to create %s", tmpPath)
	}

	enc := s.serializer.NewEncoder(f)
	if err := s.db.Save(enc); err != nil {
		_ = f.Close()
		return err
	}
	if err := enc.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return common.WrapError(common.RetCIoError, err, "failed to sync %s", tmpPath)
	}
	if err := f.Close(); err != nil {
		return common.WrapError(common.RetCIoError, err, "failed to close %s", tmpPath)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		log.Errorf("failed to replace %s: %v", path, err)
		return common.WrapError(common.RetCIoError, err, "failed to rename %s to %s", tmpPath, path)
	}

	log.Infof("saved %d entries to %s", s.db.Len(), path)
	return nil
}

func (s *storeImpl) Print(w io.Writer) error {
	if err := s.checkOpen("print"); err != nil {
		return err
	}
	if w == nil {
		return s.track("print", common.NewError(common.RetCInvalidArgument, "nil writer"))
	}

	var werr error
	s.db.Range(func(e *entry.Entry) bool {
		_, werr = fmt.Fprintln(w, e.String())
		return werr == nil
	})
	if werr != nil {
		return s.track("print", common.WrapError(common.RetCIoError, werr, "failed to print entries"))
	}
	return s.track("print", nil)
}

func (s *storeImpl) GetDBInfo() (db.DatabaseInfo, error) {
	if err := s.checkOpen("info"); err != nil {
		return db.DatabaseInfo{}, err
	}
	return s.db.GetInfo(), nil
}

func (s *storeImpl) WriteMetrics(w io.Writer) {
	s.metrics.WritePrometheus(w)
}

func (s *storeImpl) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.db.Close()
	log.Debugf("closed %s store", s.kind)
	return err
}
