package list

import (
	"github.com/ValentinKolb/fKV/lib/common"
	"github.com/ValentinKolb/fKV/lib/db"
	"github.com/ValentinKolb/fKV/lib/entry"
	"github.com/lni/dragonboat/v4/logger"
)

var log = logger.GetLogger(common.LogEngineList)

// --------------------------------------------------------------------------
// Core list structure
// --------------------------------------------------------------------------

type node struct {
	entry *entry.Entry
	next  *node
}

// List is a singly-linked list of entries in insertion order.
// Every operation is a linear scan.
type List struct {
	head *node
	size int
}

// New creates an empty list
func New() *List {
	return &List{}
}

// NewListDB creates an empty list backend
func NewListDB() db.KVDB {
	return New()
}

// find returns the node holding key and its predecessor (nil for the head)
func (l *List) find(key string) (prev, cur *node) {
	for cur = l.head; cur != nil; prev, cur = cur, cur.next {
		if cur.entry.Key() == key {
			return prev, cur
		}
	}
	return nil, nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods - Write Operations
// --------------------------------------------------------------------------

// Insert appends e at the tail. The whole list is scanned for a duplicate
// key first; on collision the list is unchanged and e is not owned.
func (l *List) Insert(e *entry.Entry) error {
	if e == nil {
		return common.NewError(common.RetCInvalidArgument, "nil entry passed to list insert")
	}

	newNode := &node{entry: e}
	if l.head == nil {
		l.head = newNode
		l.size++
		return nil
	}

	cur := l.head
	for {
		if cur.entry.Key() == e.Key() {
			log.Debugf("entry with key %q already exists", e.Key())
			return common.NewError(common.RetCDuplicateKey, "entry with key %q already exists", e.Key())
		}
		if cur.next == nil {
			break
		}
		cur = cur.next
	}

	cur.next = newNode
	l.size++
	return nil
}

// Put updates the entry for key in place, or creates and appends a new one.
func (l *List) Put(key, value, typ string) error {
	if key == "" {
		return common.NewError(common.RetCInvalidArgument, "empty key passed to list put")
	}

	if _, cur := l.find(key); cur != nil {
		if err := cur.entry.Update(value, typ); err != nil {
			log.Debugf("failed to update entry %q: %v", key, err)
			return err
		}
		return nil
	}

	e, err := entry.New(key, value, typ)
	if err != nil {
		return err
	}
	return l.Insert(e)
}

// Delete unlinks and drops the entry for key.
func (l *List) Delete(key string) error {
	if key == "" {
		return common.NewError(common.RetCInvalidArgument, "empty key passed to list delete")
	}

	prev, cur := l.find(key)
	if cur == nil {
		return common.NewError(common.RetCNotFound, "key %q not found", key)
	}

	if prev == nil {
		l.head = cur.next
	} else {
		prev.next = cur.next
	}
	cur.next, cur.entry = nil, nil
	l.size--
	return nil
}

// --------------------------------------------------------------------------
// KVDB Interface Methods - Read Operations
// --------------------------------------------------------------------------

// Get returns the entry for key
func (l *List) Get(key string) (*entry.Entry, error) {
	if key == "" {
		return nil, common.NewError(common.RetCInvalidArgument, "empty key passed to list get")
	}
	if _, cur := l.find(key); cur != nil {
		return cur.entry, nil
	}
	return nil, common.NewError(common.RetCNotFound, "key %q not found", key)
}

// GetByIndex returns the idx-th entry in insertion order
func (l *List) GetByIndex(idx int) (*entry.Entry, error) {
	if idx < 0 || idx >= l.size {
		log.Debugf("index %d out of range for list of size %d", idx, l.size)
		return nil, common.NewError(common.RetCIndexOutOfRange, "index %d out of range for list of size %d", idx, l.size)
	}
	cur := l.head
	for i := 0; i < idx; i++ {
		cur = cur.next
	}
	return cur.entry, nil
}

func (l *List) Len() int {
	return l.size
}

func (l *List) Range(fn func(e *entry.Entry) bool) {
	for cur := l.head; cur != nil; cur = cur.next {
		if !fn(cur.entry) {
			return
		}
	}
}

// --------------------------------------------------------------------------
// Persistence Operations
// --------------------------------------------------------------------------

// Save writes the entries in list order and fails fast.
func (l *List) Save(w db.EntryWriter) error {
	if w == nil {
		return common.NewError(common.RetCInvalidArgument, "nil writer passed to list save")
	}
	for cur := l.head; cur != nil; cur = cur.next {
		if err := w.WriteEntry(cur.entry); err != nil {
			log.Errorf("failed to save entry %q: %v", cur.entry.Key(), err)
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
	db.FeatureSave |
	db.FeatureIndexAccess

func (l *List) SupportsFeature(feature db.Feature) bool {
	return supportedFeatures&feature == feature
}

func (l *List) GetInfo() db.DatabaseInfo {
	return db.DatabaseInfo{
		Entries: l.size,
		DbType:  db.ImplList,
		SupportedFeatures: []db.Feature{
			db.FeatureInsert, db.FeaturePut, db.FeatureGet,
			db.FeatureDelete, db.FeatureSave, db.FeatureIndexAccess,
		},
	}
}

// Close drops all entries. The list is empty (and usable) afterwards.
func (l *List) Close() error {
	for cur := l.head; cur != nil; {
		next := cur.next
		cur.next, cur.entry = nil, nil
		cur = next
	}
	l.head = nil
	l.size = 0
	return nil
}
