// Package list implements the linked-list storage backend of fKV.
//
// Entries are kept in a singly-linked list in insertion order. Insert scans
// the whole list for a duplicate key before appending, Put updates an
// existing entry in place, Get and Delete are linear scans. GetByIndex walks
// the list to a position.
//
// The List type is also the bucket type of the hash backend.
//
// Thread Safety:
//
//	A List is not safe for concurrent use.
package list
