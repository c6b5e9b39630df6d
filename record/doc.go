// Package record defines the typed two-field client record exchanged between
// a form and a document collection, and the schema that maps it to and from
// the collection's field names.
package record
