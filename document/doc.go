// Package document defines a lightweight document-collection API and a
// SQLite-backed implementation used by this project. It includes:
//   - Document model and Store interface
//   - SQLiteStore: durable storage for schemaless field maps
//   - Schema helpers to create the documents table and its SCN trigger
//   - Field map encoding (JSON with NFC-normalised text)
package document
