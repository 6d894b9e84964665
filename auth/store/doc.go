// Package store defines the durable client storage used to persist the session
// state across restarts.
//
// It ships with an in-memory implementation for tests and short-lived processes,
// a JSON file store backed by github.com/viant/afs (any afs URL works: local
// paths, mem://, s3://, gs://) and an encrypted variant backed by
// github.com/viant/scy.
package store
