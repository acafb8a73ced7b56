package storage

import (
	"context"
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverRedis    Driver = "redis"
	DriverS3       Driver = "s3"
)

// Store is a durable key/value medium holding one serialized collection per
// key. A missing key is reported with found=false and a nil error.
type Store interface {
	LoadRaw(ctx context.Context, key string) (value []byte, found bool, err error)
	SaveRaw(ctx context.Context, key string, value []byte) error
}
