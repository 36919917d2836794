package rawdb

import (
	"errors"
	"os"
	"path"
	"time"

	"github.com/everFinance/dynft/schema"
	bolt "go.etcd.io/bbolt"
)

const (
	boltAllocSize = 8 * 1024 * 1024
	boltName      = "blob.db"
	BoltType      = "boltdb"
)

type BoltDB struct {
	Db *bolt.DB
}

func NewBoltDB(boltDirPath string) (*BoltDB, error) {
	if len(boltDirPath) == 0 {
		return nil, errors.New("boltDb dir path can not null")
	}
	if err := os.MkdirAll(boltDirPath, os.ModePerm); err != nil {
		return nil, err
	}

	Db, err := bolt.Open(path.Join(boltDirPath, boltName), 0660, &bolt.Options{Timeout: 2 * time.Second, InitialMmapSize: 10e6})
	if err != nil {
		if err == bolt.ErrTimeout {
			return nil, errors.New("cannot obtain database lock, database may be in use by another process")
		}
		return nil, err
	}
	Db.AllocSize = boltAllocSize
	boltDB := &BoltDB{
		Db: Db,
	}
	if err := boltDB.Db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(schema.BlobBucket))
		return err
	}); err != nil {
		return nil, err
	}
	return boltDB, nil
}

func (s *BoltDB) Type() string {
	return BoltType
}

func (s *BoltDB) Put(data []byte) (handle string, err error) {
	if len(data) == 0 {
		return "", schema.ErrNullData
	}
	handle = BlobHandle(data)
	if s.Exist(handle) {
		// content-addressed, nothing to overwrite
		return handle, nil
	}
	err = s.Db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(schema.BlobBucket))
		return bkt.Put([]byte(handle), data)
	})
	return
}

func (s *BoltDB) Get(handle string) (data []byte, err error) {
	err = s.Db.View(func(tx *bolt.Tx) error {
		data = tx.Bucket([]byte(schema.BlobBucket)).Get([]byte(handle))
		if data == nil {
			err = schema.ErrNotExist
			return err
		}
		return nil
	})
	return
}

func (s *BoltDB) Exist(handle string) bool {
	_, err := s.Get(handle)
	return err == nil
}

func (s *BoltDB) Close() (err error) {
	return s.Db.Close()
}
