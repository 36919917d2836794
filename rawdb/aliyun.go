package rawdb

import (
	"bytes"
	"io"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/everFinance/dynft/schema"
)

// refer https://help.aliyun.com/document_detail/32157.html
const (
	ossErrorNoSuchKey = "NoSuchKey"
	AliyunType        = "aliyun"
)

type AliyunDB struct {
	bucketPrefix string
	client       *oss.Client
}

func NewAliyunDB(endpoint, accKey, accessKeySecret, bktPrefix string) (*AliyunDB, error) {
	client, err := oss.New(endpoint, accKey, accessKeySecret)
	if err != nil {
		return nil, err
	}

	err = createAliyunBucket(client, bktPrefix)
	if err != nil {
		return nil, err
	}

	log.Info("run with aliyun oss success")

	return &AliyunDB{
		bucketPrefix: bktPrefix,
		client:       client,
	}, nil
}

func (a *AliyunDB) Type() string {
	return AliyunType
}

func (a *AliyunDB) Put(data []byte) (handle string, err error) {
	if len(data) == 0 {
		return "", schema.ErrNullData
	}
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, schema.BlobBucket))
	if err != nil {
		return "", err
	}
	handle = BlobHandle(data)
	return handle, bkt.PutObject(handle, bytes.NewReader(data))
}

func (a *AliyunDB) Get(handle string) (data []byte, err error) {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, schema.BlobBucket))
	if err != nil {
		return
	}

	body, err := bkt.GetObject(handle)
	if err != nil {
		// handleOSSErr make file non-existent errors converted to schema.ErrNotExist
		return nil, handleOSSErr(err)
	}

	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(body)

	data, err = io.ReadAll(body)
	return
}

func (a *AliyunDB) Exist(handle string) bool {
	bkt, err := a.client.Bucket(getS3Bucket(a.bucketPrefix, schema.BlobBucket))
	if err != nil {
		return false
	}
	ok, err := bkt.IsObjectExist(handle)
	return err == nil && ok
}

func (a *AliyunDB) Close() (err error) {
	return
}

func createAliyunBucket(svc *oss.Client, prefix string) error {
	bktName := getS3Bucket(prefix, schema.BlobBucket)
	isExist, err := svc.IsBucketExist(bktName)
	if err != nil {
		return err
	}
	if !isExist {
		return svc.CreateBucket(bktName)
	}
	return nil
}

func handleOSSErr(ossErr error) (err error) {
	switch ossErr.(type) {
	case oss.ServiceError:
		if ossErr.(oss.ServiceError).Code == ossErrorNoSuchKey {
			err = schema.ErrNotExist
		}
	default:
		err = ossErr
	}

	return
}
