package rawdb

import (
	"bytes"
	"net"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/everFinance/dynft/schema"
)

const (
	ForeverLandEndpoint = "https://endpoint.4everland.co"
	S3Type              = "s3"
)

type S3DB struct {
	downloader   s3manager.Downloader
	uploader     s3manager.Uploader
	s3Api        s3iface.S3API
	bucketPrefix string
}

func NewS3DB(accKey, secretKey, region, bktPrefix, endpoint string) (*S3DB, error) {
	mySession := session.Must(session.NewSession())
	cred := credentials.NewStaticCredentials(accKey, secretKey, "")
	cfgs := aws.NewConfig().WithRegion(region).WithCredentials(cred)
	if endpoint != "" {
		cfgs.WithEndpoint(endpoint) // inject endpoint
		// if endpoint is an IP address, use path-style addressing.
		if u, err := url.Parse(endpoint); err == nil {
			if net.ParseIP(u.Hostname()) != nil {
				cfgs.S3ForcePathStyle = aws.Bool(true)
			}
		}
	}
	s3Api := s3.New(mySession, cfgs)
	err := createS3Bucket(s3Api, bktPrefix)
	if err != nil {
		return nil, err
	}

	log.Info("run with s3 success")
	return &S3DB{
		downloader: s3manager.Downloader{
			S3: s3Api,
		},
		uploader: s3manager.Uploader{
			S3: s3Api,
		},
		s3Api:        s3Api,
		bucketPrefix: bktPrefix,
	}, nil
}

func (s *S3DB) Type() string {
	return S3Type
}

func (s *S3DB) Put(data []byte) (handle string, err error) {
	if len(data) == 0 {
		return "", schema.ErrNullData
	}
	handle = BlobHandle(data)
	uploadInfo := &s3manager.UploadInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, schema.BlobBucket)),
		Key:    aws.String(handle),
		Body:   bytes.NewReader(data),
	}
	_, err = s.uploader.Upload(uploadInfo)
	return
}

func (s *S3DB) Get(handle string) (data []byte, err error) {
	downloadInfo := &s3.GetObjectInput{
		Bucket: aws.String(getS3Bucket(s.bucketPrefix, schema.BlobBucket)),
		Key:    aws.String(handle),
	}
	buf := aws.NewWriteAtBuffer([]byte{})
	n, err := s.downloader.Download(buf, downloadInfo)
	if n == 0 {
		return nil, schema.ErrNotExist
	}
	data = buf.Bytes()
	return
}

func (s *S3DB) Exist(handle string) bool {
	_, err := s.Get(handle)
	return err == nil
}

func (s *S3DB) Close() (err error) {
	return
}

func createS3Bucket(svc s3iface.S3API, prefix string) error {
	s3Bkt := getS3Bucket(prefix, schema.BlobBucket) // s3 bucket name only accept lower case
	_, err := svc.CreateBucket(&s3.CreateBucketInput{Bucket: aws.String(s3Bkt)})
	if err != nil && !strings.Contains(err.Error(), "BucketAlreadyOwnedByYou") {
		return err
	}
	return nil
}

func getS3Bucket(prefix, bktName string) string {
	return strings.ToLower(prefix + "-" + bktName)
}
