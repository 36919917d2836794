package schema

import (
	"errors"
)

var (
	ErrNotExist = errors.New("not_exist_record")
	ErrNotFound = errors.New("not_found")
	ErrExist    = errors.New("s3_bucket_exist")

	ErrInvalidNftId     = errors.New("invalid_nft_id")
	ErrMissingLogHandle = errors.New("missing_event_log_handle")

	ErrNullData     = errors.New("null_data")
	ErrNotImplement = errors.New("method not implement")
)
