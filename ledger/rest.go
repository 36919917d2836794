package ledger

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/tidwall/gjson"
	"gopkg.in/h2non/gentleman.v2"
)

var log = log15.New("module", "ledger")

const (
	subscribePollInterval = 500 * time.Millisecond
	subscribePageLimit    = 25
)

// RestClient talks to an operator gateway for transaction submission and to a
// mirror node for reads. Signing happens inside the gateway; this process only
// carries the operator identity.
type RestClient struct {
	gateway *gentleman.Client
	mirror  *gentleman.Client
}

func NewRestClient(gatewayUrl, mirrorUrl, operatorId, operatorKey, network string) *RestClient {
	gateway := gentleman.New().URL(gatewayUrl)
	gateway.SetHeader("X-Operator-Id", operatorId)
	gateway.SetHeader("X-Operator-Key", operatorKey)
	gateway.SetHeader("X-Network", network)
	log.Info("run with ledger gateway", "gateway", gatewayUrl, "mirror", mirrorUrl, "network", network)
	return &RestClient{
		gateway: gateway,
		mirror:  gentleman.New().URL(mirrorUrl),
	}
}

func (c *RestClient) CreateCollection(ctx context.Context, name, symbol string) (string, error) {
	res, err := c.postGateway("/v1/collection", map[string]interface{}{
		"name":   name,
		"symbol": symbol,
	})
	if err != nil {
		return "", fmt.Errorf("create collection; name: %s, err: %w", name, err)
	}
	return gjson.GetBytes(res, "collectionId").String(), nil
}

func (c *RestClient) CollectionInfo(ctx context.Context, handle string) (CollectionInfo, error) {
	res, err := c.getMirror(fmt.Sprintf("/api/v1/tokens/%s", handle))
	if err != nil {
		return CollectionInfo{}, err
	}
	return CollectionInfo{
		Handle:      handle,
		Name:        gjson.GetBytes(res, "name").String(),
		Symbol:      gjson.GetBytes(res, "symbol").String(),
		TotalSupply: gjson.GetBytes(res, "total_supply").Int(),
		MaxSupply:   gjson.GetBytes(res, "max_supply").Int(),
	}, nil
}

func (c *RestClient) Mint(ctx context.Context, collectionHandle string, payload []byte) (string, error) {
	res, err := c.postGateway(fmt.Sprintf("/v1/collection/%s/mint", collectionHandle), map[string]interface{}{
		"metadata": base64.StdEncoding.EncodeToString(payload),
	})
	if err != nil {
		return "", fmt.Errorf("mint item; collection: %s, err: %w", collectionHandle, err)
	}
	return gjson.GetBytes(res, "serialNumber").String(), nil
}

func (c *RestClient) ItemInfo(ctx context.Context, collectionHandle, serialNumber string) (ItemInfo, error) {
	res, err := c.getMirror(fmt.Sprintf("/api/v1/tokens/%s/nfts/%s", collectionHandle, serialNumber))
	if err != nil {
		return ItemInfo{}, err
	}
	payload, err := base64.StdEncoding.DecodeString(gjson.GetBytes(res, "metadata").String())
	if err != nil {
		// non-base64 payloads are carried verbatim
		payload = []byte(gjson.GetBytes(res, "metadata").String())
	}
	return ItemInfo{
		CollectionHandle: collectionHandle,
		SerialNumber:     serialNumber,
		Owner:            gjson.GetBytes(res, "account_id").String(),
		Payload:          payload,
		MintTime:         parseConsensusTime(gjson.GetBytes(res, "created_timestamp").String()),
	}, nil
}

func (c *RestClient) CreateLog(ctx context.Context, memo string) (string, error) {
	res, err := c.postGateway("/v1/topic", map[string]interface{}{
		"memo": memo,
	})
	if err != nil {
		return "", fmt.Errorf("create log; memo: %s, err: %w", memo, err)
	}
	return gjson.GetBytes(res, "topicId").String(), nil
}

func (c *RestClient) Append(ctx context.Context, logHandle string, message []byte) error {
	_, err := c.postGateway(fmt.Sprintf("/v1/topic/%s/message", logHandle), map[string]interface{}{
		"message": base64.StdEncoding.EncodeToString(message),
	})
	if err != nil {
		return fmt.Errorf("append log; log: %s, err: %w", logHandle, err)
	}
	return nil
}

func (c *RestClient) SubscribeLog(ctx context.Context, logHandle string, startTime time.Time) (LogSubscription, error) {
	if logHandle == "" {
		return nil, ErrNotFound
	}
	return &restSubscription{
		mirror:    c.mirror,
		logHandle: logHandle,
		cursor:    formatConsensusTime(startTime),
		closed:    make(chan struct{}),
	}, nil
}

func (c *RestClient) FileContents(ctx context.Context, fileHandle string) ([]byte, error) {
	res, err := c.getGateway(fmt.Sprintf("/v1/file/%s", fileHandle))
	if err != nil {
		return nil, err
	}
	data, err := base64.StdEncoding.DecodeString(gjson.GetBytes(res, "contents").String())
	if err != nil {
		return nil, fmt.Errorf("decode file contents; file: %s, err: %w", fileHandle, err)
	}
	return data, nil
}

func (c *RestClient) Close() error {
	return nil
}

func (c *RestClient) postGateway(path string, body map[string]interface{}) ([]byte, error) {
	req := c.gateway.Post()
	req.AddPath(path)
	req.JSON(body)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if resp.StatusCode == 404 {
		return nil, ErrNotFound
	}
	if !resp.Ok {
		return nil, fmt.Errorf("gateway resp failed: %s", resp.String())
	}
	return resp.Bytes(), nil
}

func (c *RestClient) getGateway(path string) ([]byte, error) {
	req := c.gateway.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if resp.StatusCode == 404 {
		return nil, ErrNotFound
	}
	if !resp.Ok {
		return nil, fmt.Errorf("gateway resp failed: %s", resp.String())
	}
	return resp.Bytes(), nil
}

func (c *RestClient) getMirror(path string) ([]byte, error) {
	req := c.mirror.Get()
	req.AddPath(path)
	resp, err := req.Send()
	if err != nil {
		return nil, err
	}
	defer resp.Close()
	if resp.StatusCode == 404 {
		return nil, ErrNotFound
	}
	if !resp.Ok {
		return nil, fmt.Errorf("mirror resp failed: %s", resp.String())
	}
	return resp.Bytes(), nil
}

// restSubscription reads a log through the mirror's paged message endpoint.
// The mirror exposes no push stream, so Recv polls forward from a consensus
// timestamp cursor.
type restSubscription struct {
	mirror    *gentleman.Client
	logHandle string
	cursor    string

	queue     []LogRecord
	closeOnce sync.Once
	closed    chan struct{}
}

func (s *restSubscription) Recv(ctx context.Context) (LogRecord, error) {
	for {
		if len(s.queue) > 0 {
			rec := s.queue[0]
			s.queue = s.queue[1:]
			return rec, nil
		}
		select {
		case <-ctx.Done():
			return LogRecord{}, ctx.Err()
		case <-s.closed:
			return LogRecord{}, fmt.Errorf("subscription closed; log: %s", s.logHandle)
		default:
		}
		n, err := s.fetchPage()
		if err != nil {
			return LogRecord{}, err
		}
		if n > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return LogRecord{}, ctx.Err()
		case <-s.closed:
			return LogRecord{}, fmt.Errorf("subscription closed; log: %s", s.logHandle)
		case <-time.After(subscribePollInterval):
		}
	}
}

func (s *restSubscription) fetchPage() (int, error) {
	req := s.mirror.Get()
	req.AddPath(fmt.Sprintf("/api/v1/topics/%s/messages", s.logHandle))
	req.SetQuery("limit", strconv.Itoa(subscribePageLimit))
	req.SetQuery("order", "asc")
	req.SetQuery("timestamp", "gt:"+s.cursor)
	resp, err := req.Send()
	if err != nil {
		return 0, err
	}
	defer resp.Close()
	if resp.StatusCode == 404 {
		return 0, ErrNotFound
	}
	if !resp.Ok {
		return 0, fmt.Errorf("mirror resp failed: %s", resp.String())
	}

	msgs := gjson.GetBytes(resp.Bytes(), "messages").Array()
	for _, msg := range msgs {
		contents, err := base64.StdEncoding.DecodeString(msg.Get("message").String())
		if err != nil {
			contents = []byte(msg.Get("message").String())
		}
		ts := msg.Get("consensus_timestamp").String()
		s.queue = append(s.queue, LogRecord{
			Contents:       contents,
			ConsensusTime:  parseConsensusTime(ts),
			SequenceNumber: msg.Get("sequence_number").Int(),
		})
		s.cursor = ts
	}
	return len(msgs), nil
}

func (s *restSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.closed)
	})
	return nil
}

// consensus timestamps are "seconds.nanoseconds" strings
func parseConsensusTime(s string) time.Time {
	parts := strings.SplitN(s, ".", 2)
	sec, _ := strconv.ParseInt(parts[0], 10, 64)
	var nsec int64
	if len(parts) == 2 {
		nsec, _ = strconv.ParseInt(padNanos(parts[1]), 10, 64)
	}
	return time.Unix(sec, nsec).UTC()
}

func formatConsensusTime(t time.Time) string {
	if t.Before(time.Unix(0, 0)) {
		t = time.Unix(0, 0)
	}
	return fmt.Sprintf("%d.%09d", t.Unix(), t.Nanosecond())
}

func padNanos(frac string) string {
	if len(frac) > 9 {
		return frac[:9]
	}
	return frac + strings.Repeat("0", 9-len(frac))
}
