package dynft

import (
	"context"
	"time"

	"github.com/everFinance/dynft/cache"
	"github.com/everFinance/dynft/ledger"
	"github.com/everFinance/dynft/rawdb"
	"github.com/everFinance/dynft/schema"
	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
)

var log = NewLog("dynft")

const blobCacheExpTime = 12 * time.Hour

type Dynft struct {
	store  rawdb.BlobStore
	engine *gin.Engine

	ledgerCli   ledger.Client
	nftEngine   *Engine
	collections *CollectionManager

	localCache *cache.Cache
	wdb        *Wdb
	scheduler  *gocron.Scheduler
	kwriters   map[string]*KWriter // optional operator event sink
	pinata     *PinataClient
}

func New(cfg schema.Config) *Dynft {
	var err error
	var store rawdb.BlobStore
	switch {
	case cfg.ArweaveKV.UseArweave:
		store, err = rawdb.NewArweaveDB(cfg.ArweaveKV.KeyPath, cfg.ArweaveKV.ArNode)
	case cfg.S3KV.UseS3:
		endpoint := cfg.S3KV.Endpoint
		if cfg.S3KV.User4Ever {
			endpoint = rawdb.ForeverLandEndpoint // inject 4everland endpoint
		}
		store, err = rawdb.NewS3DB(cfg.S3KV.AccKey, cfg.S3KV.SecretKey, cfg.S3KV.Region, cfg.S3KV.Prefix, endpoint)
	case cfg.AliyunKV.UseAliyun:
		store, err = rawdb.NewAliyunDB(cfg.AliyunKV.Endpoint, cfg.AliyunKV.AccKey, cfg.AliyunKV.SecretKey, cfg.AliyunKV.Prefix)
	case cfg.MongoDBKV.UseMongoDB:
		store, err = rawdb.NewMongoDB(context.Background(), cfg.MongoDBKV.Uri)
	default:
		store, err = rawdb.NewBoltDB(cfg.BoltDir)
	}
	if err != nil {
		panic(err)
	}

	wdb := &Wdb{}
	if cfg.UseSqlite {
		wdb = NewSqliteDb(cfg.SqliteDir)
	} else {
		wdb = NewMysqlDb(cfg.Mysql)
	}
	if err = wdb.Migrate(); err != nil {
		panic(err)
	}

	localCache, err := cache.NewLocalCache(blobCacheExpTime)
	if err != nil {
		panic(err)
	}

	ledgerCli := ledger.NewRestClient(cfg.GatewayUrl, cfg.MirrorUrl, cfg.OperatorId, cfg.OperatorKey, cfg.Network)
	nftEngine := NewEngine(ledgerCli, store, localCache)

	kwriters := map[string]*KWriter{}
	if cfg.Kafka.Start {
		kwriters, err = NewKWriters(cfg.Kafka.Uri)
		if err != nil {
			panic(err)
		}
	}

	return &Dynft{
		store:       store,
		engine:      gin.Default(),
		ledgerCli:   ledgerCli,
		nftEngine:   nftEngine,
		collections: NewCollectionManager(ledgerCli, nftEngine, cfg.ListBatch),
		localCache:  localCache,
		wdb:         wdb,
		scheduler:   gocron.NewScheduler(time.UTC),
		kwriters:    kwriters,
		pinata:      NewPinataClient(cfg.Pinata.ApiKey, cfg.Pinata.SecretKey),
	}
}

func (s *Dynft) Run(port string) {
	s.runJobs()
	go s.runAPI(port)
}

func (s *Dynft) Close() {
	s.scheduler.Stop()
	for _, kw := range s.kwriters {
		kw.Close()
	}
	s.wdb.Close()
	if err := s.store.Close(); err != nil {
		log.Error("close blob store", "err", err)
	}
	if err := s.ledgerCli.Close(); err != nil {
		log.Error("close ledger client", "err", err)
	}
	log.Info("dynft closed")
}
