package schema

type Config struct {
	OperatorId  string `yaml:"operatorId"`  // ledger operator account
	OperatorKey string `yaml:"operatorKey"` // ledger operator signing key
	Network     string `yaml:"network"`     // "mainnet" or "testnet"
	GatewayUrl  string `yaml:"gatewayUrl"`  // write-side ledger gateway
	MirrorUrl   string `yaml:"mirrorUrl"`   // read-side mirror api

	Mysql     string `yaml:"mysql"`
	SqliteDir string `yaml:"sqliteDir"`
	UseSqlite bool   `yaml:"useSqlite"`
	Port      string `yaml:"port"`
	ListBatch int    `yaml:"listBatch"` // > 1 probes collection assets concurrently

	BoltDir   string    `yaml:"boltDir"`
	S3KV      S3KV      `yaml:"s3KV"`
	AliyunKV  AliyunKV  `yaml:"aliyunKV"`
	MongoDBKV MongoDBKV `yaml:"mongoDBKV"`
	ArweaveKV ArweaveKV `yaml:"arweaveKV"`

	Pinata Pinata `yaml:"pinata"`
	Kafka  Kafka  `yaml:"kafka"`
}

type S3KV struct {
	UseS3     bool   `yaml:"useS3"`
	User4Ever bool   `yaml:"user4Ever"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
}

type AliyunKV struct {
	UseAliyun bool   `yaml:"useAliyun"`
	Endpoint  string `yaml:"endpoint"`
	AccKey    string `yaml:"accKey"`
	SecretKey string `yaml:"secretKey"`
	Prefix    string `yaml:"prefix"`
}

type MongoDBKV struct {
	UseMongoDB bool   `yaml:"useMongoDB"`
	Uri        string `yaml:"uri"`
}

type ArweaveKV struct {
	UseArweave bool   `yaml:"useArweave"`
	KeyPath    string `yaml:"keyPath"`
	ArNode     string `yaml:"arNode"`
}

type Pinata struct {
	ApiKey    string `yaml:"apiKey"`
	SecretKey string `yaml:"secretKey"`
}

type Kafka struct {
	Start bool   `yaml:"start"`
	Uri   string `yaml:"uri"`
}
