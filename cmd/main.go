package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/everFinance/dynft"
	"github.com/everFinance/dynft/schema"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "dynft",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "operator_id", Value: "", Usage: "ledger operator account id", EnvVars: []string{"OPERATOR_ID"}},
			&cli.StringFlag{Name: "operator_key", Value: "", Usage: "ledger operator signing key", EnvVars: []string{"OPERATOR_KEY"}},
			&cli.StringFlag{Name: "network", Value: "testnet", Usage: "ledger network: mainnet or testnet", EnvVars: []string{"NETWORK"}},
			&cli.StringFlag{Name: "gateway_url", Value: "https://gateway.dynft.dev", Usage: "write-side ledger gateway url", EnvVars: []string{"GATEWAY_URL"}},
			&cli.StringFlag{Name: "mirror_url", Value: "https://testnet.mirrornode.hedera.com", Usage: "read-side mirror api url", EnvVars: []string{"MIRROR_URL"}},

			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/dynft?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "use sqlite instead of mysql", EnvVars: []string{"USE_SQLITE"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},

			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.BoolFlag{Name: "use_s3", Value: false, Usage: "run with s3 store", EnvVars: []string{"USE_S3"}},
			&cli.BoolFlag{Name: "use_4ever", Value: false, Usage: "s3 store backed by 4everland", EnvVars: []string{"USE_4EVER"}},
			&cli.StringFlag{Name: "s3_acc_key", Value: "", Usage: "s3 access key", EnvVars: []string{"S3_ACC_KEY"}},
			&cli.StringFlag{Name: "s3_secret_key", Value: "", Usage: "s3 secret key", EnvVars: []string{"S3_SECRET_KEY"}},
			&cli.StringFlag{Name: "s3_prefix", Value: "dynft", Usage: "s3 bucket name prefix", EnvVars: []string{"S3_PREFIX"}},
			&cli.StringFlag{Name: "s3_region", Value: "ap-northeast-1", Usage: "s3 bucket region", EnvVars: []string{"S3_REGION"}},
			&cli.StringFlag{Name: "s3_endpoint", Value: "", Usage: "custom s3 endpoint", EnvVars: []string{"S3_ENDPOINT"}},
			&cli.BoolFlag{Name: "use_aliyun", Value: false, Usage: "run with aliyun oss store", EnvVars: []string{"USE_ALIYUN"}},
			&cli.StringFlag{Name: "aliyun_endpoint", Value: "", EnvVars: []string{"ALIYUN_ENDPOINT"}},
			&cli.StringFlag{Name: "aliyun_acc_key", Value: "", EnvVars: []string{"ALIYUN_ACC_KEY"}},
			&cli.StringFlag{Name: "aliyun_secret_key", Value: "", EnvVars: []string{"ALIYUN_SECRET_KEY"}},
			&cli.StringFlag{Name: "aliyun_prefix", Value: "dynft", EnvVars: []string{"ALIYUN_PREFIX"}},
			&cli.BoolFlag{Name: "use_mongodb", Value: false, Usage: "run with mongodb store", EnvVars: []string{"USE_MONGODB"}},
			&cli.StringFlag{Name: "mongodb_uri", Value: "mongodb://localhost:27017", EnvVars: []string{"MONGODB_URI"}},
			&cli.BoolFlag{Name: "use_arweave", Value: false, Usage: "run with arweave store", EnvVars: []string{"USE_ARWEAVE"}},
			&cli.StringFlag{Name: "key_path", Value: "./data/keyfile.json", Usage: "ar keyfile path", EnvVars: []string{"KEY_PATH"}},
			&cli.StringFlag{Name: "ar_node", Value: "https://arweave.net", EnvVars: []string{"AR_NODE"}},

			&cli.StringFlag{Name: "pinata_api_key", Value: "", Usage: "pinata api key", EnvVars: []string{"PINATA_API_KEY"}},
			&cli.StringFlag{Name: "pinata_secret_key", Value: "", Usage: "pinata secret key", EnvVars: []string{"PINATA_SECRET_KEY"}},

			&cli.BoolFlag{Name: "use_kafka", Value: false, Usage: "publish mint and event records to kafka", EnvVars: []string{"USE_KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "localhost:9092", EnvVars: []string{"KAFKA_URI"}},

			&cli.IntFlag{Name: "list_batch", Value: 0, Usage: "probe collection assets concurrently with this batch size", EnvVars: []string{"LIST_BATCH"}},
			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	cfg := schema.Config{
		OperatorId:  c.String("operator_id"),
		OperatorKey: c.String("operator_key"),
		Network:     c.String("network"),
		GatewayUrl:  c.String("gateway_url"),
		MirrorUrl:   c.String("mirror_url"),

		Mysql:     c.String("mysql"),
		SqliteDir: c.String("sqlite_dir"),
		UseSqlite: c.Bool("use_sqlite"),
		Port:      c.String("port"),
		ListBatch: c.Int("list_batch"),

		BoltDir: c.String("db_dir"),
		S3KV: schema.S3KV{
			UseS3:     c.Bool("use_s3"),
			User4Ever: c.Bool("use_4ever"),
			AccKey:    c.String("s3_acc_key"),
			SecretKey: c.String("s3_secret_key"),
			Prefix:    c.String("s3_prefix"),
			Region:    c.String("s3_region"),
			Endpoint:  c.String("s3_endpoint"),
		},
		AliyunKV: schema.AliyunKV{
			UseAliyun: c.Bool("use_aliyun"),
			Endpoint:  c.String("aliyun_endpoint"),
			AccKey:    c.String("aliyun_acc_key"),
			SecretKey: c.String("aliyun_secret_key"),
			Prefix:    c.String("aliyun_prefix"),
		},
		MongoDBKV: schema.MongoDBKV{
			UseMongoDB: c.Bool("use_mongodb"),
			Uri:        c.String("mongodb_uri"),
		},
		ArweaveKV: schema.ArweaveKV{
			UseArweave: c.Bool("use_arweave"),
			KeyPath:    c.String("key_path"),
			ArNode:     c.String("ar_node"),
		},
		Pinata: schema.Pinata{
			ApiKey:    c.String("pinata_api_key"),
			SecretKey: c.String("pinata_secret_key"),
		},
		Kafka: schema.Kafka{
			Start: c.Bool("use_kafka"),
			Uri:   c.String("kafka_uri"),
		},
	}

	s := dynft.New(cfg)
	s.Run(c.String("port"))

	<-signals
	s.Close()

	return nil
}
