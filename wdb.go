package dynft

import (
	"path"

	"github.com/everFinance/dynft/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteName = "dynft.sqlite"

// Wdb is the operator accounting database. It is never read to answer NFT
// state queries; the ledger stays authoritative.
type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) *Wdb {
	logLevel := logger.Error
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logLevel),
		CreateBatchSize: 200,
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect db success")
	return &Wdb{Db: db}
}

func NewSqliteDb(dbDir string) *Wdb {
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		panic(err)
	}
	log.Info("connect sqlite db success")
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.MintRecord{}, &schema.EventRecord{})
}

func (w *Wdb) InsertMint(record schema.MintRecord) error {
	return w.Db.Create(&record).Error
}

func (w *Wdb) InsertEvent(record schema.EventRecord) error {
	return w.Db.Create(&record).Error
}

func (w *Wdb) GetMintStats() ([]schema.CollectionStat, error) {
	res := make([]schema.CollectionStat, 0, 10)
	err := w.Db.Model(&schema.MintRecord{}).
		Select("collection_id as collection_id, count(*) as mints").
		Group("collection_id").Scan(&res).Error
	return res, err
}

func (w *Wdb) GetEventStats() ([]schema.CollectionStat, error) {
	res := make([]schema.CollectionStat, 0, 10)
	err := w.Db.Model(&schema.EventRecord{}).
		Select("collection_id as collection_id, count(*) as events").
		Group("collection_id").Scan(&res).Error
	return res, err
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
