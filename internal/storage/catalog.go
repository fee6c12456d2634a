package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// CatalogFile is the SQLite index kept alongside the run directories.
const CatalogFile = "catalog.db"

var ErrRunNotFound = errors.New("storage: run not found")

// RunRecord is one row of the run catalog.
type RunRecord struct {
	ID             string `gorm:"primaryKey"`
	Scenario       string `gorm:"index"`
	CreatedAt      time.Time
	AirPressure    float64
	AirVolume      float64
	WaterVolume    float64
	NozzleDiameter float64
	DryMass        float64
	BurnTime       float64
	MaxAltitude    float64 `gorm:"index"`
	MaxVelocity    float64
	Steps          int
}

type Catalog struct {
	db *gorm.DB
}

// OpenCatalog opens or creates the catalog at path. An empty path uses a
// private in-memory database.
func OpenCatalog(path string) (*Catalog, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if path == "" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := db.AutoMigrate(&RunRecord{}); err != nil {
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Catalog) Record(r RunRecord) error {
	return c.db.Save(&r).Error
}

func (c *Catalog) Get(id string) (*RunRecord, error) {
	var r RunRecord
	err := c.db.Where("id = ?", id).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Catalog) Delete(id string) error {
	return c.db.Delete(&RunRecord{}, "id = ?", id).Error
}

type Query struct {
	Scenario    string
	MinAltitude float64
	// ByAltitude orders by descending apogee instead of newest first.
	ByAltitude bool
	Limit      int
}

func (c *Catalog) Find(q Query) ([]RunRecord, error) {
	tx := c.db.Model(&RunRecord{})
	if q.Scenario != "" {
		tx = tx.Where("scenario = ?", q.Scenario)
	}
	if q.MinAltitude > 0 {
		tx = tx.Where("max_altitude >= ?", q.MinAltitude)
	}
	if q.ByAltitude {
		tx = tx.Order("max_altitude DESC")
	} else {
		tx = tx.Order("created_at DESC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var out []RunRecord
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
