package mock

import (
	"fmt"
	"sort"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var once sync.Once
var db *Db

// Db is a shared in-memory SQLite database migrated for the given models.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	schema string
}

// NewDb opens the shared database on first use. models maps table names to model pointers.
func NewDb(schema string, models map[string]any) *Db {
	once.Do(func() {
		db = open(schema, models)
	})
	return db
}

func open(schema string, models map[string]any) *Db {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", schema)
	dbConn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	sqlDB, err := dbConn.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	newDbMock := &Db{
		DbConn: dbConn,
		schema: schema,
		models: models,
	}

	if err := dbConn.AutoMigrate(newDbMock.modelList()...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	return newDbMock
}

// ClearDB deletes every row from every managed table.
func (d *Db) ClearDB() error {
	for _, model := range d.modelList() {
		if !d.DbConn.Migrator().HasTable(model) {
			return fmt.Errorf("table for model %T was not created", model)
		}
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(model).Error
		if err != nil {
			return fmt.Errorf("failed to clear table for model %T: %w", model, err)
		}
	}
	return nil
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}

// modelList returns the models in table name order.
func (d *Db) modelList() []any {
	tables := make([]string, 0, len(d.models))
	for table := range d.models {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	list := make([]any, 0, len(tables))
	for _, table := range tables {
		list = append(list, d.models[table])
	}
	return list
}
