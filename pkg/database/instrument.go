package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/pantry/pkg/metrics"
)

const startKey = "pantry:query_start"

// Instrument registers gorm callbacks that feed metrics.DBQueryDuration.
func Instrument(db *gorm.DB) error {
	cb := db.Callback()

	if err := cb.Create().Before("gorm:create").Register("pantry:before_insert", markStart); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("pantry:after_insert", observe("insert")); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("pantry:before_select", markStart); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("pantry:after_select", observe("select")); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("pantry:before_update", markStart); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("pantry:after_update", observe("update")); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("pantry:before_delete", markStart); err != nil {
		return err
	}
	return cb.Delete().After("gorm:delete").Register("pantry:after_delete", observe("delete"))
}

func markStart(tx *gorm.DB) {
	tx.InstanceSet(startKey, time.Now())
}

func observe(op string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(startKey)
		if !ok {
			return
		}
		if start, ok := v.(time.Time); ok {
			metrics.ObserveDBQuery(op, start)
		}
	}
}
