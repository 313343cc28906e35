package models

import "github.com/tauraamui/tofcam/pkg/database/dbconn"

type Model interface{}

var models = []interface{}{}

func AutoMigrate(db dbconn.GormWrapper) error {
	return db.AutoMigrate(models...)
}

func registerForAutomigration(m Model) {
	models = append(models, m)
}
