package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Product{},
		&ProductAlias{},
		&NetworkMeta{},
		&NetworkStock{},
		&Sale{},
		&Shipment{},
		&PromptFlag{},
		&ProcessedMessage{},
		&MonthlyPlan{},
		&PersonLastSale{},
	)
}
