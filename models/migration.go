package models

import (
	"log"

	"github.com/granjadata/avicola_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&GeneticLine{}, &Farm{}, &Shed{},
		&BreederBatch{}, &BroilerBatch{}, &BroilerTraceabilityLink{},
		&WeeklyFollowUp{}, &StandardCurvePoint{},
	)
	if err != nil {
		log.Fatal(err)
	}
	log.Println("Table Migration Done")
}
