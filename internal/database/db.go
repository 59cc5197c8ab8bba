package database

import (
	"log"

	"ecole-backend/internal/config"
	"ecole-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Connexion à la base impossible: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Classe{},
		&models.Eleve{},
		&models.ConfigurationFrais{},
		&models.Tranche{},
		&models.Paiement{},
		&models.Professeur{},
		&models.ProfSalaire{},
		&models.AvanceSalaire{},
		&models.Presence{},
		&models.PaiementSalaire{},
		&models.CategorieDepense{},
		&models.Depense{},
		&models.Budget{},
		&models.Historique{},
	)
	if err != nil {
		log.Fatalf("Erreur AutoMigrate: %v", err)
	}

	// Ordre unique au sein d'une même configuration de frais.
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_tranches_config_ordre
		ON tranches(configuration_frais_id, ordre)`).Error; err != nil {
		log.Printf("Index idx_tranches_config_ordre non créé: %v", err)
	}

	// Un seul pointage par professeur et par jour.
	if err := DB.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_presences_prof_date
		ON presences(professeur_id, date)`).Error; err != nil {
		log.Printf("Index idx_presences_prof_date non créé: %v", err)
	}

	log.Println("Base de données connectée. Migration terminée.")
}
